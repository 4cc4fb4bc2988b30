package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiCapability serves both summarization and question generation through
// the Gemini API.
type GeminiCapability struct {
	client *genai.Client
	model  string
}

func NewGeminiCapability(ctx context.Context, httpClient *http.Client, apiKey, model string) (*GeminiCapability, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiCapability{client: client, model: model}, nil
}

func (g *GeminiCapability) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: geminiInstruction(summarizationInstructions(maxLength, minLength)),
	})
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}

	summary := strings.TrimSpace(result.Text())
	if summary == "" {
		return "", fmt.Errorf("gemini summary: %w", ErrEmptyOutput)
	}
	return summary, nil
}

func (g *GeminiCapability) GenerateQuestion(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: geminiInstruction(questionInstructions),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    questionResponseSchema(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}

	var resp questionResponse
	if err := json.Unmarshal([]byte(result.Text()), &resp); err != nil {
		return "", fmt.Errorf("decode gemini question: %w", err)
	}

	question := strings.TrimSpace(resp.Question)
	if question == "" {
		return "", fmt.Errorf("gemini question: %w", ErrEmptyOutput)
	}
	return question, nil
}
