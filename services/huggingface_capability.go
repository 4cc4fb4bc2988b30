package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

const huggingFaceErrorBodyLimit = 4 << 10

// HuggingFaceClient calls the Hugging Face Inference API. Requests are
// throttled by a shared limiter.
type HuggingFaceClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
}

// NewHuggingFaceClient builds a client. A non-positive requestsPerSecond
// disables throttling.
func NewHuggingFaceClient(httpClient *http.Client, baseURL, token string, requestsPerSecond float64) *HuggingFaceClient {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}

	return &HuggingFaceClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(token),
		limiter:    limiter,
	}
}

type huggingFaceRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters map[string]any     `json:"parameters,omitempty"`
	Options    huggingFaceOptions `json:"options"`
}

type huggingFaceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type huggingFaceOutput struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

func (c *HuggingFaceClient) infer(ctx context.Context, model string, req huggingFaceRequest) ([]huggingFaceOutput, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hugging face request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create hugging face http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call hugging face inference api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, huggingFaceErrorBodyLimit))
		return nil, fmt.Errorf("hugging face api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var outputs []huggingFaceOutput
	if err := json.NewDecoder(resp.Body).Decode(&outputs); err != nil {
		return nil, fmt.Errorf("failed to decode hugging face response: %w", err)
	}
	return outputs, nil
}

// HuggingFaceSummarizer runs a summarization model such as distilbart.
type HuggingFaceSummarizer struct {
	client *HuggingFaceClient
	model  string
}

func NewHuggingFaceSummarizer(client *HuggingFaceClient, model string) *HuggingFaceSummarizer {
	return &HuggingFaceSummarizer{client: client, model: model}
}

func (s *HuggingFaceSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	outputs, err := s.client.infer(ctx, s.model, huggingFaceRequest{
		Inputs: text,
		Parameters: map[string]any{
			"max_length": maxLength,
			"min_length": minLength,
			"do_sample":  false,
		},
		Options: huggingFaceOptions{WaitForModel: true},
	})
	if err != nil {
		return "", err
	}

	if len(outputs) == 0 || strings.TrimSpace(outputs[0].SummaryText) == "" {
		return "", fmt.Errorf("summarization model %s: %w", s.model, ErrEmptyOutput)
	}
	return strings.TrimSpace(outputs[0].SummaryText), nil
}

// HuggingFaceQuestionGenerator runs a text2text question-generation model
// such as t5-small-qg-hl.
type HuggingFaceQuestionGenerator struct {
	client *HuggingFaceClient
	model  string
}

func NewHuggingFaceQuestionGenerator(client *HuggingFaceClient, model string) *HuggingFaceQuestionGenerator {
	return &HuggingFaceQuestionGenerator{client: client, model: model}
}

func (g *HuggingFaceQuestionGenerator) GenerateQuestion(ctx context.Context, prompt string) (string, error) {
	outputs, err := g.client.infer(ctx, g.model, huggingFaceRequest{
		Inputs:  prompt,
		Options: huggingFaceOptions{WaitForModel: true},
	})
	if err != nil {
		return "", err
	}

	if len(outputs) == 0 || strings.TrimSpace(outputs[0].GeneratedText) == "" {
		return "", fmt.Errorf("question model %s: %w", g.model, ErrEmptyOutput)
	}
	return strings.TrimSpace(outputs[0].GeneratedText), nil
}
