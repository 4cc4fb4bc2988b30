package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const (
	summaryMaxOutputTokens  int64 = 512
	questionMaxOutputTokens int64 = 128
)

// OpenAICapability serves both summarization and question generation through
// OpenAI's Responses API.
type OpenAICapability struct {
	client openai.Client
	model  string
}

func NewOpenAICapability(httpClient *http.Client, apiKey, model string) (*OpenAICapability, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}

	return &OpenAICapability{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(httpClient),
		),
		model: model,
	}, nil
}

func (o *OpenAICapability) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	return o.respond(ctx, summarizationInstructions(maxLength, minLength), text, summaryMaxOutputTokens)
}

func (o *OpenAICapability) GenerateQuestion(ctx context.Context, prompt string) (string, error) {
	return o.respond(ctx, questionInstructions, prompt, questionMaxOutputTokens)
}

func (o *OpenAICapability) respond(
	ctx context.Context,
	instructions string,
	input string,
	maxOutputTokens int64,
) (string, error) {
	resp, err := o.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(input),
		},
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if resp.Status == "incomplete" {
		return "", fmt.Errorf(
			"response is incomplete (reason = %s, maxOutputTokens = %d)",
			resp.IncompleteDetails.Reason,
			maxOutputTokens,
		)
	}

	output := strings.TrimSpace(resp.OutputText())
	if output == "" {
		return "", fmt.Errorf("output text is missing (status = %s): %w", resp.Status, ErrEmptyOutput)
	}
	return output, nil
}
