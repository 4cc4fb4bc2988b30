package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github/itish2003/studyflash/metrics"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"

	capabilitySummarizer        = "summarizer"
	capabilityQuestionGenerator = "question_generator"
)

// CapabilityConfig selects and configures the capability provider.
type CapabilityConfig struct {
	Provider   string
	HTTPClient *http.Client

	HuggingFaceBaseURL           string
	HuggingFaceToken             string
	HuggingFaceRequestsPerSecond float64
	SummarizationModel           string
	QuestionModel                string

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey string
	OpenAIModel  string
}

// NewCapabilityFactories returns the constructors for the configured
// provider. Nothing is contacted until a factory runs.
func NewCapabilityFactories(
	cfg CapabilityConfig,
	recorder *metrics.Recorder,
) (SummarizerFactory, QuestionGeneratorFactory, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	var (
		newSummarizer        SummarizerFactory
		newQuestionGenerator QuestionGeneratorFactory
	)

	switch cfg.Provider {
	case ProviderHuggingFace:
		client := NewHuggingFaceClient(httpClient, cfg.HuggingFaceBaseURL, cfg.HuggingFaceToken,
			cfg.HuggingFaceRequestsPerSecond)

		newSummarizer = func(context.Context) (Summarizer, error) {
			return NewHuggingFaceSummarizer(client, cfg.SummarizationModel), nil
		}
		newQuestionGenerator = func(context.Context) (QuestionGenerator, error) {
			return NewHuggingFaceQuestionGenerator(client, cfg.QuestionModel), nil
		}

	case ProviderGemini:
		newSummarizer = func(ctx context.Context) (Summarizer, error) {
			return NewGeminiCapability(ctx, httpClient, cfg.GeminiAPIKey, cfg.GeminiModel)
		}
		newQuestionGenerator = func(ctx context.Context) (QuestionGenerator, error) {
			return NewGeminiCapability(ctx, httpClient, cfg.GeminiAPIKey, cfg.GeminiModel)
		}

	case ProviderOpenAI:
		newSummarizer = func(context.Context) (Summarizer, error) {
			return NewOpenAICapability(httpClient, cfg.OpenAIAPIKey, cfg.OpenAIModel)
		}
		newQuestionGenerator = func(context.Context) (QuestionGenerator, error) {
			return NewOpenAICapability(httpClient, cfg.OpenAIAPIKey, cfg.OpenAIModel)
		}

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	return instrumentSummarizerFactory(newSummarizer, cfg.Provider, recorder),
		instrumentQuestionGeneratorFactory(newQuestionGenerator, cfg.Provider, recorder),
		nil
}

func instrumentSummarizerFactory(next SummarizerFactory, provider string, recorder *metrics.Recorder) SummarizerFactory {
	return func(ctx context.Context) (Summarizer, error) {
		s, err := next(ctx)
		if err != nil {
			return nil, err
		}
		return &instrumentedSummarizer{next: s, provider: provider, recorder: recorder}, nil
	}
}

func instrumentQuestionGeneratorFactory(
	next QuestionGeneratorFactory,
	provider string,
	recorder *metrics.Recorder,
) QuestionGeneratorFactory {
	return func(ctx context.Context) (QuestionGenerator, error) {
		g, err := next(ctx)
		if err != nil {
			return nil, err
		}
		return &instrumentedQuestionGenerator{next: g, provider: provider, recorder: recorder}, nil
	}
}

type instrumentedSummarizer struct {
	next     Summarizer
	provider string
	recorder *metrics.Recorder
}

func (s *instrumentedSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	start := time.Now()
	summary, err := s.next.Summarize(ctx, text, maxLength, minLength)
	s.recorder.ObserveCapability(capabilitySummarizer, s.provider, time.Since(start), err)
	return summary, err
}

type instrumentedQuestionGenerator struct {
	next     QuestionGenerator
	provider string
	recorder *metrics.Recorder
}

func (g *instrumentedQuestionGenerator) GenerateQuestion(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	question, err := g.next.GenerateQuestion(ctx, prompt)
	g.recorder.ObserveCapability(capabilityQuestionGenerator, g.provider, time.Since(start), err)
	return question, err
}
