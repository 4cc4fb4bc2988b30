package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrEmptyOutput is returned when a capability answers without any text.
	ErrEmptyOutput = errors.New("capability returned empty output")
	// ErrMissingAPIKey is returned when the selected provider has no credentials.
	ErrMissingAPIKey = errors.New("api key is not configured")
	// ErrUnknownProvider is returned for an unsupported CAPABILITY_PROVIDER.
	ErrUnknownProvider = errors.New("unknown capability provider")
)

// Summarizer maps input text to a shorter summary. maxLength and minLength
// bound the summary length in model tokens.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// QuestionGenerator maps one prompted sentence to a natural-language question
// whose answer is that sentence.
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, prompt string) (string, error)
}

type (
	SummarizerFactory        func(ctx context.Context) (Summarizer, error)
	QuestionGeneratorFactory func(ctx context.Context) (QuestionGenerator, error)
)

// lazy builds a value on first successful get. Concurrent first callers are
// serialized so build runs at most once per success; a failed build is not
// cached.
type lazy[T any] struct {
	mu    sync.Mutex
	value T
	ready bool
	build func(ctx context.Context) (T, error)
}

func (l *lazy[T]) get(ctx context.Context) (T, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ready {
		return l.value, false, nil
	}

	value, err := l.build(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	l.value = value
	l.ready = true
	return value, true, nil
}

// CapabilityProvider holds the process-wide Summarizer and QuestionGenerator.
// It is created once at startup and shared by every request.
type CapabilityProvider struct {
	summarizer        lazy[Summarizer]
	questionGenerator lazy[QuestionGenerator]
	log               *slog.Logger
}

func NewCapabilityProvider(
	newSummarizer SummarizerFactory,
	newQuestionGenerator QuestionGeneratorFactory,
	log *slog.Logger,
) *CapabilityProvider {
	return &CapabilityProvider{
		summarizer:        lazy[Summarizer]{build: newSummarizer},
		questionGenerator: lazy[QuestionGenerator]{build: newQuestionGenerator},
		log:               log,
	}
}

// Summarizer returns the shared summarizer, building it on first use.
func (p *CapabilityProvider) Summarizer(ctx context.Context) (Summarizer, error) {
	start := time.Now()

	s, built, err := p.summarizer.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize summarizer: %w", err)
	}
	if built {
		p.log.InfoContext(ctx, "Summarizer is initialized",
			"initSeconds", time.Since(start).Seconds())
	}
	return s, nil
}

// QuestionGenerator returns the shared question generator, building it on
// first use.
func (p *CapabilityProvider) QuestionGenerator(ctx context.Context) (QuestionGenerator, error) {
	start := time.Now()

	g, built, err := p.questionGenerator.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize question generator: %w", err)
	}
	if built {
		p.log.InfoContext(ctx, "Question generator is initialized",
			"initSeconds", time.Since(start).Seconds())
	}
	return g, nil
}
