package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

var testLogger = slog.New(slog.DiscardHandler)

type summarizeCall struct {
	Text      string
	MaxLength int
	MinLength int
}

type fakeSummarizer struct {
	mu    sync.Mutex
	calls []summarizeCall
	fn    func(text string) (string, error)
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string, maxLength, minLength int) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, summarizeCall{Text: text, MaxLength: maxLength, MinLength: minLength})
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(text)
	}
	return "summary of " + text, nil
}

func (f *fakeSummarizer) Calls() []summarizeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]summarizeCall(nil), f.calls...)
}

type fakeQuestionGenerator struct {
	calls atomic.Int64
	fn    func(prompt string) (string, error)
}

func (f *fakeQuestionGenerator) GenerateQuestion(_ context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	if f.fn != nil {
		return f.fn(prompt)
	}
	return "What about " + strings.TrimPrefix(prompt, QuestionPromptPrefix) + "?", nil
}

func newTestProvider(s Summarizer, g QuestionGenerator) *CapabilityProvider {
	return NewCapabilityProvider(
		func(context.Context) (Summarizer, error) { return s, nil },
		func(context.Context) (QuestionGenerator, error) { return g, nil },
		testLogger,
	)
}

// lineSplitter treats every non-empty line as a sentence.
type lineSplitter struct{}

func (lineSplitter) Split(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
