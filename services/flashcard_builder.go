package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github/itish2003/studyflash/models"

	"golang.org/x/sync/errgroup"
)

// FlashcardBuilder turns a summary into one flashcard per sentence.
type FlashcardBuilder struct {
	splitter     SentenceSplitter
	capabilities *CapabilityProvider
	concurrency  int
	log          *slog.Logger
}

// NewFlashcardBuilder creates a builder that runs at most concurrency
// question generations at once.
func NewFlashcardBuilder(
	splitter SentenceSplitter,
	capabilities *CapabilityProvider,
	concurrency int,
	log *slog.Logger,
) *FlashcardBuilder {
	return &FlashcardBuilder{
		splitter:     splitter,
		capabilities: capabilities,
		concurrency:  max(concurrency, 1),
		log:          log,
	}
}

// Build returns the flashcards for summaryText in sentence order. The answer
// of each card is its sentence verbatim. Empty text yields no cards.
func (b *FlashcardBuilder) Build(ctx context.Context, summaryText string) ([]models.Flashcard, error) {
	if strings.TrimSpace(summaryText) == "" {
		return []models.Flashcard{}, nil
	}

	sentences := b.splitter.Split(summaryText)
	if len(sentences) == 0 {
		return []models.Flashcard{}, nil
	}

	generator, err := b.capabilities.QuestionGenerator(ctx)
	if err != nil {
		return nil, err
	}

	cards := make([]models.Flashcard, len(sentences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, sentence := range sentences {
		g.Go(func() error {
			question, err := generator.GenerateQuestion(gctx, QuestionPromptPrefix+sentence)
			if err != nil {
				return fmt.Errorf("generate question for sentence %d: %w", i+1, err)
			}

			cards[i] = models.Flashcard{Question: question, Answer: sentence}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.log.DebugContext(ctx, "Flashcards are built",
		"sentenceCount", len(sentences))

	return cards, nil
}
