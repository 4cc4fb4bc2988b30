package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github/itish2003/studyflash/metrics"
	"github/itish2003/studyflash/models"

	"github.com/tmc/langchaingo/textsplitter"
)

// EmptyTextPlaceholder is returned instead of a summary when there is no text.
const EmptyTextPlaceholder = "Please enter some text to summarize."

// StudyService interface defines the operations behind the form page and
// the JSON API.
type StudyService interface {
	Handle(ctx context.Context, action models.Action) (*models.StudyResult, error)
	Summarize(ctx context.Context, text string) (string, error)
	SummarizeFile(ctx context.Context, filename string, data []byte) (string, error)
	GenerateFlashcards(ctx context.Context, summary string) ([]models.Flashcard, error)
	ExportDocument(ctx context.Context, questions, answers []string) (*models.Document, error)
}

// StudyOptions tunes summarization.
type StudyOptions struct {
	SummaryMaxLength int
	SummaryMinLength int
	ChunkSize        int // inputs longer than this many characters are summarized per chunk
	ChunkOverlap     int
}

// studyServiceImpl holds the dependencies it needs to do its job
type studyServiceImpl struct {
	capabilities *CapabilityProvider
	builder      *FlashcardBuilder
	writer       *DocumentWriter
	splitter     textsplitter.TextSplitter
	opts         StudyOptions
	recorder     *metrics.Recorder
	log          *slog.Logger
}

func NewStudyService(
	capabilities *CapabilityProvider,
	builder *FlashcardBuilder,
	writer *DocumentWriter,
	opts StudyOptions,
	recorder *metrics.Recorder,
	log *slog.Logger,
) StudyService {
	var splitter textsplitter.TextSplitter
	if opts.ChunkSize > 0 {
		splitter = textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(opts.ChunkSize),
			textsplitter.WithChunkOverlap(min(max(opts.ChunkOverlap, 0), opts.ChunkSize-1)),
		)
	}

	return &studyServiceImpl{
		capabilities: capabilities,
		builder:      builder,
		writer:       writer,
		splitter:     splitter,
		opts:         opts,
		recorder:     recorder,
		log:          log,
	}
}

// Handle performs the requested action and reports what should be shown
// to the user.
func (s *studyServiceImpl) Handle(ctx context.Context, action models.Action) (*models.StudyResult, error) {
	result, err := s.handle(ctx, action)
	s.recorder.ObserveAction(action.Name(), err)
	if err != nil {
		return nil, fmt.Errorf("handle %s action: %w", action.Name(), err)
	}
	return result, nil
}

func (s *studyServiceImpl) handle(ctx context.Context, action models.Action) (*models.StudyResult, error) {
	switch a := action.(type) {
	case models.SummarizeAction:
		summary, err := s.Summarize(ctx, a.Text)
		if err != nil {
			return nil, err
		}
		return &models.StudyResult{Summary: &summary, Flashcards: []models.Flashcard{}}, nil

	case models.GenerateFlashcardsAction:
		cards, err := s.GenerateFlashcards(ctx, a.Summary)
		if err != nil {
			return nil, err
		}
		summary := a.Summary
		return &models.StudyResult{Summary: &summary, Flashcards: cards}, nil

	case models.ExportDocumentAction:
		doc, err := s.ExportDocument(ctx, a.Questions, a.Answers)
		if err != nil {
			return nil, err
		}
		return &models.StudyResult{Flashcards: []models.Flashcard{}, Document: doc}, nil

	case models.NoAction:
		return &models.StudyResult{Flashcards: []models.Flashcard{}}, nil

	default:
		return nil, fmt.Errorf("unsupported action %T", action)
	}
}

// Summarize condenses text. Empty text yields the placeholder without
// touching the summarizer.
func (s *studyServiceImpl) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return EmptyTextPlaceholder, nil
	}

	summarizer, err := s.capabilities.Summarizer(ctx)
	if err != nil {
		return "", err
	}

	chunks, err := s.chunks(text)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := summarizer.Summarize(ctx, chunk, s.opts.SummaryMaxLength, s.opts.SummaryMinLength)
		if err != nil {
			if len(chunks) == 1 {
				return "", fmt.Errorf("summarize text: %w", err)
			}
			return "", fmt.Errorf("summarize chunk %d of %d: %w", i+1, len(chunks), err)
		}
		parts = append(parts, strings.TrimSpace(summary))
	}

	s.log.InfoContext(ctx, "Summary is done", "chunks", len(chunks), "input_chars", utf8.RuneCountInString(text))
	return strings.Join(parts, " "), nil
}

func (s *studyServiceImpl) chunks(text string) ([]string, error) {
	if s.splitter == nil || utf8.RuneCountInString(text) <= s.opts.ChunkSize {
		return []string{text}, nil
	}
	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text into chunks: %w", err)
	}

	nonEmpty := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	if len(nonEmpty) == 0 {
		return []string{text}, nil
	}
	return nonEmpty, nil
}

// SummarizeFile extracts the text of an uploaded file and summarizes it.
func (s *studyServiceImpl) SummarizeFile(ctx context.Context, filename string, data []byte) (string, error) {
	text, err := ExtractText(filename, data)
	if err != nil {
		return "", fmt.Errorf("extract text from %s: %w", filename, err)
	}
	return s.Summarize(ctx, text)
}

// GenerateFlashcards builds one card per sentence of summary.
func (s *studyServiceImpl) GenerateFlashcards(ctx context.Context, summary string) ([]models.Flashcard, error) {
	cards, err := s.builder.Build(ctx, summary)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "Flashcards are generated", "count", len(cards))
	return cards, nil
}

// ExportDocument renders the question/answer pairs into a PDF document.
func (s *studyServiceImpl) ExportDocument(ctx context.Context, questions, answers []string) (*models.Document, error) {
	if len(questions) != len(answers) {
		s.log.WarnContext(ctx, "Question and answer counts differ, extra entries are dropped",
			"questions", len(questions),
			"answers", len(answers),
		)
	}
	cards := ZipFlashcards(questions, answers)

	doc, err := s.writer.Render(cards)
	if err != nil {
		return nil, fmt.Errorf("render flashcards document: %w", err)
	}
	s.recorder.ObserveDocument(doc.Pages)
	s.log.InfoContext(ctx, "Document is rendered", "cards", len(cards), "pages", doc.Pages, "bytes", len(doc.Data))
	return doc, nil
}

// ZipFlashcards pairs questions and answers by position. The result is as
// long as the shorter list.
func ZipFlashcards(questions, answers []string) []models.Flashcard {
	n := min(len(questions), len(answers))
	cards := make([]models.Flashcard, n)
	for i := range n {
		cards[i] = models.Flashcard{Question: questions[i], Answer: answers[i]}
	}
	return cards
}
