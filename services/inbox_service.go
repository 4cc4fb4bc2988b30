package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github/itish2003/studyflash/metrics"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

const (
	SummarySuffix    = ".summary.md"
	FlashcardsSuffix = ".flashcards.pdf"

	processFileTimeout = 10 * time.Minute

	// WatchDebounce is how long a file must stay quiet after a create or
	// write event before it is processed.
	WatchDebounce = 500 * time.Millisecond
)

// InboxService turns documents dropped into a directory into a summary and
// a flashcards PDF written to the outbox.
type InboxService struct {
	dir      string
	study    StudyService
	outbox   *FileActions
	recorder *metrics.Recorder
	log      *slog.Logger
	cron     *cron.Cron
	debounce time.Duration

	mu      sync.Mutex
	state   map[string]*fileState
	pending map[string]*time.Timer
}

// fileState holds the hash of the last processed version of a file.
type fileState struct {
	Hash string
	busy bool
}

func NewInboxService(
	dir string,
	study StudyService,
	outbox *FileActions,
	recorder *metrics.Recorder,
	log *slog.Logger,
) *InboxService {
	return &InboxService{
		dir:      dir,
		study:    study,
		outbox:   outbox,
		recorder: recorder,
		log:      log,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		debounce: WatchDebounce,
		state:    make(map[string]*fileState),
		pending:  make(map[string]*time.Timer),
	}
}

// ScanDirectory processes every new or changed file at the top level of the
// inbox and forgets files that were removed. Subdirectories are not read,
// matching what WatchDirectory sees.
func (s *InboxService) ScanDirectory(ctx context.Context) error {
	s.log.InfoContext(ctx, "Inbox scan is started", "dir", s.dir)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read inbox %s: %w", s.dir, err)
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		path := filepath.Join(s.dir, entry.Name())
		if !entry.Type().IsRegular() || !isInboxFile(path) {
			continue
		}
		seen[path] = true

		if err := s.ProcessFile(ctx, path); err != nil {
			s.log.ErrorContext(ctx, "Failed to process inbox file",
				"error", err,
				"path", path)
		}
	}

	s.mu.Lock()
	for path, st := range s.state {
		if !seen[path] && !st.busy {
			delete(s.state, path)
		}
	}
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Inbox scan is done", "files", len(seen))
	return nil
}

// WatchDirectory processes files once they stop changing for the debounce
// period after a create or write. It blocks until ctx is cancelled.
func (s *InboxService) WatchDirectory(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()
	defer s.stopPending()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	s.log.InfoContext(ctx, "Inbox watcher is started", "dir", s.dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isInboxFile(event.Name) {
				continue
			}

			switch {
			// Editors often save by creating a temp file and renaming it, and
			// large copies arrive as many writes, so both only restart the timer.
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				s.schedule(ctx, event.Name)
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				s.cancelPending(event.Name)
				s.forget(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.ErrorContext(ctx, "Inbox watcher failed", "error", err)

		case <-ctx.Done():
			s.log.InfoContext(ctx, "Inbox watcher context is done", "error", ctx.Err())
			return nil
		}
	}
}

// StartRescan schedules ScanDirectory with a cron spec such as "@every 10m".
func (s *InboxService) StartRescan(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		if err := s.ScanDirectory(ctx); err != nil {
			s.log.ErrorContext(ctx, "Inbox rescan failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule inbox rescan %q: %w", spec, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the rescan schedule and waits for a running scan to finish.
func (s *InboxService) Stop() {
	<-s.cron.Stop().Done()
}

// ProcessFile summarizes path and renders its flashcards unless the same
// content was already processed or is being processed.
func (s *InboxService) ProcessFile(ctx context.Context, path string) error {
	hash, err := calculateFileHash(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("hash %s: %w", path, err)
	}

	if !s.claim(path, hash) {
		return nil
	}

	err = s.processFile(ctx, path)
	s.release(path, hash, err)
	s.recorder.ObserveInboxFile(err)

	return err
}

func (s *InboxService) processFile(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, processFileTimeout)
	defer cancel()

	text, err := ExtractTextFromFile(path)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		s.log.InfoContext(ctx, "Inbox file has no text, skipping", "path", path)
		return nil
	}

	summary, err := s.study.Summarize(ctx, text)
	if err != nil {
		return err
	}

	cards, err := s.study.GenerateFlashcards(ctx, summary)
	if err != nil {
		return err
	}

	questions := make([]string, len(cards))
	answers := make([]string, len(cards))
	for i, card := range cards {
		questions[i] = card.Question
		answers[i] = card.Answer
	}

	doc, err := s.study.ExportDocument(ctx, questions, answers)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	summaryPath, err := s.outbox.WriteMarkdownFile(base+SummarySuffix, renderSummaryMarkdown(filepath.Base(path), summary))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	docPath, err := s.outbox.WriteDocumentFile(base+FlashcardsSuffix, doc.Data)
	if err != nil {
		return fmt.Errorf("write flashcards: %w", err)
	}

	s.log.InfoContext(ctx, "Inbox file is processed",
		"path", path,
		"summary", summaryPath,
		"flashcards", docPath,
		"cards", len(cards),
		"pages", doc.Pages)

	return nil
}

// schedule processes path once no further event for it arrives within the
// debounce period.
func (s *InboxService) schedule(ctx context.Context, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.pending[path]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		if s.pending[path] != timer {
			s.mu.Unlock()
			return
		}
		delete(s.pending, path)
		s.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if err := s.ProcessFile(ctx, path); err != nil {
			s.log.ErrorContext(ctx, "Failed to process inbox file",
				"error", err,
				"path", path)
		}
	})
	s.pending[path] = timer
}

func (s *InboxService) cancelPending(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.pending[path]; ok {
		t.Stop()
		delete(s.pending, path)
	}
}

func (s *InboxService) stopPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for path, t := range s.pending {
		t.Stop()
		delete(s.pending, path)
	}
}

func (s *InboxService) claim(path, hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state[path]
	if !ok {
		s.state[path] = &fileState{busy: true}
		return true
	}
	if st.busy || st.Hash == hash {
		return false
	}
	st.busy = true
	return true
}

func (s *InboxService) release(path, hash string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state[path]
	if !ok {
		return
	}
	st.busy = false
	if err == nil {
		st.Hash = hash
	}
}

func (s *InboxService) forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.state[path]; ok && !st.busy {
		delete(s.state, path)
	}
}

func renderSummaryMarkdown(source, summary string) string {
	return fmt.Sprintf("# Summary of %s\n\n%s\n", source, strings.TrimSpace(summary))
}

// isInboxFile reports whether path is an input document. Hidden files and
// files this service wrote itself are ignored.
func isInboxFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, SummarySuffix) || strings.HasSuffix(lower, FlashcardsSuffix) {
		return false
	}
	return IsSupportedFile(path)
}

func calculateFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
