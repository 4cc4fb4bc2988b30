package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github/itish2003/studyflash/config"
	"github/itish2003/studyflash/controller"
	"github/itish2003/studyflash/models"
	"github/itish2003/studyflash/services"
)

const shutdownTimeout = 15 * time.Second

// cardsFile is the YAML layout read by export and written by summarize.
type cardsFile struct {
	Summary    string             `yaml:"summary,omitempty"`
	Flashcards []models.Flashcard `yaml:"flashcards"`
}

var (
	// Logs go to stderr so summarize output on stdout stays pipeable.
	logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

	rootCmd = &cobra.Command{
		Use:           "studyflash",
		Short:         "Summarize study material and turn it into printable flashcards.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load .env file: %w", err)
			}
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE:  runServe,
	}

	summarizeCmd = &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a .txt, .md or .pdf file",
		RunE:  runSummarize,
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Render flashcards from a YAML file into a PDF",
		RunE:  runExport,
	}
)

func init() {
	summarizeCmd.Flags().String("file", "", "file to summarize")
	summarizeCmd.Flags().Bool("flashcards", false, "also generate flashcards and print everything as YAML")
	_ = summarizeCmd.MarkFlagRequired("file")

	exportCmd.Flags().String("input", "", "YAML file with a flashcards list")
	exportCmd.Flags().String("output", services.DocumentFilename, "PDF file to write")
	_ = exportCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(serveCmd, summarizeCmd, exportCmd)
}

func main() {
	slog.SetDefault(logger)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, logger)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(a.cfg.GinMode)

	studyController := controller.NewStudyController(a.study, a.log)
	router, err := controller.NewRouter(studyController, a.recorder, a.log)
	if err != nil {
		return err
	}

	if a.cfg.InboxEnabled() {
		inbox, err := startInbox(ctx, a)
		if err != nil {
			return err
		}
		defer inbox.Stop()
	}

	server := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      a.cfg.CapabilityTimeout + time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("Server is starting", "addr", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("Server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func startInbox(ctx context.Context, a *app) (*services.InboxService, error) {
	if err := os.MkdirAll(a.cfg.InboxPath, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox directory: %w", err)
	}
	outbox, err := services.NewFileActions(a.cfg.OutboxPath)
	if err != nil {
		return nil, err
	}

	inbox := services.NewInboxService(a.cfg.InboxPath, a.study, outbox, a.recorder, a.log)
	if err := inbox.StartRescan(ctx, a.cfg.InboxRescanSpec); err != nil {
		return nil, err
	}

	go func() {
		if err := inbox.ScanDirectory(ctx); err != nil {
			a.log.ErrorContext(ctx, "Initial inbox scan failed", "error", err)
		}
	}()
	go func() {
		if err := inbox.WatchDirectory(ctx); err != nil {
			a.log.ErrorContext(ctx, "Inbox watcher stopped", "error", err)
		}
	}()

	return inbox, nil
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	withCards, _ := cmd.Flags().GetBool("flashcards")

	a, err := loadApp()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	result, err := summarizeDocument(cmd.Context(), a.study, path, data, withCards)
	if err != nil {
		return err
	}

	if !withCards {
		_, err := fmt.Fprintln(out, result.Summary)
		return err
	}

	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(result)
}

// summarizeDocument summarizes one file and, when withCards is set, builds
// its flashcards. A file without text yields the placeholder summary and no
// cards.
func summarizeDocument(
	ctx context.Context,
	study services.StudyService,
	path string,
	data []byte,
	withCards bool,
) (cardsFile, error) {
	text, err := services.ExtractText(path, data)
	if err != nil {
		return cardsFile{}, fmt.Errorf("extract text from %s: %w", path, err)
	}

	summary, err := study.Summarize(ctx, text)
	if err != nil {
		return cardsFile{}, err
	}

	result := cardsFile{Summary: summary, Flashcards: []models.Flashcard{}}
	if !withCards || strings.TrimSpace(text) == "" {
		return result, nil
	}

	result.Flashcards, err = study.GenerateFlashcards(ctx, summary)
	if err != nil {
		return cardsFile{}, err
	}
	return result, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	if !strings.HasSuffix(strings.ToLower(output), ".pdf") {
		return fmt.Errorf("output must be a .pdf file, got %q", output)
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	var file cardsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	questions := make([]string, len(file.Flashcards))
	answers := make([]string, len(file.Flashcards))
	for i, card := range file.Flashcards {
		questions[i] = card.Question
		answers[i] = card.Answer
	}

	doc, err := a.study.ExportDocument(cmd.Context(), questions, answers)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, doc.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	a.log.Info("Export is done", "output", output, "cards", len(file.Flashcards), "pages", doc.Pages)
	return nil
}
