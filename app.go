package main

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github/itish2003/studyflash/config"
	"github/itish2003/studyflash/metrics"
	"github/itish2003/studyflash/services"
)

// app holds the components shared by every command.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	recorder *metrics.Recorder
	study    services.StudyService
}

func newApp(cfg config.Config, log *slog.Logger) (*app, error) {
	recorder := metrics.NewRecorder(prometheus.NewRegistry())

	if err := services.ConfigurePDFLicense(cfg.UnidocLicenseKey); err != nil {
		log.Warn("PDF extraction is unlicensed", "error", err)
	}

	newSummarizer, newQuestionGenerator, err := services.NewCapabilityFactories(services.CapabilityConfig{
		Provider:                     cfg.Provider,
		HTTPClient:                   &http.Client{Timeout: cfg.CapabilityTimeout},
		HuggingFaceBaseURL:           cfg.HuggingFaceBaseURL,
		HuggingFaceToken:             cfg.HuggingFaceToken,
		HuggingFaceRequestsPerSecond: cfg.HuggingFaceRequestsPerSecond,
		SummarizationModel:           cfg.SummarizationModel,
		QuestionModel:                cfg.QuestionModel,
		GeminiAPIKey:                 cfg.GeminiAPIKey,
		GeminiModel:                  cfg.GeminiModel,
		OpenAIAPIKey:                 cfg.OpenAIAPIKey,
		OpenAIModel:                  cfg.OpenAIModel,
	}, recorder)
	if err != nil {
		return nil, err
	}
	capabilities := services.NewCapabilityProvider(newSummarizer, newQuestionGenerator, log)

	splitter, err := services.NewPunktSplitter()
	if err != nil {
		return nil, err
	}
	builder := services.NewFlashcardBuilder(splitter, capabilities, cfg.QuestionConcurrency, log)
	writer := services.NewDocumentWriter(services.DefaultLayout())

	study := services.NewStudyService(capabilities, builder, writer, services.StudyOptions{
		SummaryMaxLength: cfg.SummaryMaxLength,
		SummaryMinLength: cfg.SummaryMinLength,
		ChunkSize:        cfg.SummaryChunkSize,
		ChunkOverlap:     cfg.SummaryChunkOverlap,
	}, recorder, log)

	log.Info("Services are initialized", "provider", cfg.Provider)

	return &app{
		cfg:      cfg,
		log:      log,
		recorder: recorder,
		study:    study,
	}, nil
}
