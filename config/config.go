package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment. A .env file, if present, is loaded
// into the environment before parsing.
type Config struct {
	Port    string `env:"PORT"     envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	Provider          string        `env:"CAPABILITY_PROVIDER" envDefault:"huggingface"`
	CapabilityTimeout time.Duration `env:"CAPABILITY_TIMEOUT"  envDefault:"60s"`

	HuggingFaceToken             string  `env:"HF_API_TOKEN"`
	HuggingFaceBaseURL           string  `env:"HF_BASE_URL"             envDefault:"https://api-inference.huggingface.co/models"`
	HuggingFaceRequestsPerSecond float64 `env:"HF_REQUESTS_PER_SECOND" envDefault:"5"`
	SummarizationModel           string  `env:"SUMMARIZATION_MODEL"     envDefault:"sshleifer/distilbart-cnn-6-6"`
	QuestionModel                string  `env:"QUESTION_MODEL"          envDefault:"valhalla/t5-small-qg-hl"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL"   envDefault:"gemini-2.5-flash"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL"   envDefault:"gpt-4o-mini"`

	SummaryMaxLength    int `env:"SUMMARY_MAX_LENGTH"    envDefault:"120"`
	SummaryMinLength    int `env:"SUMMARY_MIN_LENGTH"    envDefault:"25"`
	SummaryChunkSize    int `env:"SUMMARY_CHUNK_SIZE"    envDefault:"3000"`
	SummaryChunkOverlap int `env:"SUMMARY_CHUNK_OVERLAP" envDefault:"200"`
	QuestionConcurrency int `env:"QUESTION_CONCURRENCY"  envDefault:"4"`

	InboxPath       string `env:"INBOX_PATH"`
	OutboxPath      string `env:"OUTBOX_PATH"`
	InboxRescanSpec string `env:"INBOX_RESCAN_SPEC" envDefault:"@every 10m"`

	UnidocLicenseKey string `env:"UNIDOC_LICENSE_KEY"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.OutboxPath == "" && cfg.InboxPath != "" {
		cfg.OutboxPath = cfg.InboxPath
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.SummaryMaxLength <= 0 {
		errs = append(errs, fmt.Errorf("SUMMARY_MAX_LENGTH must be positive, got %d", c.SummaryMaxLength))
	}
	if c.SummaryMinLength < 0 || c.SummaryMinLength > c.SummaryMaxLength {
		errs = append(errs, fmt.Errorf("SUMMARY_MIN_LENGTH must be between 0 and %d, got %d",
			c.SummaryMaxLength, c.SummaryMinLength))
	}
	if c.SummaryChunkSize > 0 && c.SummaryChunkOverlap >= c.SummaryChunkSize {
		errs = append(errs, fmt.Errorf("SUMMARY_CHUNK_OVERLAP must be smaller than SUMMARY_CHUNK_SIZE"))
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode))
	}
	if c.QuestionConcurrency < 1 {
		errs = append(errs, fmt.Errorf("QUESTION_CONCURRENCY must be at least 1, got %d", c.QuestionConcurrency))
	}

	return errors.Join(errs...)
}

// InboxEnabled reports whether the watched inbox directory is configured.
func (c Config) InboxEnabled() bool {
	return strings.TrimSpace(c.InboxPath) != ""
}
