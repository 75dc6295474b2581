package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/paragraph"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Pathstore publishing
	PathstoreURL    string
	PathstoreAPIKey string
	PublishEnabled  bool

	// Worker pool
	WorkerCount      int
	MaxQueueSize     int
	BuildConcurrency int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Structure recovery
	TOCPageOffset   int
	HeaderWindow    int
	ParagraphPolicy string
	KeywordsFile    string

	Conference doctree.Conference

	// Run history database; empty disables history.
	HistoryDB string
}

// Load reads the environment, after loading a .env file if one exists.
func Load() Config {
	_ = godotenv.Load()

	def := doctree.DefaultConference()
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("AKNGEST_API_KEY"),

		PathstoreURL:    envOr("PATHSTORE_URL", "http://localhost:8080"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),
		PublishEnabled:  envBool("PUBLISH_ENABLED", false),

		WorkerCount:      envInt("WORKER_COUNT", 4),
		MaxQueueSize:     envInt("MAX_QUEUE_SIZE", 100),
		BuildConcurrency: envInt("BUILD_CONCURRENCY", 8),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		TOCPageOffset:   envInt("TOC_PAGE_OFFSET", 0),
		HeaderWindow:    envInt("HEADER_WINDOW", 5),
		ParagraphPolicy: envOr("PARAGRAPH_POLICY", "strict"),
		KeywordsFile:    os.Getenv("KEYWORDS_FILE"),

		Conference: doctree.Conference{
			Name:     envOr("CONFERENCE_NAME", def.Name),
			Location: envOr("CONFERENCE_LOCATION", def.Location),
			Date:     envOr("CONFERENCE_DATE", def.Date),
			Actor:    envOr("CONFERENCE_ACTOR", def.Actor),
		},

		HistoryDB: envOr("HISTORY_DB", "akngest.db"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.BuildConcurrency <= 0 {
		cfg.BuildConcurrency = 8
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.HeaderWindow <= 0 {
		cfg.HeaderWindow = 5
	}
	if t, err := time.Parse("2006-01-02", cfg.Conference.Date); err == nil {
		cfg.Conference.Year = t.Year()
	}

	return cfg
}

// Validate checks the settings shared by the server and the CLI.
func (c Config) Validate() error {
	if _, err := paragraph.ParsePolicy(c.ParagraphPolicy); err != nil {
		return fmt.Errorf("PARAGRAPH_POLICY: %w", err)
	}
	if _, err := time.Parse("2006-01-02", c.Conference.Date); err != nil {
		return fmt.Errorf("CONFERENCE_DATE must be YYYY-MM-DD, got %q", c.Conference.Date)
	}
	if c.Conference.Actor == "" {
		return fmt.Errorf("CONFERENCE_ACTOR is required")
	}
	if c.PublishEnabled && c.PathstoreAPIKey == "" {
		return fmt.Errorf("PATHSTORE_API_KEY is required when PUBLISH_ENABLED is set")
	}
	return nil
}

// ValidateServer adds the checks only the HTTP server needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("AKNGEST_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
