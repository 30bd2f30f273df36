package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime knob of the service. Values come from the
// environment (optionally seeded by a .env file loaded in main).
type Config struct {
	ListenAddr  string `mapstructure:"server_addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Semantic index.
	IndexBackend        string  `mapstructure:"index_backend"` // memory | pgvector
	IndexPath           string  `mapstructure:"index_path"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`

	// Embeddings.
	EmbeddingURL   string `mapstructure:"embedding_url"`
	EmbeddingModel string `mapstructure:"embedding_model"`

	// Text generation.
	LLMProvider    string        `mapstructure:"llm_provider"`
	LLMURL         string        `mapstructure:"llm_url"`
	LLMKey         string        `mapstructure:"llm_api_key"`
	LLMModel       string        `mapstructure:"llm_model"`
	LLMTimeout     time.Duration `mapstructure:"llm_timeout"`
	LLMTemperature float64       `mapstructure:"llm_temperature"`
	LLMMaxTokens   int           `mapstructure:"llm_max_tokens"`

	// Location data API.
	DataAPIBaseURL string        `mapstructure:"data_api_base_url"`
	DataAPIKey     string        `mapstructure:"data_api_key"`
	DataAPITimeout time.Duration `mapstructure:"data_api_timeout"`
	SlugAPIURL     string        `mapstructure:"location_slug_api_url"`

	// Web scraping.
	ScrapeBaseURL    string `mapstructure:"scrape_base_url"`
	ScrapeURLPattern string `mapstructure:"scrape_url_pattern"`

	// Stores.
	PostgresDSN  string `mapstructure:"postgres_dsn"`
	RedisAddr    string `mapstructure:"redis_addr"`
	RunStoreKind string `mapstructure:"run_store"` // memory | redis

	// Batch processing.
	MaxConcurrent int    `mapstructure:"max_concurrent"`
	CSVDir        string `mapstructure:"csv_dir"`

	// Notifications.
	SESRegion string `mapstructure:"ses_region"`
	SESSender string `mapstructure:"ses_sender"`
}

// Load reads configuration from the environment with sane defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_addr", ":8000")
	v.SetDefault("metrics_addr", ":9100")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("index_backend", "memory")
	v.SetDefault("index_path", "data/faq_index.gob")
	v.SetDefault("similarity_threshold", 0.5)
	v.SetDefault("embedding_model", "nomic-embed-text")
	v.SetDefault("llm_provider", "grok")
	v.SetDefault("llm_model", "grok-beta")
	v.SetDefault("llm_timeout", 60*time.Second)
	v.SetDefault("llm_temperature", 0.8)
	v.SetDefault("llm_max_tokens", 8000)
	v.SetDefault("data_api_timeout", 15*time.Second)
	v.SetDefault("scrape_url_pattern", "{base_url}/locations/{location}")
	v.SetDefault("run_store", "memory")
	v.SetDefault("max_concurrent", 5)
	v.SetDefault("csv_dir", "data/events")

	// Bind the keys we read so AutomaticEnv picks them up without a file.
	for _, key := range []string{
		"server_addr", "metrics_addr", "log_level", "log_format",
		"index_backend", "index_path", "similarity_threshold",
		"embedding_url", "embedding_model",
		"llm_provider", "llm_url", "llm_api_key", "llm_model",
		"llm_timeout", "llm_temperature", "llm_max_tokens",
		"data_api_base_url", "data_api_key", "data_api_timeout",
		"location_slug_api_url",
		"scrape_base_url", "scrape_url_pattern",
		"postgres_dsn", "redis_addr", "run_store",
		"max_concurrent", "csv_dir",
		"ses_region", "ses_sender",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.LLMURL == "" {
		cfg.LLMURL = defaultLLMURL(cfg.LLMProvider)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaultLLMURL maps a provider name to its chat completions endpoint. An
// explicit llm_url always wins over this.
func defaultLLMURL(provider string) string {
	switch provider {
	case "openai":
		return "https://api.openai.com/v1/chat/completions"
	case "ollama":
		return "http://localhost:11434/v1/chat/completions"
	default:
		return "https://api.x.ai/v1/chat/completions"
	}
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case "grok", "openai", "ollama":
	default:
		return fmt.Errorf("invalid llm_provider %q", c.LLMProvider)
	}
	switch c.IndexBackend {
	case "memory", "pgvector":
	default:
		return fmt.Errorf("invalid index_backend %q", c.IndexBackend)
	}
	if c.IndexBackend == "pgvector" && c.PostgresDSN == "" {
		return fmt.Errorf("index_backend=pgvector requires postgres_dsn")
	}
	switch c.RunStoreKind {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid run_store %q", c.RunStoreKind)
	}
	if c.RunStoreKind == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("run_store=redis requires redis_addr")
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be within [-1,1]")
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1")
	}
	return nil
}
