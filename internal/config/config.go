package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by ValidateAnalyzer when no OpenAI key is configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is not set")

// Error names the configuration key that failed validation.
type Error struct {
	Key    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("invalid %s (%s)", e.Key, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	SitesFile      string `mapstructure:"sites_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	UserAgent          string        `mapstructure:"user_agent"`
	MaxPages           int           `mapstructure:"max_pages"`
	RequestDelayMs     int           `mapstructure:"request_delay_ms"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	OpenAIAPIKey      string        `mapstructure:"openai_api_key" json:"-"`
	OpenAIBaseURL     string        `mapstructure:"openai_base_url"`
	OpenAIModel       string        `mapstructure:"openai_model"`
	LLMTimeoutSeconds int64         `mapstructure:"llm_timeout_seconds"`
	LLMTimeout        time.Duration `mapstructure:"-"`

	AnalyzerInputDir  string `mapstructure:"analyzer_input_dir"`
	AnalyzerOutputDir string `mapstructure:"analyzer_output_dir"`
}

// DefaultUserAgent identifies requests as a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("app_name", "berita-banjir")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("sites_file", "")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("max_pages", 100)
	v.SetDefault("request_delay_ms", 0)
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("openai_model", "gpt-5-nano")
	v.SetDefault("llm_timeout_seconds", 0)
	v.SetDefault("analyzer_input_dir", ".")
	v.SetDefault("analyzer_output_dir", "analyzed")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.HTTPTimeoutSeconds <= 0 {
		return &Error{Key: "http_timeout_seconds", Reason: "must be positive seconds"}
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	if c.MaxPages < 0 {
		return &Error{Key: "max_pages", Reason: "must not be negative"}
	}
	if c.RequestDelayMs < 0 {
		return &Error{Key: "request_delay_ms", Reason: "must not be negative"}
	}

	if c.StorageTTLSeconds <= 0 {
		return &Error{Key: "storage_ttl_seconds", Reason: "must be positive seconds"}
	}
	if c.StorageCleanupSeconds <= 0 {
		return &Error{Key: "storage_cleanup_interval_seconds", Reason: "must be positive seconds"}
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second

	if c.LLMTimeoutSeconds < 0 {
		return &Error{Key: "llm_timeout_seconds", Reason: "must not be negative"}
	}
	c.LLMTimeout = time.Duration(c.LLMTimeoutSeconds) * time.Second

	c.UserAgent = strings.TrimSpace(c.UserAgent)
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	c.OpenAIAPIKey = strings.TrimSpace(c.OpenAIAPIKey)
	return nil
}

// ValidateAnalyzer checks the settings the incident analyzer cannot run without.
func (c *Config) ValidateAnalyzer() error {
	if c == nil {
		return errors.New("config must not be nil")
	}
	if c.OpenAIAPIKey == "" {
		return &Error{Key: "openai_api_key", Err: ErrMissingAPIKey}
	}
	if strings.TrimSpace(c.OpenAIModel) == "" {
		return &Error{Key: "openai_model", Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.AnalyzerOutputDir) == "" {
		return &Error{Key: "analyzer_output_dir", Reason: "must not be empty"}
	}
	return nil
}
