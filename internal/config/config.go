package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
	HTTPAddr string `mapstructure:"http_addr"`

	JiraEmail    string `mapstructure:"jira_email"`
	JiraAPIToken string `mapstructure:"jira_api_token"`
	JiraBaseURL  string `mapstructure:"jira_base_url"`

	// Xray credentials are carried for parity with the Jira/Xray setup; no
	// component consumes them yet.
	XrayClientID     string `mapstructure:"xray_client_id"`
	XrayClientSecret string `mapstructure:"xray_client_secret"`

	LLMProvider string `mapstructure:"llm_provider"`
	LLMBaseURL  string `mapstructure:"llm_base_url"`
	LLMAPIKey   string `mapstructure:"llm_api_key"`
	LLMModel    string `mapstructure:"llm_model"`

	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	StorageType           string        `mapstructure:"storage_type"`
	BBoltPath             string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds     int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL            time.Duration `mapstructure:"-"`
	StorageCleanup        time.Duration `mapstructure:"-"`

	SinksFile string `mapstructure:"sinks_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "jira-test-script-generator")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8080")
	// Credential keys default to empty so AutomaticEnv binds them.
	v.SetDefault("jira_email", "")
	v.SetDefault("jira_api_token", "")
	v.SetDefault("jira_base_url", "")
	v.SetDefault("xray_client_id", "")
	v.SetDefault("xray_client_secret", "")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_provider", "openai")
	v.SetDefault("llm_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm_model", "gpt-4o-mini")
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/scripts.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("sinks_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanup = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	cfg.JiraBaseURL = strings.TrimRight(strings.TrimSpace(cfg.JiraBaseURL), "/")
	cfg.LLMBaseURL = strings.TrimRight(strings.TrimSpace(cfg.LLMBaseURL), "/")

	return &cfg, nil
}

// ValidateJira checks that the Jira connection settings are present.
func (c *Config) ValidateJira() error {
	if c.JiraEmail == "" || c.JiraAPIToken == "" || c.JiraBaseURL == "" {
		return fmt.Errorf("jira settings are not properly configured (jira_email, jira_api_token, jira_base_url)")
	}
	return nil
}
