package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultDatasetURL is the launch records CSV served by the IBM cloud bucket.
const DefaultDatasetURL = "https://cf-courses-data.s3.us.cloud-object-storage.appdomain.cloud/IBM-DS0321EN-SkillsNetwork/datasets/spacex_launch_dash.csv"

// Config holds the configuration for the dashboard process
type Config struct {
	// General settings
	ProjectName string `mapstructure:"project_name"`
	LogLevel    string `mapstructure:"log_level"`

	// Dataset settings
	DatasetURL   string        `mapstructure:"dataset_url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`

	// Server settings
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// History settings
	DataDir              string `mapstructure:"data_dir"`
	EnableHistory        bool   `mapstructure:"enable_history"`
	HistoryRetentionDays int    `mapstructure:"history_retention_days"`

	// Metrics settings
	EnableMetrics bool `mapstructure:"enable_metrics"`

	// Export and report settings
	OutputDir           string   `mapstructure:"output_dir"`
	ExportFormats       []string `mapstructure:"export_formats"`
	MaxConcurrentRender int      `mapstructure:"max_concurrent_render"`
}

// NewConfig creates a new configuration with default values. The defaults
// reproduce the original dashboard surface: fixed dataset URL, 120s fetch
// timeout, localhost:8050.
func NewConfig() *Config {
	return &Config{
		ProjectName:          getProjectName(),
		LogLevel:             "info",
		DatasetURL:           DefaultDatasetURL,
		FetchTimeout:         120 * time.Second,
		Host:                 "localhost",
		Port:                 8050,
		DataDir:              "data",
		EnableHistory:        true,
		HistoryRetentionDays: 90,
		EnableMetrics:        true,
		OutputDir:            "output",
		ExportFormats:        []string{"xlsx"},
		MaxConcurrentRender:  4,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return NewConfig()
}

// LoadConfig loads configuration from file or returns default
func LoadConfig() (*Config, error) {
	cfg := NewConfig()

	// Try to load from config file
	configPaths := []string{
		"spacex-dashboard.yml",
		"spacex-dashboard.yaml",
		"spacex-dashboard.json",
		".config/spacex-dashboard.yml",
	}

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.LoadFromFile(path); err == nil {
				cfg.LoadFromEnv() // Override with env vars
				return cfg, nil
			}
		}
	}

	// No config file found, load from env only
	cfg.LoadFromEnv()
	return cfg, nil
}

// LoadFromFile loads configuration from a file (YAML, JSON, or TOML)
func (c *Config) LoadFromFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(c)
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if u := os.Getenv("SPACEX_DATASET_URL"); u != "" {
		c.DatasetURL = u
	}

	if t := os.Getenv("SPACEX_FETCH_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			c.FetchTimeout = d
		}
	}

	if host := os.Getenv("SPACEX_HOST"); host != "" {
		c.Host = host
	}

	if port := os.Getenv("SPACEX_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Port = p
		}
	}

	if dir := os.Getenv("SPACEX_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}

	if dir := os.Getenv("SPACEX_OUTPUT_DIR"); dir != "" {
		c.OutputDir = dir
	}

	if level := os.Getenv("SPACEX_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}

	if v := os.Getenv("SPACEX_DISABLE_HISTORY"); v == "true" {
		c.EnableHistory = false
	}

	if v := os.Getenv("SPACEX_DISABLE_METRICS"); v == "true" {
		c.EnableMetrics = false
	}

	if formats := os.Getenv("SPACEX_EXPORT_FORMATS"); formats != "" {
		c.ExportFormats = splitList(formats)
	}
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	// Map config to viper
	v.Set("project_name", c.ProjectName)
	v.Set("log_level", c.LogLevel)
	v.Set("dataset_url", c.DatasetURL)
	v.Set("fetch_timeout", c.FetchTimeout.String())
	v.Set("host", c.Host)
	v.Set("port", c.Port)
	v.Set("data_dir", c.DataDir)
	v.Set("enable_history", c.EnableHistory)
	v.Set("history_retention_days", c.HistoryRetentionDays)
	v.Set("enable_metrics", c.EnableMetrics)
	v.Set("output_dir", c.OutputDir)
	v.Set("export_formats", c.ExportFormats)
	v.Set("max_concurrent_render", c.MaxConcurrentRender)

	return v.WriteConfig()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatasetURL == "" {
		return fmt.Errorf("dataset_url must not be empty")
	}
	u, err := url.ParseRequestURI(c.DatasetURL)
	if err != nil {
		return fmt.Errorf("dataset_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("dataset_url must use http or https, got %q", u.Scheme)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.HistoryRetentionDays < 0 {
		return fmt.Errorf("history_retention_days must not be negative, got %d", c.HistoryRetentionDays)
	}
	if c.MaxConcurrentRender < 1 {
		return fmt.Errorf("max_concurrent_render must be at least 1, got %d", c.MaxConcurrentRender)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getProjectName tries to get project name from current directory
func getProjectName() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "spacex-dashboard"
	}
	return filepath.Base(cwd)
}
