package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingAPIKey  = errors.New("alpha vantage api key not configured")
	ErrMissingBaseURL = errors.New("alpha vantage base url not configured")
)

type Config struct {
	ProjectDir string `json:"project_dir" yaml:"project_dir"`
	ResultsDir string `json:"results_dir" yaml:"results_dir"`

	// Alpha Vantage API configuration
	APIKey         string        `json:"api_key" yaml:"api_key"`
	BaseURL        string        `json:"base_url" yaml:"base_url"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`

	// Fixture served in place of the API response when the daily quota is exhausted
	FallbackFile   string `json:"fallback_file" yaml:"fallback_file"`
	FallbackSymbol string `json:"fallback_symbol" yaml:"fallback_symbol"`

	OpenCharts bool `json:"open_charts" yaml:"open_charts"`
	Debug      bool `json:"debug" yaml:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir: currentDir,
		ResultsDir: filepath.Join(currentDir, "results"),

		BaseURL: "https://www.alphavantage.co",

		FallbackFile:   filepath.Join(currentDir, "mocks", "ibm_data.json"),
		FallbackSymbol: "IBM",

		OpenCharts: true,
		Debug:      false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}

	// API_KEY is the name used by older .env files
	if val := os.Getenv("API_KEY"); val != "" {
		c.APIKey = val
	}
	if val := os.Getenv("ALPHAVANTAGE_API_KEY"); val != "" {
		c.APIKey = val
	}
	if val := os.Getenv("ALPHAVANTAGE_BASE_URL"); val != "" {
		c.BaseURL = val
	}
	if val := os.Getenv("REQUEST_TIMEOUT_SEC"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v >= 0 {
			c.RequestTimeout = time.Duration(v) * time.Second
		}
	}

	if val := os.Getenv("FALLBACK_FILE"); val != "" {
		c.FallbackFile = val
	}
	if val := os.Getenv("FALLBACK_SYMBOL"); val != "" {
		c.FallbackSymbol = strings.ToUpper(val)
	}

	if val := os.Getenv("OPEN_CHARTS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.OpenCharts = enabled
		}
	}
	if val := os.Getenv("STOCKANALYZER_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.FallbackSymbol = strings.ToUpper(c.FallbackSymbol)
	return nil
}

// Validate checks the settings every analysis run needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if strings.TrimSpace(c.FallbackSymbol) == "" {
		return fmt.Errorf("fallback symbol must not be empty")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ResultsDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
