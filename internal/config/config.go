package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Config represents the application configuration.
type Config struct {
	ListenAddr   string   `json:"listen_addr"`
	AllowOrigins []string `json:"allow_origins"`
	ImageDir     string   `json:"image_dir"`

	GeminiAPIKey string `json:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model"`
	DatabaseURL  string `json:"DATABASE_URL"`

	ImageGenURL    string `json:"imagegen_url"`
	ImageGenAPIKey string `json:"imagegen_api_key"`
	ImageGenModel  string `json:"imagegen_model"`

	// Used only when an export request does not name its own target.
	TandoorURL    string `json:"tandoor_url"`
	TandoorAPIKey string `json:"tandoor_api_key"`
}

var envOverrides = []struct {
	key string
	dst func(*Config) *string
}{
	{"LISTEN_ADDR", func(c *Config) *string { return &c.ListenAddr }},
	{"IMAGE_DIR", func(c *Config) *string { return &c.ImageDir }},
	{"GEMINI_API_KEY", func(c *Config) *string { return &c.GeminiAPIKey }},
	{"GEMINI_MODEL", func(c *Config) *string { return &c.GeminiModel }},
	{"DATABASE_URL", func(c *Config) *string { return &c.DatabaseURL }},
	{"IMAGEGEN_URL", func(c *Config) *string { return &c.ImageGenURL }},
	{"IMAGEGEN_API_KEY", func(c *Config) *string { return &c.ImageGenAPIKey }},
	{"IMAGEGEN_MODEL", func(c *Config) *string { return &c.ImageGenModel }},
	{"TANDOOR_URL", func(c *Config) *string { return &c.TandoorURL }},
	{"TANDOOR_API_KEY", func(c *Config) *string { return &c.TandoorAPIKey }},
}

// Load reads the JSON file at path, applies environment overrides and fills
// defaults. A missing file is not an error; settings may come from the
// environment alone.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, o := range envOverrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst(&cfg) = v
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"http://localhost:8081"}
	}
	if c.ImageDir == "" {
		c.ImageDir = "images"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-1.5-flash"
	}
}

// Validate checks that the settings the service cannot run without are present.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("gemini_api_key is not set (config file or GEMINI_API_KEY)")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set (config file or DATABASE_URL)")
	}
	return nil
}
