package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Catalog
	CatalogPath        string            `yaml:"catalog_path"` // empty means <data dir>/catalog.yaml
	LoadPolicy         string            `yaml:"load_policy"`  // strict | skip
	KnownManufacturers []string          `yaml:"known_manufacturers"`
	DefaultWebsite     string            `yaml:"default_website"`
	ManufacturerSites  map[string]string `yaml:"manufacturer_websites"`

	// Browsing
	ValidOnly          bool `yaml:"valid_only"`
	ExpiryHorizonDays  int  `yaml:"expiry_horizon_days"`
	MaxSearchResults   int  `yaml:"max_search_results"`
	SyntaxHighlighting bool `yaml:"syntax_highlighting"`

	// Notifications
	NotifyEndpoint       string `yaml:"notify_endpoint"`  // empty means write to the outbox
	NotifyTokenEnv       string `yaml:"notify_token_env"` // name of the env var holding the bearer token
	NotifyTimeoutSeconds int    `yaml:"notify_timeout_seconds"`
	NotifyMaxRetries     int    `yaml:"notify_max_retries"`
	RequesterEmail       string `yaml:"requester_email"`
	RequesterName        string `yaml:"requester_name"`

	// Server
	ServeAddr       string `yaml:"serve_addr"`
	WatchDebounceMS int    `yaml:"watch_debounce_ms"`

	// UI
	ColorTheme string `yaml:"color_theme"`
	LogMode    string `yaml:"log_mode"`
}

const (
	defaultWebsite     = "https://example.com"
	defaultServeAddr   = "127.0.0.1:8080"
	defaultTokenEnv    = "DATAWORLD_NOTIFY_TOKEN"
	defaultLoadPolicy  = "strict"
	defaultColorTheme  = "auto"
	defaultLogMode     = "quiet"
	defaultHorizonDays = 90
)

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		CatalogPath:          "",
		LoadPolicy:           defaultLoadPolicy,
		KnownManufacturers:   []string{},
		DefaultWebsite:       defaultWebsite,
		ManufacturerSites:    make(map[string]string),
		ValidOnly:            true,
		ExpiryHorizonDays:    defaultHorizonDays,
		MaxSearchResults:     50,
		SyntaxHighlighting:   true,
		NotifyEndpoint:       "",
		NotifyTokenEnv:       defaultTokenEnv,
		NotifyTimeoutSeconds: 15,
		NotifyMaxRetries:     3,
		ServeAddr:            defaultServeAddr,
		WatchDebounceMS:      500,
		ColorTheme:           defaultColorTheme,
		LogMode:              defaultLogMode,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills blank essential values
func (c *Config) applyDefaults() {
	if c.ManufacturerSites == nil {
		c.ManufacturerSites = make(map[string]string)
	}
	if c.KnownManufacturers == nil {
		c.KnownManufacturers = []string{}
	}
	if c.LoadPolicy == "" {
		c.LoadPolicy = defaultLoadPolicy
	}
	if c.DefaultWebsite == "" {
		c.DefaultWebsite = defaultWebsite
	}
	if c.ExpiryHorizonDays <= 0 {
		c.ExpiryHorizonDays = defaultHorizonDays
	}
	if c.MaxSearchResults <= 0 {
		c.MaxSearchResults = 50
	}
	if c.NotifyTokenEnv == "" {
		c.NotifyTokenEnv = defaultTokenEnv
	}
	if c.NotifyTimeoutSeconds <= 0 {
		c.NotifyTimeoutSeconds = 15
	}
	if c.NotifyMaxRetries < 0 {
		c.NotifyMaxRetries = 0
	}
	if c.ServeAddr == "" {
		c.ServeAddr = defaultServeAddr
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = 500
	}
	if c.ColorTheme == "" {
		c.ColorTheme = defaultColorTheme
	}
	if c.LogMode == "" {
		c.LogMode = defaultLogMode
	}
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch strings.ToLower(c.LoadPolicy) {
	case "strict", "skip":
	default:
		return fmt.Errorf("invalid load_policy %q (want strict or skip)", c.LoadPolicy)
	}
	switch c.ColorTheme {
	case "auto", "dark", "light", "none":
	default:
		return fmt.Errorf("invalid color_theme %q", c.ColorTheme)
	}
	if c.NotifyEndpoint != "" &&
		!strings.HasPrefix(c.NotifyEndpoint, "http://") &&
		!strings.HasPrefix(c.NotifyEndpoint, "https://") {
		return fmt.Errorf("notify_endpoint must be an http(s) URL, got %q", c.NotifyEndpoint)
	}
	return nil
}

// NotifyToken reads the bearer token from the configured environment variable
func (c *Config) NotifyToken() string {
	return strings.TrimSpace(os.Getenv(c.NotifyTokenEnv))
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
