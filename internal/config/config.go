package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Browse  BrowseConfig  `json:"browse"`
	Prefs   PrefsConfig   `json:"prefs"`
	UI      UIConfig      `json:"ui"`
}

// GatewayConfig locates and throttles the search gateway
type GatewayConfig struct {
	BaseURL        string  `json:"base_url"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	RequestsPerSec float64 `json:"requests_per_sec"` // 0 disables client-side limiting
}

// BrowseConfig holds paging and typeahead settings
type BrowseConfig struct {
	PageSize   int `json:"page_size"`
	DebounceMs int `json:"quick_debounce_ms"` // trailing-edge delay before a typeahead request
	QuickLimit int `json:"quick_limit"`
}

// PrefsConfig selects where sort and view preferences are kept
type PrefsConfig struct {
	Backend     string `json:"backend"` // "sqlite" or "redis"
	Path        string `json:"path,omitempty"`
	RedisAddr   string `json:"redis_addr,omitempty"`
	RedisDB     int    `json:"redis_db,omitempty"`
	RedisPrefix string `json:"redis_prefix,omitempty"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	DefaultView string `json:"default_view"` // "list" or "grid"
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			BaseURL:        "http://localhost:8787",
			TimeoutSeconds: 10,
			RequestsPerSec: 10,
		},
		Browse: BrowseConfig{
			PageSize:   50,
			DebounceMs: 300,
			QuickLimit: 8,
		},
		Prefs: PrefsConfig{
			Backend:     "sqlite",
			Path:        filepath.Join(Dir(), "prefs.db"),
			RedisAddr:   "localhost:6379",
			RedisPrefix: "arcade:prefs:",
		},
		UI: UIConfig{
			DefaultView: "list",
		},
	}
}

// Dir returns the arcade state directory (~/.arcade)
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".arcade")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads config from the default path, or returns defaults
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. A missing file yields defaults. Fields
// absent from the file keep their default values. Environment overrides
// are applied last.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			cfg = DefaultConfig()
		}
	}

	cfg.AutoPopulateFromEnv()
	cfg.normalize()
	return cfg, nil
}

// Save writes config to the default path
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// AutoPopulateFromEnv applies ARCADE_* environment overrides
func (c *Config) AutoPopulateFromEnv() {
	if v := os.Getenv("ARCADE_GATEWAY_URL"); v != "" {
		c.Gateway.BaseURL = v
	}
	if v := os.Getenv("ARCADE_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Browse.PageSize = n
		}
	}
	if v := os.Getenv("ARCADE_REDIS_ADDR"); v != "" {
		c.Prefs.RedisAddr = v
		c.Prefs.Backend = "redis"
	}
}

// Timeout returns the gateway request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Gateway.TimeoutSeconds) * time.Second
}

// Debounce returns the typeahead debounce delay
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Browse.DebounceMs) * time.Millisecond
}

// normalize replaces out-of-range values with defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = def.Gateway.BaseURL
	}
	if c.Gateway.TimeoutSeconds <= 0 {
		c.Gateway.TimeoutSeconds = def.Gateway.TimeoutSeconds
	}
	if c.Browse.PageSize <= 0 || c.Browse.PageSize > 200 {
		c.Browse.PageSize = def.Browse.PageSize
	}
	if c.Browse.DebounceMs <= 0 {
		c.Browse.DebounceMs = def.Browse.DebounceMs
	}
	if c.Browse.QuickLimit <= 0 {
		c.Browse.QuickLimit = def.Browse.QuickLimit
	}
	if c.Prefs.Backend != "redis" {
		c.Prefs.Backend = "sqlite"
	}
	if c.Prefs.Path == "" {
		c.Prefs.Path = def.Prefs.Path
	}
	if c.UI.DefaultView != "grid" {
		c.UI.DefaultView = "list"
	}
}
