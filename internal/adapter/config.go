package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "INSTRUMENTA"

// Config holds all application configuration
type Config struct {
	API      APIConfig     `mapstructure:"api"`
	App      AppConfig     `mapstructure:"app"`
	Map      MapConfig     `mapstructure:"map"`
	DevTools bool          `mapstructure:"dev_tools"` // Show the cache inspector
	Debug    bool          `mapstructure:"debug"`     // Log every request, force DEBUG level
	Cache    CacheConfig   `mapstructure:"cache"`
	Logging  LoggingConfig `mapstructure:"logging"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
}

// APIConfig holds the knowledge-base API endpoint
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AppConfig holds display metadata
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// MapConfig is the default center of geographic searches
type MapConfig struct {
	CenterLat float64 `mapstructure:"center_lat"`
	CenterLng float64 `mapstructure:"center_lng"`
	Zoom      int     `mapstructure:"zoom"`
}

// CacheConfig holds query cache configuration
type CacheConfig struct {
	Dir    string        `mapstructure:"dir"` // Empty keeps the cache in memory only
	GCTime time.Duration `mapstructure:"gc_time"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// MetricsConfig holds the prometheus listener address; empty disables it
type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

// legacyEnv maps config keys to the variable names of the web front-end,
// which are still honored.
var legacyEnv = map[string]string{
	"api.base_url":   "VITE_API_BASE_URL",
	"app.name":       "VITE_APP_NAME",
	"app.version":    "VITE_APP_VERSION",
	"map.center_lat": "VITE_MAP_DEFAULT_CENTER_LAT",
	"map.center_lng": "VITE_MAP_DEFAULT_CENTER_LNG",
	"map.zoom":       "VITE_MAP_DEFAULT_ZOOM",
	"dev_tools":      "VITE_ENABLE_DEV_TOOLS",
	"debug":          "VITE_DEBUG_MODE",
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:3001/api",
			Timeout: 10 * time.Second,
		},
		App: AppConfig{
			Name:    "Instrumenta",
			Version: "dev",
		},
		Map: MapConfig{
			CenterLat: 14.6928,
			CenterLng: -17.4467,
			Zoom:      6,
		},
		Cache: CacheConfig{
			Dir:    defaultCachePath(),
			GCTime: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "instrumenta", "instrumenta.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "instrumenta", "instrumenta.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "instrumenta")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "instrumenta")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "instrumenta", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "instrumenta", "cache")
	}
}

// newViper builds a viper instance seeded with defaults and env bindings.
func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout", defaults.API.Timeout)
	v.SetDefault("app.name", defaults.App.Name)
	v.SetDefault("app.version", defaults.App.Version)
	v.SetDefault("map.center_lat", defaults.Map.CenterLat)
	v.SetDefault("map.center_lng", defaults.Map.CenterLng)
	v.SetDefault("map.zoom", defaults.Map.Zoom)
	v.SetDefault("dev_tools", defaults.DevTools)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("cache.dir", defaults.Cache.Dir)
	v.SetDefault("cache.gc_time", defaults.Cache.GCTime)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("metrics.listen", defaults.Metrics.Listen)

	// Environment variable overrides: INSTRUMENTA_API_BASE_URL, ...
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		// The prefixed name wins when both are set.
		v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), legacy)
	}
	return v
}

// LoadConfig loads configuration from file and environment. An empty path
// searches the default config directory and the working directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Cache.GCTime <= 0 {
		return fmt.Errorf("cache.gc_time must be positive, got %s", c.Cache.GCTime)
	}
	return nil
}

// SaveConfig writes cfg as YAML to path, or to the default location when
// path is empty. It returns the file written.
func SaveConfig(cfg *Config, path string) (string, error) {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("app.name", cfg.App.Name)
	v.Set("app.version", cfg.App.Version)
	v.Set("map.center_lat", cfg.Map.CenterLat)
	v.Set("map.center_lng", cfg.Map.CenterLng)
	v.Set("map.zoom", cfg.Map.Zoom)
	v.Set("dev_tools", cfg.DevTools)
	v.Set("debug", cfg.Debug)
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.gc_time", cfg.Cache.GCTime.String())
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("metrics.listen", cfg.Metrics.Listen)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// ClearCache removes all persisted query results under dir
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
