// File: internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL       = "http://localhost:3000"
	DefaultTimeout       = 30 * time.Second
	DefaultWatchInterval = 2 * time.Second
	DefaultLogLevel      = "warn"
	DefaultMaxEntries    = 10000

	configFileName = "config.yaml"
	dbFileName     = "agenttext.db"
)

// ConfigPaths holds all relevant paths for the application
type ConfigPaths struct {
	BaseDir    string `json:"base_dir" yaml:"base_dir"`       // Directory holding the config file
	ConfigFile string `json:"config_file" yaml:"config_file"` // Path to the config file
	DataDir    string `json:"data_dir" yaml:"data_dir"`       // Directory for application data
	DBFile     string `json:"db_file" yaml:"db_file"`         // Path to the watch journal
	LogDir     string `json:"log_dir" yaml:"log_dir"`         // Directory for log files
}

// Config holds all application configuration
type Config struct {
	// API server
	BaseURL   string        `json:"base_url" yaml:"base_url"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	UserAgent string        `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`

	// Output formatting
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging configuration
	Log LogConfig `json:"log" yaml:"log"`

	// Watch loop
	Watch WatchConfig `json:"watch" yaml:"watch"`

	// Storage configuration
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Resolved at load time, never persisted
	SystemPaths ConfigPaths `json:"-" yaml:"-"`
}

// OutputConfig holds envelope formatting options
type OutputConfig struct {
	Pretty bool `json:"pretty" yaml:"pretty"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// WatchConfig holds options for the long-running watch command
type WatchConfig struct {
	Interval   time.Duration `json:"interval" yaml:"interval"`
	Journal    bool          `json:"journal" yaml:"journal"`
	MaxEntries int           `json:"max_entries" yaml:"max_entries"`
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// GetConfigPaths returns the platform-specific configuration paths.
// Nothing is created on disk.
func GetConfigPaths() (*ConfigPaths, error) {
	baseDir := os.Getenv("AGENTTEXT_CONFIG_DIR")
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			baseDir = filepath.Join(configDir, "AgentText")
		case "darwin":
			baseDir = filepath.Join(configDir, "com.berrythewa.agenttext")
		default: // Linux and others
			baseDir = filepath.Join(configDir, "agenttext")
		}
	}

	dataDir := os.Getenv("AGENTTEXT_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			dataDir = filepath.Join(baseDir, "Data")
		case "darwin":
			dataDir = filepath.Join(homeDir, "Library", "Application Support", "AgentText")
		default: // Linux and others
			if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
				dataDir = filepath.Join(xdgDataHome, "agenttext")
			} else {
				dataDir = filepath.Join(homeDir, ".agenttext")
			}
		}
	}

	return &ConfigPaths{
		BaseDir:    baseDir,
		ConfigFile: filepath.Join(baseDir, configFileName),
		DataDir:    dataDir,
		DBFile:     filepath.Join(dataDir, dbFileName),
		LogDir:     filepath.Join(dataDir, "logs"),
	}, nil
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	paths, err := GetConfigPaths()
	if err != nil {
		// No home directory; keep everything relative to the working directory.
		paths = &ConfigPaths{
			BaseDir:    ".",
			ConfigFile: configFileName,
			DataDir:    ".",
			DBFile:     dbFileName,
			LogDir:     "logs",
		}
	}

	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Watch: WatchConfig{
			Interval:   DefaultWatchInterval,
			Journal:    true,
			MaxEntries: DefaultMaxEntries,
		},
		Storage: StorageConfig{
			DBPath: paths.DBFile,
		},
		SystemPaths: *paths,
	}
}

// Load reads configuration from configPath, or from the default location
// when configPath is empty. A missing default file is not an error; a missing
// explicit file is. A .env file in the working directory is loaded first and
// environment variables override file values.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	explicit := configPath != ""
	if !explicit {
		configPath = cfg.SystemPaths.ConfigFile
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// Defaults only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg.SystemPaths.ConfigFile = configPath

	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks values a command cannot work without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: want http(s)://host[:port]", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", c.Timeout)
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("invalid watch interval %s: must be positive", c.Watch.Interval)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: want debug, info, warn or error", c.Log.Level)
	}
	return nil
}

// loadDotEnv loads KEY=value pairs without overriding variables that are
// already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// overrideFromEnv overrides configuration values from environment variables
func overrideFromEnv(config *Config) error {
	if val := os.Getenv("AGENTTEXT_BASE_URL"); val != "" {
		config.BaseURL = val
	}
	if val := os.Getenv("AGENTTEXT_TIMEOUT"); val != "" {
		d, err := parseDuration(val)
		if err != nil {
			return fmt.Errorf("AGENTTEXT_TIMEOUT: %w", err)
		}
		config.Timeout = d
	}
	if val := os.Getenv("AGENTTEXT_LOG_LEVEL"); val != "" {
		config.Log.Level = val
	}
	if val := os.Getenv("AGENTTEXT_DATA_DIR"); val != "" {
		config.SystemPaths.DataDir = val
		config.SystemPaths.DBFile = filepath.Join(val, dbFileName)
		config.SystemPaths.LogDir = filepath.Join(val, "logs")
		config.Storage.DBPath = config.SystemPaths.DBFile
	}
	if val := os.Getenv("AGENTTEXT_WATCH_INTERVAL"); val != "" {
		d, err := parseDuration(val)
		if err != nil {
			return fmt.Errorf("AGENTTEXT_WATCH_INTERVAL: %w", err)
		}
		config.Watch.Interval = d
	}
	return nil
}

// parseDuration accepts Go durations ("30s") and bare seconds ("30").
func parseDuration(val string) (time.Duration, error) {
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(val)
}
