package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const configFileName = "agrochat.json"

// Environment overrides, applied after every file.
const (
	envBaseURL           = "AGROCHAT_BASE_URL"
	envUserID            = "AGROCHAT_USER_ID"
	envRequestTimeout    = "AGROCHAT_REQUEST_TIMEOUT"
	envConversationLimit = "AGROCHAT_CONVERSATION_LIMIT"
	envDebug             = "AGROCHAT_DEBUG"
	envLogLevel          = "AGROCHAT_LOG_LEVEL"
	envDataDir           = "AGROCHAT_DATA_DIR"
	envMetricsAddr       = "AGROCHAT_METRICS_ADDR"
)

// Load finds and loads configuration from standard locations.
// The global config is merged with the nearest project config (project takes
// precedence), then environment overrides and defaults are applied.
func Load() (*Config, error) {
	cfg := NewConfig()
	if err := loadFile(GlobalConfigPath(), cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	if cwd, err := os.Getwd(); err == nil {
		if projectPath := findProjectConfig(cwd); projectPath != "" {
			projectCfg := NewConfig()
			if err := loadFile(projectPath, projectCfg); err != nil {
				return nil, fmt.Errorf("loading project config: %w", err)
			}
			mergeConfig(cfg, projectCfg)
		}
	}

	return finish(cfg)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := loadFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	applyEnv(cfg)
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	//nolint:gosec // G304: Path is from trusted config locations, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// findProjectConfig walks up from dir looking for agrochat.json or its hidden
// variant.
func findProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		hiddenPath := filepath.Join(dir, "."+configFileName)
		if _, err := os.Stat(hiddenPath); err == nil {
			return hiddenPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func mergeConfig(dst, src *Config) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.UserID != "" {
		dst.UserID = src.UserID
	}
	if src.RequestTimeout != 0 {
		dst.RequestTimeout = src.RequestTimeout
	}
	if src.ConversationLimit != 0 {
		dst.ConversationLimit = src.ConversationLimit
	}

	if src.Options != nil {
		if dst.Options == nil {
			dst.Options = &Options{}
		}
		if src.Options.DataDir != "" {
			dst.Options.DataDir = src.Options.DataDir
		}
		if src.Options.LogLevel != "" {
			dst.Options.LogLevel = src.Options.LogLevel
		}
		if src.Options.MetricsAddr != "" {
			dst.Options.MetricsAddr = src.Options.MetricsAddr
		}
		if src.Options.Debug {
			dst.Options.Debug = true
		}
	}
}

func applyEnv(cfg *Config) {
	if cfg.Options == nil {
		cfg.Options = &Options{}
	}
	cfg.BaseURL = getEnv(envBaseURL, cfg.BaseURL)
	cfg.UserID = getEnv(envUserID, cfg.UserID)
	cfg.RequestTimeout = Duration(getDurationEnv(envRequestTimeout, cfg.RequestTimeout.Std()))
	cfg.ConversationLimit = getIntEnv(envConversationLimit, cfg.ConversationLimit)
	cfg.Options.Debug = getBoolEnv(envDebug, cfg.Options.Debug)
	cfg.Options.LogLevel = getEnv(envLogLevel, cfg.Options.LogLevel)
	cfg.Options.DataDir = getEnv(envDataDir, cfg.Options.DataDir)
	cfg.Options.MetricsAddr = getEnv(envMetricsAddr, cfg.Options.MetricsAddr)
}

func applyDefaults(cfg *Config) {
	if cfg.Options == nil {
		cfg.Options = &Options{}
	}
	cfg.BaseURL = os.ExpandEnv(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = Duration(DefaultRequestTimeout)
	}
	if cfg.ConversationLimit == 0 {
		cfg.ConversationLimit = DefaultConversationLimit
	}
	if cfg.Options.LogLevel == "" {
		cfg.Options.LogLevel = DefaultLogLevel
	}
	if cfg.Options.DataDir == "" {
		cfg.Options.DataDir = cfg.DataDir()
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
