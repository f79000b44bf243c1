// Package config provides configuration management for the agrochat client.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/tidwall/sjson"
)

const appName = "agrochat"

// Defaults applied to fields left empty by every config source.
const (
	DefaultBaseURL           = "http://localhost:8080"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultConversationLimit = 10
	DefaultLogLevel          = "info"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration that reads and writes as "30s" in JSON. Bare
// numbers are taken as seconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var secs float64
		if err := json.Unmarshal(data, &secs); err != nil {
			return fmt.Errorf("duration must be a string or a number: %w", err)
		}
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the top-level configuration structure.
//
//nolint:govet // Field order is intentional for JSON readability.
type Config struct {
	BaseURL           string   `json:"base_url,omitempty"`
	UserID            string   `json:"user_id,omitempty"`
	RequestTimeout    Duration `json:"request_timeout,omitempty"`
	ConversationLimit int      `json:"conversation_limit,omitempty"`
	Options           *Options `json:"options,omitempty"`
}

// Options holds optional configuration settings.
//
//nolint:govet // Field order is intentional for JSON readability.
type Options struct {
	DataDir     string `json:"data_directory,omitempty"`
	LogLevel    string `json:"log_level,omitempty"`
	MetricsAddr string `json:"metrics_addr,omitempty"`
	Debug       bool   `json:"debug,omitempty"`
}

// NewConfig creates a new Config with initialized options.
func NewConfig() *Config {
	return &Config{Options: &Options{}}
}

// Validate reports the first field that cannot be used to talk to the backend.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base_url: %w", ErrInvalid, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: base_url %q must be http or https", ErrInvalid, c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalid)
	}
	if c.ConversationLimit <= 0 {
		return fmt.Errorf("%w: conversation_limit must be positive", ErrInvalid)
	}
	return nil
}

// DataDir returns the data directory path from configuration.
func (c *Config) DataDir() string {
	if c.Options != nil && c.Options.DataDir != "" {
		return c.Options.DataDir
	}
	return filepath.Join(xdg.DataHome, appName)
}

// DebugLogPath is where the debug log goes when debugging is enabled.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.DataDir(), "debug.log")
}

// GlobalConfigPath returns the path to the global configuration file.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// SetConfigField updates a single field in the global config file using JSON
// path notation. Only the named field is touched.
func (c *Config) SetConfigField(key string, value any) error {
	return setConfigField(GlobalConfigPath(), key, value)
}

func setConfigField(path, key string, value any) error {
	//nolint:gosec // G304: path is the trusted global config location.
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading config file: %w", err)
		}
		data = []byte("{}")
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	newData, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("setting config field %q: %w", key, err)
	}

	//nolint:gosec // 0o600 is intentionally restrictive.
	if err := os.WriteFile(path, []byte(newData), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fieldKinds lists the keys SetConfigField accepts from the command line.
var fieldKinds = map[string]string{
	"base_url":               "string",
	"user_id":                "string",
	"request_timeout":        "duration",
	"conversation_limit":     "int",
	"options.debug":          "bool",
	"options.log_level":      "string",
	"options.data_directory": "string",
	"options.metrics_addr":   "string",
}

// Keys returns the settable config keys.
func Keys() []string {
	keys := make([]string, 0, len(fieldKinds))
	for k := range fieldKinds {
		keys = append(keys, k)
	}
	return keys
}

// ParseFieldValue converts a raw command-line value to the JSON type stored
// under key.
func ParseFieldValue(key, raw string) (any, error) {
	kind, ok := fieldKinds[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, key)
	}
	switch kind {
	case "int":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
		}
		return n, nil
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
		}
		return b, nil
	case "duration":
		if _, err := time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
		}
		return raw, nil
	default:
		return raw, nil
	}
}
