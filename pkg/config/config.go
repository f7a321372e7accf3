package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is used when PORT is unset or not a usable port number
	DefaultPort = 3000

	// EnvPort is the environment variable holding the listen port
	EnvPort = "PORT"

	EnvLogLevel  = "PIPELINE_APP_LOG_LEVEL"
	EnvLogFormat = "PIPELINE_APP_LOG_FORMAT"
)

// Config represents the server configuration
type Config struct {
	// Port to listen on (1-65535)
	Port int `yaml:"port"`

	// Host to bind; empty means all interfaces
	Host string `yaml:"host,omitempty"`

	// LogLevel: debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// LogFormat: text or json
	LogFormat string `yaml:"log_format"`

	// OpenBrowser opens the served URL locally once the listener is up
	OpenBrowser bool `yaml:"open_browser,omitempty"`

	// PIDFile is written after bind and removed on shutdown
	PIDFile string `yaml:"pid_file,omitempty"`

	// Systemd enables sd_notify readiness messages
	Systemd bool `yaml:"systemd,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Port:      DefaultPort,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultPath returns the config file location searched when none is given
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pipeline-app", "config.yaml"), nil
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment. A PORT value that is
// not a port number is skipped and returned as ignored so the caller can
// warn about it; the previously configured port stays in effect.
func (c *Config) ApplyEnv(getenv func(string) string) (ignored string) {
	if raw := strings.TrimSpace(getenv(EnvPort)); raw != "" {
		if port, ok := ParsePort(raw); ok {
			c.Port = port
		} else {
			ignored = raw
		}
	}

	if level := getenv(EnvLogLevel); level != "" {
		c.LogLevel = strings.ToLower(level)
	}
	if format := getenv(EnvLogFormat); format != "" {
		c.LogFormat = strings.ToLower(format)
	}

	return ignored
}

// ParsePort reports whether s is a decimal TCP port in 1..65535
func ParsePort(s string) (int, bool) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, false
	}
	return port, true
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.LogFormat)
	}

	if c.PIDFile != "" {
		expanded, err := homedir.Expand(c.PIDFile)
		if err != nil {
			return fmt.Errorf("failed to expand pid file path: %w", err)
		}
		c.PIDFile = expanded
	}

	return nil
}

// Addr returns the host:port listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
