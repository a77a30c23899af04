// Package config loads and persists the whyrunning tool configuration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all tool configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Fetch  FetchConfig  `mapstructure:"fetch" yaml:"fetch"`
	Report ReportConfig `mapstructure:"report" yaml:"report"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig configures the debug endpoint server.
type ServerConfig struct {
	Host        string   `mapstructure:"host" yaml:"host"`
	Port        int      `mapstructure:"port" yaml:"port"`
	EnableCORS  bool     `mapstructure:"enable_cors" yaml:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Addr returns the host:port the server binds.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// FetchConfig configures where fetch finds a running process's debug
// endpoint.
type FetchConfig struct {
	Addr    string        `mapstructure:"addr" yaml:"addr"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// MarshalYAML writes the timeout in "5s" form rather than nanoseconds.
func (c FetchConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Addr    string `yaml:"addr"`
		Timeout string `yaml:"timeout"`
	}{Addr: c.Addr, Timeout: c.Timeout.String()}, nil
}

// ReportConfig configures report rendering.
type ReportConfig struct {
	// WorkDir overrides the directory file paths are shown relative
	// to. Empty means the process's working directory.
	WorkDir string `mapstructure:"work_dir" yaml:"work_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        6060,
			EnableCORS:  false,
			CORSOrigins: []string{"*"},
		},
		Fetch: FetchConfig{
			Addr:    "http://127.0.0.1:6060",
			Timeout: 5 * time.Second,
		},
	}
}

// ValidationError describes one rejected configuration value.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"auto": true, "text": true, "json": true}
)

// Validate checks the configuration and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, ValidationError{"log.level", c.Log.Level, "must be debug, info, warn, or error"})
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, ValidationError{"log.format", c.Log.Format, "must be auto, text, or json"})
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{"server.port", c.Server.Port, "must be between 0 and 65535"})
	}
	if c.Fetch.Addr == "" {
		errs = append(errs, ValidationError{"fetch.addr", c.Fetch.Addr, "must not be empty"})
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, ValidationError{"fetch.timeout", c.Fetch.Timeout, "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
