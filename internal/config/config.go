// Package config loads the application configuration from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Airspace AirspaceConfig `toml:"airspace"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Host                string   `toml:"host"`
	Port                int      `toml:"port"`
	CORSAllowedOrigins  []string `toml:"cors_allowed_origins"`
	ReadTimeoutSecs     int      `toml:"read_timeout_secs"`
	WriteTimeoutSecs    int      `toml:"write_timeout_secs"`
	ShutdownTimeoutSecs int      `toml:"shutdown_timeout_secs"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AirspaceConfig holds the airspace data settings
type AirspaceConfig struct {
	DefaultFile       string   `toml:"default_file"`
	UploadDir         string   `toml:"upload_dir"`
	MaxUploadSizeMB   int      `toml:"max_upload_size_mb"`
	AllowedExtensions []string `toml:"allowed_extensions"`
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c AirspaceConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

// AllowedFile reports whether the filename carries one of the allowed
// upload extensions.
func (c AirspaceConfig) AllowedFile(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// LoggingConfig holds the logging settings
type LoggingConfig struct {
	Level          string `toml:"level"`
	Format         string `toml:"format"`
	File           string `toml:"file"`
	FileMaxSizeMB  int    `toml:"file_max_size_mb"`
	FileMaxBackups int    `toml:"file_max_backups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			CORSAllowedOrigins:  []string{"*"},
			ReadTimeoutSecs:     30,
			WriteTimeoutSecs:    30,
			ShutdownTimeoutSecs: 10,
		},
		Airspace: AirspaceConfig{
			DefaultFile:       "examples/switzerland.txt",
			UploadDir:         os.TempDir(),
			MaxUploadSizeMB:   16,
			AllowedExtensions: []string{"txt", "air", "openair"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile loads the configuration from a TOML file. Settings the
// file leaves out keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return cfg, nil
}
