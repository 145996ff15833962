// Package config loads application settings from file, environment and flags
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FILE2PDF_SERVER_PORT
const EnvPrefix = "FILE2PDF"

// Config holds all settings
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Output OutputConfig `mapstructure:"output"`
	Office OfficeConfig `mapstructure:"office"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
}

// OutputConfig configures where the API stores saved PDFs
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// OfficeConfig configures the external document converter
type OfficeConfig struct {
	Binary  string        `mapstructure:"binary"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig configures logging
type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_bytes", 16<<20)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("output.dir", "./output")
	v.SetDefault("office.binary", "soffice")
	v.SetDefault("office.timeout", 2*time.Minute)
	v.SetDefault("log.debug", false)
}

// Setup points v at the config file and environment. An empty cfgFile
// searches ./file2pdf.yaml and ~/.config/file2pdf/file2pdf.yaml.
func Setup(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("file2pdf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "file2pdf"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// Load reads the config file (a missing file is not an error), applies
// defaults and validates the result
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate implements validation.Validatable
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Office),
	)
}

// Validate implements validation.Validatable
func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(1)),
		validation.Field(&c.CORSOrigins, validation.Each(validation.Required)),
	)
}

// Validate implements validation.Validatable
func (c OfficeConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Binary, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}
