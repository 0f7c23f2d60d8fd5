// Package config handles loading and parsing application configuration.
// The config file path comes from (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. The --config command-line flag
//
// Every field can also be overridden by its env:"..." variable.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

// Config is the root configuration structure.
//
// env-required:"true" means the app refuses to start if that value is
// missing. validate:"..." rules are checked after parsing.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-required:"true" validate:"oneof=dev staging prod"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true" validate:"required"`

	HTTPServer `yaml:"http_server"`

	Log Log `yaml:"log"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8080".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true" validate:"hostname_port"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s" validate:"gt=0"`
}

// Log configures optional file output next to stdout.
type Log struct {
	// File enables rotated file logging when non-empty.
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"100" validate:"gt=0"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"3" validate:"gte=0"`
}

// Load reads the YAML file at path, applies env overrides, and validates
// the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, errors.Wrap(err, "cannot read config")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the validate:"..." rules on cfg and turns every failing
// field into one readable message.
func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate config")
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		switch e.ActualTag() {
		case "required":
			messages = append(messages, fmt.Sprintf("field %s is required", e.Namespace()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("field %s must be one of [%s]", e.Namespace(), e.Param()))
		case "hostname_port":
			messages = append(messages, fmt.Sprintf("field %s must be a host:port address", e.Namespace()))
		default:
			messages = append(messages, fmt.Sprintf("field %s is invalid", e.Namespace()))
		}
	}

	return errors.New("invalid config: " + strings.Join(messages, ", "))
}

// ResolvePath picks the config path: CONFIG_PATH wins over the flag value.
func ResolvePath(flagValue string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return flagValue
}

// MustLoad is Load for startup code: it exits the process on failure, so
// if it returns the config is valid.
func MustLoad(flagValue string) *Config {
	path := ResolvePath(flagValue)
	if path == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}

	return cfg
}
