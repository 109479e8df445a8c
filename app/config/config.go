package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const envConfigPath = "GRAPHMEM_CONFIG"

type Config struct {
	Server Server `yaml:"server"`
	Health Health `yaml:"health"`
	Log    Log    `yaml:"log"`
}

type Server struct {
	// Name reported to MCP clients during initialize
	Name string `yaml:"name" example:"graphmem" validate:"required"`
	// Version reported to MCP clients during initialize
	Version string `yaml:"version" example:"1.0.0" validate:"required"`
	// Transport to serve tools on
	Transport string `yaml:"transport" example:"stdio" validate:"required,oneof=stdio http"`
	// Listen address for the http transport
	HTTPAddr string `yaml:"http_addr" example:":8400" validate:"required"`
}

type Health struct {
	// Enable the health endpoint
	Enabled bool `yaml:"enabled" example:"false"`
	// Listen address of the health endpoint
	Addr string `yaml:"addr" example:":8401" validate:"required"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	path := os.Getenv(envConfigPath)
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// MCP launchers usually start the binary with no setup at all,
		// so a missing config file falls through to defaults.
	case err != nil:
		return nil, oops.Errorf("failed to read config file: %w", err)
	default:
		if err = yaml.Unmarshal(data, &result); err != nil {
			return nil, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if result.Server.Name == "" {
		result.Server.Name = "graphmem"
	}
	if result.Server.Version == "" {
		result.Server.Version = "1.0.0"
	}
	if result.Server.Transport == "" {
		result.Server.Transport = "stdio"
	}
	if result.Server.HTTPAddr == "" {
		result.Server.HTTPAddr = ":8400"
	}
	if result.Health.Addr == "" {
		result.Health.Addr = ":8401"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
