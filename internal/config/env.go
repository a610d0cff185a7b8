package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig configures the standalone websocket server.
type ServerConfig struct {
	Addr            string        `env:"SKULL_ADDR" envDefault:":8080"`
	AllowedOrigins  []string      `env:"SKULL_ORIGINS" envSeparator:","`
	RulesPath       string        `env:"SKULL_RULES_PATH"`
	LogLevel        string        `env:"SKULL_LOG_LEVEL" envDefault:"info"`
	RoomIdleTimeout time.Duration `env:"SKULL_ROOM_IDLE_TIMEOUT" envDefault:"30m"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServerConfig reads ServerConfig from the environment.
func LoadServerConfig() (ServerConfig, error) {
	var c ServerConfig
	if err := ParseEnv(&c); err != nil {
		return ServerConfig{}, err
	}
	return c, nil
}
