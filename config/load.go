package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Load reads configuration from the given YAML file (if present) with
// environment variables taking precedence. An empty path reads env only.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return cfg, cfg.validate()
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *AppConfig) validate() error {
	if c.SessionSecret == "" {
		return errors.New("session_secret is required")
	}
	if len(c.SessionSecret) < 32 {
		return errors.New("session_secret must be at least 32 bytes")
	}
	return nil
}
