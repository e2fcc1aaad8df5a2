// Package config loads server settings from defaults, an optional TOML file
// and RPGME_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Content ContentConfig `toml:"content"`
	Session SessionConfig `toml:"session"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr" env:"RPGME_ADDR"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"RPGME_SHUTDOWN_TIMEOUT"`
}

type ContentConfig struct {
	TemplatesDir string `toml:"templates_dir" env:"RPGME_TEMPLATES_DIR"`
	StaticDir    string `toml:"static_dir" env:"RPGME_STATIC_DIR"`
	ControlsPath string `toml:"controls_path" env:"RPGME_CONTROLS"`
}

type SessionConfig struct {
	IdleTimeout   time.Duration `toml:"idle_timeout" env:"RPGME_SESSION_IDLE"`
	SweepInterval time.Duration `toml:"sweep_interval" env:"RPGME_SESSION_SWEEP"`
}

type LoggingConfig struct {
	Level  string `toml:"level" env:"RPGME_LOG_LEVEL"`
	Format string `toml:"format" env:"RPGME_LOG_FORMAT"` // "json" or "console"
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session.idle_timeout must be positive, got %s", c.Session.IdleTimeout)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be positive, got %s", c.Session.SweepInterval)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Content: ContentConfig{
			TemplatesDir: "templates",
			StaticDir:    "static",
			ControlsPath: "controls.yaml",
		},
		Session: SessionConfig{
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
