// Package config loads process settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/scythe504/bluffr-backend/internal/game"
)

type Config struct {
	Port        int    `env:"PORT" envDefault:"3000"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// QuestionsFile is a .yaml or .csv bank. DatabaseURL wins when both are set.
	QuestionsFile string `env:"QUESTIONS_FILE"`
	DatabaseURL   string `env:"DATABASE_URL"`

	LieSeconds  int           `env:"LIE_SECONDS" envDefault:"45"`
	VoteSeconds int           `env:"VOTE_SECONDS" envDefault:"20"`
	HostGrace   time.Duration `env:"HOST_GRACE" envDefault:"5s"`
	PlayerGrace time.Duration `env:"PLAYER_GRACE" envDefault:"2m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads .env when present and then parses the environment. Variables
// already set in the environment take precedence over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.LieSeconds <= 0 {
		return fmt.Errorf("LIE_SECONDS must be positive, got %d", c.LieSeconds)
	}
	if c.VoteSeconds <= 0 {
		return fmt.Errorf("VOTE_SECONDS must be positive, got %d", c.VoteSeconds)
	}
	if c.HostGrace < 0 || c.PlayerGrace < 0 {
		return errors.New("grace periods cannot be negative")
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (c Config) GameConfig() game.Config {
	return game.Config{
		LieSeconds:  c.LieSeconds,
		VoteSeconds: c.VoteSeconds,
		HostGrace:   c.HostGrace,
		PlayerGrace: c.PlayerGrace,
	}
}
