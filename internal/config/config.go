package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Projects come from Postgres when POSTGRES_URL is set, otherwise from the YAML file.
	PostgresURL  string `env:"POSTGRES_URL"`
	ProjectsFile string `env:"PROJECTS_FILE" envDefault:"testdata/projects.yaml"`

	OverpassURL     string        `env:"OVERPASS_URL"`
	OverpassTimeout time.Duration `env:"OVERPASS_TIMEOUT" envDefault:"5s"`

	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaAlertsTopic string   `env:"KAFKA_ALERTS_TOPIC" envDefault:"risk-alerts"`

	AlertHorizonDays int `env:"ALERT_HORIZON_DAYS" envDefault:"180"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AlertHorizonDays <= 0 {
		return Config{}, fmt.Errorf("ALERT_HORIZON_DAYS must be positive, got %d", cfg.AlertHorizonDays)
	}
	if cfg.PostgresURL == "" && cfg.ProjectsFile == "" {
		return Config{}, fmt.Errorf("either POSTGRES_URL or PROJECTS_FILE must be set")
	}
	return cfg, nil
}
