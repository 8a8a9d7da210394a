// Package config reads runtime settings from an optional YAML file and the
// environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"

	"github.com/ChicagoDave/auditcalc/pkg/audit"
	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/insulation"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

// Config holds server, logging and calculation settings. Environment
// variables override values from the file.
type Config struct {
	Port      int                `yaml:"port" env:"AUDITCALC_PORT" env-default:"8080"`
	LogLevel  string             `yaml:"log_level" env:"AUDITCALC_LOG_LEVEL" env-default:"info"`
	Workers   int                `yaml:"workers" env:"AUDITCALC_WORKERS" env-default:"1"`
	Solver    insulation.Options `yaml:"solver"`
	Constants units.Constants    `yaml:"constants"`
}

// Load reads the config file at path, or only the environment when path is
// empty.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(path, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg.Constants.Air = units.DefaultAirTable()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no calculation could run with.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if err := c.Constants.Validate(); err != nil {
		return fmt.Errorf("constants: %w", err)
	}
	if c.Solver.Tolerance <= 0 || c.Solver.MaxIterations < 1 {
		return fmt.Errorf("invalid solver options %+v", c.Solver)
	}
	return nil
}

// Level parses the configured log level.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Env builds the calculation environment. rec may be nil.
func (c *Config) Env(rec audit.Recorder) audit.Env {
	constants := c.Constants
	return audit.Env{
		Constants: &constants,
		Solver:    c.Solver,
		Batch:     batch.Options{Workers: c.Workers},
		Recorder:  rec,
	}
}
