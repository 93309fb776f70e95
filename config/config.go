package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	// -- Rendering --

	Width    int `env:"PAPYRUS_WIDTH" envDefault:"80"`
	TabWidth int `env:"PAPYRUS_TAB_WIDTH" envDefault:"4"`

	// Point size used by the PDF sink
	PDFFontSize float64 `env:"PAPYRUS_PDF_FONT_SIZE" envDefault:"10"`

	// -- HTTP service --

	Host         string `env:"PAPYRUS_HOST"`
	Port         int    `env:"PAPYRUS_PORT" envDefault:"3000"`
	MaxBodyBytes int64  `env:"PAPYRUS_MAX_BODY_BYTES" envDefault:"1048576"`

	// Upper bound on choice points per request document, 0 disables the check
	MaxChoices int `env:"PAPYRUS_MAX_CHOICES" envDefault:"16"`

	// -- Logging --

	LogLevel string `env:"PAPYRUS_LOG_LEVEL" envDefault:"info"`
}

type ConfigOptions struct {
	EnvFilePath string
}

// ParseConfig parses environment variables (optionally loaded from an env file) to a valid Config.
func ParseConfig(opt *ConfigOptions) (*Config, error) {
	if opt != nil && opt.EnvFilePath != "" {
		// Variables already present in the environment win over the file
		if err := godotenv.Load(opt.EnvFilePath); err != nil {
			log.Warnf("Could not load environment variables from file %s: %s", opt.EnvFilePath, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges that env tags cannot express.
func (c *Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("PAPYRUS_WIDTH must be non-negative, got %d", c.Width)
	}
	if c.TabWidth <= 0 {
		return fmt.Errorf("PAPYRUS_TAB_WIDTH must be positive, got %d", c.TabWidth)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("PAPYRUS_PORT out of range: %d", c.Port)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("PAPYRUS_MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.MaxChoices < 0 {
		return fmt.Errorf("PAPYRUS_MAX_CHOICES must be non-negative, got %d", c.MaxChoices)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured logrus level, info when unparsable.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Addr is the host:port the HTTP service listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
