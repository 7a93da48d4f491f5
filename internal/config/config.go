package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/retryclass/pkg/retryclass"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is looked up in the working directory when
// $RETRYCLASS_CONFIG is not set.
const ConfigFileName = "retryclass.yaml"

// EnvConfigPath names the environment variable overriding the config path.
const EnvConfigPath = "RETRYCLASS_CONFIG"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// RetryConfig holds executor settings for the simulate command.
// Durations use time.ParseDuration syntax.
type RetryConfig struct {
	MaxAttempts  *int     `yaml:"max_attempts,omitempty"`
	InitialDelay string   `yaml:"initial_delay,omitempty"`
	MaxDelay     string   `yaml:"max_delay,omitempty"`
	Multiplier   *float64 `yaml:"multiplier,omitempty"`
	Jitter       *float64 `yaml:"jitter,omitempty"`
}

type Config struct {
	Retry  RetryConfig `yaml:"retry"`
	Output string      `yaml:"output,omitempty"`
}

// Settings is the validated, defaulted form of RetryConfig.
type Settings struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       float64
}

// Path returns the config path: $RETRYCLASS_CONFIG, or ConfigFileName in dir.
func Path(dir string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(dir, ConfigFileName)
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", retryclass.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Output: OutputText}
}

// Validate checks field values without applying defaults.
func (c *Config) Validate() error {
	switch c.Output {
	case "", OutputText, OutputJSON:
	default:
		return fmt.Errorf("%w: output must be %q or %q, got %q",
			retryclass.ErrInvalidConfig, OutputText, OutputJSON, c.Output)
	}
	_, err := c.Retry.Settings()
	return err
}

// OutputFormat returns the configured output format, defaulting to text.
func (c *Config) OutputFormat() string {
	if c.Output == "" {
		return OutputText
	}
	return c.Output
}

// Settings applies defaults and parses durations.
func (r RetryConfig) Settings() (Settings, error) {
	s := Settings{
		MaxAttempts:  retryclass.DefaultRetryMaxAttempts,
		InitialDelay: retryclass.DefaultRetryInitialDelay,
		MaxDelay:     retryclass.DefaultRetryMaxDelay,
		Multiplier:   retryclass.DefaultRetryMultiplier,
		Jitter:       retryclass.DefaultRetryJitter,
	}

	if r.MaxAttempts != nil {
		if *r.MaxAttempts < -1 {
			return s, fmt.Errorf("%w: retry.max_attempts must be >= -1, got %d",
				retryclass.ErrInvalidConfig, *r.MaxAttempts)
		}
		s.MaxAttempts = *r.MaxAttempts
	}

	var err error
	if r.InitialDelay != "" {
		if s.InitialDelay, err = parseDuration("retry.initial_delay", r.InitialDelay); err != nil {
			return s, err
		}
	}
	if r.MaxDelay != "" {
		if s.MaxDelay, err = parseDuration("retry.max_delay", r.MaxDelay); err != nil {
			return s, err
		}
	}
	if s.MaxDelay < s.InitialDelay {
		return s, fmt.Errorf("%w: retry.max_delay (%v) is below retry.initial_delay (%v)",
			retryclass.ErrInvalidConfig, s.MaxDelay, s.InitialDelay)
	}

	if r.Multiplier != nil {
		if *r.Multiplier < 1 {
			return s, fmt.Errorf("%w: retry.multiplier must be >= 1, got %v",
				retryclass.ErrInvalidConfig, *r.Multiplier)
		}
		s.Multiplier = *r.Multiplier
	}
	if r.Jitter != nil {
		if *r.Jitter < 0 || *r.Jitter > 1 {
			return s, fmt.Errorf("%w: retry.jitter must be within [0, 1], got %v",
				retryclass.ErrInvalidConfig, *r.Jitter)
		}
		s.Jitter = *r.Jitter
	}

	return s, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %v", retryclass.ErrInvalidConfig, field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", retryclass.ErrInvalidConfig, field)
	}
	return d, nil
}
