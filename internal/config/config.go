package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file at the repo root.
const FileName = "stockcheck.yaml"

// EnvPrefix prefixes every environment override, e.g.
// STOCKCHECK_THRESHOLDS_NEAR_EXPIRY_DAYS.
const EnvPrefix = "stockcheck"

// Config represents the top-level stockcheck.yaml configuration.
type Config struct {
	Project    ProjectConfig    `yaml:"project"`
	Input      InputConfig      `yaml:"input"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Output     OutputConfig     `yaml:"output"`
	Timezone   string           `yaml:"timezone,omitempty"`
	Logging    LoggingConfig    `yaml:"logging"`
	Git        GitConfig        `yaml:"git"`
}

// ProjectConfig names the shop.
type ProjectConfig struct {
	Name string `yaml:"name" validate:"required"`
}

// InputConfig describes where the data sits in an input file.
type InputConfig struct {
	Sheet      string        `yaml:"sheet,omitempty"` // empty = first sheet
	HeaderRows int           `yaml:"header_rows" split_words:"true" validate:"gte=0"`
	Columns    ColumnsConfig `yaml:"columns"`
}

// ColumnsConfig holds 0-based column positions. Serial may be -1 for none.
type ColumnsConfig struct {
	Serial   int `yaml:"serial" validate:"gte=-1"`
	Item     int `yaml:"item" validate:"gte=0"`
	Quantity int `yaml:"quantity" validate:"gte=0"`
	Cost     int `yaml:"cost" validate:"gte=0"`
	Sell     int `yaml:"sell" validate:"gte=0"`
	Category int `yaml:"category" validate:"gte=0"`
	Expiry   int `yaml:"expiry" validate:"gte=0"`
}

// ThresholdsConfig controls expiry and profit classification.
type ThresholdsConfig struct {
	NearExpiryDays int     `yaml:"near_expiry_days" split_words:"true" validate:"gte=0"`
	LowProfit      float64 `yaml:"low_profit" split_words:"true"`
}

// OutputConfig controls report files.
type OutputConfig struct {
	Dir string `yaml:"dir" validate:"required"`
	CSV bool   `yaml:"csv"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" split_words:"true"`
	AuthorName  string `yaml:"author_name" split_words:"true"`
	AuthorEmail string `yaml:"author_email" split_words:"true" validate:"omitempty,email"`
}

// Load reads a stockcheck.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadWithEnv reads path, loads envFile into the process environment if it
// exists, applies STOCKCHECK_* overrides and validates the result.
func LoadWithEnv(path, envFile string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks field constraints and the timezone name.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location returns the configured timezone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(projectName string) *Config {
	return &Config{
		Project: ProjectConfig{
			Name: projectName,
		},
		Input: InputConfig{
			HeaderRows: 1,
			Columns: ColumnsConfig{
				Serial:   0,
				Item:     1,
				Quantity: 2,
				Cost:     3,
				Sell:     4,
				Category: 6,
				Expiry:   7,
			},
		},
		Thresholds: ThresholdsConfig{
			NearExpiryDays: 30,
			LowProfit:      5,
		},
		Output: OutputConfig{
			Dir: "reports",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Stockcheck",
			AuthorEmail: "stockcheck@example.com",
		},
	}
}
