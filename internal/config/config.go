// Package config loads pipeline configuration from environment variables
// with an optional YAML overlay. The only tunables beyond file paths are the
// two cleaning policy thresholds (minimum sale price, multi-unit group-size
// cutoff) and the explicit price exclusion list.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"nycsales/internal/errors"
)

// Config represents the complete pipeline configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Policy  PolicyConfig  `yaml:"policy" envconfig:"POLICY"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	SourceDir    string `yaml:"source_dir" envconfig:"SOURCE_DIR" validate:"required"`
	SnapshotPath string `yaml:"snapshot_path" envconfig:"SNAPSHOT_PATH" validate:"required"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
}

// PolicyConfig contains the cleaning policy thresholds. The multi-unit
// group-size cutoff is a heuristic, preserved as a knob rather than a
// constant.
type PolicyConfig struct {
	// MinSalePrice excludes nominal transfers (intra-family deed changes
	// recorded at token prices).
	MinSalePrice int64 `yaml:"min_sale_price" envconfig:"MIN_SALE_PRICE" validate:"gt=0"`
	// GroupSizeCutoff is the minimum (price, date) group size treated as a
	// disguised multi-unit sale. Size-2 groups are reported but kept.
	GroupSizeCutoff int `yaml:"group_size_cutoff" envconfig:"GROUP_SIZE_CUTOFF" validate:"gte=2"`
	// ExcludedPrices removes known bulk-sale prices by exact match.
	ExcludedPrices []int64 `yaml:"excluded_prices" envconfig:"EXCLUDED_PRICES"`
	// HeaderRowOffset is the number of title rows preceding the header row
	// in each source workbook.
	HeaderRowOffset int `yaml:"header_row_offset" envconfig:"HEADER_ROW_OFFSET" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// Load loads configuration from environment variables and an optional YAML
// file. Environment values take precedence over file values, file values
// over defaults.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("config file %s not readable", configFile), err)
		}
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, errors.NewConfigError("read config file", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.NewConfigError("parse config file", err)
		}
	}

	// Environment variables override file values; fields with neither an
	// env var nor a file value fall back to the built-in defaults.
	if err := envconfig.Process("NYCSALES", &cfg); err != nil {
		return nil, errors.NewConfigError("load config from env", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration used when no file or
// environment overrides are present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills zero values with the built-in defaults. Defaults live
// here rather than in envconfig struct tags so they cannot clobber values
// loaded from the YAML file.
func applyDefaults(cfg *Config) {
	if cfg.Paths.SourceDir == "" {
		cfg.Paths.SourceDir = "data/source"
	}
	if cfg.Paths.SnapshotPath == "" {
		cfg.Paths.SnapshotPath = "data/clean/condo_sales_clean.csv"
	}
	if cfg.Paths.ReportsDir == "" {
		cfg.Paths.ReportsDir = "data/reports"
	}
	if cfg.Policy.MinSalePrice == 0 {
		cfg.Policy.MinSalePrice = 100000
	}
	if cfg.Policy.GroupSizeCutoff == 0 {
		cfg.Policy.GroupSizeCutoff = 3
	}
	if cfg.Policy.HeaderRowOffset == 0 {
		cfg.Policy.HeaderRowOffset = 4
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.NewValidationError("config validation failed", err)
	}
	return nil
}
