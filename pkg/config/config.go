package config

import (
	"github.com/sdejongh/photonorris/pkg/extract"
	"github.com/sdejongh/photonorris/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Import      ImportConfig      `yaml:"import" toml:"import"`
	Extract     ExtractConfig     `yaml:"extract" toml:"extract"`
	Performance PerformanceConfig `yaml:"performance" toml:"performance"`
	Output      OutputConfig      `yaml:"output" toml:"output"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
	Exclude     []string          `yaml:"exclude" toml:"exclude" validate:"dive,glob"`
}

// ImportConfig holds import-related settings
type ImportConfig struct {
	Operation     string `yaml:"operation" toml:"operation" validate:"oneof=copy move"`
	// CreateLibrary creates a missing library root
	CreateLibrary bool   `yaml:"create_library" toml:"create_library"`
	// Verify checks copies against their source: none, size or hash
	Verify        string `yaml:"verify" toml:"verify" validate:"oneof=none size hash"`
}

// ExtractConfig holds datestamp extraction settings
type ExtractConfig struct {
	// Strategies are tried in order until one yields a date
	Strategies []string `yaml:"strategies" toml:"strategies" validate:"min=1,unique,dive,oneof=exif filename filetimes"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers     int    `yaml:"max_workers" toml:"max_workers" validate:"min=1,max=256"`
	BufferSize     int    `yaml:"buffer_size" toml:"buffer_size" validate:"min=1024"`
	BandwidthLimit string `yaml:"bandwidth_limit" toml:"bandwidth_limit" validate:"bandwidth"` // e.g. "10M", empty = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format" toml:"format" validate:"oneof=human json"`
	Progress bool   `yaml:"progress" toml:"progress"` // Show a progress bar on terminals
	Quiet    bool   `yaml:"quiet" toml:"quiet"`       // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled" toml:"enabled"`
	Format     string `yaml:"format" toml:"format" validate:"oneof=json text"`
	Level      string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	File       string `yaml:"file" toml:"file"` // Log file path (empty = no file log)
	MaxSize    int64  `yaml:"max_size" toml:"max_size" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups" validate:"min=0"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			Operation:     string(models.OperationCopy),
			CreateLibrary: false,
			Verify:        "none",
		},
		Extract: ExtractConfig{
			Strategies: append([]string(nil), extract.DefaultStrategies...),
		},
		Performance: PerformanceConfig{
			MaxWorkers:     5,
			BufferSize:     65536,
			BandwidthLimit: "",
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Format:     "text",
			Level:      "info",
			File:       "",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 3,
		},
		Exclude: []string{
			".*",
			"*.tmp",
			"Thumbs.db",
			"desktop.ini",
		},
	}
}

// Validate checks if the configuration is valid. The first failing rule is
// returned as a *models.ValidationError naming the YAML key.
func (c *Config) Validate() error {
	return validateStruct(c)
}
