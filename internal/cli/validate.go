package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/photonorris/internal/platform"
	"github.com/sdejongh/photonorris/pkg/config"
	"github.com/sdejongh/photonorris/pkg/logging"
	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/output"
	"github.com/sdejongh/photonorris/pkg/ratelimit"
)

// validateImportPaths checks the source and library flags and returns their
// absolute forms. A missing library is left to library.Open.
func validateImportPaths(source, library string) (string, string, error) {
	for _, p := range []string{source, library} {
		if err := platform.ValidatePath(p); err != nil {
			return "", "", err
		}
	}

	sourceAbs, err := platform.Absolute(source)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve source path: %w", err)
	}
	libraryAbs, err := platform.Absolute(library)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve library path: %w", err)
	}

	// Validate source exists
	info, err := os.Stat(sourceAbs)
	if os.IsNotExist(err) {
		return "", "", fmt.Errorf("source path does not exist: %s", source)
	} else if err != nil {
		return "", "", fmt.Errorf("failed to access source path: %w", err)
	} else if !info.IsDir() {
		return "", "", fmt.Errorf("source path exists but is not a directory: %s", source)
	}

	if sourceAbs == libraryAbs {
		return "", "", fmt.Errorf("source and library cannot be the same: %s", sourceAbs)
	}
	// A library below source is fine, subdirectories are never imported
	if platform.Contains(libraryAbs, sourceAbs) {
		return "", "", fmt.Errorf("source cannot be inside the library: %s", sourceAbs)
	}

	return sourceAbs, libraryAbs, nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(platform.NormalizePath(globalFlags.ConfigFile))
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config, flags *ImportFlags) {
	// Operation
	if cmd.Flags().Changed("move") {
		if flags.Move {
			cfg.Import.Operation = string(models.OperationMove)
		} else {
			cfg.Import.Operation = string(models.OperationCopy)
		}
	}
	if cmd.Flags().Changed("create-library") {
		cfg.Import.CreateLibrary = flags.CreateLibrary
	}
	if flags.Verify != "" {
		cfg.Import.Verify = flags.Verify
	}

	// Strategy order
	if len(flags.Strategies) > 0 {
		cfg.Extract.Strategies = flags.Strategies
	}

	// Parallel workers (default: 5)
	if flags.Parallel > 0 {
		cfg.Performance.MaxWorkers = flags.Parallel
	} else if cfg.Performance.MaxWorkers == 0 {
		cfg.Performance.MaxWorkers = 5
	}

	if flags.Bandwidth != "" {
		cfg.Performance.BandwidthLimit = flags.Bandwidth
	}

	// Exclude patterns
	if len(flags.Exclude) > 0 {
		cfg.Exclude = flags.Exclude
	}

	// Output format
	if flags.Output != "" {
		cfg.Output.Format = flags.Output
	}

	// Logging
	if flags.LogFile != "" {
		cfg.Logging.File = flags.LogFile
		cfg.Logging.Enabled = true
	}
	if flags.LogFormat != "" {
		cfg.Logging.Format = flags.LogFormat
	}
	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// createImportSession creates an import session from configuration
func createImportSession(cfg *config.Config, source, library string, dryRun bool) (*models.ImportSession, error) {
	op, err := models.ParseOperation(cfg.Import.Operation)
	if err != nil {
		return nil, err
	}

	bandwidth, err := ratelimit.ParseBandwidth(cfg.Performance.BandwidthLimit)
	if err != nil {
		return nil, err
	}

	session := &models.ImportSession{
		ID:              uuid.New().String(),
		SourcePath:      source,
		LibraryPath:     library,
		Operation:       op,
		ExcludePatterns: cfg.Exclude,
		Strategies:      cfg.Extract.Strategies,
		DryRun:          dryRun,
		Verify:          cfg.Import.Verify,
		MaxWorkers:      cfg.Performance.MaxWorkers,
		BandwidthLimit:  bandwidth,
		BufferSize:      cfg.Performance.BufferSize,
		CreatedAt:       time.Now(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// createLogger combines the file logger configured in cfg with the verbose
// console logger. Without either, logging is disabled.
func createLogger(cfg *config.Config) (logging.Logger, error) {
	var loggers []logging.Logger

	if cfg.Logging.Enabled && cfg.Logging.File != "" {
		// Parse log format
		var format logging.Format
		switch cfg.Logging.Format {
		case "json":
			format = logging.FormatJSON
		default:
			format = logging.FormatText
		}

		fileLogger, err := logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       platform.NormalizePath(cfg.Logging.File),
			Format:     format,
			Level:      logging.ParseLevel(cfg.Logging.Level),
			MaxSize:    cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return nil, err
		}
		loggers = append(loggers, fileLogger)
	}

	if globalFlags.Verbose {
		loggers = append(loggers, logging.NewConsoleLogger(os.Stderr, logging.DebugLevel))
	}

	switch len(loggers) {
	case 0:
		return logging.NewNullLogger(), nil
	case 1:
		return loggers[0], nil
	default:
		return logging.NewMultiLogger(loggers...), nil
	}
}

// selectFormatter picks the import output. Quiet mode has none.
func selectFormatter(cfg *config.Config) output.Formatter {
	if cfg.Output.Quiet {
		return nil
	}
	name := cfg.Output.Format
	if name == "human" && cfg.Output.Progress && output.IsTerminal(os.Stdout) {
		name = "progress"
	}
	if formatter, ok := output.New(name); ok {
		return formatter
	}
	return output.NewHumanFormatter()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
