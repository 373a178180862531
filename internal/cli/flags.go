package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file, .yaml or .toml (default is $HOME/.config/photonorris/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"log to stderr at debug level",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() *GlobalFlags {
	return &globalFlags
}

// ImportFlags holds import command flags
type ImportFlags struct {
	Source        string
	Library       string
	Move          bool
	DryRun        bool
	CreateLibrary bool
	Verify        string
	Parallel      int
	Bandwidth     string
	Exclude       []string
	Strategies    []string
	Output        string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

func addImportFlags(cmd *cobra.Command, flags *ImportFlags) {
	// Required flags
	cmd.Flags().StringVarP(&flags.Source, "source", "s", "", "directory holding the files to import (required)")
	cmd.Flags().StringVarP(&flags.Library, "library", "l", "", "library root directory (required)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("library")

	// Optional flags
	cmd.Flags().BoolVar(&flags.Move, "move", false, "move files instead of copying them")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "plan every file without touching the filesystem")
	cmd.Flags().BoolVar(&flags.CreateLibrary, "create-library", false, "create the library root if it doesn't exist")
	cmd.Flags().StringVar(&flags.Verify, "verify", "", "check copied files against their source: none, size, hash")
	cmd.Flags().IntVarP(&flags.Parallel, "parallel", "p", 0, "number of parallel workers (default: 5)")
	cmd.Flags().StringVarP(&flags.Bandwidth, "bandwidth", "b", "", "bandwidth limit (e.g., \"10M\", \"1G\")")
	cmd.Flags().StringSliceVar(&flags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringSliceVar(&flags.Strategies, "strategy", []string{}, "datestamp strategies in order: exif, filename, filetimes")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "output format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
}
