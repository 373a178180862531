package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError carries a non-zero process exit code out of a command whose
// outcome was already reported to the user
type ExitError struct {
	Code int
	Err  error
	// Reported is set when the output already showed Err
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewRootCommand creates the photonorris command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "photonorris",
		Short: "Sort photos into a date-organized library",
		Long: `photonorris imports photos and other media into a library made of one
directory per day. The day of each file comes from its EXIF capture time,
a date in its file name or its oldest filesystem timestamp. Existing
directories such as "2016-02-20 - birthday" are reused, missing days are
created as YYYY-MM-DD.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewImportCommand())
	rootCmd.AddCommand(NewIndexCommand())
	rootCmd.AddCommand(NewDateCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
