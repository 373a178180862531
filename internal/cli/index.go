package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/photonorris/internal/platform"
	"github.com/sdejongh/photonorris/pkg/library"
	"github.com/sdejongh/photonorris/pkg/output"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// NewIndexCommand creates the index command
func NewIndexCommand() *cobra.Command {
	var (
		libraryRoot string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Show the date directories of a library",
		Long: `List the library directories recognized as days, the date each one
stands for, and any day claimed by more than one directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			if format != "human" && format != "json" {
				return fmt.Errorf("invalid output format: %s (valid: human, json)", format)
			}
			if err := platform.ValidatePath(libraryRoot); err != nil {
				return err
			}
			root, err := platform.Absolute(libraryRoot)
			if err != nil {
				return fmt.Errorf("failed to resolve library path: %w", err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err := createLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Close()

			backend := storage.NewLocal()
			defer backend.Close()

			lib, err := library.Open(ctx, backend, root, library.Options{Logger: logger})
			if err != nil {
				return fmt.Errorf("failed to open library: %w", err)
			}

			return output.WriteIndex(cmd.OutOrStdout(), format, lib.Index())
		},
	}

	cmd.Flags().StringVarP(&libraryRoot, "library", "l", "", "library root directory (required)")
	cmd.MarkFlagRequired("library")
	cmd.Flags().StringVarP(&format, "output", "o", "human", "output format: human, json")

	return cmd
}
