package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/photonorris/pkg/compare"
	"github.com/sdejongh/photonorris/pkg/extract"
	"github.com/sdejongh/photonorris/pkg/importer"
	"github.com/sdejongh/photonorris/pkg/library"
	"github.com/sdejongh/photonorris/pkg/logging"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	flags := &ImportFlags{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import files into the library",
		Long: `Import every file directly inside the source directory into the library.
Each file lands in the library directory of its day. Subdirectories of the
source are not visited. Importing the same files twice yields the same
library: a file already present under the same name is overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, flags)
		},
	}

	addImportFlags(cmd, flags)

	return cmd
}

func runImport(cmd *cobra.Command, flags *ImportFlags) error {
	ctx := commandContext(cmd)

	// Validate flags
	source, libraryRoot, err := validateImportPaths(flags.Source, flags.Library)
	if err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cmd, cfg, flags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	// Create import session
	session, err := createImportSession(cfg, source, libraryRoot, flags.DryRun)
	if err != nil {
		return fmt.Errorf("failed to create import session: %w", err)
	}

	// Create logger
	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	logger = logger.WithFields(logging.Fields{"component": "importer"})

	// Create storage backend
	backend := storage.NewLocal(
		storage.WithBufferSize(session.BufferSize),
		storage.WithBandwidthLimit(session.BandwidthLimit),
	)
	defer backend.Close()

	lib, err := library.Open(ctx, backend, libraryRoot, library.Options{
		Create: cfg.Import.CreateLibrary,
		DryRun: session.DryRun,
		Logger: logger,
	})
	if err != nil {
		if !cfg.Import.CreateLibrary {
			return fmt.Errorf("failed to open library (use --create-library to create it): %w", err)
		}
		return fmt.Errorf("failed to open library: %w", err)
	}

	extractor, err := extract.FromNames(session.Strategies, backend)
	if err != nil {
		return err
	}

	planner := importer.NewPlanner(extractor, backend,
		importer.WithOperation(session.Operation),
		importer.WithDryRun(session.DryRun),
	)

	formatter := selectFormatter(cfg)

	verifier, err := compare.New(session.Verify, session.BufferSize)
	if err != nil {
		return err
	}
	batchConfig := importer.DefaultBatchConfig()
	batchConfig.Verifier = verifier

	batch, err := importer.NewBatchImporter(planner, backend, formatter, logger, session, batchConfig)
	if err != nil {
		return fmt.Errorf("failed to create importer: %w", err)
	}

	// Run import
	report, err := batch.Run(ctx, source, lib.Index())
	if err != nil {
		if formatter != nil {
			formatter.Error(err)
		}
		return &ExitError{
			Code:     report.Status.ExitCode(),
			Err:      fmt.Errorf("import failed: %w", err),
			Reported: formatter != nil,
		}
	}

	// Exit with appropriate code
	if code := report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code, Err: report.Err(), Reported: formatter != nil}
	}
	return nil
}
