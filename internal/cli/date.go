package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sdejongh/photonorris/internal/platform"
	"github.com/sdejongh/photonorris/pkg/extract"
	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// DateResult is the JSON form of one resolved file
type DateResult struct {
	Path      string `json:"path"`
	Datestamp string `json:"datestamp,omitempty"`
	Strategy  string `json:"strategy,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// NewDateCommand creates the date command
func NewDateCommand() *cobra.Command {
	var (
		strategies []string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "date FILE...",
		Short: "Show the datestamp each file would be imported under",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			if format != "human" && format != "json" {
				return fmt.Errorf("invalid output format: %s (valid: human, json)", format)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if len(strategies) == 0 {
				strategies = cfg.Extract.Strategies
			}

			backend := storage.NewLocal()
			defer backend.Close()

			extractor, err := extract.FromNames(strategies, backend)
			if err != nil {
				return err
			}

			results := make([]DateResult, 0, len(args))
			failed := 0
			for _, arg := range args {
				path := platform.NormalizePath(arg)
				result := DateResult{Path: path}

				res, err := extractor.Resolve(ctx, path)
				if err != nil {
					result.Error = err.Error()
					result.ErrorKind = models.ErrorKind(err)
					failed++
				} else {
					result.Datestamp = res.Datestamp.String()
					result.Strategy = res.Strategy
				}
				results = append(results, result)
			}

			if err := writeDateResults(cmd, format, results); err != nil {
				return err
			}

			if failed > 0 {
				return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d files have no datestamp", failed, len(args)), Reported: true}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&strategies, "strategy", []string{}, "datestamp strategies in order: exif, filename, filetimes")
	cmd.Flags().StringVarP(&format, "output", "o", "human", "output format: human, json")

	return cmd
}

func writeDateResults(cmd *cobra.Command, format string, results []DateResult) error {
	out := cmd.OutOrStdout()

	if format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\t-\t%s\n", r.Path, r.ErrorKind)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Path, r.Datestamp, r.Strategy)
	}
	return tw.Flush()
}
