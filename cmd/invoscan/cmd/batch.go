package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/invoscan/invoscan/internal/batch"
	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/pipeline"
	"github.com/invoscan/invoscan/internal/store"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch <file|dir|glob>...",
	Short: "Scan multiple images",
	Long: `Scan every image found under the given files, directories and glob
patterns. Failures on individual images are reported and do not stop the
batch unless --stop-on-error is set.

Examples:
  invoscan batch ./invoices --recursive
  invoscan batch "scans/*.jpg" --format json
  invoscan batch a.jpg b.jpg --save`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if f, _ := cmd.Flags().GetString("format"); f != "" {
			cfg.Output.Format = f
		}
		if o, _ := cmd.Flags().GetString("output"); o != "" {
			cfg.Output.File = o
		}
		if t, _ := cmd.Flags().GetString("type"); t != "" {
			cfg.Pipeline.DocumentType = extract.DocumentType(t)
		}

		recursive, _ := cmd.Flags().GetBool("recursive")
		files, err := batch.Discover(args, recursive, cfg.Batch.Include, cfg.Batch.Exclude)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return errors.New("no image files found")
		}

		pipe, err := buildPipeline(cmd, cfg)
		if err != nil {
			return err
		}

		stopOnError, _ := cmd.Flags().GetBool("stop-on-error")
		result, err := pipe.ProcessBatch(cmd.Context(), pipeline.BatchJob{
			ImageRefs:   files,
			StopOnError: stopOnError || !cfg.Batch.ContinueOnError,
		})
		if err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := saveBatch(cfg.StorePath, result); err != nil {
				return err
			}
		}

		var out string
		if cfg.Output.Format == "json" {
			out, err = batch.SummarizeJSON(result)
			if err != nil {
				return err
			}
		} else {
			out = batch.Summarize(result)
		}
		if err := writeOutput(cmd, out, cfg.Output.File); err != nil {
			return err
		}

		if len(result.Errors) > 0 {
			return fmt.Errorf("%d of %d image(s) failed", len(result.Errors), result.TotalProcessed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("type", "t", "", "document type (invoice, receipt)")
	batchCmd.Flags().StringP("format", "f", "", "output format (text, json)")
	batchCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	batchCmd.Flags().BoolP("recursive", "r", false, "recurse into subdirectories")
	batchCmd.Flags().Bool("stop-on-error", false, "abort the batch on the first failed image")
	batchCmd.Flags().Bool("save", false, "save successful results to the scan history database")
	batchCmd.Flags().Bool("progress", false, "print phase progress to stderr")
	batchCmd.Flags().Bool("no-extract", false, "skip field extraction")
	batchCmd.Flags().Bool("no-validate", false, "skip field validation and normalization")
}

func saveBatch(storePath string, result *pipeline.BatchResult) error {
	st, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	for _, res := range result.Successes {
		if err := st.Save(res); err != nil {
			return err
		}
	}
	slog.Info("Batch results saved", "count", len(result.Successes), "store", storePath)
	return nil
}
