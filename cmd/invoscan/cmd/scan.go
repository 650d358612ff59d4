package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/invoscan/invoscan/internal/config"
	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/pipeline"
	"github.com/invoscan/invoscan/internal/recognize"
	"github.com/invoscan/invoscan/internal/store"
	"github.com/invoscan/invoscan/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Scan a single invoice or receipt photo",
	Long: `Scan one image file and print the extracted fields.

Supported formats: JPEG, PNG, BMP

Examples:
  invoscan scan invoice.jpg
  invoscan scan receipt.png --type receipt --format json
  invoscan scan invoice.jpg --output result.json --save`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !utils.IsSupportedImage(path) {
			return fmt.Errorf("unsupported image file: %s", path)
		}

		cfg := GetConfig()

		pipe, err := buildPipeline(cmd, cfg)
		if err != nil {
			return err
		}

		res, err := pipe.ProcessFile(cmd.Context(), path)
		if err != nil {
			var scanErr *pipeline.ScanError
			if errors.As(err, &scanErr) {
				return fmt.Errorf("%s", scanErr.Message)
			}
			return err
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := saveResult(cfg.StorePath, res); err != nil {
				return err
			}
			slog.Info("Scan saved", "scan_id", res.ScanID, "store", cfg.StorePath)
		}

		out, err := pipeline.FormatResult(res, cfg.Output.Format)
		if err != nil {
			return err
		}
		return writeOutput(cmd, out, cfg.Output.File)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("type", "t", "", "document type (invoice, receipt)")
	scanCmd.Flags().StringP("format", "f", "", "output format (text, json, csv)")
	scanCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	scanCmd.Flags().Bool("progress", false, "print phase progress to stderr")
	scanCmd.Flags().Bool("save", false, "save the result to the scan history database")
	scanCmd.Flags().Bool("no-extract", false, "skip field extraction")
	scanCmd.Flags().Bool("no-validate", false, "skip field validation and normalization")

	_ = viper.BindPFlag("output.format", scanCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.file", scanCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("pipeline.document_type", scanCmd.Flags().Lookup("type"))
}

// buildPipeline assembles a pipeline from the resolved configuration plus
// per-command flags.
func buildPipeline(cmd *cobra.Command, cfg *config.Config) (*pipeline.Pipeline, error) {
	pcfg := cfg.Pipeline
	if noExtract, _ := cmd.Flags().GetBool("no-extract"); noExtract {
		pcfg.EnableFieldExtraction = false
	}
	if noValidate, _ := cmd.Flags().GetBool("no-validate"); noValidate {
		pcfg.EnableValidation = false
	}
	if pcfg.DocumentType == "" {
		pcfg.DocumentType = extract.DocumentInvoice
	}

	engine, err := recognize.NewDefaultEngine()
	if err != nil {
		return nil, err
	}

	b := pipeline.NewBuilder().
		WithConfig(pcfg).
		WithEngine(engine).
		WithTemplateMatcher(pipeline.NewKeywordTemplateMatcher()).
		WithObserver(pipeline.NewLogObserver(slog.Default(), slog.LevelDebug))

	if progress, _ := cmd.Flags().GetBool("progress"); progress {
		b = b.WithObserver(pipeline.NewConsoleObserver(cmd.ErrOrStderr()))
	}

	return b.Build()
}

func saveResult(storePath string, res *pipeline.ScanResult) error {
	st, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return st.Save(res)
}

// writeOutput prints content to stdout or, when file is set, writes it
// there.
func writeOutput(cmd *cobra.Command, content, file string) error {
	if file == "" {
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	}
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", file, err)
	}
	slog.Info("Output written", "file", file)
	return nil
}
