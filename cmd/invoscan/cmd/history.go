package cmd

import (
	"fmt"

	"github.com/invoscan/invoscan/internal/pipeline"
	"github.com/invoscan/invoscan/internal/store"
	"github.com/spf13/cobra"
)

// historyCmd groups the scan history subcommands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect previously saved scans",
}

var historyListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List saved scans",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			results, err := st.List()
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no saved scans")
				return nil
			}
			for _, res := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  confidence=%.2f  fields=%d\n",
					res.ScanID, res.CreatedAt.Format("2006-01-02 15:04:05"),
					res.DocumentType, res.Confidence.Overall, len(res.Fields))
			}
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:          "show <scan-id>",
	Short:        "Show one saved scan",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			res, err := st.Get(args[0])
			if err != nil {
				return err
			}
			out, err := pipeline.FormatResult(res, GetConfig().Output.Format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:          "delete <scan-id>",
	Short:        "Delete one saved scan",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			return st.Delete(args[0])
		})
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func withStore(fn func(*store.Store) error) error {
	st, err := store.Open(GetConfig().StorePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(st)
}
