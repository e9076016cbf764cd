package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/digitalworkshop/cutlist/internal/export"
	"github.com/digitalworkshop/cutlist/internal/history"
)

func newHistoryCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past optimization runs",
	}

	cmd.AddCommand(newHistoryListCmd(state))
	cmd.AddCommand(newHistoryShowCmd(state))
	cmd.AddCommand(newHistoryPruneCmd(state))

	return cmd
}

func openHistory(state *rootState) (*history.Store, error) {
	return history.Open(historyPathFromConfig(state.config, state.configDir))
}

func newHistoryListCmd(state *rootState) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(state)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No recorded runs.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tWhen\tProject\tStrategy\tPieces\tStock\tUtilization\tUnplaced\n")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.1f%%\t%d\n",
					e.ID, e.CreatedAt.Local().Format(time.DateTime), e.ProjectName, e.Strategy,
					e.PieceCount, e.StockUsed, e.Utilization, e.UnplacedCount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list (0 for all)")

	return cmd
}

func newHistoryShowCmd(state *rootState) *cobra.Command {
	var outPDF string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a recorded run in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			store, err := openHistory(state)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(args[0])
			if err != nil {
				return err
			}
			result, err := entry.Result()
			if err != nil {
				return err
			}

			fmt.Printf("Run %s (%s)\n", entry.ID, entry.CreatedAt.Local().Format(time.DateTime))
			fmt.Printf("Project:  %s\n", entry.ProjectName)
			fmt.Printf("Strategy: %s\n", entry.Strategy)
			settings := settingsFromConfig(state.config)
			printResultSummary(result, settings)

			if outPDF != "" {
				if err := export.ExportPDF(outPDF, result, settings); err != nil {
					return fmt.Errorf("write PDF: %w", err)
				}
				logger.Info("wrote PDF", "path", outPDF)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPDF, "out-pdf", "", "re-export the stored result as PDF")

	return cmd
}

func newHistoryPruneCmd(state *rootState) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old runs, keeping the newest",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(state)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(keep)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d runs, kept the newest %d.\n", removed, keep)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 100, "number of runs to keep")

	return cmd
}
