package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/digitalworkshop/cutlist/internal/engine"
	"github.com/digitalworkshop/cutlist/internal/project"
)

func newCompareCmd(state *rootState) *cobra.Command {
	var (
		projectPath string
		piecesPath  string
		sheets      []string
		boards      []string
		presets     []string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare optimization results across parameter scenarios",
		Long: `Compare runs the optimizer with several what-if scenarios (alternate
strategy, thinner kerf, no edge trim) and prints the results side by side.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			pieces, stocks, _, err := loadInputs(logger, projectPath, piecesPath, sheets, boards, presets)
			if err != nil {
				return err
			}

			settings := settingsFromConfig(state.config)
			if projectPath != "" {
				if proj, err := project.LoadProject(projectPath); err == nil {
					settings = proj.Settings
				}
			}

			scenarios := engine.BuildDefaultScenarios(settings)
			prog := newProgress(logger)
			results := engine.CompareScenarios(scenarios, pieces, stocks)
			prog.done(fmt.Sprintf("Compared %d scenarios", len(results)))

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "\nScenario\tStock Used\tCuts\tWaste\tUnplaced\n")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\t%d\n",
					r.Scenario.Name, r.BoardsUsed, r.TotalCuts, r.WastePercent, r.UnplacedCount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "project JSON file")
	cmd.Flags().StringVar(&piecesPath, "pieces", "", "piece list file (.csv, .xlsx, .dxf)")
	cmd.Flags().StringArrayVar(&sheets, "sheet", nil, "sheet stock as label:LxW:qty[:cost]")
	cmd.Flags().StringArrayVar(&boards, "board", nil, "board stock as label:LxW:qty[:cost]")
	cmd.Flags().StringArrayVar(&presets, "preset", nil, "catalog preset as name[:qty]")

	return cmd
}
