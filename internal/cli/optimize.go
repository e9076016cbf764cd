package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/digitalworkshop/cutlist/internal/engine"
	"github.com/digitalworkshop/cutlist/internal/export"
	"github.com/digitalworkshop/cutlist/internal/history"
	"github.com/digitalworkshop/cutlist/internal/model"
	"github.com/digitalworkshop/cutlist/internal/project"
)

// optimizeFlags holds all flag values for the optimize command.
type optimizeFlags struct {
	projectPath string
	piecesPath  string
	sheets      []string
	boards      []string
	presets     []string

	strategy  string
	kerf      float64
	trim      float64
	rotations int

	outPDF      string
	outCSV      string
	outCutsCSV  string
	outXLSX     string
	outPNG      string
	outHTML     string
	outLabels   string
	saveProject string
	noHistory   bool
}

func newOptimizeCmd(state *rootState) *cobra.Command {
	flags := &optimizeFlags{}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Pack pieces onto stock and produce a cut plan",
		Long: `Optimize packs the required pieces onto the available stock, plans the
saw-cut sequence per stock unit, and prints a summary. Layout diagrams and
reports can be written with the --out-* flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, state, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.projectPath, "project", "p", "", "project JSON file with pieces, stock, and settings")
	cmd.Flags().StringVar(&flags.piecesPath, "pieces", "", "piece list file (.csv, .xlsx, .dxf)")
	cmd.Flags().StringArrayVar(&flags.sheets, "sheet", nil, "sheet stock as label:LxW:qty[:cost] (repeatable)")
	cmd.Flags().StringArrayVar(&flags.boards, "board", nil, "board stock as label:LxW:qty[:cost] (repeatable)")
	cmd.Flags().StringArrayVar(&flags.presets, "preset", nil, "catalog preset as name[:qty] (repeatable)")

	cmd.Flags().StringVar(&flags.strategy, "strategy", "", "optimization strategy: greedy or search")
	cmd.Flags().Float64Var(&flags.kerf, "kerf", -1, "saw kerf in mm")
	cmd.Flags().Float64Var(&flags.trim, "trim", -1, "edge trim in mm")
	cmd.Flags().IntVar(&flags.rotations, "rotations", 0, "outline nesting rotations to try (0 disables)")

	cmd.Flags().StringVar(&flags.outPDF, "out-pdf", "", "write layout diagrams and summary as PDF")
	cmd.Flags().StringVar(&flags.outCSV, "out-csv", "", "write placements as CSV")
	cmd.Flags().StringVar(&flags.outCutsCSV, "out-cuts", "", "write cut sequence as CSV")
	cmd.Flags().StringVar(&flags.outXLSX, "out-xlsx", "", "write workbook with placements, cuts, and purchase list")
	cmd.Flags().StringVar(&flags.outPNG, "out-png", "", "write one PNG per layout; path must contain %d")
	cmd.Flags().StringVar(&flags.outHTML, "out-html", "", "write interactive HTML report")
	cmd.Flags().StringVar(&flags.outLabels, "out-labels", "", "write QR piece labels as PDF")
	cmd.Flags().StringVar(&flags.saveProject, "save-project", "", "save pieces, stock, settings, and result as a project file")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "skip recording the run in history")

	return cmd
}

func runOptimize(cmd *cobra.Command, state *rootState, flags *optimizeFlags) error {
	logger := loggerFromContext(cmd.Context())

	pieces, stocks, projectName, err := loadInputs(logger, flags.projectPath, flags.piecesPath, flags.sheets, flags.boards, flags.presets)
	if err != nil {
		return err
	}

	settings := settingsFromConfig(state.config)
	if flags.projectPath != "" {
		if proj, err := project.LoadProject(flags.projectPath); err == nil {
			settings = proj.Settings
		}
	}
	applySettingsFlags(&settings, flags)
	if err := settings.Validate(); err != nil {
		return err
	}

	logger.Debug("optimizing", "pieces", len(pieces), "stocks", len(stocks), "strategy", settings.Strategy)

	prog := newProgress(logger)
	opt := engine.New(settings)
	result := opt.Optimize(pieces, stocks)
	prog.done(fmt.Sprintf("Placed %d pieces on %d stock units", result.PlacedCount(), result.BoardCount()))

	printResultSummary(result, settings)

	if err := writeOutputs(logger, flags, result, settings); err != nil {
		return err
	}

	if flags.saveProject != "" {
		proj := model.NewProject(projectName)
		proj.Pieces = pieces
		proj.Stocks = stocks
		proj.Settings = settings
		proj.Result = &result
		if err := project.SaveProject(flags.saveProject, proj); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		logger.Info("saved project", "path", flags.saveProject)

		if cfg, err := project.LoadAppConfig(project.DefaultConfigPath()); err == nil {
			project.AddRecentProject(&cfg, flags.saveProject)
			if err := project.SaveAppConfig(project.DefaultConfigPath(), cfg); err != nil {
				logger.Warn("cannot update recent projects", "err", err)
			}
		}
	}

	if !flags.noHistory {
		recordHistory(logger, state, projectName, settings, result)
	}

	if !result.Feasible() {
		return fmt.Errorf("%d pieces could not be placed", len(result.Unplaced))
	}
	return nil
}

// applySettingsFlags overrides settings with explicitly-set flag values.
func applySettingsFlags(settings *model.Settings, flags *optimizeFlags) {
	if flags.strategy != "" {
		settings.Strategy = model.Strategy(flags.strategy)
	}
	if flags.kerf >= 0 {
		settings.KerfWidth = flags.kerf
	}
	if flags.trim >= 0 {
		settings.EdgeTrim = flags.trim
	}
	if flags.rotations > 0 {
		settings.NestingRotations = flags.rotations
	}
}

// printResultSummary writes a human-readable result table to stdout.
func printResultSummary(result model.OptimizationResult, settings model.Settings) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "\nStock\tPieces\tCuts\tUtilization\n")
	for i, layout := range result.Layouts {
		fmt.Fprintf(w, "#%d %s (%.0fx%.0f)\t%d\t%d\t%.1f%%\n",
			i+1, layout.Stock.Label, layout.Stock.Length, layout.Stock.Width,
			len(layout.Placements), len(layout.Cuts), layout.Utilization())
	}
	w.Flush()

	fmt.Printf("\nOverall: %d stock units, %.1f%% utilization", result.BoardCount(), result.Utilization())
	if cost := result.TotalCost(); cost > 0 {
		fmt.Printf(", estimated cost %.2f", cost)
	}
	fmt.Println()

	if len(result.Unplaced) > 0 {
		fmt.Printf("\nUnplaced pieces:\n")
		for _, up := range result.Unplaced {
			fmt.Printf("  - %s (%.0fx%.0f mm): %s\n", up.Piece.Label, up.Piece.Length, up.Piece.Width, up.Reason)
		}
	}

	if purchase := model.BuildPurchaseList(result); len(purchase) > 0 {
		fmt.Printf("\nPurchase list:\n")
		for _, line := range purchase {
			fmt.Printf("  %d x %s (%.0fx%.0f mm)", line.Count, line.StockLabel, line.Length, line.Width)
			if line.TotalCost > 0 {
				fmt.Printf(" = %.2f", line.TotalCost)
			}
			fmt.Println()
		}
	}

	if offcuts := model.DetectAllOffcuts(result, settings.KerfWidth); len(offcuts) > 0 {
		fmt.Printf("\nUsable offcuts:\n")
		for _, o := range offcuts {
			fmt.Printf("  %.0fx%.0f mm on #%d %s\n", o.Length, o.Width, o.LayoutIndex+1, o.StockLabel)
		}
	}
}

// writeOutputs writes every requested export format.
func writeOutputs(logger *log.Logger, flags *optimizeFlags, result model.OptimizationResult, settings model.Settings) error {
	outputs := []struct {
		path string
		name string
		fn   func(string) error
	}{
		{flags.outPDF, "PDF", func(p string) error { return export.ExportPDF(p, result, settings) }},
		{flags.outCSV, "CSV", func(p string) error { return export.ExportCSV(p, result) }},
		{flags.outCutsCSV, "cuts CSV", func(p string) error { return export.ExportCutsCSV(p, result) }},
		{flags.outXLSX, "Excel", func(p string) error { return export.ExportExcel(p, result) }},
		{flags.outPNG, "PNG", func(p string) error { return export.ExportAllPNG(p, result) }},
		{flags.outHTML, "HTML", func(p string) error { return export.ExportHTML(p, result) }},
		{flags.outLabels, "labels", func(p string) error { return export.ExportLabels(p, result) }},
	}

	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := out.fn(out.path); err != nil {
			return fmt.Errorf("write %s: %w", out.name, err)
		}
		logger.Info("wrote "+out.name, "path", out.path)
	}
	return nil
}

// recordHistory stores the run in the history database, pruning to the
// configured limit. History failures are logged, never fatal.
func recordHistory(logger *log.Logger, state *rootState, projectName string, settings model.Settings, result model.OptimizationResult) {
	store, err := history.Open(historyPathFromConfig(state.config, state.configDir))
	if err != nil {
		logger.Warn("cannot open history", "err", err)
		return
	}
	defer store.Close()

	id, err := store.Record(projectName, settings, result)
	if err != nil {
		logger.Warn("cannot record run", "err", err)
		return
	}
	logger.Debug("recorded run", "id", id)

	if keep := state.config.GetInt(cfgKeyHistoryKeep); keep > 0 {
		if _, err := store.Prune(keep); err != nil {
			logger.Warn("cannot prune history", "err", err)
		}
	}
}
