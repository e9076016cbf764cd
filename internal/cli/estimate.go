package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digitalworkshop/cutlist/internal/model"
)

func newEstimateCmd(state *rootState) *cobra.Command {
	var (
		piecesPath string
		sheets     []string
		boards     []string
		presets    []string
		waste      float64
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate how many stock units a piece list needs",
		Long: `Estimate computes an area-based purchase estimate without running the
full optimizer: total piece area divided by stock area, with a waste factor
applied. One stock type must be given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			if piecesPath == "" {
				return fmt.Errorf("--pieces is required")
			}
			pieces, err := loadPiecesFile(logger, piecesPath)
			if err != nil {
				return err
			}

			stocks, err := collectStocks(sheets, boards, presets)
			if err != nil {
				return err
			}
			if len(stocks) != 1 {
				return fmt.Errorf("estimate needs exactly one stock type, got %d", len(stocks))
			}

			settings := settingsFromConfig(state.config)
			if waste >= 0 {
				settings.WasteFactor = waste
			}

			est := model.CalculatePurchaseEstimate(pieces, stocks[0], settings.KerfWidth, settings.WasteFactor)

			fmt.Printf("Total piece area:   %.0f mm² (%.2f board feet)\n", est.TotalPieceArea, est.TotalBoardFeet)
			fmt.Printf("Stock unit area:    %.0f mm²\n", est.StockArea)
			fmt.Printf("Units needed:       %.2f exact, %d minimum\n", est.UnitsNeededExact, est.UnitsNeededMin)
			fmt.Printf("Recommended:        %d units (with %.0f%% waste factor)\n", est.UnitsWithWaste, est.WastePercent)
			if est.EstimatedCost > 0 {
				fmt.Printf("Estimated cost:     %.2f (%.2f per unit)\n", est.EstimatedCost, est.CostPerUnit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&piecesPath, "pieces", "", "piece list file (.csv, .xlsx, .dxf)")
	cmd.Flags().StringArrayVar(&sheets, "sheet", nil, "sheet stock as label:LxW:qty[:cost]")
	cmd.Flags().StringArrayVar(&boards, "board", nil, "board stock as label:LxW:qty[:cost]")
	cmd.Flags().StringArrayVar(&presets, "preset", nil, "catalog preset as name[:qty]")
	cmd.Flags().Float64Var(&waste, "waste", -1, "waste factor percentage")

	return cmd
}
