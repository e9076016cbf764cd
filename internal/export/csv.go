package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// ExportCSV writes the full cut plan as CSV: one row per placement with
// its stock unit, position, and rotation, followed by the planned cuts.
func ExportCSV(path string, result model.OptimizationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"stock_index", "stock_label", "piece_label", "length_mm", "width_mm", "x_mm", "y_mm", "rotated"}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, layout := range result.Layouts {
		for _, p := range layout.Placements {
			row := []string{
				strconv.Itoa(i + 1),
				layout.Stock.Label,
				p.Piece.Label,
				formatMM(p.Piece.Length),
				formatMM(p.Piece.Width),
				formatMM(p.X),
				formatMM(p.Y),
				strconv.FormatBool(p.Rotated),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	// Unplaced pieces appear with empty position columns and the reason in
	// place of the stock label.
	for _, up := range result.Unplaced {
		row := []string{
			"",
			string(up.Reason),
			up.Piece.Label,
			formatMM(up.Piece.Length),
			formatMM(up.Piece.Width),
			"", "", "",
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ExportCutsCSV writes the planned saw-cut sequence, one row per cut.
func ExportCutsCSV(path string, result model.OptimizationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"stock_index", "stock_label", "cut_order", "kind", "position_mm", "start_mm", "end_mm"}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, layout := range result.Layouts {
		for _, cut := range layout.Cuts {
			row := []string{
				strconv.Itoa(i + 1),
				layout.Stock.Label,
				strconv.Itoa(cut.Order),
				string(cut.Kind),
				formatMM(cut.Position),
				formatMM(cut.Start),
				formatMM(cut.End),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// ExportPurchaseCSV writes the purchase list as CSV.
func ExportPurchaseCSV(path string, result model.OptimizationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"stock_label", "material", "length_mm", "width_mm", "count", "cost_per_unit", "total_cost"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, line := range model.BuildPurchaseList(result) {
		row := []string{
			line.StockLabel,
			line.Material,
			formatMM(line.Length),
			formatMM(line.Width),
			strconv.Itoa(line.Count),
			strconv.FormatFloat(line.CostPerUnit, 'f', 2, 64),
			strconv.FormatFloat(line.TotalCost, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatMM formats a millimeter value without trailing zero noise.
func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
