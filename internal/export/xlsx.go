package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// ExportExcel writes the optimization result to an Excel workbook with
// three sheets: Placements, Cuts, and Purchase List.
func ExportExcel(path string, result model.OptimizationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const placementsSheet = "Placements"
	// The default sheet is renamed rather than deleted
	if err := f.SetSheetName("Sheet1", placementsSheet); err != nil {
		return fmt.Errorf("cannot set up workbook: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("cannot create style: %w", err)
	}

	if err := writePlacementsSheet(f, placementsSheet, headerStyle, result); err != nil {
		return err
	}
	if err := writeCutsSheet(f, headerStyle, result); err != nil {
		return err
	}
	if err := writePurchaseSheet(f, headerStyle, result); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writePlacementsSheet(f *excelize.File, sheet string, headerStyle int, result model.OptimizationResult) error {
	headers := []interface{}{"Stock #", "Stock Label", "Piece", "Length (mm)", "Width (mm)", "X (mm)", "Y (mm)", "Rotated"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", headerStyle); err != nil {
		return err
	}

	rowNum := 2
	for i, layout := range result.Layouts {
		for _, p := range layout.Placements {
			row := []interface{}{i + 1, layout.Stock.Label, p.Piece.Label, p.Piece.Length, p.Piece.Width, p.X, p.Y, p.Rotated}
			cell := fmt.Sprintf("A%d", rowNum)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return err
			}
			rowNum++
		}
	}

	for _, up := range result.Unplaced {
		row := []interface{}{"", string(up.Reason), up.Piece.Label, up.Piece.Length, up.Piece.Width, "", "", ""}
		cell := fmt.Sprintf("A%d", rowNum)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		rowNum++
	}

	return nil
}

func writeCutsSheet(f *excelize.File, headerStyle int, result model.OptimizationResult) error {
	const sheet = "Cuts"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []interface{}{"Stock #", "Stock Label", "Order", "Kind", "Position (mm)", "Start (mm)", "End (mm)"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", headerStyle); err != nil {
		return err
	}

	rowNum := 2
	for i, layout := range result.Layouts {
		for _, cut := range layout.Cuts {
			row := []interface{}{i + 1, layout.Stock.Label, cut.Order, string(cut.Kind), cut.Position, cut.Start, cut.End}
			cell := fmt.Sprintf("A%d", rowNum)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return err
			}
			rowNum++
		}
	}

	return nil
}

func writePurchaseSheet(f *excelize.File, headerStyle int, result model.OptimizationResult) error {
	const sheet = "Purchase List"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []interface{}{"Stock", "Material", "Length (mm)", "Width (mm)", "Count", "Unit Cost", "Total Cost"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", headerStyle); err != nil {
		return err
	}

	rowNum := 2
	var total float64
	for _, line := range model.BuildPurchaseList(result) {
		row := []interface{}{line.StockLabel, line.Material, line.Length, line.Width, line.Count, line.CostPerUnit, line.TotalCost}
		cell := fmt.Sprintf("A%d", rowNum)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		total += line.TotalCost
		rowNum++
	}

	totalRow := []interface{}{"Total", "", "", "", "", "", total}
	cell := fmt.Sprintf("A%d", rowNum)
	return f.SetSheetRow(sheet, cell, &totalRow)
}
