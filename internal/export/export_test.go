package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworkshop/cutlist/internal/engine"
	"github.com/digitalworkshop/cutlist/internal/model"
)

// sampleResult builds a small two-layout result with cuts and one unplaced
// piece, the shape every exporter has to handle.
func sampleResult(t *testing.T) model.OptimizationResult {
	t.Helper()

	sheet := model.NewStockSheet("Plywood 2440x1220", 2440, 1220, 1)
	sheet.CostPerUnit = 60
	board := model.NewStockBoard("Oak 1x6", 2440, 140, 1)
	board.CostPerUnit = 35

	result := model.OptimizationResult{
		Layouts: []model.StockLayout{
			{
				Stock: sheet,
				Placements: []model.Placement{
					{Piece: model.NewPiece("Side", 800, 400, 1), X: 0, Y: 0},
					{Piece: model.NewPiece("Top", 600, 400, 1), X: 803.2, Y: 0, Rotated: false},
				},
			},
			{
				Stock: board,
				Placements: []model.Placement{
					{Piece: model.NewPiece("Rail", 900, 80, 1), X: 0, Y: 0},
				},
			},
		},
		Unplaced: []model.UnplacedPiece{
			{Piece: model.NewPiece("Oversize", 3000, 1500, 1), Reason: model.ReasonTooLarge},
		},
	}
	for i := range result.Layouts {
		result.Layouts[i].Cuts = engine.PlanCuts(result.Layouts[i], 3.2)
	}
	return result
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCSV(t *testing.T) {
	result := sampleResult(t)
	path := filepath.Join(t.TempDir(), "plan.csv")

	require.NoError(t, ExportCSV(path, result))

	rows := readCSVFile(t, path)
	// Header + 3 placements + 1 unplaced
	require.Len(t, rows, 5)
	assert.Equal(t, "stock_index", rows[0][0])

	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Plywood 2440x1220", rows[1][1])
	assert.Equal(t, "Side", rows[1][2])
	assert.Equal(t, "800", rows[1][3])
	assert.Equal(t, "803.2", rows[2][5])

	unplaced := rows[4]
	assert.Equal(t, "", unplaced[0])
	assert.Equal(t, string(model.ReasonTooLarge), unplaced[1])
	assert.Equal(t, "Oversize", unplaced[2])
	assert.Equal(t, "", unplaced[5])
}

func TestExportCutsCSV(t *testing.T) {
	result := sampleResult(t)
	path := filepath.Join(t.TempDir(), "cuts.csv")

	require.NoError(t, ExportCutsCSV(path, result))

	rows := readCSVFile(t, path)
	require.Greater(t, len(rows), 1)
	assert.Equal(t, "cut_order", rows[0][2])
	assert.Equal(t, "1", rows[1][2], "first cut of a layout is order 1")
}

func TestExportPurchaseCSV(t *testing.T) {
	result := sampleResult(t)
	path := filepath.Join(t.TempDir(), "purchase.csv")

	require.NoError(t, ExportPurchaseCSV(path, result))

	rows := readCSVFile(t, path)
	// Header + two distinct stock lines
	require.Len(t, rows, 3)
	assert.Equal(t, "Oak 1x6", rows[1][0])
	assert.Equal(t, "1", rows[1][4])
	assert.Equal(t, "35.00", rows[1][6])
	assert.Equal(t, "Plywood 2440x1220", rows[2][0])
}

func TestExportPDF(t *testing.T) {
	result := sampleResult(t)
	path := filepath.Join(t.TempDir(), "plan.pdf")

	require.NoError(t, ExportPDF(path, result, model.DefaultSettings()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000))
}

func TestExportPDF_NoLayouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	err := ExportPDF(path, model.OptimizationResult{}, model.DefaultSettings())
	assert.Error(t, err)
}

func TestExportExcel(t *testing.T) {
	result := sampleResult(t)
	path := filepath.Join(t.TempDir(), "plan.xlsx")

	require.NoError(t, ExportExcel(path, result))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportPNG(t *testing.T) {
	result := sampleResult(t)
	path := filepath.Join(t.TempDir(), "layout.png")

	require.NoError(t, ExportPNG(path, result.Layouts[0]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestExportAllPNG(t *testing.T) {
	result := sampleResult(t)
	dir := t.TempDir()

	require.NoError(t, ExportAllPNG(filepath.Join(dir, "layout-%d.png"), result))

	for i := 1; i <= len(result.Layouts); i++ {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("layout-%d.png", i)))
		require.NoError(t, err, "layout %d missing", i)
	}

	err := ExportAllPNG(filepath.Join(dir, "x-%d.png"), model.OptimizationResult{})
	assert.Error(t, err)
}

func TestExportHTML(t *testing.T) {
	result := sampleResult(t)
	path := filepath.Join(t.TempDir(), "report.html")

	require.NoError(t, ExportHTML(path, result))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
}
