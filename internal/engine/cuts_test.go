package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworkshop/cutlist/internal/model"
)

func TestPlanCuts_EmptyLayout(t *testing.T) {
	layout := model.StockLayout{Stock: model.NewStockSheet("Sheet", 1000, 600, 1)}
	assert.Nil(t, PlanCuts(layout, 3.2))
}

func TestPlanCuts_BoardCrosscuts(t *testing.T) {
	board := model.NewStockBoard("Board", 2400, 90, 1)
	layout := model.StockLayout{
		Stock: board,
		Placements: []model.Placement{
			{Piece: model.NewPiece("B", 800, 80, 1), X: 603},
			{Piece: model.NewPiece("A", 600, 80, 1), X: 0},
		},
	}

	cuts := PlanCuts(layout, 3)

	require.Len(t, cuts, 2)
	assert.Equal(t, model.CutCross, cuts[0].Kind)
	assert.Equal(t, 600.0, cuts[0].Position, "first crosscut at the end of the leftmost piece")
	assert.Equal(t, 1403.0, cuts[1].Position)
	assert.Equal(t, 1, cuts[0].Order)
	assert.Equal(t, 2, cuts[1].Order)
}

func TestPlanCuts_SheetBandsRipThenCross(t *testing.T) {
	sheet := model.NewStockSheet("Sheet", 1000, 600, 1)
	// Two bands: top band 0..300 with two pieces, bottom band 300..600 with one.
	layout := model.StockLayout{
		Stock: sheet,
		Placements: []model.Placement{
			{Piece: model.NewPiece("A", 400, 300, 1), X: 0, Y: 0},
			{Piece: model.NewPiece("B", 300, 300, 1), X: 400, Y: 0},
			{Piece: model.NewPiece("C", 500, 300, 1), X: 0, Y: 300},
		},
	}

	cuts := PlanCuts(layout, 3.2)

	require.NotEmpty(t, cuts)

	var rips, crosses []model.Cut
	for _, c := range cuts {
		switch c.Kind {
		case model.CutRip:
			rips = append(rips, c)
		default:
			crosses = append(crosses, c)
		}
	}

	// One rip frees the first band; the second band reaches the stock edge.
	require.Len(t, rips, 1)
	assert.Equal(t, 300.0, rips[0].Position)
	assert.Equal(t, 0.0, rips[0].Start)
	assert.Equal(t, 1000.0, rips[0].End)

	require.Len(t, crosses, 3)
	assert.Equal(t, 400.0, crosses[0].Position)
	assert.Equal(t, 700.0, crosses[1].Position)
	assert.Equal(t, 500.0, crosses[2].Position)

	// Orders are sequential starting at 1
	for i, c := range cuts {
		assert.Equal(t, i+1, c.Order)
	}
}

func TestPlanCuts_SharedEdgeDeduplicated(t *testing.T) {
	sheet := model.NewStockSheet("Sheet", 1000, 600, 1)
	// Two stacked pieces in one band sharing the same right edge.
	layout := model.StockLayout{
		Stock: sheet,
		Placements: []model.Placement{
			{Piece: model.NewPiece("A", 400, 200, 1), X: 0, Y: 0},
			{Piece: model.NewPiece("B", 400, 200, 1), X: 0, Y: 200},
		},
	}

	cuts := PlanCuts(layout, 0)

	crossCount := 0
	for _, c := range cuts {
		if c.Kind == model.CutCross {
			crossCount++
			assert.Equal(t, 400.0, c.Position)
		}
	}
	assert.Equal(t, 1, crossCount, "stacked pieces with one right edge need one crosscut")
}

func TestPlanCuts_CrosscutSpansItsBandOnly(t *testing.T) {
	sheet := model.NewStockSheet("Sheet", 1000, 600, 1)
	layout := model.StockLayout{
		Stock: sheet,
		Placements: []model.Placement{
			{Piece: model.NewPiece("A", 400, 250, 1), X: 0, Y: 0},
			{Piece: model.NewPiece("C", 500, 350, 1), X: 0, Y: 250},
		},
	}

	cuts := PlanCuts(layout, 0)

	for _, c := range cuts {
		if c.Kind == model.CutCross && c.Position == 400.0 {
			assert.Equal(t, 0.0, c.Start)
			assert.Equal(t, 250.0, c.End, "crosscut must stay within its band")
		}
	}
}
