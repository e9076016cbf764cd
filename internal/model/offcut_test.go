package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOffcuts_RightAndBottomStrips(t *testing.T) {
	sheet := NewStockSheet("Plywood", 2440, 1220, 1)
	layout := StockLayout{
		Stock: sheet,
		Placements: []Placement{
			{Piece: NewPiece("A", 1000, 800, 1), X: 0, Y: 0},
		},
	}

	offcuts := DetectOffcuts(layout, 0, 0)

	require.Len(t, offcuts, 2)
	// Sorted by area descending: the right strip is larger
	right := offcuts[0]
	assert.Equal(t, 1000.0, right.X)
	assert.Equal(t, 0.0, right.Y)
	assert.Equal(t, 1440.0, right.Length)
	assert.Equal(t, 1220.0, right.Width)

	bottom := offcuts[1]
	assert.Equal(t, 0.0, bottom.X)
	assert.Equal(t, 800.0, bottom.Y)
	assert.Equal(t, 1000.0, bottom.Length)
	assert.Equal(t, 420.0, bottom.Width)
}

func TestDetectOffcuts_KerfShrinksRemnant(t *testing.T) {
	sheet := NewStockSheet("Sheet", 1000, 600, 1)
	layout := StockLayout{
		Stock: sheet,
		Placements: []Placement{
			{Piece: NewPiece("A", 800, 600, 1), X: 0, Y: 0},
		},
	}

	offcuts := DetectOffcuts(layout, 0, 4)

	require.Len(t, offcuts, 1)
	assert.Equal(t, 804.0, offcuts[0].X)
	assert.Equal(t, 196.0, offcuts[0].Length)
}

func TestDetectOffcuts_TinyRemnantIsWaste(t *testing.T) {
	sheet := NewStockSheet("Sheet", 1000, 600, 1)
	layout := StockLayout{
		Stock: sheet,
		Placements: []Placement{
			{Piece: NewPiece("A", 970, 580, 1), X: 0, Y: 0},
		},
	}

	assert.Empty(t, DetectOffcuts(layout, 0, 0))
}

func TestDetectOffcuts_EmptyLayoutIsOneOffcut(t *testing.T) {
	sheet := NewStockSheet("Sheet", 1000, 600, 1)
	sheet.CostPerUnit = 25

	offcuts := DetectOffcuts(StockLayout{Stock: sheet}, 3, 0)

	require.Len(t, offcuts, 1)
	assert.Equal(t, 1000.0, offcuts[0].Length)
	assert.Equal(t, 600.0, offcuts[0].Width)
	assert.Equal(t, 25.0, offcuts[0].Cost)
	assert.Equal(t, 3, offcuts[0].LayoutIndex)
}

func TestDetectOffcuts_ProportionalCost(t *testing.T) {
	sheet := NewStockSheet("Sheet", 1000, 500, 1)
	sheet.CostPerUnit = 50
	layout := StockLayout{
		Stock: sheet,
		Placements: []Placement{
			{Piece: NewPiece("A", 500, 500, 1), X: 0, Y: 0},
		},
	}

	offcuts := DetectOffcuts(layout, 0, 0)

	require.Len(t, offcuts, 1)
	// Half the sheet remains, so half the cost
	assert.InDelta(t, 25.0, offcuts[0].Cost, 0.001)
}

func TestDetectAllOffcuts(t *testing.T) {
	sheet := NewStockSheet("Sheet", 2440, 1220, 1)
	result := OptimizationResult{
		Layouts: []StockLayout{
			{Stock: sheet, Placements: []Placement{{Piece: NewPiece("A", 1200, 1220, 1)}}},
			{Stock: sheet, Placements: []Placement{{Piece: NewPiece("B", 2000, 1220, 1)}}},
		},
	}

	offcuts := DetectAllOffcuts(result, 0)

	require.Len(t, offcuts, 2)
	assert.Equal(t, 0, offcuts[0].LayoutIndex)
	assert.Equal(t, 1, offcuts[1].LayoutIndex)
	assert.InDelta(t, 1240*1220+440*1220, TotalOffcutArea(offcuts), 0.001)
}

func TestOffcut_ToStockUnit(t *testing.T) {
	o := Offcut{StockLabel: "Plywood", Length: 600, Width: 400, Cost: 12}

	s := o.ToStockUnit()

	assert.Equal(t, "Offcut Plywood", s.Label)
	assert.Equal(t, KindSheet, s.Kind)
	assert.Equal(t, 600.0, s.Length)
	assert.Equal(t, 400.0, s.Width)
	assert.Equal(t, 1, s.Quantity)
	assert.Equal(t, 12.0, s.CostPerUnit)
}
