package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePurchaseEstimate(t *testing.T) {
	pieces := []Piece{
		NewPiece("Side", 1000, 500, 2),
		NewPiece("Top", 800, 400, 1),
	}
	stock := NewStockSheet("Plywood", 2440, 1220, 1)
	stock.CostPerUnit = 60

	est := CalculatePurchaseEstimate(pieces, stock, 0, 15)

	assert.Equal(t, 1320000.0, est.TotalPieceArea)
	assert.InDelta(t, 1320000.0/92903.04, est.TotalBoardFeet, 0.001)
	assert.Equal(t, 2976800.0, est.StockArea)
	assert.InDelta(t, 0.4434, est.UnitsNeededExact, 0.001)
	assert.Equal(t, 1, est.UnitsNeededMin)
	assert.Equal(t, 1, est.UnitsWithWaste)
	assert.Equal(t, 60.0, est.EstimatedCost)
}

func TestCalculatePurchaseEstimate_KerfInflatesPieceArea(t *testing.T) {
	pieces := []Piece{NewPiece("P", 100, 100, 1)}
	stock := NewStockSheet("S", 1000, 1000, 1)

	noKerf := CalculatePurchaseEstimate(pieces, stock, 0, 0)
	withKerf := CalculatePurchaseEstimate(pieces, stock, 4, 0)

	assert.Equal(t, 10000.0, noKerf.TotalPieceArea)
	assert.Equal(t, 104.0*104.0, withKerf.TotalPieceArea)
	assert.Greater(t, withKerf.UnitsNeededExact, noKerf.UnitsNeededExact)
}

func TestCalculatePurchaseEstimate_WasteFactorAddsUnits(t *testing.T) {
	// 0.95 sheets exact; 15% waste pushes past one unit.
	pieces := []Piece{NewPiece("P", 950, 1000, 1)}
	stock := NewStockSheet("S", 1000, 1000, 1)

	est := CalculatePurchaseEstimate(pieces, stock, 0, 15)

	assert.Equal(t, 1, est.UnitsNeededMin)
	assert.Equal(t, 2, est.UnitsWithWaste)
	assert.Equal(t, 15.0, est.WastePercent)
}

func TestCalculatePurchaseEstimate_ZeroAreaStock(t *testing.T) {
	pieces := []Piece{NewPiece("P", 100, 100, 1)}

	est := CalculatePurchaseEstimate(pieces, StockUnit{}, 2, 10)

	assert.Equal(t, 0, est.UnitsNeededMin)
	assert.Equal(t, 10.0, est.WastePercent)
	assert.Equal(t, 2.0, est.KerfWidth)
	assert.Greater(t, est.TotalPieceArea, 0.0)
}

func TestBuildPurchaseList_GroupsByLabelAndSize(t *testing.T) {
	big := NewStockSheet("Plywood", 2440, 1220, 1)
	big.CostPerUnit = 60
	small := NewStockSheet("Plywood", 1220, 610, 1)
	small.CostPerUnit = 20
	board := NewStockBoard("Oak", 2440, 140, 1)
	board.CostPerUnit = 35

	result := OptimizationResult{
		Layouts: []StockLayout{
			{Stock: big}, {Stock: big}, {Stock: small}, {Stock: board},
		},
	}

	lines := BuildPurchaseList(result)

	require.Len(t, lines, 3)
	// Sorted by label, then area descending within a label
	assert.Equal(t, "Oak", lines[0].StockLabel)
	assert.Equal(t, 1, lines[0].Count)

	assert.Equal(t, "Plywood", lines[1].StockLabel)
	assert.Equal(t, 2440.0, lines[1].Length)
	assert.Equal(t, 2, lines[1].Count)
	assert.Equal(t, 120.0, lines[1].TotalCost)

	assert.Equal(t, "Plywood", lines[2].StockLabel)
	assert.Equal(t, 1220.0, lines[2].Length)
	assert.Equal(t, 1, lines[2].Count)
}

func TestBuildPurchaseList_Empty(t *testing.T) {
	assert.Empty(t, BuildPurchaseList(OptimizationResult{}))
}
