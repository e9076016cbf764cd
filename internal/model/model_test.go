package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPlaceWithGrain(t *testing.T) {
	tests := []struct {
		name       string
		piece      Grain
		stock      Grain
		wantNormal bool
		wantRot    bool
	}{
		{"no constraints", GrainNone, GrainNone, true, true},
		{"free piece on grained stock", GrainNone, GrainLength, true, true},
		{"grained piece on sheet good", GrainLength, GrainNone, true, true},
		{"aligned length", GrainLength, GrainLength, true, false},
		{"aligned width", GrainWidth, GrainWidth, true, false},
		{"crossed length on width", GrainLength, GrainWidth, false, true},
		{"crossed width on length", GrainWidth, GrainLength, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normal, rotated := CanPlaceWithGrain(tt.piece, tt.stock)
			assert.Equal(t, tt.wantNormal, normal)
			assert.Equal(t, tt.wantRot, rotated)
		})
	}
}

func TestGrain_String(t *testing.T) {
	assert.Equal(t, "None", GrainNone.String())
	assert.Equal(t, "Length", GrainLength.String())
	assert.Equal(t, "Width", GrainWidth.String())
}

func TestNewPiece(t *testing.T) {
	p := NewPiece("Shelf", 800, 300, 4)

	assert.Len(t, p.ID, 8)
	assert.Equal(t, "Shelf", p.Label)
	assert.Equal(t, 800.0, p.Length)
	assert.Equal(t, 300.0, p.Width)
	assert.Equal(t, 4, p.Quantity)
	assert.Equal(t, GrainNone, p.Grain)
	assert.Equal(t, 240000.0, p.Area())
}

func TestPiece_Validate(t *testing.T) {
	valid := NewPiece("OK", 100, 50, 1)
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Piece)
	}{
		{"zero length", func(p *Piece) { p.Length = 0 }},
		{"negative width", func(p *Piece) { p.Width = -10 }},
		{"negative thickness", func(p *Piece) { p.Thickness = -1 }},
		{"zero quantity", func(p *Piece) { p.Quantity = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPiece("Bad", 100, 50, 1)
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestNewStockSheet(t *testing.T) {
	s := NewStockSheet("Plywood", 2440, 1220, 3)

	assert.Equal(t, KindSheet, s.Kind)
	assert.Equal(t, GrainNone, s.Grain)
	assert.Equal(t, 3, s.Quantity)
	assert.NoError(t, s.Validate())
}

func TestNewStockBoard_GrainRunsAlongLength(t *testing.T) {
	b := NewStockBoard("Oak 1x6", 2440, 140, 2)

	assert.Equal(t, KindBoard, b.Kind)
	assert.Equal(t, GrainLength, b.Grain)
	assert.NoError(t, b.Validate())
}

func TestStockUnit_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StockUnit)
	}{
		{"unknown kind", func(s *StockUnit) { s.Kind = "panel" }},
		{"zero length", func(s *StockUnit) { s.Length = 0 }},
		{"zero quantity", func(s *StockUnit) { s.Quantity = 0 }},
		{"negative cost", func(s *StockUnit) { s.CostPerUnit = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStockSheet("Bad", 1000, 500, 1)
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestSettings_Validate(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.Validate())

	s.Strategy = "simulated-annealing"
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.KerfWidth = -1
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.EdgeTrim = -1
	assert.Error(t, s.Validate())
}

func TestPlacement_Dimensions(t *testing.T) {
	p := Placement{Piece: NewPiece("P", 600, 200, 1)}
	assert.Equal(t, 600.0, p.PlacedLength())
	assert.Equal(t, 200.0, p.PlacedWidth())

	p.Rotated = true
	assert.Equal(t, 200.0, p.PlacedLength())
	assert.Equal(t, 600.0, p.PlacedWidth())
}

func TestStockLayout_Stats(t *testing.T) {
	layout := StockLayout{
		Stock: NewStockSheet("Sheet", 1000, 500, 1),
		Placements: []Placement{
			{Piece: NewPiece("A", 400, 250, 1)},
			{Piece: NewPiece("B", 300, 250, 1), Rotated: true},
		},
	}

	assert.Equal(t, 175000.0, layout.UsedArea())
	assert.Equal(t, 500000.0, layout.TotalArea())
	assert.Equal(t, 325000.0, layout.WasteArea())
	assert.InDelta(t, 35.0, layout.Utilization(), 0.001)
}

func TestOptimizationResult_Stats(t *testing.T) {
	sheet := NewStockSheet("Sheet", 1000, 500, 1)
	sheet.CostPerUnit = 40

	result := OptimizationResult{
		Layouts: []StockLayout{
			{Stock: sheet, Placements: []Placement{{Piece: NewPiece("A", 500, 500, 1)}}},
			{Stock: sheet, Placements: []Placement{{Piece: NewPiece("B", 250, 500, 1)}}},
		},
	}

	assert.True(t, result.Feasible())
	assert.Equal(t, 2, result.BoardCount())
	assert.Equal(t, 2, result.PlacedCount())
	assert.Equal(t, 375000.0, result.UsedArea())
	assert.Equal(t, 1000000.0, result.StockArea())
	assert.InDelta(t, 37.5, result.Utilization(), 0.001)
	assert.Equal(t, 80.0, result.TotalCost())

	result.Unplaced = append(result.Unplaced, UnplacedPiece{
		Piece:  NewPiece("Huge", 5000, 5000, 1),
		Reason: ReasonTooLarge,
	})
	assert.False(t, result.Feasible())
}

func TestOptimizationResult_Empty(t *testing.T) {
	var result OptimizationResult
	assert.True(t, result.Feasible())
	assert.Equal(t, 0.0, result.Utilization())
}

func TestNewProject(t *testing.T) {
	p := NewProject("")

	assert.Equal(t, "Untitled", p.Name)
	assert.Equal(t, "Bench", NewProject("Bench").Name)
	assert.Empty(t, p.Pieces)
	assert.Empty(t, p.Stocks)
	assert.Equal(t, DefaultSettings(), p.Settings)
	assert.Nil(t, p.Result)
}

func TestAppConfig_ApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultStrategy = string(StrategySearch)
	cfg.DefaultKerfWidth = 2.0
	cfg.DefaultEdgeTrim = 5.0
	cfg.DefaultWasteFactor = 20.0

	var s Settings
	cfg.ApplyToSettings(&s)

	assert.Equal(t, StrategySearch, s.Strategy)
	assert.Equal(t, 2.0, s.KerfWidth)
	assert.Equal(t, 5.0, s.EdgeTrim)
	assert.Equal(t, 20.0, s.WasteFactor)
}

func TestAppConfig_ApplyToSettings_EmptyStrategyKept(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultStrategy = ""

	s := DefaultSettings()
	s.Strategy = StrategySearch
	cfg.ApplyToSettings(&s)

	require.Equal(t, StrategySearch, s.Strategy)
}
