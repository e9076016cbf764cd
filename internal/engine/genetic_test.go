package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworkshop/cutlist/internal/model"
)

func searchTestSettings() model.Settings {
	s := defaultTestSettings()
	s.Strategy = model.StrategySearch
	return s
}

func TestOptimizeGenetic_PlacesAllFittingPieces(t *testing.T) {
	settings := searchTestSettings()

	pieces := expandPieces([]model.Piece{
		model.NewPiece("A", 500, 400, 2),
		model.NewPiece("B", 300, 200, 3),
	})
	sheets := []model.StockUnit{model.NewStockSheet("Sheet", 2440, 1220, 2)}

	layouts, unplaced := optimizeGenetic(settings, pieces, sheets)

	assert.Len(t, unplaced, 0)
	placed := 0
	for _, l := range layouts {
		placed += len(l.Placements)
		assertNoOverlaps(t, l)
		assertInBounds(t, l)
	}
	assert.Equal(t, 5, placed)
}

func TestOptimizeGenetic_Deterministic(t *testing.T) {
	// The fixed seed makes repeated runs identical.
	settings := searchTestSettings()

	pieces := expandPieces([]model.Piece{
		model.NewPiece("A", 600, 400, 2),
		model.NewPiece("B", 350, 250, 2),
		model.NewPiece("C", 200, 150, 3),
	})
	sheets := []model.StockUnit{model.NewStockSheet("Sheet", 1220, 610, 3)}

	first, firstUnplaced := optimizeGenetic(settings, pieces, sheets)
	second, secondUnplaced := optimizeGenetic(settings, pieces, sheets)

	require.Equal(t, len(first), len(second))
	require.Equal(t, len(firstUnplaced), len(secondUnplaced))
	for i := range first {
		require.Equal(t, len(first[i].Placements), len(second[i].Placements))
		for j := range first[i].Placements {
			assert.Equal(t, first[i].Placements[j].X, second[i].Placements[j].X)
			assert.Equal(t, first[i].Placements[j].Y, second[i].Placements[j].Y)
			assert.Equal(t, first[i].Placements[j].Rotated, second[i].Placements[j].Rotated)
		}
	}
}

func TestOptimizeGenetic_RespectsGrain(t *testing.T) {
	settings := searchTestSettings()

	p := model.NewPiece("Panel", 600, 300, 4)
	p.Grain = model.GrainLength
	stock := model.NewStockSheet("Sheet", 2440, 1220, 1)
	stock.Grain = model.GrainLength

	layouts, unplaced := optimizeGenetic(settings, expandPieces([]model.Piece{p}), []model.StockUnit{stock})

	assert.Len(t, unplaced, 0)
	for _, l := range layouts {
		for _, pl := range l.Placements {
			assert.False(t, pl.Rotated, "grain-aligned pieces must keep orientation")
		}
	}
}

func TestOptimizeGenetic_EmptyInputs(t *testing.T) {
	layouts, unplaced := optimizeGenetic(searchTestSettings(), nil, nil)
	assert.Nil(t, layouts)
	assert.Nil(t, unplaced)
}

func TestOrderCrossover_PreservesAllGenes(t *testing.T) {
	pieces := expandPieces([]model.Piece{model.NewPiece("A", 100, 100, 6)})
	g := newGeneticOptimizer(defaultTestSettings(), DefaultGeneticConfig(), pieces, nil, geneticSeed)

	parent1 := g.createGreedyChromosome()
	parent2 := g.createGreedyChromosome()
	// Reverse parent2's order
	for i, j := 0, len(parent2.genes)-1; i < j; i, j = i+1, j-1 {
		parent2.genes[i], parent2.genes[j] = parent2.genes[j], parent2.genes[i]
	}

	child := g.orderCrossover(parent1, parent2)

	require.Len(t, child.genes, len(parent1.genes))
	seen := make(map[int]bool)
	for _, gn := range child.genes {
		assert.False(t, seen[gn.pieceIndex], "piece index %d duplicated", gn.pieceIndex)
		seen[gn.pieceIndex] = true
	}
}

func TestMutate_NeverRotatesGrainPieces(t *testing.T) {
	p := model.NewPiece("Grained", 100, 50, 8)
	p.Grain = model.GrainLength
	pieces := expandPieces([]model.Piece{p})
	g := newGeneticOptimizer(defaultTestSettings(), DefaultGeneticConfig(), pieces, nil, geneticSeed)

	c := g.createGreedyChromosome()
	for i := 0; i < 200; i++ {
		g.mutate(&c)
	}
	for _, gn := range c.genes {
		assert.False(t, gn.rotated, "rotation mutation must skip grain-constrained pieces")
	}
}
