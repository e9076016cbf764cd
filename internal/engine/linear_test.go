package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworkshop/cutlist/internal/model"
)

func TestPackBoards_SingleBoard(t *testing.T) {
	settings := defaultTestSettings()

	pieces := expandPieces([]model.Piece{model.NewPiece("Rail", 800, 80, 2)})
	boards := []model.StockUnit{model.NewStockBoard("Board", 2400, 90, 1)}

	layouts, unplaced := packBoards(settings, pieces, boards)

	assert.Len(t, unplaced, 0)
	require.Len(t, layouts, 1)
	assert.Len(t, layouts[0].Placements, 2)
}

func TestPackBoards_KerfBetweenPieces(t *testing.T) {
	settings := defaultTestSettings()
	settings.KerfWidth = 5

	// Two 1000mm pieces plus one 5mm kerf need 2005mm.
	pieces := expandPieces([]model.Piece{model.NewPiece("P", 1000, 80, 2)})

	short := []model.StockUnit{model.NewStockBoard("Short", 2000, 90, 1)}
	_, unplaced := packBoards(settings, pieces, short)
	assert.Len(t, unplaced, 1, "2000mm board holds one piece once kerf counts")

	long := []model.StockUnit{model.NewStockBoard("Long", 2010, 90, 1)}
	_, unplaced = packBoards(settings, pieces, long)
	assert.Len(t, unplaced, 0)
}

func TestPackBoards_EdgeTrimReserved(t *testing.T) {
	settings := defaultTestSettings()
	settings.EdgeTrim = 20

	pieces := expandPieces([]model.Piece{model.NewPiece("Exact", 2400, 80, 1)})
	boards := []model.StockUnit{model.NewStockBoard("Board", 2400, 90, 1)}

	_, unplaced := packBoards(settings, pieces, boards)
	assert.Len(t, unplaced, 1, "trim at both ends leaves less than the full length")
}

func TestPackBoards_WideBlankRejected(t *testing.T) {
	settings := defaultTestSettings()

	pieces := expandPieces([]model.Piece{model.NewPiece("Wide", 500, 120, 1)})
	boards := []model.StockUnit{model.NewStockBoard("Board", 2400, 90, 1)}

	_, unplaced := packBoards(settings, pieces, boards)
	assert.Len(t, unplaced, 1, "piece wider than the blank cannot be cut from it")
}

func TestPackBoards_CrossGrainRejected(t *testing.T) {
	settings := defaultTestSettings()

	p := model.NewPiece("CrossGrain", 500, 80, 1)
	p.Grain = model.GrainWidth
	boards := []model.StockUnit{model.NewStockBoard("Board", 2400, 90, 1)}

	_, unplaced := packBoards(settings, expandPieces([]model.Piece{p}), boards)
	assert.Len(t, unplaced, 1, "board grain runs along the length only")
}

func TestPackBoards_FirstFitOpensNewBoards(t *testing.T) {
	settings := defaultTestSettings()

	pieces := expandPieces([]model.Piece{model.NewPiece("Long", 1500, 80, 3)})
	boards := []model.StockUnit{model.NewStockBoard("Board", 2400, 90, 3)}

	layouts, unplaced := packBoards(settings, pieces, boards)

	assert.Len(t, unplaced, 0)
	assert.Len(t, layouts, 3, "1500mm pieces do not share a 2400mm board")
}

func TestPackBoards_PlacementPositionsAdvance(t *testing.T) {
	settings := defaultTestSettings()
	settings.KerfWidth = 3

	pieces := expandPieces([]model.Piece{model.NewPiece("P", 600, 80, 3)})
	boards := []model.StockUnit{model.NewStockBoard("Board", 2400, 90, 1)}

	layouts, unplaced := packBoards(settings, pieces, boards)

	assert.Len(t, unplaced, 0)
	require.Len(t, layouts, 1)
	placements := layouts[0].Placements
	require.Len(t, placements, 3)
	assert.Equal(t, 0.0, placements[0].X)
	assert.Equal(t, 603.0, placements[1].X)
	assert.Equal(t, 1206.0, placements[2].X)
}
