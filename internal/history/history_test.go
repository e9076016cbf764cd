package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworkshop/cutlist/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testResult() model.OptimizationResult {
	sheet := model.NewStockSheet("Plywood", 2440, 1220, 1)
	sheet.CostPerUnit = 55
	return model.OptimizationResult{
		Layouts: []model.StockLayout{
			{
				Stock: sheet,
				Placements: []model.Placement{
					{Piece: model.NewPiece("Side", 800, 400, 1), X: 0, Y: 0},
					{Piece: model.NewPiece("Top", 600, 300, 1), X: 810, Y: 0},
				},
			},
		},
		Unplaced: []model.UnplacedPiece{
			{Piece: model.NewPiece("Huge", 3000, 2000, 1), Reason: model.ReasonTooLarge},
		},
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Record("Bookshelf", model.DefaultSettings(), testResult())
	require.NoError(t, err)
	require.Len(t, id, 8)

	entry, err := store.Get(id)
	require.NoError(t, err)

	assert.Equal(t, "Bookshelf", entry.ProjectName)
	assert.Equal(t, string(model.StrategyGreedy), entry.Strategy)
	assert.Equal(t, 3, entry.PieceCount, "placed plus unplaced")
	assert.Equal(t, 1, entry.StockUsed)
	assert.Equal(t, 1, entry.UnplacedCount)
	assert.Equal(t, 55.0, entry.TotalCost)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestStore_Get_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_List(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.Record("Project", model.DefaultSettings(), testResult())
		require.NoError(t, err)
	}

	all, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	limited, err := store.List(3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	// List omits the stored result payload
	assert.Empty(t, limited[0].ResultJSON)
}

func TestStore_List_Empty(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.List(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEntry_Result_Roundtrip(t *testing.T) {
	store := openTestStore(t)

	original := testResult()
	id, err := store.Record("Roundtrip", model.DefaultSettings(), original)
	require.NoError(t, err)

	entry, err := store.Get(id)
	require.NoError(t, err)

	decoded, err := entry.Result()
	require.NoError(t, err)
	require.Len(t, decoded.Layouts, 1)
	assert.Equal(t, original.Layouts[0].Placements[0].Piece.Label, decoded.Layouts[0].Placements[0].Piece.Label)
	require.Len(t, decoded.Unplaced, 1)
	assert.Equal(t, model.ReasonTooLarge, decoded.Unplaced[0].Reason)
}

func TestEntry_Result_Corrupt(t *testing.T) {
	e := Entry{ResultJSON: "{broken"}
	_, err := e.Result()
	assert.Error(t, err)
}

func TestStore_Prune(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 6; i++ {
		_, err := store.Record("Project", model.DefaultSettings(), testResult())
		require.NoError(t, err)
	}

	removed, err := store.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	remaining, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	// Pruning below the current count again removes nothing
	removed, err = store.Prune(10)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestStore_Close_Idempotent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
