package project

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworkshop/cutlist/internal/model"
)

func TestSaveLoadProject_Roundtrip(t *testing.T) {
	p := model.NewProject("Bookshelf")
	p.Pieces = append(p.Pieces, model.NewPiece("Side", 1800, 300, 2))
	p.Stocks = append(p.Stocks, model.NewStockSheet("Plywood", 2440, 1220, 2))
	p.Settings.Strategy = model.StrategySearch
	p.Result = &model.OptimizationResult{
		Layouts: []model.StockLayout{
			{Stock: p.Stocks[0], Placements: []model.Placement{{Piece: p.Pieces[0], X: 10, Y: 20}}},
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "bookshelf.json")
	require.NoError(t, SaveProject(path, p))

	loaded, err := LoadProject(path)
	require.NoError(t, err)

	assert.Equal(t, "Bookshelf", loaded.Name)
	require.Len(t, loaded.Pieces, 1)
	assert.Equal(t, p.Pieces[0].ID, loaded.Pieces[0].ID)
	assert.Equal(t, model.StrategySearch, loaded.Settings.Strategy)
	require.NotNil(t, loaded.Result)
	assert.Equal(t, 10.0, loaded.Result.Layouts[0].Placements[0].X)
}

func TestLoadProject_Missing(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadProject_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadProject(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestAddRecentProject(t *testing.T) {
	config := model.DefaultAppConfig()

	AddRecentProject(&config, "/a.json")
	AddRecentProject(&config, "/b.json")
	AddRecentProject(&config, "/a.json")

	require.Len(t, config.RecentProjects, 2)
	assert.Equal(t, "/a.json", config.RecentProjects[0], "most recent first, deduplicated")
	assert.Equal(t, "/b.json", config.RecentProjects[1])
}

func TestAddRecentProject_CapsAtTen(t *testing.T) {
	config := model.DefaultAppConfig()
	for i := 0; i < 15; i++ {
		AddRecentProject(&config, fmt.Sprintf("/project-%d.json", i))
	}

	require.Len(t, config.RecentProjects, 10)
	assert.Equal(t, "/project-14.json", config.RecentProjects[0])
}

func TestSaveLoadAppConfig_Roundtrip(t *testing.T) {
	config := model.DefaultAppConfig()
	config.DefaultKerfWidth = 2.5
	config.RecentProjects = []string{"/one.json"}

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveAppConfig(path, config))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, loaded.DefaultKerfWidth)
	assert.Equal(t, []string{"/one.json"}, loaded.RecentProjects)
}

func TestLoadAppConfig_MissingReturnsDefaults(t *testing.T) {
	loaded, err := LoadAppConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig(), loaded)
}

func TestLoadAppConfig_NilRecentProjectsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"default_strategy":"greedy"}`), 0644))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.NotNil(t, loaded.RecentProjects)
	assert.Empty(t, loaded.RecentProjects)
}
