package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	require.NotEmpty(t, c.Stocks)
	assert.Contains(t, c.StockNames(), "Plywood 2440x1220 (8'x4')")

	oak := c.FindStockByName("Oak 1x6 8ft")
	require.NotNil(t, oak)
	assert.Equal(t, KindBoard, oak.Kind)
	assert.Equal(t, GrainLength, oak.Grain)
	assert.Equal(t, "Select", oak.Grade)
}

func TestCatalog_FindStockByID(t *testing.T) {
	c := DefaultCatalog()

	found := c.FindStockByID(c.Stocks[0].ID)
	require.NotNil(t, found)
	assert.Equal(t, c.Stocks[0].Name, found.Name)

	assert.Nil(t, c.FindStockByID("missing"))
	assert.Nil(t, c.FindStockByName("No Such Stock"))
}

func TestStockPreset_ToStockUnit(t *testing.T) {
	preset := NewBoardPreset("Walnut 1x8 6ft", 1830, 184, "Walnut")
	preset.CostPerUnit = 45
	preset.Thickness = 19

	unit := preset.ToStockUnit(3)

	assert.Equal(t, "Walnut 1x8 6ft", unit.Label)
	assert.Equal(t, KindBoard, unit.Kind)
	assert.Equal(t, 1830.0, unit.Length)
	assert.Equal(t, 19.0, unit.Thickness)
	assert.Equal(t, 3, unit.Quantity)
	assert.Equal(t, 45.0, unit.CostPerUnit)
	assert.Equal(t, GrainLength, unit.Grain)
	assert.NotEqual(t, preset.ID, unit.ID)
	assert.NoError(t, unit.Validate())
}
