package model

import "github.com/google/uuid"

// StockPreset represents a reusable stock definition for the catalog.
type StockPreset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Kind        StockKind `json:"kind"`
	Length      float64   `json:"length"`
	Width       float64   `json:"width"`
	Thickness   float64   `json:"thickness"`
	Material    string    `json:"material"`
	Grain       Grain     `json:"grain"`
	CostPerUnit float64   `json:"cost_per_unit"`
	Grade       string    `json:"grade,omitempty"`
}

// NewStockPreset creates a sheet-good preset with a generated ID.
func NewStockPreset(name string, length, width float64, material string) StockPreset {
	return StockPreset{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Kind:     KindSheet,
		Length:   length,
		Width:    width,
		Material: material,
	}
}

// NewBoardPreset creates a linear lumber preset with a generated ID.
func NewBoardPreset(name string, length, width float64, material string) StockPreset {
	return StockPreset{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Kind:     KindBoard,
		Length:   length,
		Width:    width,
		Material: material,
		Grain:    GrainLength,
	}
}

// ToStockUnit converts a preset into a stock unit with the given quantity.
func (sp StockPreset) ToStockUnit(qty int) StockUnit {
	return StockUnit{
		ID:          uuid.New().String()[:8],
		Label:       sp.Name,
		Kind:        sp.Kind,
		Length:      sp.Length,
		Width:       sp.Width,
		Thickness:   sp.Thickness,
		Quantity:    qty,
		CostPerUnit: sp.CostPerUnit,
		Grade:       sp.Grade,
		Material:    sp.Material,
		Grain:       sp.Grain,
	}
}

// Catalog holds the user's saved stock presets.
type Catalog struct {
	Stocks []StockPreset `json:"stocks"`
}

// DefaultCatalog returns a catalog populated with common sheet goods and
// dimensional lumber sizes.
func DefaultCatalog() Catalog {
	oakBoard := NewBoardPreset("Oak 1x6 8ft", 2440, 140, "Oak")
	oakBoard.Grade = "Select"
	pineBoard := NewBoardPreset("Pine 1x4 8ft", 2440, 89, "Pine")
	return Catalog{
		Stocks: []StockPreset{
			NewStockPreset("Plywood 2440x1220 (8'x4')", 2440, 1220, "Plywood"),
			NewStockPreset("Plywood 1220x610 (4'x2')", 1220, 610, "Plywood"),
			NewStockPreset("MDF 2440x1220 (8'x4')", 2440, 1220, "MDF"),
			NewStockPreset("MDF 1220x610 (4'x2')", 1220, 610, "MDF"),
			NewStockPreset("Birch Ply 1525x1525 (5'x5')", 1525, 1525, "Birch Plywood"),
			oakBoard,
			pineBoard,
		},
	}
}

// FindStockByID returns a pointer to the preset with the given ID, or nil.
func (c *Catalog) FindStockByID(id string) *StockPreset {
	for i := range c.Stocks {
		if c.Stocks[i].ID == id {
			return &c.Stocks[i]
		}
	}
	return nil
}

// FindStockByName returns a pointer to the first preset with the given name,
// or nil.
func (c *Catalog) FindStockByName(name string) *StockPreset {
	for i := range c.Stocks {
		if c.Stocks[i].Name == name {
			return &c.Stocks[i]
		}
	}
	return nil
}

// StockNames returns the preset names in catalog order.
func (c *Catalog) StockNames() []string {
	names := make([]string, len(c.Stocks))
	for i, s := range c.Stocks {
		names[i] = s.Name
	}
	return names
}
