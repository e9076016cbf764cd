package model

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Offcut represents a usable rectangular remnant left over after cutting.
type Offcut struct {
	ID          string  `json:"id"`
	StockLabel  string  `json:"stock_label"`  // Which stock unit it came from
	LayoutIndex int     `json:"layout_index"` // Index of the source layout in the result
	X           float64 `json:"x"`            // Position on the stock (mm from left)
	Y           float64 `json:"y"`            // Position on the stock (mm from top)
	Length      float64 `json:"length"`       // Usable length (mm)
	Width       float64 `json:"width"`        // Usable width (mm)
	Cost        float64 `json:"cost"`         // Inherited cost proportional to area (0 if unpriced)
}

// Area returns the area of the offcut in square mm.
func (o Offcut) Area() float64 {
	return o.Length * o.Width
}

// ToStockUnit converts an offcut into a stock unit for reuse in future runs.
func (o Offcut) ToStockUnit() StockUnit {
	sheet := NewStockSheet("Offcut "+o.StockLabel, o.Length, o.Width, 1)
	sheet.CostPerUnit = o.Cost
	return sheet
}

// MinOffcutDimension is the minimum length or width (in mm) for a remnant
// to be considered a usable offcut. Remnants smaller than this are waste.
const MinOffcutDimension = 50.0

// MinOffcutArea is the minimum area (in sq mm) for a remnant to be usable.
const MinOffcutArea = 10000.0 // 100mm x 100mm equivalent

// DetectOffcuts analyzes a StockLayout and identifies rectangular remnant
// areas large enough to be reused. It finds the full-height strip to the
// right of all placements and the strip below them.
func DetectOffcuts(sl StockLayout, layoutIndex int, kerf float64) []Offcut {
	stockL := sl.Stock.Length
	stockW := sl.Stock.Width

	if len(sl.Placements) == 0 {
		// Entire stock unit is an offcut (unlikely but handle it)
		return []Offcut{{
			ID:          uuid.New().String()[:8],
			StockLabel:  sl.Stock.Label,
			LayoutIndex: layoutIndex,
			Length:      stockL,
			Width:       stockW,
			Cost:        sl.Stock.CostPerUnit,
		}}
	}

	// Bounding box of all placed pieces, kerf included
	var maxRight, maxBottom float64
	for _, p := range sl.Placements {
		right := p.X + p.PlacedLength() + kerf
		bottom := p.Y + p.PlacedWidth() + kerf
		if right > maxRight {
			maxRight = right
		}
		if bottom > maxBottom {
			maxBottom = bottom
		}
	}

	var offcuts []Offcut

	// Right strip: area beyond all pieces along the length axis
	rightStrip := stockL - maxRight
	if rightStrip >= MinOffcutDimension && stockW >= MinOffcutDimension && rightStrip*stockW >= MinOffcutArea {
		offcuts = append(offcuts, Offcut{
			ID:          uuid.New().String()[:8],
			StockLabel:  sl.Stock.Label,
			LayoutIndex: layoutIndex,
			X:           maxRight,
			Y:           0,
			Length:      rightStrip,
			Width:       stockW,
		})
	}

	// Bottom strip: area below all pieces, up to the right edge of the
	// pieces to avoid overlapping the right strip
	bottomStrip := stockW - maxBottom
	usableBottomL := math.Min(maxRight, stockL)
	if bottomStrip >= MinOffcutDimension && usableBottomL >= MinOffcutDimension && bottomStrip*usableBottomL >= MinOffcutArea {
		offcuts = append(offcuts, Offcut{
			ID:          uuid.New().String()[:8],
			StockLabel:  sl.Stock.Label,
			LayoutIndex: layoutIndex,
			X:           0,
			Y:           maxBottom,
			Length:      usableBottomL,
			Width:       bottomStrip,
		})
	}

	// Assign proportional cost to offcuts
	if sl.Stock.CostPerUnit > 0 {
		totalArea := stockL * stockW
		for i := range offcuts {
			offcuts[i].Cost = (offcuts[i].Area() / totalArea) * sl.Stock.CostPerUnit
		}
	}

	sort.Slice(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})

	return offcuts
}

// DetectAllOffcuts finds offcuts across all layouts in an optimization result.
func DetectAllOffcuts(result OptimizationResult, kerf float64) []Offcut {
	var all []Offcut
	for i, layout := range result.Layouts {
		all = append(all, DetectOffcuts(layout, i, kerf)...)
	}
	return all
}

// TotalOffcutArea returns the total area of all offcuts in square mm.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
