package model

import (
	"math"
	"sort"
)

// PurchaseEstimate holds the results of a stock purchasing calculation.
type PurchaseEstimate struct {
	TotalPieceArea    float64 `json:"total_piece_area"`    // Total area of all pieces (sq mm)
	TotalBoardFeet    float64 `json:"total_board_feet"`    // Total area in board feet
	StockArea         float64 `json:"stock_area"`          // Area of one stock unit (sq mm)
	UnitsNeededExact  float64 `json:"units_needed_exact"`  // Exact fractional number of units
	UnitsNeededMin    int     `json:"units_needed_min"`    // Minimum units (ceiling of exact)
	UnitsWithWaste    int     `json:"units_with_waste"`    // Recommended units including waste factor
	WastePercent      float64 `json:"waste_percent"`       // Waste factor applied (e.g. 15 for 15%)
	EstimatedCost     float64 `json:"estimated_cost"`      // Total cost if pricing available
	CostPerUnit       float64 `json:"cost_per_unit"`       // Price used for estimation
	KerfWidth         float64 `json:"kerf_width"`          // Kerf width used in calculation
}

// sqmmPerBoardFoot is the number of square millimeters in one board foot.
// 1 board foot = 12" x 12" x 1" (area) = 144 sq inches = 92903.04 sq mm.
const sqmmPerBoardFoot = 92903.04

// CalculatePurchaseEstimate computes how many stock units to buy for a cut
// list. It accounts for kerf loss per piece and an additional waste factor.
func CalculatePurchaseEstimate(pieces []Piece, stock StockUnit, kerfWidth, wastePercent float64) PurchaseEstimate {
	var totalPieceArea float64
	for _, p := range pieces {
		l := p.Length + kerfWidth
		w := p.Width + kerfWidth
		totalPieceArea += l * w * float64(p.Quantity)
	}

	stockArea := stock.Area()
	if stockArea <= 0 {
		return PurchaseEstimate{
			TotalPieceArea: totalPieceArea,
			TotalBoardFeet: totalPieceArea / sqmmPerBoardFoot,
			WastePercent:   wastePercent,
			KerfWidth:      kerfWidth,
		}
	}

	exactUnits := totalPieceArea / stockArea
	minUnits := int(math.Ceil(exactUnits))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	unitsWithWaste := int(math.Ceil(exactUnits * wasteFactor))
	if unitsWithWaste < minUnits {
		unitsWithWaste = minUnits
	}

	return PurchaseEstimate{
		TotalPieceArea:   totalPieceArea,
		TotalBoardFeet:   totalPieceArea / sqmmPerBoardFoot,
		StockArea:        stockArea,
		UnitsNeededExact: exactUnits,
		UnitsNeededMin:   minUnits,
		UnitsWithWaste:   unitsWithWaste,
		WastePercent:     wastePercent,
		EstimatedCost:    float64(unitsWithWaste) * stock.CostPerUnit,
		CostPerUnit:      stock.CostPerUnit,
		KerfWidth:        kerfWidth,
	}
}

// PurchaseLine is one row of a shopping list derived from a result.
type PurchaseLine struct {
	StockLabel  string  `json:"stock_label"`
	Material    string  `json:"material,omitempty"`
	Length      float64 `json:"length"`
	Width       float64 `json:"width"`
	Count       int     `json:"count"`
	CostPerUnit float64 `json:"cost_per_unit"`
	TotalCost   float64 `json:"total_cost"`
}

// BuildPurchaseList groups the stock units used by a result into a shopping
// list, one line per stock label and size.
func BuildPurchaseList(result OptimizationResult) []PurchaseLine {
	type key struct {
		label  string
		length float64
		width  float64
	}
	lines := make(map[key]*PurchaseLine)

	for _, layout := range result.Layouts {
		s := layout.Stock
		k := key{label: s.Label, length: s.Length, width: s.Width}
		line, ok := lines[k]
		if !ok {
			line = &PurchaseLine{
				StockLabel:  s.Label,
				Material:    s.Material,
				Length:      s.Length,
				Width:       s.Width,
				CostPerUnit: s.CostPerUnit,
			}
			lines[k] = line
		}
		line.Count++
		line.TotalCost += s.CostPerUnit
	}

	out := make([]PurchaseLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StockLabel != out[j].StockLabel {
			return out[i].StockLabel < out[j].StockLabel
		}
		return out[i].Length*out[i].Width > out[j].Length*out[j].Width
	})
	return out
}
