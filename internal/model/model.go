// Package model defines the core data types for cut-list optimization:
// pieces, stock units, placements, and optimization results.
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Grain represents a grain direction constraint.
//
// For a Piece it states how the wood fiber must run through the finished
// piece. For a StockUnit it states how the fiber runs across the stock face
// (sheet goods like MDF have no meaningful grain and use GrainNone).
type Grain int

const (
	GrainNone   Grain = iota // No grain constraint, can rotate freely
	GrainLength              // Grain runs along the length axis
	GrainWidth               // Grain runs along the width axis
)

func (g Grain) String() string {
	switch g {
	case GrainLength:
		return "Length"
	case GrainWidth:
		return "Width"
	default:
		return "None"
	}
}

// CanPlaceWithGrain reports which orientations are allowed when placing a
// piece with the given grain requirement on stock with the given face grain.
// canNormal is placement with the piece length along the stock length;
// canRotated is the 90° orientation.
func CanPlaceWithGrain(piece, stock Grain) (canNormal, canRotated bool) {
	if piece == GrainNone || stock == GrainNone {
		return true, true
	}
	if piece == stock {
		return true, false
	}
	return false, true
}

// Piece represents one required piece of the cut list.
// A Piece is immutable once handed to the optimizer; a new optimization run
// never mutates its inputs.
type Piece struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Length    float64 `json:"length"`    // mm, along the grain axis by convention
	Width     float64 `json:"width"`     // mm
	Thickness float64 `json:"thickness"` // mm, 0 = unspecified
	Quantity  int     `json:"quantity"`
	Material  string  `json:"material,omitempty"`
	Grain     Grain   `json:"grain"`
	Priority  bool    `json:"priority,omitempty"` // Place before non-priority pieces of equal area
	Outline   Outline `json:"outline,omitempty"`  // Non-rectangular outline; nil for rectangular pieces
}

// NewPiece creates a rectangular piece with a generated short ID.
func NewPiece(label string, length, width float64, qty int) Piece {
	return Piece{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Width:    width,
		Quantity: qty,
		Grain:    GrainNone,
	}
}

// Area returns the footprint of a single piece in square mm.
func (p Piece) Area() float64 {
	return p.Length * p.Width
}

// Validate returns an error describing the first invalid field, or nil.
func (p Piece) Validate() error {
	if p.Length <= 0 {
		return fmt.Errorf("piece %q: length must be positive, got %g", p.Label, p.Length)
	}
	if p.Width <= 0 {
		return fmt.Errorf("piece %q: width must be positive, got %g", p.Label, p.Width)
	}
	if p.Thickness < 0 {
		return fmt.Errorf("piece %q: thickness must not be negative, got %g", p.Label, p.Thickness)
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("piece %q: quantity must be positive, got %d", p.Label, p.Quantity)
	}
	return nil
}

// StockKind distinguishes sheet goods from linear lumber.
type StockKind string

const (
	KindSheet StockKind = "sheet" // Plywood, MDF, etc.; packed in 2D
	KindBoard StockKind = "board" // Linear lumber; cut to length in 1D
)

// DefectZone is a rectangular region of a stock unit that must not receive
// placements (knots, checks, staining, damaged corners).
type DefectZone struct {
	X      float64 `json:"x"`      // mm from the left edge
	Y      float64 `json:"y"`      // mm from the top edge
	Length float64 `json:"length"` // mm along X
	Width  float64 `json:"width"`  // mm along Y
}

// StockUnit represents an available board or sheet of raw material.
// Immutable during a single optimization run.
type StockUnit struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Kind        StockKind    `json:"kind"`
	Length      float64      `json:"length"`    // mm
	Width       float64      `json:"width"`     // mm
	Thickness   float64      `json:"thickness"` // mm, 0 = unspecified
	Quantity    int          `json:"quantity"`
	CostPerUnit float64      `json:"cost_per_unit"` // 0 = unpriced
	Grade       string       `json:"grade,omitempty"`
	Material    string       `json:"material,omitempty"`
	Grain       Grain        `json:"grain"`
	Defects     []DefectZone `json:"defects,omitempty"`
}

// NewStockSheet creates a sheet-good stock unit with a generated short ID.
func NewStockSheet(label string, length, width float64, qty int) StockUnit {
	return StockUnit{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Kind:     KindSheet,
		Length:   length,
		Width:    width,
		Quantity: qty,
		Grain:    GrainNone,
	}
}

// NewStockBoard creates a linear lumber stock unit with a generated short ID.
// Board grain always runs along the length.
func NewStockBoard(label string, length, width float64, qty int) StockUnit {
	return StockUnit{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Kind:     KindBoard,
		Length:   length,
		Width:    width,
		Quantity: qty,
		Grain:    GrainLength,
	}
}

// Area returns the face area of one stock unit in square mm.
func (s StockUnit) Area() float64 {
	return s.Length * s.Width
}

// Validate returns an error describing the first invalid field, or nil.
func (s StockUnit) Validate() error {
	if s.Kind != KindSheet && s.Kind != KindBoard {
		return fmt.Errorf("stock %q: unknown kind %q", s.Label, s.Kind)
	}
	if s.Length <= 0 || s.Width <= 0 {
		return fmt.Errorf("stock %q: dimensions must be positive, got %g x %g", s.Label, s.Length, s.Width)
	}
	if s.Quantity <= 0 {
		return fmt.Errorf("stock %q: quantity must be positive, got %d", s.Label, s.Quantity)
	}
	if s.CostPerUnit < 0 {
		return fmt.Errorf("stock %q: cost must not be negative, got %g", s.Label, s.CostPerUnit)
	}
	return nil
}

// Strategy selects the optimization algorithm.
type Strategy string

const (
	StrategyGreedy Strategy = "greedy" // Largest piece first, best remaining fit (fast)
	StrategySearch Strategy = "search" // Genetic meta-heuristic (slower, often better)
)

// Settings holds optimizer configuration.
type Settings struct {
	Strategy  Strategy `json:"strategy"`
	KerfWidth float64  `json:"kerf_width"` // Blade width in mm
	EdgeTrim  float64  `json:"edge_trim"`  // Trim around stock edges in mm

	// NestingRotations is the number of rotation angles tried when placing
	// outline pieces without grain constraints. Values <= 2 keep the usual
	// 0°/90° behavior.
	NestingRotations int `json:"nesting_rotations,omitempty"`

	// WasteFactor is the extra percentage applied by the purchase estimator.
	WasteFactor float64 `json:"waste_factor"`
}

// DefaultSettings returns settings for a typical table-saw workshop.
func DefaultSettings() Settings {
	return Settings{
		Strategy:    StrategyGreedy,
		KerfWidth:   3.2,
		EdgeTrim:    10.0,
		WasteFactor: 15.0,
	}
}

// Validate returns an error for out-of-range settings, or nil.
func (s Settings) Validate() error {
	if s.Strategy != StrategyGreedy && s.Strategy != StrategySearch {
		return fmt.Errorf("unknown strategy %q", s.Strategy)
	}
	if s.KerfWidth < 0 {
		return fmt.Errorf("kerf width must not be negative, got %g", s.KerfWidth)
	}
	if s.EdgeTrim < 0 {
		return fmt.Errorf("edge trim must not be negative, got %g", s.EdgeTrim)
	}
	return nil
}

// Placement assigns one piece instance to a rectangular region of a stock
// unit. Placements are produced only by the optimizer and never mutated;
// a new run produces a new set.
type Placement struct {
	Piece   Piece   `json:"piece"`
	X       float64 `json:"x"`       // mm from the left edge
	Y       float64 `json:"y"`       // mm from the top edge
	Rotated bool    `json:"rotated"` // Piece length runs along stock width
}

// PlacedLength returns the extent along the stock length axis.
func (p Placement) PlacedLength() float64 {
	if p.Rotated {
		return p.Piece.Width
	}
	return p.Piece.Length
}

// PlacedWidth returns the extent along the stock width axis.
func (p Placement) PlacedWidth() float64 {
	if p.Rotated {
		return p.Piece.Length
	}
	return p.Piece.Width
}

// CutKind distinguishes the two saw operations in a cut sequence.
type CutKind string

const (
	CutRip   CutKind = "rip"   // Parallel to the stock length axis
	CutCross CutKind = "cross" // Perpendicular to the stock length axis
)

// Cut is a single straight saw cut in a planned sequence.
type Cut struct {
	Order    int     `json:"order"`
	Kind     CutKind `json:"kind"`
	Position float64 `json:"position"` // Coordinate of the cut line (Y for cross, X for rip)
	Start    float64 `json:"start"`    // Extent of the cut along the blade travel
	End      float64 `json:"end"`
}

// StockLayout is one stock unit with its placed pieces and cut sequence.
type StockLayout struct {
	Stock      StockUnit   `json:"stock"`
	Placements []Placement `json:"placements"`
	Cuts       []Cut       `json:"cuts,omitempty"`
}

// UsedArea returns the total area covered by placed pieces.
func (sl StockLayout) UsedArea() float64 {
	var total float64
	for _, p := range sl.Placements {
		total += p.PlacedLength() * p.PlacedWidth()
	}
	return total
}

// TotalArea returns the stock face area.
func (sl StockLayout) TotalArea() float64 {
	return sl.Stock.Area()
}

// WasteArea returns the stock area not covered by pieces.
func (sl StockLayout) WasteArea() float64 {
	return sl.TotalArea() - sl.UsedArea()
}

// Utilization returns the usage percentage in [0, 100].
func (sl StockLayout) Utilization() float64 {
	ta := sl.TotalArea()
	if ta == 0 {
		return 0
	}
	return (sl.UsedArea() / ta) * 100.0
}

// UnplacedReason explains why a piece could not be placed.
type UnplacedReason string

const (
	// ReasonTooLarge: the piece exceeds the usable dimensions of every
	// stock unit in the catalog, in both orientations.
	ReasonTooLarge UnplacedReason = "exceeds all stock dimensions"
	// ReasonGrainConflict: the piece would fit some stock dimensionally,
	// but only in an orientation its grain requirement forbids.
	ReasonGrainConflict UnplacedReason = "grain direction conflict"
	// ReasonNoSpace: the piece fits some stock, but no fitting region
	// remained after earlier placements.
	ReasonNoSpace UnplacedReason = "no fitting region left"
)

// UnplacedPiece records a single piece instance that could not be placed,
// with the reason. Unplaced pieces are always reported, never dropped.
type UnplacedPiece struct {
	Piece  Piece          `json:"piece"`
	Reason UnplacedReason `json:"reason"`
}

// OptimizationResult holds the full solution of one optimizer run.
type OptimizationResult struct {
	Layouts  []StockLayout   `json:"layouts"`
	Unplaced []UnplacedPiece `json:"unplaced,omitempty"`
}

// Feasible reports whether every requested piece instance was placed.
func (r OptimizationResult) Feasible() bool {
	return len(r.Unplaced) == 0
}

// BoardCount returns the number of stock units used.
func (r OptimizationResult) BoardCount() int {
	return len(r.Layouts)
}

// PlacedCount returns the total number of placed piece instances.
func (r OptimizationResult) PlacedCount() int {
	total := 0
	for _, l := range r.Layouts {
		total += len(l.Placements)
	}
	return total
}

// UsedArea returns the total placed piece area across all layouts.
func (r OptimizationResult) UsedArea() float64 {
	var total float64
	for _, l := range r.Layouts {
		total += l.UsedArea()
	}
	return total
}

// StockArea returns the total area of the stock units actually used.
func (r OptimizationResult) StockArea() float64 {
	var total float64
	for _, l := range r.Layouts {
		total += l.TotalArea()
	}
	return total
}

// WasteArea returns the total offcut area across used stock.
func (r OptimizationResult) WasteArea() float64 {
	return r.StockArea() - r.UsedArea()
}

// Utilization returns the overall material usage percentage in [0, 100].
// The denominator is the stock actually used, not the whole catalog.
func (r OptimizationResult) Utilization() float64 {
	sa := r.StockArea()
	if sa == 0 {
		return 0
	}
	return (r.UsedArea() / sa) * 100.0
}

// TotalCost returns the summed cost of the stock units used.
func (r OptimizationResult) TotalCost() float64 {
	var total float64
	for _, l := range r.Layouts {
		total += l.Stock.CostPerUnit
	}
	return total
}

// Project ties pieces, stock, and settings together for save/load.
type Project struct {
	Name     string              `json:"name"`
	Pieces   []Piece             `json:"pieces"`
	Stocks   []StockUnit         `json:"stocks"`
	Settings Settings            `json:"settings"`
	Result   *OptimizationResult `json:"result,omitempty"`
}

// NewProject returns an empty project with default settings.
func NewProject(name string) Project {
	if name == "" {
		name = "Untitled"
	}
	return Project{
		Name:     name,
		Pieces:   []Piece{},
		Stocks:   []StockUnit{},
		Settings: DefaultSettings(),
	}
}
