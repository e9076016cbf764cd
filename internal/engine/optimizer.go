// Package engine implements the cut-list optimization algorithms: a fast
// greedy guillotine packer, a genetic meta-heuristic, 1D board cutting,
// cut-sequence planning, and scenario comparison.
package engine

import (
	"math"
	"sort"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// Optimizer maps required pieces onto available stock units.
type Optimizer struct {
	Settings model.Settings
}

func New(settings model.Settings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// Optimize takes pieces and stock units and returns an optimized layout.
//
// Optimization is performed per material group: pieces with a specific
// material are only placed on stock of the same material; pieces or stock
// with an empty material are treated as universal. Within a group, sheet
// goods are packed in 2D first; pieces left over are offered to linear
// board stock. Whatever remains is reported as unplaced with a reason,
// never dropped.
func (o *Optimizer) Optimize(pieces []model.Piece, stocks []model.StockUnit) model.OptimizationResult {
	groups := groupByMaterial(pieces, stocks)

	result := model.OptimizationResult{}
	for _, g := range groups {
		layouts, rest := o.optimizeGroup(g.pieces, g.stocks)
		result.Layouts = append(result.Layouts, layouts...)
		result.Unplaced = append(result.Unplaced, classifyUnplaced(rest, g.stocks, o.Settings)...)
	}

	for i := range result.Layouts {
		result.Layouts[i].Cuts = PlanCuts(result.Layouts[i], o.Settings.KerfWidth)
	}
	return result
}

// optimizeGroup packs one material group and returns the layouts plus the
// piece instances that could not be placed.
func (o *Optimizer) optimizeGroup(pieces []model.Piece, stocks []model.StockUnit) ([]model.StockLayout, []model.Piece) {
	var sheets, boards []model.StockUnit
	for _, s := range stocks {
		if s.Kind == model.KindBoard {
			boards = append(boards, s)
		} else {
			sheets = append(sheets, s)
		}
	}

	var layouts []model.StockLayout
	remaining := expandPieces(pieces)

	if len(sheets) > 0 {
		// Pieces that fit no sheet at all skip the sheet phase so they
		// cannot stall stock selection for the rest.
		candidates, rejects := o.partitionBySheetFit(remaining, sheets)

		var sheetLayouts []model.StockLayout
		if o.Settings.Strategy == model.StrategySearch {
			sheetLayouts, remaining = optimizeGenetic(o.Settings, candidates, sheets)
		} else {
			sheetLayouts, remaining = o.optimizeGreedy(candidates, sheets)
		}
		layouts = append(layouts, sheetLayouts...)
		remaining = append(remaining, rejects...)
	}

	if len(boards) > 0 && len(remaining) > 0 {
		var boardLayouts []model.StockLayout
		boardLayouts, remaining = packBoards(o.Settings, remaining, boards)
		layouts = append(layouts, boardLayouts...)
	}

	return layouts, remaining
}

// materialGroup holds pieces and stocks for a single material type.
type materialGroup struct {
	material string
	pieces   []model.Piece
	stocks   []model.StockUnit
}

// groupByMaterial splits pieces and stocks into groups by material type.
// Universal stock (empty material) is usable by every group; universal
// pieces get their own group over the full stock catalog. If no materials
// are specified at all, everything goes into one group.
func groupByMaterial(pieces []model.Piece, stocks []model.StockUnit) []materialGroup {
	materialSet := make(map[string]bool)
	for _, p := range pieces {
		if p.Material != "" {
			materialSet[p.Material] = true
		}
	}
	for _, s := range stocks {
		if s.Material != "" {
			materialSet[s.Material] = true
		}
	}

	if len(materialSet) == 0 {
		return []materialGroup{{pieces: pieces, stocks: stocks}}
	}

	materials := make([]string, 0, len(materialSet))
	for m := range materialSet {
		materials = append(materials, m)
	}
	sort.Strings(materials)

	var universalPieces []model.Piece
	var universalStocks []model.StockUnit
	for _, p := range pieces {
		if p.Material == "" {
			universalPieces = append(universalPieces, p)
		}
	}
	for _, s := range stocks {
		if s.Material == "" {
			universalStocks = append(universalStocks, s)
		}
	}

	groups := make([]materialGroup, 0, len(materials))
	for _, mat := range materials {
		g := materialGroup{material: mat}
		for _, p := range pieces {
			if p.Material == mat {
				g.pieces = append(g.pieces, p)
			}
		}
		for _, s := range stocks {
			if s.Material == mat {
				g.stocks = append(g.stocks, s)
			}
		}
		g.stocks = append(g.stocks, universalStocks...)
		if len(g.pieces) > 0 {
			groups = append(groups, g)
		}
	}

	if len(universalPieces) > 0 {
		g := materialGroup{pieces: universalPieces}
		g.stocks = append(g.stocks, stocks...)
		groups = append(groups, g)
	}

	return groups
}

// expandPieces flattens pieces by quantity into individual placement
// candidates, ordered largest-area first with priority pieces ahead of
// non-priority pieces.
func expandPieces(pieces []model.Piece) []model.Piece {
	var expanded []model.Piece
	for _, p := range pieces {
		for i := 0; i < p.Quantity; i++ {
			cp := p
			cp.Quantity = 1
			expanded = append(expanded, cp)
		}
	}
	sort.SliceStable(expanded, func(i, j int) bool {
		if expanded[i].Priority != expanded[j].Priority {
			return expanded[i].Priority
		}
		return expanded[i].Area() > expanded[j].Area()
	})
	return expanded
}

// partitionBySheetFit splits pieces into those that could fit at least one
// sheet (in some allowed orientation) and those that cannot.
func (o *Optimizer) partitionBySheetFit(pieces []model.Piece, sheets []model.StockUnit) ([]model.Piece, []model.Piece) {
	kerf := o.Settings.KerfWidth
	trim := o.Settings.EdgeTrim

	var fit, reject []model.Piece
	for _, p := range pieces {
		fits := false
		for _, s := range sheets {
			uL := s.Length - 2*trim
			uW := s.Width - 2*trim
			canNormal, canRotated := model.CanPlaceWithGrain(p.Grain, s.Grain)
			if canNormal && p.Length+kerf <= uL && p.Width+kerf <= uW {
				fits = true
				break
			}
			if canRotated && p.Width+kerf <= uL && p.Length+kerf <= uW {
				fits = true
				break
			}
		}
		if fits {
			fit = append(fit, p)
		} else {
			reject = append(reject, p)
		}
	}
	return fit, reject
}

// optimizeGreedy runs the fast heuristic: largest piece first, best
// remaining fit, over sheets picked by trial packing.
func (o *Optimizer) optimizeGreedy(expanded []model.Piece, sheets []model.StockUnit) ([]model.StockLayout, []model.Piece) {
	var stockPool []model.StockUnit
	for _, s := range sheets {
		for i := 0; i < s.Quantity; i++ {
			cp := s
			cp.Quantity = 1
			stockPool = append(stockPool, cp)
		}
	}

	var layouts []model.StockLayout
	remaining := expanded

	for len(remaining) > 0 && len(stockPool) > 0 {
		bestStockIdx := o.selectBestStock(stockPool, remaining)
		if bestStockIdx < 0 {
			break
		}

		stock := stockPool[bestStockIdx]
		stockPool = append(stockPool[:bestStockIdx], stockPool[bestStockIdx+1:]...)

		layout, unplaced := o.packStockBestStrategy(stock, remaining)
		if len(layout.Placements) > 0 {
			layouts = append(layouts, layout)
		}
		remaining = unplaced
	}

	return layouts, remaining
}

// rotationStrategy controls how pieces are rotated during packing.
type rotationStrategy int

const (
	rotBestFit    rotationStrategy = iota // Compare both orientations, pick tighter fit
	rotAllNormal                          // Normal orientation first, rotated as fallback
	rotAllRotated                         // Rotated first for unconstrained pieces
)

// packStockBestStrategy tries each rotation strategy on one stock unit and
// keeps the best outcome: most pieces placed, ties broken by utilization.
func (o *Optimizer) packStockBestStrategy(stock model.StockUnit, pieces []model.Piece) (model.StockLayout, []model.Piece) {
	strategies := []rotationStrategy{rotBestFit, rotAllNormal, rotAllRotated}

	var bestLayout model.StockLayout
	var bestUnplaced []model.Piece
	bestPlaced := -1

	for _, strat := range strategies {
		layout, unplaced := o.packStock(stock, pieces, strat)
		placed := len(layout.Placements)
		if placed > bestPlaced {
			bestPlaced = placed
			bestLayout = layout
			bestUnplaced = unplaced
		} else if placed == bestPlaced && placed > 0 {
			if layout.Utilization() > bestLayout.Utilization() {
				bestLayout = layout
				bestUnplaced = unplaced
			}
		}
	}
	return bestLayout, bestUnplaced
}

// packStock packs pieces into a single stock unit using the given rotation
// strategy.
func (o *Optimizer) packStock(stock model.StockUnit, pieces []model.Piece, strategy rotationStrategy) (model.StockLayout, []model.Piece) {
	layout := model.StockLayout{Stock: stock}
	var unplaced []model.Piece

	packer := newRectPacker(o.usableRects(stock), o.Settings.KerfWidth)

	for _, piece := range pieces {
		placed := false
		canNormal, canRotated := model.CanPlaceWithGrain(piece.Grain, stock.Grain)

		// Outline pieces without grain constraints may try extra angles
		if len(piece.Outline) > 0 && o.Settings.NestingRotations > 2 && piece.Grain == model.GrainNone {
			placed = o.tryOutlineRotations(packer, &layout, piece, o.Settings.NestingRotations)
		}

		if !placed {
			switch strategy {
			case rotAllRotated:
				if canRotated && piece.Length != piece.Width {
					placed = tryInsert(packer, &layout, piece, true)
				}
				if !placed && canNormal {
					placed = tryInsert(packer, &layout, piece, false)
				}

			case rotBestFit:
				if canNormal && canRotated && piece.Length != piece.Width {
					normalFit := packer.bestFit(piece.Length, piece.Width)
					rotatedFit := packer.bestFit(piece.Width, piece.Length)

					preferRotated := false
					if normalFit < 0 && rotatedFit >= 0 {
						preferRotated = true
					} else if normalFit >= 0 && rotatedFit >= 0 && rotatedFit < normalFit {
						preferRotated = true
					}

					if preferRotated {
						placed = tryInsert(packer, &layout, piece, true)
					} else if normalFit >= 0 {
						placed = tryInsert(packer, &layout, piece, false)
					}
				}
				// Fallback for grain-restricted or square pieces
				if !placed && canNormal {
					placed = tryInsert(packer, &layout, piece, false)
				}
				if !placed && canRotated {
					placed = tryInsert(packer, &layout, piece, true)
				}

			default: // rotAllNormal
				if canNormal {
					placed = tryInsert(packer, &layout, piece, false)
				}
				if !placed && canRotated {
					placed = tryInsert(packer, &layout, piece, true)
				}
			}
		}

		if !placed {
			unplaced = append(unplaced, piece)
		}
	}

	return layout, unplaced
}

// tryInsert attempts one placement with the given orientation and appends it
// to the layout on success.
func tryInsert(packer *rectPacker, layout *model.StockLayout, piece model.Piece, rotated bool) bool {
	l, w := piece.Length, piece.Width
	if rotated {
		l, w = w, l
	}
	ok, x, y := packer.insert(l, w)
	if !ok {
		return false
	}
	layout.Placements = append(layout.Placements, model.Placement{
		Piece: piece, X: x, Y: y, Rotated: rotated,
	})
	return true
}

// tryOutlineRotations attempts to place an outline piece at multiple
// rotation angles, tightest bounding box first. Returns true if placed.
func (o *Optimizer) tryOutlineRotations(packer *rectPacker, layout *model.StockLayout, piece model.Piece, numRotations int) bool {
	if numRotations < 1 {
		numRotations = 2
	}

	type candidate struct {
		outline model.Outline
		length  float64
		width   float64
		area    float64
	}

	var candidates []candidate
	angleStep := math.Pi / float64(numRotations)

	for i := 0; i < numRotations; i++ {
		rotated := piece.Outline.Rotate(float64(i) * angleStep)
		min, max := rotated.BoundingBox()
		l := max.X - min.X
		w := max.Y - min.Y
		if l > 0 && w > 0 {
			candidates = append(candidates, candidate{
				outline: rotated,
				length:  l,
				width:   w,
				area:    l * w,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].area < candidates[j].area
	})

	for _, c := range candidates {
		if ok, x, y := packer.insert(c.length, c.width); ok {
			placedPiece := piece
			placedPiece.Outline = c.outline
			placedPiece.Length = c.length
			placedPiece.Width = c.width

			layout.Placements = append(layout.Placements, model.Placement{
				Piece: placedPiece,
				X:     x,
				Y:     y,
				// Rotation is baked into the outline
				Rotated: false,
			})
			return true
		}
	}
	return false
}

// usableRects computes the initial free rectangles for packing, accounting
// for edge trim and defect exclusion zones.
func (o *Optimizer) usableRects(stock model.StockUnit) []rect {
	base := rect{
		x: o.Settings.EdgeTrim,
		y: o.Settings.EdgeTrim,
		l: stock.Length - 2*o.Settings.EdgeTrim,
		w: stock.Width - 2*o.Settings.EdgeTrim,
	}

	if len(stock.Defects) == 0 {
		return []rect{base}
	}
	return subtractDefects(base, stock.Defects)
}

// subtractDefects subtracts defect zones from a base rectangle, returning
// the remaining free rectangles.
func subtractDefects(base rect, defects []model.DefectZone) []rect {
	freeRects := []rect{base}

	for _, d := range defects {
		exclRect := rect{x: d.X, y: d.Y, l: d.Length, w: d.Width}
		var next []rect
		for _, free := range freeRects {
			next = append(next, subtractRect(free, exclRect)...)
		}
		// A defect may consume the whole free set; an empty set means
		// nothing can be placed on this stock unit.
		freeRects = next
	}

	// Filter out slivers below 1mm
	var result []rect
	for _, r := range freeRects {
		if r.l > 1 && r.w > 1 {
			result = append(result, r)
		}
	}
	return result
}

// subtractRect subtracts one rectangle from another, returning up to 4
// rectangles covering the non-overlapping portions.
func subtractRect(base, sub rect) []rect {
	intersect := rect{
		x: math.Max(base.x, sub.x),
		y: math.Max(base.y, sub.y),
	}
	intersect.l = math.Min(base.x+base.l, sub.x+sub.l) - intersect.x
	intersect.w = math.Min(base.y+base.w, sub.y+sub.w) - intersect.y

	if intersect.l <= 0 || intersect.w <= 0 {
		return []rect{base}
	}

	var result []rect

	// Left portion
	if intersect.x > base.x {
		result = append(result, rect{
			x: base.x, y: base.y,
			l: intersect.x - base.x, w: base.w,
		})
	}

	// Right portion
	rightEnd := base.x + base.l
	intersectRight := intersect.x + intersect.l
	if intersectRight < rightEnd {
		result = append(result, rect{
			x: intersectRight, y: base.y,
			l: rightEnd - intersectRight, w: base.w,
		})
	}

	// Top portion (between left and right)
	if intersect.y > base.y {
		left := math.Max(base.x, intersect.x)
		right := math.Min(base.x+base.l, intersectRight)
		result = append(result, rect{
			x: left, y: base.y,
			l: right - left, w: intersect.y - base.y,
		})
	}

	// Bottom portion
	bottomEnd := base.y + base.w
	intersectBottom := intersect.y + intersect.w
	if intersectBottom < bottomEnd {
		left := math.Max(base.x, intersect.x)
		right := math.Min(base.x+base.l, intersectRight)
		result = append(result, rect{
			x: left, y: intersectBottom,
			l: right - left, w: bottomEnd - intersectBottom,
		})
	}

	return result
}

// selectBestStock finds the best stock unit for the remaining pieces.
//
// For each candidate that can fit the largest remaining piece it runs a
// quick packing simulation and picks the stock yielding the highest
// efficiency. This minimizes waste when multiple stock sizes are available
// (e.g. full 2440x1220 sheets alongside 1220x610 half sheets).
func (o *Optimizer) selectBestStock(stocks []model.StockUnit, pieces []model.Piece) int {
	if len(stocks) == 0 || len(pieces) == 0 {
		return -1
	}

	var largest *model.Piece
	maxArea := 0.0
	for i := range pieces {
		if a := pieces[i].Area(); a > maxArea {
			maxArea = a
			largest = &pieces[i]
		}
	}

	kerf := o.Settings.KerfWidth
	trim := o.Settings.EdgeTrim

	var candidates []int
	for i, stock := range stocks {
		uL := stock.Length - 2*trim
		uW := stock.Width - 2*trim
		canNormal, canRotated := model.CanPlaceWithGrain(largest.Grain, stock.Grain)

		fitsNormal := canNormal && largest.Length+kerf <= uL && largest.Width+kerf <= uW
		fitsRotated := canRotated && largest.Width+kerf <= uL && largest.Length+kerf <= uW

		if fitsNormal || fitsRotated {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		return -1
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	// De-duplicate candidates by dimensions; identical stock sizes would
	// produce identical trial packings.
	type stockKey struct {
		l, w float64
	}
	seen := make(map[stockKey]bool)
	var unique []int
	for _, idx := range candidates {
		key := stockKey{stocks[idx].Length, stocks[idx].Width}
		if !seen[key] {
			seen[key] = true
			unique = append(unique, idx)
		}
	}

	bestIdx := -1
	bestScore := -1.0

	for _, idx := range unique {
		stock := stocks[idx]
		packer := newRectPacker(o.usableRects(stock), kerf)

		placedArea := 0.0
		for _, piece := range pieces {
			placed := false
			canNormal, canRotated := model.CanPlaceWithGrain(piece.Grain, stock.Grain)
			if canNormal {
				if ok, _, _ := packer.insert(piece.Length, piece.Width); ok {
					placedArea += piece.Area()
					placed = true
				}
			}
			if !placed && canRotated {
				if ok, _, _ := packer.insert(piece.Width, piece.Length); ok {
					placedArea += piece.Area()
				}
			}
		}

		stockArea := stock.Area()
		if stockArea == 0 {
			continue
		}
		if efficiency := placedArea / stockArea; efficiency > bestScore {
			bestScore = efficiency
			bestIdx = idx
		}
	}

	if bestIdx < 0 {
		return candidates[0]
	}
	return bestIdx
}

// classifyUnplaced assigns a reason to every piece instance left over after
// packing, checked against the full stock catalog of its material group.
func classifyUnplaced(pieces []model.Piece, stocks []model.StockUnit, settings model.Settings) []model.UnplacedPiece {
	var out []model.UnplacedPiece
	kerf := settings.KerfWidth
	trim := settings.EdgeTrim

	for _, p := range pieces {
		fitsIgnoringGrain := false
		fitsWithGrain := false

		for _, s := range stocks {
			uL := s.Length - 2*trim
			uW := s.Width - 2*trim

			dimsNormal := p.Length+kerf <= uL && p.Width+kerf <= uW
			dimsRotated := p.Width+kerf <= uL && p.Length+kerf <= uW
			if s.Kind == model.KindBoard {
				// Boards are never rotated; width and thickness must fit the
				// blank. The first piece on a board pays no kerf, so length
				// alone decides whether any board could ever hold it.
				dimsNormal = p.Length <= uL && p.Width <= s.Width &&
					(p.Thickness == 0 || s.Thickness == 0 || p.Thickness <= s.Thickness)
				dimsRotated = false
			}

			canNormal, canRotated := model.CanPlaceWithGrain(p.Grain, s.Grain)

			if dimsNormal || dimsRotated {
				fitsIgnoringGrain = true
			}
			if (dimsNormal && canNormal) || (dimsRotated && canRotated) {
				fitsWithGrain = true
				break
			}
		}

		reason := model.ReasonNoSpace
		if !fitsIgnoringGrain {
			reason = model.ReasonTooLarge
		} else if !fitsWithGrain {
			reason = model.ReasonGrainConflict
		}
		out = append(out, model.UnplacedPiece{Piece: p, Reason: reason})
	}
	return out
}

// rectPacker implements maximal-rectangles bin packing with a Best Area Fit
// heuristic. It maintains a list of free rectangles and splits every
// overlapping free rectangle around each placement.
type rectPacker struct {
	freeRects []rect
	kerf      float64
}

// rect is an axis-aligned free region: x/l run along the stock length axis,
// y/w along the stock width axis.
type rect struct {
	x, y, l, w float64
}

func newRectPacker(initial []rect, kerf float64) *rectPacker {
	return &rectPacker{freeRects: initial, kerf: kerf}
}

// insert tries to place a piece of the given footprint. Returns success and
// position. Ties in area fit are broken by the first (lowest-index) free
// rectangle.
func (rp *rectPacker) insert(l, w float64) (bool, float64, float64) {
	bestIdx := -1
	bestAreaFit := float64(-1)
	lk := l + rp.kerf
	wk := w + rp.kerf

	for i, r := range rp.freeRects {
		if lk <= r.l+0.001 && wk <= r.w+0.001 {
			areaFit := (r.l * r.w) - (l * w)
			if bestIdx < 0 || areaFit < bestAreaFit {
				bestIdx = i
				bestAreaFit = areaFit
			}
		}
	}

	if bestIdx < 0 {
		return false, 0, 0
	}

	chosen := rp.freeRects[bestIdx]
	px, py := chosen.x, chosen.y

	rp.splitAroundPlacement(rect{x: px, y: py, l: lk, w: wk})
	return true, px, py
}

// splitAroundPlacement removes all free rects that overlap the placed rect
// and generates maximal sub-rects from each overlap, then prunes contained
// rects. This keeps larger free areas than pure guillotine splitting.
func (rp *rectPacker) splitAroundPlacement(placed rect) {
	var newRects []rect

	for _, r := range rp.freeRects {
		if !rectsOverlap(r, placed) {
			newRects = append(newRects, r)
			continue
		}

		// Left strip (full width of the original rect)
		if placed.x > r.x+0.001 {
			newRects = append(newRects, rect{
				x: r.x, y: r.y,
				l: placed.x - r.x, w: r.w,
			})
		}
		// Right strip
		if placed.x+placed.l < r.x+r.l-0.001 {
			newRects = append(newRects, rect{
				x: placed.x + placed.l, y: r.y,
				l: (r.x + r.l) - (placed.x + placed.l), w: r.w,
			})
		}
		// Top strip (full length of the original rect)
		if placed.y > r.y+0.001 {
			newRects = append(newRects, rect{
				x: r.x, y: r.y,
				l: r.l, w: placed.y - r.y,
			})
		}
		// Bottom strip
		if placed.y+placed.w < r.y+r.w-0.001 {
			newRects = append(newRects, rect{
				x: r.x, y: placed.y + placed.w,
				l: r.l, w: (r.y + r.w) - (placed.y + placed.w),
			})
		}
	}

	rp.freeRects = pruneContained(newRects)
}

// bestFit returns the area waste for inserting a piece of the given
// footprint without modifying packer state. Returns -1 if it doesn't fit.
func (rp *rectPacker) bestFit(l, w float64) float64 {
	lk := l + rp.kerf
	wk := w + rp.kerf
	best := float64(-1)

	for _, r := range rp.freeRects {
		if lk <= r.l+0.001 && wk <= r.w+0.001 {
			areaFit := (r.l * r.w) - (l * w)
			if best < 0 || areaFit < best {
				best = areaFit
			}
		}
	}
	return best
}

// rectsOverlap returns true if two rectangles overlap (not just touch).
func rectsOverlap(a, b rect) bool {
	return a.x < b.x+b.l-0.001 && a.x+a.l > b.x+0.001 &&
		a.y < b.y+b.w-0.001 && a.y+a.w > b.y+0.001
}

// pruneContained removes any rect fully contained within another.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !containsRect(b, a) {
				continue
			}
			// Identical rects contain each other; keep the first
			if containsRect(a, b) && i < j {
				continue
			}
			contained = true
			break
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

// containsRect returns true if outer fully contains inner.
func containsRect(outer, inner rect) bool {
	return outer.x <= inner.x+0.001 && outer.y <= inner.y+0.001 &&
		outer.x+outer.l >= inner.x+inner.l-0.001 &&
		outer.y+outer.w >= inner.y+inner.w-0.001
}
