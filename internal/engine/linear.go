package engine

import (
	"sort"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// openBoard tracks an in-progress linear layout and its cut cursor.
type openBoard struct {
	layout model.StockLayout
	cursor float64 // Next free position along the board length
	limit  float64 // Usable end of the board
}

// packBoards places piece instances onto linear lumber using first-fit
// decreasing over piece length. A kerf is consumed between consecutive
// pieces on the same board, and edge trim is reserved at both ends.
//
// Pieces are never rotated on a board: the board grain runs along its
// length, so a piece requiring grain across its length cannot be cut from
// linear stock at all.
func packBoards(settings model.Settings, pieces []model.Piece, boards []model.StockUnit) ([]model.StockLayout, []model.Piece) {
	var pool []model.StockUnit
	for _, b := range boards {
		for i := 0; i < b.Quantity; i++ {
			cp := b
			cp.Quantity = 1
			pool = append(pool, cp)
		}
	}
	// Longest boards first so long pieces have somewhere to go
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Length > pool[j].Length
	})

	sorted := make([]model.Piece, len(pieces))
	copy(sorted, pieces)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority
		}
		return sorted[i].Length > sorted[j].Length
	})

	var open []*openBoard
	var unplaced []model.Piece

	for _, p := range sorted {
		if !boardCompatible(p) {
			unplaced = append(unplaced, p)
			continue
		}

		placed := false
		for _, ob := range open {
			if fitsOnBoard(ob, p, settings.KerfWidth) {
				placeOnBoard(ob, p, settings.KerfWidth)
				placed = true
				break
			}
		}

		if !placed {
			for i, b := range pool {
				ob := &openBoard{
					layout: model.StockLayout{Stock: b},
					cursor: settings.EdgeTrim,
					limit:  b.Length - settings.EdgeTrim,
				}
				if fitsOnBoard(ob, p, settings.KerfWidth) && blankFits(b, p) {
					pool = append(pool[:i], pool[i+1:]...)
					placeOnBoard(ob, p, settings.KerfWidth)
					open = append(open, ob)
					placed = true
					break
				}
			}
		}

		if !placed {
			unplaced = append(unplaced, p)
		}
	}

	layouts := make([]model.StockLayout, 0, len(open))
	for _, ob := range open {
		layouts = append(layouts, ob.layout)
	}
	return layouts, unplaced
}

// boardCompatible reports whether the piece's grain requirement can be
// satisfied by linear stock at all.
func boardCompatible(p model.Piece) bool {
	canNormal, _ := model.CanPlaceWithGrain(p.Grain, model.GrainLength)
	return canNormal
}

// blankFits checks the piece cross-section against the board blank.
func blankFits(b model.StockUnit, p model.Piece) bool {
	if p.Width > b.Width+0.001 {
		return false
	}
	if p.Thickness > 0 && b.Thickness > 0 && p.Thickness > b.Thickness+0.001 {
		return false
	}
	return true
}

// fitsOnBoard checks remaining length, blade kerf included unless the board
// is still empty.
func fitsOnBoard(ob *openBoard, p model.Piece, kerf float64) bool {
	if !blankFits(ob.layout.Stock, p) {
		return false
	}
	need := p.Length
	if len(ob.layout.Placements) > 0 {
		need += kerf
	}
	return ob.cursor+need <= ob.limit+0.001
}

// placeOnBoard appends a placement at the cursor and advances it.
func placeOnBoard(ob *openBoard, p model.Piece, kerf float64) {
	if len(ob.layout.Placements) > 0 {
		ob.cursor += kerf
	}
	ob.layout.Placements = append(ob.layout.Placements, model.Placement{
		Piece: p,
		X:     ob.cursor,
		Y:     0,
	})
	ob.cursor += p.Length
}
