package engine

import (
	"sort"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// cutEps is the coordinate tolerance when merging cut lines.
const cutEps = 0.5

// PlanCuts derives an ordered saw-cut sequence from a finished layout.
//
// Sheets are decomposed into horizontal bands: rip cuts (parallel to the
// stock length) free each band, then crosscuts inside each band separate
// the pieces. Boards get one crosscut per piece end. The sequence is a
// practical guide, not a guarantee of strict guillotine separability: the
// packer may nest pieces so that final trim cuts remain to the operator.
func PlanCuts(layout model.StockLayout, kerf float64) []model.Cut {
	if len(layout.Placements) == 0 {
		return nil
	}
	if layout.Stock.Kind == model.KindBoard {
		return planBoardCuts(layout)
	}
	return planSheetCuts(layout)
}

// planBoardCuts emits one crosscut at the far end of each piece, in
// position order along the board.
func planBoardCuts(layout model.StockLayout) []model.Cut {
	placements := make([]model.Placement, len(layout.Placements))
	copy(placements, layout.Placements)
	sort.Slice(placements, func(i, j int) bool {
		return placements[i].X < placements[j].X
	})

	var cuts []model.Cut
	for _, p := range placements {
		cuts = append(cuts, model.Cut{
			Order:    len(cuts) + 1,
			Kind:     model.CutCross,
			Position: p.X + p.PlacedLength(),
			Start:    0,
			End:      layout.Stock.Width,
		})
	}
	return cuts
}

// band is a horizontal strip of the sheet holding placements whose Y ranges
// overlap.
type band struct {
	yStart, yEnd float64
	placements   []model.Placement
}

// planSheetCuts produces rip cuts between bands followed by crosscuts
// within each band, top to bottom, left to right.
func planSheetCuts(layout model.StockLayout) []model.Cut {
	placements := make([]model.Placement, len(layout.Placements))
	copy(placements, layout.Placements)
	sort.Slice(placements, func(i, j int) bool {
		if placements[i].Y != placements[j].Y {
			return placements[i].Y < placements[j].Y
		}
		return placements[i].X < placements[j].X
	})

	var bands []band
	for _, p := range placements {
		bottom := p.Y + p.PlacedWidth()
		if len(bands) > 0 && p.Y < bands[len(bands)-1].yEnd-cutEps {
			b := &bands[len(bands)-1]
			b.placements = append(b.placements, p)
			if bottom > b.yEnd {
				b.yEnd = bottom
			}
			continue
		}
		bands = append(bands, band{yStart: p.Y, yEnd: bottom, placements: []model.Placement{p}})
	}

	var cuts []model.Cut

	// Rip cuts separating the bands. The final band needs no rip when it
	// reaches the bottom edge of the stock.
	for _, b := range bands {
		if b.yEnd >= layout.Stock.Width-cutEps {
			continue
		}
		cuts = append(cuts, model.Cut{
			Order:    len(cuts) + 1,
			Kind:     model.CutRip,
			Position: b.yEnd,
			Start:    0,
			End:      layout.Stock.Length,
		})
	}

	// Crosscuts inside each band, left to right, de-duplicated when two
	// stacked pieces share a right edge.
	for _, b := range bands {
		sort.Slice(b.placements, func(i, j int) bool {
			return b.placements[i].X < b.placements[j].X
		})
		lastPos := -1.0
		for _, p := range b.placements {
			pos := p.X + p.PlacedLength()
			if lastPos >= 0 && pos-lastPos < cutEps {
				continue
			}
			lastPos = pos
			cuts = append(cuts, model.Cut{
				Order:    len(cuts) + 1,
				Kind:     model.CutCross,
				Position: pos,
				Start:    b.yStart,
				End:      b.yEnd,
			})
		}
	}

	return cuts
}
