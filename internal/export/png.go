package export

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// Image rendering constants.
const (
	imgMaxWidth  = 1600
	imgMaxHeight = 1000
	imgMargin    = 40.0
)

// ExportPNG renders a single stock layout as a PNG image. Pieces are drawn
// with the same color cycle as the PDF diagrams, defect zones are hatched,
// and planned cuts appear as dashed lines.
func ExportPNG(path string, layout model.StockLayout) error {
	stock := layout.Stock
	if stock.Length <= 0 || stock.Width <= 0 {
		return fmt.Errorf("stock has no dimensions")
	}

	scale := math.Min(
		(imgMaxWidth-2*imgMargin)/stock.Length,
		(imgMaxHeight-2*imgMargin)/stock.Width,
	)
	canvasW := int(stock.Length*scale + 2*imgMargin)
	canvasH := int(stock.Width*scale + 2*imgMargin)

	dc := gg.NewContext(canvasW, canvasH)

	// White background
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Stock rectangle in wood color
	dc.SetRGB255(210, 180, 140)
	dc.DrawRectangle(imgMargin, imgMargin, stock.Length*scale, stock.Width*scale)
	dc.Fill()
	dc.SetRGB255(100, 100, 100)
	dc.SetLineWidth(2)
	dc.DrawRectangle(imgMargin, imgMargin, stock.Length*scale, stock.Width*scale)
	dc.Stroke()

	drawImageDefects(dc, stock, scale)

	for i, p := range layout.Placements {
		col := pieceColors[i%len(pieceColors)]
		px := imgMargin + p.X*scale
		py := imgMargin + p.Y*scale
		pl := p.PlacedLength() * scale
		pw := p.PlacedWidth() * scale

		dc.SetRGB255(col.R, col.G, col.B)
		dc.DrawRectangle(px, py, pl, pw)
		dc.Fill()
		dc.SetRGB255(30, 30, 30)
		dc.SetLineWidth(1.5)
		dc.DrawRectangle(px, py, pl, pw)
		dc.Stroke()

		if pl > 60 && pw > 24 {
			dc.SetRGB(0, 0, 0)
			label := p.Piece.Label
			dims := fmt.Sprintf("%.0fx%.0f", p.Piece.Length, p.Piece.Width)
			dc.DrawStringAnchored(label, px+pl/2, py+pw/2-7, 0.5, 0.5)
			dc.DrawStringAnchored(dims, px+pl/2, py+pw/2+7, 0.5, 0.5)
		}
	}

	drawImageCuts(dc, layout, scale)

	// Dimension labels
	dc.SetRGB255(80, 80, 80)
	dc.DrawStringAnchored(fmt.Sprintf("%.0f mm", stock.Length),
		imgMargin+stock.Length*scale/2, imgMargin+stock.Width*scale+16, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(-math.Pi/2, imgMargin-16, imgMargin+stock.Width*scale/2)
	dc.DrawStringAnchored(fmt.Sprintf("%.0f mm", stock.Width),
		imgMargin-16, imgMargin+stock.Width*scale/2, 0.5, 0.5)
	dc.Pop()

	return dc.SavePNG(path)
}

// ExportAllPNG writes one PNG per layout, numbering the files from 1.
// pathPattern must contain a single %d verb, e.g. "layout-%d.png".
func ExportAllPNG(pathPattern string, result model.OptimizationResult) error {
	if len(result.Layouts) == 0 {
		return fmt.Errorf("no layouts to export")
	}
	for i, layout := range result.Layouts {
		path := fmt.Sprintf(pathPattern, i+1)
		if err := ExportPNG(path, layout); err != nil {
			return fmt.Errorf("layout %d: %w", i+1, err)
		}
	}
	return nil
}

// drawImageDefects hatches the stock defect zones in red.
func drawImageDefects(dc *gg.Context, stock model.StockUnit, scale float64) {
	for _, zone := range stock.Defects {
		zx := imgMargin + zone.X*scale
		zy := imgMargin + zone.Y*scale
		zl := zone.Length * scale
		zw := zone.Width * scale

		dc.SetRGB255(255, 200, 200)
		dc.DrawRectangle(zx, zy, zl, zw)
		dc.Fill()

		dc.SetRGB255(200, 0, 0)
		dc.SetLineWidth(1)
		dc.DrawRectangle(zx, zy, zl, zw)
		dc.Stroke()

		spacing := 12.0
		for d := spacing; d < zl+zw; d += spacing {
			x1 := zx + math.Max(0, d-zw)
			y1 := zy + math.Min(zw, d)
			x2 := zx + math.Min(zl, d)
			y2 := zy + math.Max(0, d-zl)
			dc.DrawLine(x1, y1, x2, y2)
		}
		dc.Stroke()
	}
}

// drawImageCuts overlays the planned cuts as dashed gray lines.
func drawImageCuts(dc *gg.Context, layout model.StockLayout, scale float64) {
	if len(layout.Cuts) == 0 {
		return
	}

	dc.SetRGB255(60, 60, 60)
	dc.SetLineWidth(1)
	dc.SetDash(6, 4)

	for _, cut := range layout.Cuts {
		if cut.Kind == model.CutRip {
			y := imgMargin + cut.Position*scale
			dc.DrawLine(imgMargin+cut.Start*scale, y, imgMargin+cut.End*scale, y)
		} else {
			x := imgMargin + cut.Position*scale
			dc.DrawLine(x, imgMargin+cut.Start*scale, x, imgMargin+cut.End*scale)
		}
		dc.Stroke()
	}

	dc.SetDash()
}
