// Package export renders cut optimization results to PDF, CSV, Excel,
// image, and HTML output formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// pieceColor represents an RGB fill color for a placed piece.
type pieceColor struct {
	R, G, B int
}

var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document with one diagram page per stock unit,
// followed by a summary page with statistics, a purchase list, and any
// unplaced pieces with their reasons.
func ExportPDF(path string, result model.OptimizationResult, settings model.Settings) error {
	if len(result.Layouts) == 0 {
		return fmt.Errorf("no layouts to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, layout := range result.Layouts {
		pdf.AddPage()
		renderLayoutPage(pdf, layout, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, settings)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws a single stock layout on the current PDF page.
func renderLayoutPage(pdf *fpdf.Fpdf, layout model.StockLayout, num int) {
	stock := layout.Stock

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s %d: %s (%.0f x %.0f mm)", stockKindTitle(stock.Kind), num, stock.Label, stock.Length, stock.Width)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Cuts: %d | Used area: %.0f mm² | Total area: %.0f mm² | Utilization: %.1f%%",
		len(layout.Placements), len(layout.Cuts), layout.UsedArea(), layout.TotalArea(), layout.Utilization())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scaleX := drawWidth / stock.Length
	scaleY := drawHeight / stock.Width
	scale := math.Min(scaleX, scaleY)

	canvasW := stock.Length * scale
	canvasH := stock.Width * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Stock background (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawDefectZones(pdf, stock, scale, offsetX, offsetY)

	for i, p := range layout.Placements {
		col := pieceColors[i%len(pieceColors)]
		pl := p.PlacedLength() * scale
		pw := p.PlacedWidth() * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pl, pw, "FD")

		// Label only when the rectangle has room for it
		if pl > 15 && pw > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pl, pw))
			pdf.SetTextColor(0, 0, 0)

			label := p.Piece.Label
			dims := fmt.Sprintf("%.0fx%.0f", p.Piece.Length, p.Piece.Width)

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pl-2 {
				pdf.SetXY(px+(pl-labelW)/2, py+pw/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if pw > 14 && dimsW < pl-2 {
				pdf.SetXY(px+(pl-dimsW)/2, py+pw/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawCutLines(pdf, layout, scale, offsetX, offsetY)
	drawDimensionAnnotations(pdf, stock, offsetX, offsetY, canvasW, canvasH)
	drawPieceLegend(pdf, layout, offsetY+canvasH+7)
}

func stockKindTitle(kind model.StockKind) string {
	if kind == model.KindBoard {
		return "Board"
	}
	return "Sheet"
}

// drawDefectZones renders the stock's defect exclusion zones as hatched
// red rectangles.
func drawDefectZones(pdf *fpdf.Fpdf, stock model.StockUnit, scale, offsetX, offsetY float64) {
	for _, zone := range stock.Defects {
		zx := offsetX + zone.X*scale
		zy := offsetY + zone.Y*scale
		zl := zone.Length * scale
		zw := zone.Width * scale

		pdf.SetFillColor(255, 200, 200)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Rect(zx, zy, zl, zw, "FD")

		drawHatchPattern(pdf, zx, zy, zl, zw)

		if zl > 20 && zw > 8 {
			pdf.SetFont("Helvetica", "B", 6)
			pdf.SetTextColor(180, 0, 0)
			labelW := pdf.GetStringWidth("DEFECT")
			pdf.SetXY(zx+(zl-labelW)/2, zy+zw/2-2)
			pdf.CellFormat(labelW, 4, "DEFECT", "", 0, "C", false, 0, "")
		}
	}

	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark
// exclusion zones.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawCutLines overlays the planned saw cuts as dashed lines with order
// numbers.
func drawCutLines(pdf *fpdf.Fpdf, layout model.StockLayout, scale, offsetX, offsetY float64) {
	if len(layout.Cuts) == 0 {
		return
	}

	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.25)
	pdf.SetDashPattern([]float64{1.5, 1.0}, 0)

	pdf.SetFont("Helvetica", "B", 5)
	pdf.SetTextColor(60, 60, 60)

	for _, cut := range layout.Cuts {
		var x1, y1, x2, y2 float64
		if cut.Kind == model.CutRip {
			// Rip cuts run along the length at a fixed Y
			x1 = offsetX + cut.Start*scale
			x2 = offsetX + cut.End*scale
			y1 = offsetY + cut.Position*scale
			y2 = y1
		} else {
			x1 = offsetX + cut.Position*scale
			x2 = x1
			y1 = offsetY + cut.Start*scale
			y2 = offsetY + cut.End*scale
		}
		pdf.Line(x1, y1, x2, y2)

		num := fmt.Sprintf("%d", cut.Order)
		pdf.SetXY(x1+0.5, y1+0.2)
		pdf.CellFormat(pdf.GetStringWidth(num), 2.5, num, "", 0, "L", false, 0, "")
	}

	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetTextColor(0, 0, 0)
}

// drawDimensionAnnotations adds length and width labels outside the stock
// rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, stock model.StockUnit, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%.0f mm", stock.Length)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%.0f mm", stock.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-wLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPieceLegend renders a compact legend of placed pieces below the diagram.
func drawPieceLegend(pdf *fpdf.Fpdf, layout model.StockLayout, startY float64) {
	if len(layout.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Pieces placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range layout.Placements {
		col := pieceColors[i%len(pieceColors)]
		label := fmt.Sprintf("%s (%.0fx%.0f)", p.Piece.Label, p.Piece.Length, p.Piece.Width)
		if p.Rotated {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics,
// the purchase list, and unplaced pieces.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.OptimizationResult, settings model.Settings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Stock Units Used", fmt.Sprintf("%d", result.BoardCount())},
		{"Overall Utilization", fmt.Sprintf("%.1f%%", result.Utilization())},
		{"Pieces Placed", fmt.Sprintf("%d", result.PlacedCount())},
		{"Unplaced Pieces", fmt.Sprintf("%d", len(result.Unplaced))},
		{"Estimated Cost", fmt.Sprintf("%.2f", result.TotalCost())},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Purchase list table
	purchase := model.BuildPurchaseList(result)
	if len(purchase) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Purchase List", "", 0, "L", false, 0, "")
		y += 9

		colWidths := []float64{70, 50, 25, 40, 40}
		headers := []string{"Stock", "Dimensions", "Qty", "Unit Cost", "Total Cost"}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6

		pdf.SetFont("Helvetica", "", 9)
		for i, line := range purchase {
			xPos = marginLeft
			rowData := []string{
				line.StockLabel,
				fmt.Sprintf("%.0f x %.0f mm", line.Length, line.Width),
				fmt.Sprintf("%d", line.Count),
				fmt.Sprintf("%.2f", line.CostPerUnit),
				fmt.Sprintf("%.2f", line.TotalCost),
			}

			if i%2 == 0 {
				pdf.SetFillColor(245, 245, 245)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}

			for j, cell := range rowData {
				pdf.SetXY(xPos, y)
				pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
				xPos += colWidths[j]
			}
			y += 6
		}
	}

	// Unplaced pieces warning with reasons
	if len(result.Unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Pieces", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, up := range result.Unplaced {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %.0f x %.0f mm (%s)", up.Piece.Label, up.Piece.Length, up.Piece.Width, up.Reason)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	// Settings summary
	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Strategy", string(settings.Strategy)},
		{"Kerf Width", fmt.Sprintf("%.1f mm", settings.KerfWidth)},
		{"Edge Trim", fmt.Sprintf("%.1f mm", settings.EdgeTrim)},
		{"Waste Factor", fmt.Sprintf("%.0f%%", settings.WasteFactor)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by cutlist - Cut List Material Optimizer", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size for the rectangle size.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
