package export

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// ExportHTML writes an interactive HTML report with a per-stock utilization
// bar chart and an overall used/waste area pie chart.
func ExportHTML(path string, result model.OptimizationResult) error {
	if len(result.Layouts) == 0 {
		return fmt.Errorf("no layouts to export")
	}

	page := components.NewPage()
	page.PageTitle = "Cut Plan Report"
	page.AddCharts(utilizationBar(result), wastePie(result))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer f.Close()

	return page.Render(f)
}

// utilizationBar builds a bar chart of per-stock utilization percentages.
func utilizationBar(result model.OptimizationResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Utilization per Stock Unit",
			Subtitle: fmt.Sprintf("Overall: %.1f%%", result.Utilization()),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Max: 100}),
	)

	names := make([]string, 0, len(result.Layouts))
	data := make([]opts.BarData, 0, len(result.Layouts))
	for i, layout := range result.Layouts {
		names = append(names, fmt.Sprintf("#%d %s", i+1, layout.Stock.Label))
		data = append(data, opts.BarData{Value: layout.Utilization()})
	}

	bar.SetXAxis(names).AddSeries("Utilization", data)
	return bar
}

// wastePie builds a pie chart of total used versus waste area.
func wastePie(result model.OptimizationResult) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Used vs Waste Area"}),
	)

	pie.AddSeries("Area", []opts.PieData{
		{Name: "Used (mm²)", Value: result.UsedArea()},
		{Name: "Waste (mm²)", Value: result.WasteArea()},
	})
	return pie
}
