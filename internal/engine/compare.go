package engine

import (
	"fmt"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the optimization result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.OptimizationResult
	BoardsUsed    int
	TotalCuts     int
	WastePercent  float64
	UnplacedCount int
}

// CompareScenarios runs optimization for each scenario and returns the
// results in scenario order, enabling side-by-side comparison of different
// parameters (strategy, kerf width, edge trim).
func CompareScenarios(scenarios []ComparisonScenario, pieces []model.Piece, stocks []model.StockUnit) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings)
		result := opt.Optimize(pieces, stocks)

		totalCuts := 0
		for _, layout := range result.Layouts {
			totalCuts += len(layout.Cuts)
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			BoardsUsed:    result.BoardCount(),
			TotalCuts:     totalCuts,
			WastePercent:  100.0 - result.Utilization(),
			UnplacedCount: len(result.Unplaced),
		})
	}

	return results
}

// BuildDefaultScenarios generates comparison scenarios based on the current
// settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	// Scenario: the other strategy
	alt := base
	if base.Strategy == model.StrategyGreedy {
		alt.Strategy = model.StrategySearch
		scenarios = append(scenarios, ComparisonScenario{Name: "Search Strategy", Settings: alt})
	} else {
		alt.Strategy = model.StrategyGreedy
		scenarios = append(scenarios, ComparisonScenario{Name: "Greedy Strategy", Settings: alt})
	}

	// Scenario: thinner blade
	if base.KerfWidth > 1.0 {
		tight := base
		tight.KerfWidth = base.KerfWidth * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %.1fmm (half)", tight.KerfWidth),
			Settings: tight,
		})
	}

	// Scenario: no edge trim
	if base.EdgeTrim > 0 {
		noTrim := base
		noTrim.EdgeTrim = 0
		scenarios = append(scenarios, ComparisonScenario{Name: "No Edge Trim", Settings: noTrim})
	}

	return scenarios
}
