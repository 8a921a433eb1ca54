package engine

import (
	"fmt"

	"github.com/piwi3910/atlaspack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the packing result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackResult
	SheetsUsed    int
	Placed        int
	WastePercent  float64
	UnplacedCount int
}

// CompareScenarios packs the same input once per scenario and returns the
// results in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, items []model.Item, sheets []model.Sheet, opts ...Option) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result := New(scenario.Settings, opts...).Optimize(items, sheets)

		waste := 0.0
		if len(result.Sheets) > 0 {
			waste = 100.0 - result.TotalEfficiency()
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			SheetsUsed:    len(result.Sheets),
			Placed:        result.PlacedCount(),
			WastePercent:  waste,
			UnplacedCount: len(result.Unplaced),
		})
	}

	return results
}

// Best returns the index of the result that places the most items, then uses
// the fewest sheets, then wastes the least. Ties keep the earlier scenario.
func Best(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best < 0 {
			best = i
			continue
		}
		b := results[best]
		switch {
		case r.Placed != b.Placed:
			if r.Placed > b.Placed {
				best = i
			}
		case r.SheetsUsed != b.SheetsUsed:
			if r.SheetsUsed < b.SheetsUsed {
				best = i
			}
		case r.WastePercent < b.WastePercent:
			best = i
		}
	}
	return best
}

// BuildDefaultScenarios derives what-if alternatives from the current settings.
func BuildDefaultScenarios(base model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	alt := base
	if base.Algorithm == model.AlgorithmGenetic {
		alt.Algorithm = model.AlgorithmBSP
		scenarios = append(scenarios, ComparisonScenario{Name: "BSP Algorithm", Settings: alt})
	} else {
		alt.Algorithm = model.AlgorithmGenetic
		scenarios = append(scenarios, ComparisonScenario{Name: "Genetic Algorithm", Settings: alt})
	}

	if base.Padding > 0 {
		noPad := base
		noPad.Padding = 0
		scenarios = append(scenarios, ComparisonScenario{Name: "No Padding", Settings: noPad})
	}

	if base.Margin > 0 {
		noMargin := base
		noMargin.Margin = 0
		scenarios = append(scenarios, ComparisonScenario{Name: "No Margin", Settings: noMargin})
	}

	rot := base
	rot.AllowRotate = !base.AllowRotate
	if rot.AllowRotate {
		scenarios = append(scenarios, ComparisonScenario{Name: "Rotation Enabled", Settings: rot})
	} else {
		scenarios = append(scenarios, ComparisonScenario{Name: "Rotation Disabled", Settings: rot})
	}

	if base.Algorithm != model.AlgorithmGenetic {
		for _, key := range []model.SortKey{model.SortMaxSide, model.SortHeight} {
			if key == base.Sort {
				continue
			}
			s := base
			s.Sort = key
			scenarios = append(scenarios, ComparisonScenario{
				Name:     fmt.Sprintf("Sort by %s", key),
				Settings: s,
			})
		}
	}

	return scenarios
}
