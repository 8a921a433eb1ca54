package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/atlaspack/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	base := model.DefaultSettings()
	base.Margin = 4

	scenarios := BuildDefaultScenarios(base)

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"Current Settings",
		"Genetic Algorithm",
		"No Padding",
		"No Margin",
		"Rotation Disabled",
		"Sort by max-side",
		"Sort by height",
	}, names)

	assert.Equal(t, base, scenarios[0].Settings)
	assert.Equal(t, model.AlgorithmGenetic, scenarios[1].Settings.Algorithm)
	assert.Equal(t, 0, scenarios[2].Settings.Padding)
	assert.False(t, scenarios[4].Settings.AllowRotate)
}

func TestBuildDefaultScenarios_GeneticBase(t *testing.T) {
	base := model.DefaultSettings()
	base.Algorithm = model.AlgorithmGenetic
	base.Padding = 0
	base.AllowRotate = false

	scenarios := BuildDefaultScenarios(base)

	require.Len(t, scenarios, 3)
	assert.Equal(t, "BSP Algorithm", scenarios[1].Name)
	assert.Equal(t, "Rotation Enabled", scenarios[2].Name)
	assert.True(t, scenarios[2].Settings.AllowRotate)
}

func TestCompareScenarios(t *testing.T) {
	items := []model.Item{model.NewItem("Wide", 800, 400, 1)}
	sheets := []model.Sheet{model.NewSheet("Atlas", 500, 1000, 1)}

	rotating := defaultTestSettings()
	fixed := defaultTestSettings()
	fixed.AllowRotate = false

	results := CompareScenarios([]ComparisonScenario{
		{Name: "fixed", Settings: fixed},
		{Name: "rotating", Settings: rotating},
	}, items, sheets)

	require.Len(t, results, 2)
	assert.Equal(t, "fixed", results[0].Scenario.Name)
	assert.Equal(t, 1, results[0].UnplacedCount)
	assert.Equal(t, 0, results[0].SheetsUsed)
	assert.Equal(t, 0.0, results[0].WastePercent)

	assert.Equal(t, 1, results[1].Placed)
	assert.Equal(t, 1, results[1].SheetsUsed)
	assert.InDelta(t, 36.0, results[1].WastePercent, 0.01)

	assert.Equal(t, 1, Best(results))
}

func TestBest(t *testing.T) {
	results := []ComparisonResult{
		{Placed: 10, SheetsUsed: 2, WastePercent: 10},
		{Placed: 10, SheetsUsed: 1, WastePercent: 30},
		{Placed: 10, SheetsUsed: 1, WastePercent: 20},
		{Placed: 9, SheetsUsed: 1, WastePercent: 5},
	}
	assert.Equal(t, 2, Best(results))
	assert.Equal(t, -1, Best(nil))
}
