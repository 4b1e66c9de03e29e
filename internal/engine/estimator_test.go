package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshopos/cutengine/internal/model"
)

func TestEstimate_SingleMaterialGroup(t *testing.T) {
	est := NewEstimator(testConfig())

	result, err := est.Estimate([]model.Part{plyPart("Panel", 600, 400, 4)})
	require.NoError(t, err)

	require.Len(t, result.Summaries, 1)
	summary := result.Summaries[0]
	assert.Equal(t, "plywood", summary.MaterialID)
	assert.Equal(t, "ply-2440", summary.StockSheetID)
	assert.Equal(t, 1, summary.SheetsUsed)
	assert.Equal(t, 1, result.TotalSheets)
	assert.Equal(t, 85.0, result.RoughCost)
	assert.Greater(t, result.WastePercent, 60.0, "four small parts leave most of the sheet")
	assert.True(t, result.Current())
}

func TestEstimate_SheetCountScalesWithQuantity(t *testing.T) {
	est := NewEstimator(testConfig())

	few, err := est.Estimate([]model.Part{plyPart("Panel", 1200, 600, 2)})
	require.NoError(t, err)
	many, err := est.Estimate([]model.Part{plyPart("Panel", 1200, 600, 20)})
	require.NoError(t, err)

	assert.Greater(t, many.TotalSheets, few.TotalSheets)
	assert.Greater(t, many.RoughCost, few.RoughCost)
}

func TestEstimate_PerMaterialSummaries(t *testing.T) {
	cfg := testConfig()
	mdf := plySheet()
	mdf.ID = "mdf-2440"
	mdf.MaterialID = "MDF"
	mdf.CostPerSheet = 42
	cfg.StockSheets = append(cfg.StockSheets, mdf)
	est := NewEstimator(cfg)

	back := model.NewPart("Back", 800, 600, 2)
	back.MaterialID = "MDF"
	back.Thickness = 18

	result, err := est.Estimate([]model.Part{plyPart("Side", 700, 500, 2), back})
	require.NoError(t, err)

	require.Len(t, result.Summaries, 2)
	// Groups come out sorted by material.
	assert.Equal(t, "mdf", result.Summaries[0].MaterialID)
	assert.Equal(t, "plywood", result.Summaries[1].MaterialID)
	assert.Equal(t, 42.0+85.0, result.RoughCost)
}

func TestEstimate_CheapestMatchingStockWins(t *testing.T) {
	cfg := testConfig()
	small := plySheet()
	small.ID = "ply-1220"
	small.Length = 1220
	small.Width = 610
	small.CostPerSheet = 28
	cfg.StockSheets = append(cfg.StockSheets, small)
	est := NewEstimator(cfg)

	result, err := est.Estimate([]model.Part{plyPart("Shelf", 800, 300, 1)})
	require.NoError(t, err)

	require.Len(t, result.Summaries, 1)
	assert.Equal(t, "ply-1220", result.Summaries[0].StockSheetID)
}

func TestEstimate_UnplaceablePartsCollected(t *testing.T) {
	est := NewEstimator(testConfig())

	_, err := est.Estimate([]model.Part{
		plyPart("TooBig", 3000, 1500, 1),
		plyPart("Fine", 500, 300, 1),
	})

	var unplaceable *model.UnplaceablePartsError
	require.ErrorAs(t, err, &unplaceable)
	require.Len(t, unplaceable.Parts, 1)
	assert.Equal(t, "TooBig", unplaceable.Parts[0].Label)
}

func TestEstimate_NoMatchingStockReportedPerPart(t *testing.T) {
	est := NewEstimator(testConfig())

	part := model.NewPart("Glass", 500, 300, 1)
	part.MaterialID = "Glass"
	part.Thickness = 6

	_, err := est.Estimate([]model.Part{part})
	var unplaceable *model.UnplaceablePartsError
	require.ErrorAs(t, err, &unplaceable)
	assert.Contains(t, unplaceable.Parts[0].Reason, "no stock sheet matches")
}

func TestEstimate_EdgeBandingIncludedInRoughCost(t *testing.T) {
	cfg := testConfig()
	cfg.EdgeBanding = model.EdgeBandingSettings{WastePercent: 10, CostPerMeter: 2}
	est := NewEstimator(cfg)

	banded := plyPart("Door", 700, 450, 1)
	banded.EdgeBanding = model.EdgeBandingFlags{Top: true, Bottom: true}

	result, err := est.Estimate([]model.Part{banded})
	require.NoError(t, err)

	require.NotNil(t, result.EdgeBanding)
	assert.Equal(t, 1, result.EdgeBanding.PartCount)
	assert.Greater(t, result.RoughCost, 85.0, "banding cost is added on top of sheets")
}

func TestEstimate_GrainMatchingRestrictsOrientation(t *testing.T) {
	cfg := testConfig()
	cfg.GrainMatching = true
	est := NewEstimator(cfg)

	// Fits the sheet only rotated, but its grain forbids rotation.
	part := plyPart("Tall", 1000, 2000, 1)
	part.Grain = model.GrainLength

	_, err := est.Estimate([]model.Part{part})
	var unplaceable *model.UnplaceablePartsError
	require.ErrorAs(t, err, &unplaceable)
}

func TestEstimate_InvalidConfigFailsFast(t *testing.T) {
	cfg := testConfig()
	cfg.StockSheets = nil
	est := NewEstimator(cfg)

	_, err := est.Estimate([]model.Part{plyPart("A", 600, 400, 1)})
	var invalid *model.InvalidConfigError
	require.ErrorAs(t, err, &invalid)
}
