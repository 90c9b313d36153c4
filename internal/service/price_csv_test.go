package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"kvt-storefront/internal/model"
	"kvt-storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSVFixture(t *testing.T) (*PriceCSVService, *priceFixture) {
	t.Helper()
	f := newPriceFixture(t)
	return NewPriceCSVService(f.svc, f.overrides, f.activity), f
}

func TestExportHeaderAndRows(t *testing.T) {
	svc, f := newCSVFixture(t)

	price := 355.0
	buy := 2.0
	f.overrides.Set("gold-c", model.OverrideEntry{OverridePrice: &price, BuyPercentage: &buy})

	out, err := svc.Export(context.Background())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 8) // header + 7 records
	assert.Equal(t, priceCSVHeader, rows[0])

	var goldRow []string
	for _, row := range rows[1:] {
		assert.Len(t, row, len(priceCSVHeader))
		if row[0] == "gold-c" {
			goldRow = row
		}
	}
	require.NotNil(t, goldRow)
	assert.Equal(t, "GOLD_C", goldRow[1])
	assert.Equal(t, "MYR", goldRow[2])
	assert.Equal(t, "355", goldRow[4])
	assert.Equal(t, "355", goldRow[5]) // display follows the override
	assert.Equal(t, "2", goldRow[6])
	assert.Equal(t, "Yes", goldRow[8])
	assert.Equal(t, "No", goldRow[9])
}

func TestExportLeavesUnsetFieldsEmpty(t *testing.T) {
	svc, _ := newCSVFixture(t)

	out, err := svc.Export(context.Background())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	for _, row := range rows[1:] {
		assert.Empty(t, row[4], "override column should be empty for %s", row[0])
		assert.Empty(t, row[6])
		assert.Empty(t, row[7])
	}
}

func TestImportAppliesValidRows(t *testing.T) {
	svc, f := newCSVFixture(t)

	input := strings.Join([]string{
		"ID,Type,Override Price,Buy Percentage,Is Published",
		"gold-c,GOLD_C,350.5,2,Yes",
		"silver-c,SILVER_C,,1.5,No",
		"sing,SING,320,,Yes",
	}, "\n")

	result, err := svc.Import(context.Background(), strings.NewReader(input), testActor)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 0, result.Errors)

	gold, ok := f.overrides.Get("gold-c")
	require.True(t, ok)
	require.NotNil(t, gold.OverridePrice)
	assert.Equal(t, 350.5, *gold.OverridePrice)

	silver, ok := f.overrides.Get("silver-c")
	require.True(t, ok)
	assert.Nil(t, silver.OverridePrice)
	require.NotNil(t, silver.IsPublished)
	assert.False(t, *silver.IsPublished)

	// Every applied row lands in the audit trail as part of the batch.
	entries := f.activity.Query(repository.ActivityFilter{Type: model.ActivityBulkUpdate})
	assert.Len(t, entries, 3)
}

func TestImportIsolatesBadRows(t *testing.T) {
	svc, f := newCSVFixture(t)

	input := strings.Join([]string{
		"ID,Type,Override Price",
		"gold-c,GOLD_C,350",
		",SILVER_C,3.2",
		"sing,SING,not-a-number",
		"myr-usd,MYR_USD,4.6",
	}, "\n")

	result, err := svc.Import(context.Background(), strings.NewReader(input), testActor)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Errors)
	require.Len(t, result.ErrorDetails, 2)
	assert.Contains(t, result.ErrorDetails[0], "Row 3")
	assert.Contains(t, result.ErrorDetails[0], "missing ID")
	assert.Contains(t, result.ErrorDetails[1], "Row 4")

	// The bad rows left no trace; the good ones applied.
	_, ok := f.overrides.Get("sing")
	assert.False(t, ok)
	rate, ok := f.overrides.Get("myr-usd")
	require.True(t, ok)
	assert.Equal(t, 4.6, *rate.OverridePrice)
}

func TestImportRejectsEmptyFile(t *testing.T) {
	svc, _ := newCSVFixture(t)

	_, err := svc.Import(context.Background(), strings.NewReader(""), testActor)
	assert.Error(t, err)
}

func TestExportRoundTripsThroughImport(t *testing.T) {
	exporter, f := newCSVFixture(t)

	price := 340.0
	use := true
	preset := 4.55
	f.overrides.Set("myr-usd", model.OverrideEntry{
		OverridePrice:         &price,
		UsePresetExchangeRate: &use,
		PresetExchangeRate:    &preset,
	})

	out, err := exporter.Export(context.Background())
	require.NoError(t, err)

	// Importing into a clean instance reproduces the exported overrides.
	importer, g := newCSVFixture(t)
	result, err := importer.Import(context.Background(), bytes.NewReader(out), testActor)
	require.NoError(t, err)
	assert.Equal(t, 7, result.Imported)
	assert.Equal(t, 0, result.Errors)

	rate, ok := g.overrides.Get("myr-usd")
	require.True(t, ok)
	assert.Equal(t, 340.0, *rate.OverridePrice)
	require.NotNil(t, rate.UsePresetExchangeRate)
	assert.True(t, *rate.UsePresetExchangeRate)
	assert.Equal(t, 4.55, *rate.PresetExchangeRate)
}
