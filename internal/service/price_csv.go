package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"kvt-storefront/internal/model"
	"kvt-storefront/internal/repository"
)

// maxImportErrorDetails caps the per-row messages returned to the caller.
const maxImportErrorDetails = 10

var priceCSVHeader = []string{
	"ID",
	"Type",
	"Currency",
	"Fetched Price",
	"Override Price",
	"Display Price",
	"Buy Percentage",
	"Sell Percentage",
	"Is Published",
	"Use Preset Exchange Rate",
	"Preset Exchange Rate",
	"Last Updated",
}

// ImportResult summarizes a best-effort CSV import.
type ImportResult struct {
	Imported     int      `json:"imported"`
	Errors       int      `json:"errors"`
	ErrorDetails []string `json:"error_details"`
}

// PriceCSVService handles the staff CSV export/import surface.
type PriceCSVService struct {
	prices    PriceService
	overrides *repository.OverrideStore
	activity  *repository.ActivityLog
}

func NewPriceCSVService(prices PriceService, overrides *repository.OverrideStore, activity *repository.ActivityLog) *PriceCSVService {
	return &PriceCSVService{prices: prices, overrides: overrides, activity: activity}
}

// Export serializes the full record set, one quoted row per record.
func (s *PriceCSVService) Export(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(priceCSVHeader); err != nil {
		return nil, err
	}
	for _, p := range s.prices.FetchAll(ctx) {
		row := []string{
			p.ID,
			string(p.Type),
			string(p.Currency),
			formatFloat(p.FetchedPrice),
			formatOptFloat(p.OverridePrice),
			formatFloat(p.DisplayPrice()),
			formatOptFloat(p.BuyPercentage),
			formatOptFloat(p.SellPercentage),
			formatYesNo(p.IsPublished),
			formatYesNo(p.UsePresetExchangeRate),
			formatOptFloat(p.PresetExchangeRate),
			p.LastUpdated.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// Import reads a header-driven CSV and applies each row as an override merge.
// A malformed row is counted and reported; the rest of the file still applies.
func (s *PriceCSVService) Import(ctx context.Context, r io.Reader, actor model.Actor) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, validate per field

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("csv must have a header row: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	result := ImportResult{ErrorDetails: []string{}}
	rowNum := 1 // header was row 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.recordError(rowNum, err.Error())
			continue
		}

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		priceID := field("ID")
		if priceID == "" {
			result.recordError(rowNum, "missing ID")
			continue
		}

		entry, err := parseOverrideRow(field)
		if err != nil {
			result.recordError(rowNum, err.Error())
			continue
		}

		s.overrides.Set(priceID, entry)
		s.activity.Append(model.ActivityEntry{
			Type:       model.ActivityBulkUpdate,
			UserID:     actor.ID,
			UserName:   actor.Name,
			EntityType: model.EntityPrice,
			EntityID:   priceID,
			EntityName: field("Type"),
			Action:     "Imported price from CSV",
		})
		result.Imported++
	}

	return result, nil
}

func (r *ImportResult) recordError(rowNum int, msg string) {
	r.Errors++
	if len(r.ErrorDetails) < maxImportErrorDetails {
		r.ErrorDetails = append(r.ErrorDetails, fmt.Sprintf("Row %d: %s", rowNum, msg))
	}
}

func parseOverrideRow(field func(string) string) (model.OverrideEntry, error) {
	var entry model.OverrideEntry

	numeric := []struct {
		column string
		target **float64
	}{
		{"Override Price", &entry.OverridePrice},
		{"Buy Percentage", &entry.BuyPercentage},
		{"Sell Percentage", &entry.SellPercentage},
		{"Preset Exchange Rate", &entry.PresetExchangeRate},
	}
	for _, n := range numeric {
		raw := field(n.column)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return entry, fmt.Errorf("invalid %s %q", strings.ToLower(n.column), raw)
		}
		*n.target = &v
	}

	if raw := field("Is Published"); raw != "" {
		v := strings.EqualFold(raw, "yes")
		entry.IsPublished = &v
	}
	if raw := field("Use Preset Exchange Rate"); raw != "" {
		v := strings.EqualFold(raw, "yes")
		entry.UsePresetExchangeRate = &v
	}

	return entry, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatYesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
