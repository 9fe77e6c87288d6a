package reconcile

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

// MergeStats counts what MergeAssets did with each extracted record
type MergeStats struct {
	Inserted int
	Updated  int
	Skipped  int
}

// Merged returns the number of records that changed the holdings list
func (s MergeStats) Merged() int {
	return s.Inserted + s.Updated
}

// MergeAssets reconciles extracted records into the holdings list by name
// Returns a new slice; the existing slice is not mutated
// Logic:
//  1. Skip records with an empty name
//  2. Find the first asset whose name matches exactly (case-sensitive)
//  3. Match: overwrite every field the record provides, keep the ID, refresh LastUpdated
//  4. No match: append a new asset with a fresh ID and defaults for absent fields
//
// Records are processed in order, so a later record can match an asset inserted by an earlier one.
func MergeAssets(existing []domain.Asset, extracted []domain.ExtractedAsset, now time.Time, newID func() uuid.UUID) ([]domain.Asset, MergeStats) {
	if newID == nil {
		newID = uuid.New
	}

	// Create a copy of the holdings to avoid mutating the caller's slice
	merged := make([]domain.Asset, len(existing), len(existing)+len(extracted))
	copy(merged, existing)

	var stats MergeStats
	for _, record := range extracted {
		if strings.TrimSpace(record.Name) == "" {
			stats.Skipped++
			continue
		}

		if idx := indexByName(merged, record.Name); idx >= 0 {
			applyRecord(&merged[idx], record)
			merged[idx].LastUpdated = now
			stats.Updated++
			continue
		}

		merged = append(merged, newAsset(record, now, newID()))
		stats.Inserted++
	}

	return merged, stats
}

// UpsertHistory writes point into the history series
// If a point with the same date exists it is replaced in place, otherwise point is appended
// Returns a new slice; the existing slice is not mutated
func UpsertHistory(history []domain.HistoryPoint, point domain.HistoryPoint) []domain.HistoryPoint {
	updated := make([]domain.HistoryPoint, len(history), len(history)+1)
	copy(updated, history)

	for i := range updated {
		if updated[i].Date == point.Date {
			updated[i] = point
			return updated
		}
	}

	return append(updated, point)
}

// LegacySnapshotTotal reproduces the historical net-worth approximation:
// the pre-merge total plus the raw sum of extracted amounts
// It over-counts whenever a record updates an existing asset instead of inserting one
func LegacySnapshotTotal(preMergeTotal decimal.Decimal, extracted []domain.ExtractedAsset) decimal.Decimal {
	total := preMergeTotal
	for _, record := range extracted {
		if record.Amount != nil {
			total = total.Add(*record.Amount)
		}
	}
	return total
}

// indexByName returns the index of the first asset named name, or -1
func indexByName(assets []domain.Asset, name string) int {
	for i := range assets {
		if assets[i].Name == name {
			return i
		}
	}
	return -1
}

// applyRecord overwrites the fields of asset that record provides
func applyRecord(asset *domain.Asset, record domain.ExtractedAsset) {
	asset.Name = record.Name

	if record.Category != nil {
		asset.Category = record.Category.Normalize()
	}
	if record.Amount != nil {
		asset.Amount = *record.Amount
	}
	if record.ReturnRate != nil {
		asset.ReturnRate = *record.ReturnRate
	}
	if record.Currency != nil && *record.Currency != "" {
		asset.Currency = *record.Currency
	}
}

// newAsset builds an asset from record, defaulting every absent field
func newAsset(record domain.ExtractedAsset, now time.Time, id uuid.UUID) domain.Asset {
	asset := domain.Asset{
		ID:          id,
		Name:        record.Name,
		Category:    domain.CategoryOther,
		Amount:      decimal.Zero,
		ReturnRate:  decimal.Zero,
		Currency:    domain.DefaultCurrency,
		LastUpdated: now,
	}
	applyRecord(&asset, record)
	return asset
}
