package domain

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a KeyValueStore when the key has never been written
var ErrKeyNotFound = errors.New("key not found")

// ErrCorruptValue is returned by a PortfolioRepository when a stored blob cannot be decoded
var ErrCorruptValue = errors.New("corrupt stored value")

// Store keys for the three persisted collections
const (
	KeyAssets   = "assets"
	KeyHistory  = "history"
	KeyAnalysis = "analysis"
)

// KeyValueStore defines the interface for a small named-blob store
type KeyValueStore interface {
	// Get retrieves the value stored under key
	// Returns ErrKeyNotFound (possibly wrapped) if the key is absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the underlying connection
	Close() error
}

// PortfolioRepository defines the interface for portfolio persistence operations
// The three collections are stored independently; no atomicity across them is provided
type PortfolioRepository interface {
	// LoadAssets retrieves the holdings list, empty if none was saved
	LoadAssets(ctx context.Context) ([]Asset, error)

	// SaveAssets replaces the stored holdings list
	SaveAssets(ctx context.Context, assets []Asset) error

	// LoadHistory retrieves the net-worth history series, empty if none was saved
	LoadHistory(ctx context.Context) ([]HistoryPoint, error)

	// SaveHistory replaces the stored history series
	SaveHistory(ctx context.Context, history []HistoryPoint) error

	// LoadAnalysis retrieves the last analysis, nil if none was saved
	LoadAnalysis(ctx context.Context) (*AnalysisResult, error)

	// SaveAnalysis replaces the stored analysis
	SaveAnalysis(ctx context.Context, analysis *AnalysisResult) error
}

// Extractor derives partial asset records from a holdings screenshot
type Extractor interface {
	// Extract returns the records found in image
	// A malformed or empty service response yields an empty slice and a nil error;
	// only a failed service call returns an error
	Extract(ctx context.Context, image []byte, mimeType string) ([]ExtractedAsset, error)
}

// Analyzer produces a narrative analysis of the holdings list
type Analyzer interface {
	// Analyze returns the analysis for assets or an error if the service call failed
	Analyze(ctx context.Context, assets []Asset) (*AnalysisResult, error)
}
