package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

// portfolioRepository implements domain.PortfolioRepository on top of a key-value store
// Each collection is one JSON blob under its own key
type portfolioRepository struct {
	store  domain.KeyValueStore
	prefix string
}

// NewPortfolioRepository creates a new portfolio repository
// prefix is prepended to every key, e.g. "wealthsnap:" gives "wealthsnap:assets"
func NewPortfolioRepository(store domain.KeyValueStore, prefix string) domain.PortfolioRepository {
	return &portfolioRepository{store: store, prefix: prefix}
}

// LoadAssets retrieves the holdings list
func (r *portfolioRepository) LoadAssets(ctx context.Context) ([]domain.Asset, error) {
	assets := []domain.Asset{}
	found, err := r.load(ctx, domain.KeyAssets, &assets)
	if err != nil || !found {
		return []domain.Asset{}, err
	}
	return assets, nil
}

// SaveAssets replaces the stored holdings list
func (r *portfolioRepository) SaveAssets(ctx context.Context, assets []domain.Asset) error {
	if assets == nil {
		assets = []domain.Asset{}
	}
	return r.save(ctx, domain.KeyAssets, assets)
}

// LoadHistory retrieves the history series
func (r *portfolioRepository) LoadHistory(ctx context.Context) ([]domain.HistoryPoint, error) {
	history := []domain.HistoryPoint{}
	found, err := r.load(ctx, domain.KeyHistory, &history)
	if err != nil || !found {
		return []domain.HistoryPoint{}, err
	}
	return history, nil
}

// SaveHistory replaces the stored history series
func (r *portfolioRepository) SaveHistory(ctx context.Context, history []domain.HistoryPoint) error {
	if history == nil {
		history = []domain.HistoryPoint{}
	}
	return r.save(ctx, domain.KeyHistory, history)
}

// LoadAnalysis retrieves the last analysis, nil if none was saved
func (r *portfolioRepository) LoadAnalysis(ctx context.Context) (*domain.AnalysisResult, error) {
	var analysis *domain.AnalysisResult
	found, err := r.load(ctx, domain.KeyAnalysis, &analysis)
	if err != nil || !found {
		return nil, err
	}
	return analysis, nil
}

// SaveAnalysis replaces the stored analysis
func (r *portfolioRepository) SaveAnalysis(ctx context.Context, analysis *domain.AnalysisResult) error {
	return r.save(ctx, domain.KeyAnalysis, analysis)
}

// load decodes the blob under key into v
// Returns found=false without error when the key was never written
func (r *portfolioRepository) load(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.store.Get(ctx, r.prefix+key)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w: %w", key, domain.ErrCorruptValue, err)
	}

	return true, nil
}

func (r *portfolioRepository) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := r.store.Put(ctx, r.prefix+key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}
