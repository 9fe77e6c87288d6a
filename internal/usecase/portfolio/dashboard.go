package portfolio

import (
	"github.com/simaogato/wealthsnap-backend/internal/domain"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/metrics"
)

// Dashboard is the read model consumed by the presentation layer
type Dashboard struct {
	Assets          []domain.Asset            `json:"assets"`
	History         []domain.HistoryPoint     `json:"history"`
	Summary         metrics.Summary           `json:"summary"`
	Allocation      []metrics.AllocationSlice `json:"allocation"`
	Analysis        *domain.AnalysisResult    `json:"analysis,omitempty"`
	AnalysisPreview string                    `json:"analysisPreview,omitempty"`
}

// Dashboard builds the read model from the current state
// All figures are recomputed from the holdings on every call
func (s *Service) Dashboard(locale string) *Dashboard {
	s.mu.Lock()
	assets := cloneAssets(s.assets)
	history := append([]domain.HistoryPoint{}, s.history...)
	var analysis *domain.AnalysisResult
	if s.analysis != nil {
		a := *s.analysis
		analysis = &a
	}
	s.mu.Unlock()

	dashboard := &Dashboard{
		Assets:     assets,
		History:    history,
		Summary:    metrics.Compute(assets),
		Allocation: metrics.Allocation(assets, locale),
		Analysis:   analysis,
	}
	if analysis != nil {
		dashboard.AnalysisPreview = Preview(analysis.AllocationAnalysis, PreviewLength)
	}

	return dashboard
}

// Trend returns the chart series of metric, sorted by date
func (s *Service) Trend(metric metrics.Metric) []metrics.TrendPoint {
	return metrics.Trend(s.History(), metric)
}
