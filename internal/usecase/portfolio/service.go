package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
	"github.com/simaogato/wealthsnap-backend/internal/telemetry"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/metrics"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/reconcile"
)

var (
	// ErrBusy is returned when an import or analysis of the same kind is already in flight
	ErrBusy = errors.New("a request of this kind is already in progress")

	// ErrEmptyImage is returned when an import carries no image bytes
	ErrEmptyImage = errors.New("image payload must not be empty")

	// ErrNoHoldings is returned when an analysis is requested with an empty holdings list
	ErrNoHoldings = errors.New("no holdings to analyze")

	// ErrExtractionFailed wraps a failed extraction service call
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrAnalysisFailed wraps a failed analysis service call
	ErrAnalysisFailed = errors.New("analysis failed")
)

// HistoryTotalMode selects how the net worth of today's history point is computed
type HistoryTotalMode string

const (
	// HistoryTotalRecomputed writes the total recomputed from the merged holdings
	HistoryTotalRecomputed HistoryTotalMode = "recomputed"

	// HistoryTotalLegacy writes the pre-merge total plus the raw sum of extracted amounts
	HistoryTotalLegacy HistoryTotalMode = "legacy"
)

// ImportResult describes the effect of one screenshot import
type ImportResult struct {
	Extracted    int                 `json:"extracted"`
	Inserted     int                 `json:"inserted"`
	Updated      int                 `json:"updated"`
	Skipped      int                 `json:"skipped"`
	Assets       []domain.Asset      `json:"assets"`
	HistoryPoint domain.HistoryPoint `json:"historyPoint"`
	Summary      metrics.Summary     `json:"summary"`
}

// Service owns the in-memory holdings, history and analysis of the portfolio
// Every mutation is followed by a synchronous, fire-and-forget save of the affected collection
type Service struct {
	Repo      domain.PortfolioRepository
	Extractor domain.Extractor
	Analyzer  domain.Analyzer
	Metrics   *telemetry.Metrics
	Logger    logrus.FieldLogger

	// Location decides the calendar day of history points; defaults to time.Local
	Location    *time.Location
	HistoryMode HistoryTotalMode

	// Now and NewID are replaced in tests
	Now   func() time.Time
	NewID func() uuid.UUID

	mu       sync.Mutex
	assets   []domain.Asset
	history  []domain.HistoryPoint
	analysis *domain.AnalysisResult

	importing atomic.Bool
	analyzing atomic.Bool
}

// NewPortfolioService creates a new Service instance with empty state
// Call Load to populate it from the repository
func NewPortfolioService(
	repo domain.PortfolioRepository,
	extractor domain.Extractor,
	analyzer domain.Analyzer,
	m *telemetry.Metrics,
	logger logrus.FieldLogger,
) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Repo:        repo,
		Extractor:   extractor,
		Analyzer:    analyzer,
		Metrics:     m,
		Logger:      logger,
		Location:    time.Local,
		HistoryMode: HistoryTotalRecomputed,
		Now:         time.Now,
		NewID:       uuid.New,
	}
}

// Load reads the three collections once from the repository
// Missing collections start empty; a corrupt collection is logged and replaced by an empty one
func (s *Service) Load(ctx context.Context) error {
	assets, err := s.Repo.LoadAssets(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptValue) {
			return fmt.Errorf("failed to load assets: %w", err)
		}
		s.Logger.WithError(err).Warn("Discarding unreadable assets")
		assets = nil
	}

	history, err := s.Repo.LoadHistory(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptValue) {
			return fmt.Errorf("failed to load history: %w", err)
		}
		s.Logger.WithError(err).Warn("Discarding unreadable history")
		history = nil
	}

	analysis, err := s.Repo.LoadAnalysis(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptValue) {
			return fmt.Errorf("failed to load analysis: %w", err)
		}
		s.Logger.WithError(err).Warn("Discarding unreadable analysis")
		analysis = nil
	}

	s.mu.Lock()
	s.assets = assets
	s.history = history
	s.analysis = analysis
	s.mu.Unlock()

	s.Logger.WithFields(logrus.Fields{
		"assets":       len(assets),
		"history":      len(history),
		"has_analysis": analysis != nil,
	}).Info("Portfolio loaded")

	return nil
}

// ImportScreenshot extracts holdings from image and reconciles them into the portfolio
// Logic:
//  1. Reject an empty payload and an overlapping import
//  2. Call the extractor; on failure leave the holdings untouched
//  3. Merge the records by name and write today's history point (even when nothing was extracted)
//  4. Save assets and history
func (s *Service) ImportScreenshot(ctx context.Context, image []byte, mimeType string) (*ImportResult, error) {
	if len(image) == 0 {
		s.Metrics.ImportDone(telemetry.OutcomeRejected)
		return nil, ErrEmptyImage
	}

	if !s.importing.CompareAndSwap(false, true) {
		s.Metrics.ImportDone(telemetry.OutcomeRejected)
		return nil, ErrBusy
	}
	defer s.importing.Store(false)

	log := s.Logger.WithFields(logrus.Fields{"bytes": len(image), "mime_type": mimeType})

	records, err := s.Extractor.Extract(ctx, image, mimeType)
	if err != nil {
		s.Metrics.ImportDone(telemetry.OutcomeFailure)
		log.WithError(err).Error("Extraction failed, holdings left untouched")
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	s.mu.Lock()
	now := s.Now()
	preMerge := metrics.Compute(s.assets)

	merged, stats := reconcile.MergeAssets(s.assets, records, now, s.NewID)

	point := metrics.Snapshot(domain.DayOf(now.In(s.location())), merged)
	if s.HistoryMode == HistoryTotalLegacy {
		point.TotalNetWorth = reconcile.LegacySnapshotTotal(preMerge.TotalNetWorth, records)
	}
	history := reconcile.UpsertHistory(s.history, point)

	s.assets = merged
	s.history = history
	s.mu.Unlock()

	// merged and history are fresh slices never mutated afterwards, so saving outside the lock is safe.
	// The state is already committed in memory, so the saves must outlive a cancelled request.
	saveCtx := context.WithoutCancel(ctx)
	s.persist(domain.KeyAssets, func() error { return s.Repo.SaveAssets(saveCtx, merged) })
	s.persist(domain.KeyHistory, func() error { return s.Repo.SaveHistory(saveCtx, history) })

	s.Metrics.ImportDone(telemetry.OutcomeSuccess)
	s.Metrics.RecordsMerged(stats.Inserted, stats.Updated, stats.Skipped)

	log.WithFields(logrus.Fields{
		"extracted": len(records),
		"inserted":  stats.Inserted,
		"updated":   stats.Updated,
		"skipped":   stats.Skipped,
		"date":      point.Date,
		"net_worth": point.TotalNetWorth.String(),
	}).Info("Screenshot imported")

	return &ImportResult{
		Extracted:    len(records),
		Inserted:     stats.Inserted,
		Updated:      stats.Updated,
		Skipped:      stats.Skipped,
		Assets:       cloneAssets(merged),
		HistoryPoint: point,
		Summary:      metrics.Compute(merged),
	}, nil
}

// Analyze requests a narrative analysis of the current holdings
// The previous analysis is kept when the request is rejected or fails
func (s *Service) Analyze(ctx context.Context) (*domain.AnalysisResult, error) {
	if !s.analyzing.CompareAndSwap(false, true) {
		s.Metrics.AnalysisDone(telemetry.OutcomeRejected)
		return nil, ErrBusy
	}
	defer s.analyzing.Store(false)

	assets := s.Assets()
	if len(assets) == 0 {
		s.Metrics.AnalysisDone(telemetry.OutcomeRejected)
		return nil, ErrNoHoldings
	}

	result, err := s.Analyzer.Analyze(ctx, assets)
	if err == nil && result == nil {
		err = errors.New("analyzer returned no result")
	}
	if err != nil {
		s.Metrics.AnalysisDone(telemetry.OutcomeFailure)
		s.Logger.WithError(err).Error("Analysis failed, previous analysis kept")
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	analysis := *result
	if analysis.GeneratedAt.IsZero() {
		analysis.GeneratedAt = s.Now()
	}

	s.mu.Lock()
	s.analysis = &analysis
	s.mu.Unlock()

	s.persist(domain.KeyAnalysis, func() error { return s.Repo.SaveAnalysis(context.WithoutCancel(ctx), &analysis) })
	s.Metrics.AnalysisDone(telemetry.OutcomeSuccess)
	s.Logger.WithField("assets", len(assets)).Info("Analysis updated")

	out := analysis
	return &out, nil
}

// Assets returns a copy of the current holdings list
func (s *Service) Assets() []domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAssets(s.assets)
}

// History returns a copy of the history series in stored order
func (s *Service) History() []domain.HistoryPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryPoint(nil), s.history...)
}

// Analysis returns a copy of the current analysis, nil if none exists
func (s *Service) Analysis() *domain.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analysis == nil {
		return nil
	}
	out := *s.analysis
	return &out
}

// persist runs save and logs a failure instead of returning it
func (s *Service) persist(key string, save func() error) {
	if err := save(); err != nil {
		s.Metrics.PersistFailed(key)
		s.Logger.WithError(err).WithField("key", key).Error("Failed to persist collection")
	}
}

func (s *Service) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func cloneAssets(assets []domain.Asset) []domain.Asset {
	if assets == nil {
		return []domain.Asset{}
	}
	out := make([]domain.Asset, len(assets))
	copy(out, assets)
	return out
}
