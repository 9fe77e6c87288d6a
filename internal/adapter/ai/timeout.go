package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

type timeoutExtractor struct {
	next    domain.Extractor
	timeout time.Duration
}

// ExtractorWithTimeout bounds every Extract call by timeout
func ExtractorWithTimeout(next domain.Extractor, timeout time.Duration) domain.Extractor {
	return &timeoutExtractor{next: next, timeout: timeout}
}

func (e *timeoutExtractor) Extract(ctx context.Context, image []byte, mimeType string) ([]domain.ExtractedAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	records, err := e.next.Extract(ctx, image, mimeType)
	return records, withContextErr(ctx, err)
}

type timeoutAnalyzer struct {
	next    domain.Analyzer
	timeout time.Duration
}

// AnalyzerWithTimeout bounds every Analyze call by timeout
func AnalyzerWithTimeout(next domain.Analyzer, timeout time.Duration) domain.Analyzer {
	return &timeoutAnalyzer{next: next, timeout: timeout}
}

func (a *timeoutAnalyzer) Analyze(ctx context.Context, assets []domain.Asset) (*domain.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	result, err := a.next.Analyze(ctx, assets)
	return result, withContextErr(ctx, err)
}

// withContextErr makes an expired or cancelled ctx visible to errors.Is
// even when the provider SDK reports it as a plain transport error
func withContextErr(ctx context.Context, err error) error {
	if err == nil || ctx.Err() == nil || errors.Is(err, ctx.Err()) {
		return err
	}
	return fmt.Errorf("%w: %w", err, ctx.Err())
}
