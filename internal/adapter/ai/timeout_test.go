package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

type blockingProvider struct{}

func (blockingProvider) Extract(ctx context.Context, image []byte, mimeType string) ([]domain.ExtractedAsset, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) Analyze(ctx context.Context, assets []domain.Asset) (*domain.AnalysisResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	extractor := ExtractorWithTimeout(blockingProvider{}, 20*time.Millisecond)
	analyzer := AnalyzerWithTimeout(blockingProvider{}, 20*time.Millisecond)

	_, err := extractor.Extract(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = analyzer.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// opaqueProvider hides the context error the way some SDKs flatten transport failures
type opaqueProvider struct{}

func (opaqueProvider) Extract(ctx context.Context, image []byte, mimeType string) ([]domain.ExtractedAsset, error) {
	<-ctx.Done()
	return nil, errors.New("request failed: stream closed")
}

func (opaqueProvider) Analyze(ctx context.Context, assets []domain.Asset) (*domain.AnalysisResult, error) {
	<-ctx.Done()
	return nil, errors.New("request failed: stream closed")
}

func TestWithTimeout_ExposesDeadline(t *testing.T) {
	extractor := ExtractorWithTimeout(opaqueProvider{}, 20*time.Millisecond)
	analyzer := AnalyzerWithTimeout(opaqueProvider{}, 20*time.Millisecond)

	_, err := extractor.Extract(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "stream closed")

	_, err = analyzer.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
