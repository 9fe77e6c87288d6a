package main

import (
	"context"

	grpcadapter "github.com/simaogato/wealthsnap-backend/internal/adapter/grpc"
	"github.com/simaogato/wealthsnap-backend/internal/domain"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/metrics"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/portfolio"
)

// backend is what the CLI commands need, served either in-process or over gRPC
// *grpcadapter.Client satisfies it
type backend interface {
	ImportScreenshot(ctx context.Context, image []byte) (*portfolio.ImportResult, error)
	Analyze(ctx context.Context) (*domain.AnalysisResult, error)
	Dashboard(ctx context.Context, locale string) (*portfolio.Dashboard, error)
	Trend(ctx context.Context, metric string) (*grpcadapter.TrendResponse, error)
}

// localBackend runs the commands against an in-process service
type localBackend struct {
	svc *portfolio.Service
}

func (b *localBackend) ImportScreenshot(ctx context.Context, image []byte) (*portfolio.ImportResult, error) {
	return b.svc.ImportScreenshot(ctx, image, "")
}

func (b *localBackend) Analyze(ctx context.Context) (*domain.AnalysisResult, error) {
	return b.svc.Analyze(ctx)
}

func (b *localBackend) Dashboard(_ context.Context, locale string) (*portfolio.Dashboard, error) {
	return b.svc.Dashboard(locale), nil
}

func (b *localBackend) Trend(_ context.Context, metric string) (*grpcadapter.TrendResponse, error) {
	m, err := metrics.ParseMetric(metric)
	if err != nil {
		return nil, err
	}
	return &grpcadapter.TrendResponse{Metric: m, Points: b.svc.Trend(m)}, nil
}
