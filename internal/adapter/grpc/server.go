package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/metrics"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/portfolio"
)

// Portfolio is the controller surface the transport exposes
// *portfolio.Service satisfies it
type Portfolio interface {
	ImportScreenshot(ctx context.Context, image []byte, mimeType string) (*portfolio.ImportResult, error)
	Analyze(ctx context.Context) (*domain.AnalysisResult, error)
	Dashboard(locale string) *portfolio.Dashboard
	Trend(metric metrics.Metric) []metrics.TrendPoint
}

// TrendResponse is the payload of GetTrend
type TrendResponse struct {
	Metric metrics.Metric       `json:"metric"`
	Points []metrics.TrendPoint `json:"points"`
}

// Server implements the PortfolioService gRPC server
type Server struct {
	Portfolio Portfolio

	// DefaultLocale is used when GetDashboard is called without a locale
	DefaultLocale string
}

// NewServer creates a new gRPC server instance
func NewServer(p Portfolio, defaultLocale string) *Server {
	return &Server{
		Portfolio:     p,
		DefaultLocale: defaultLocale,
	}
}

// ImportScreenshot handles the ImportScreenshot RPC
func (s *Server) ImportScreenshot(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	// The MIME type is sniffed by the extractor
	result, err := s.Portfolio.ImportScreenshot(ctx, req.GetValue(), "")
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(result)
}

// Analyze handles the Analyze RPC
func (s *Server) Analyze(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	result, err := s.Portfolio.Analyze(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(result)
}

// GetDashboard handles the GetDashboard RPC
func (s *Server) GetDashboard(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	locale := req.GetValue()
	if locale == "" {
		locale = s.DefaultLocale
	}

	return toStruct(s.Portfolio.Dashboard(locale))
}

// GetTrend handles the GetTrend RPC
func (s *Server) GetTrend(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	metric, err := metrics.ParseMetric(req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(&TrendResponse{
		Metric: metric,
		Points: s.Portfolio.Trend(metric),
	})
}

// toStruct converts a JSON-tagged view into a google.protobuf.Struct
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// fromStruct decodes a google.protobuf.Struct into a JSON-tagged view
func fromStruct(s *structpb.Struct, v interface{}) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, portfolio.ErrEmptyImage), errors.Is(err, metrics.ErrInvalidMetric):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, portfolio.ErrNoHoldings):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	// Context sentinels win over the failure wrappers: a timed-out extraction is DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	case errors.Is(err, portfolio.ErrBusy),
		errors.Is(err, portfolio.ErrExtractionFailed),
		errors.Is(err, portfolio.ErrAnalysisFailed):
		return status.Errorf(codes.Unavailable, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
