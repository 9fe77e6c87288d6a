package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/metrics"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/portfolio"
)

// MockPortfolio is a mock implementation of Portfolio
type MockPortfolio struct {
	mock.Mock
}

func (m *MockPortfolio) ImportScreenshot(ctx context.Context, image []byte, mimeType string) (*portfolio.ImportResult, error) {
	args := m.Called(ctx, image, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.ImportResult), args.Error(1)
}

func (m *MockPortfolio) Analyze(ctx context.Context) (*domain.AnalysisResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

func (m *MockPortfolio) Dashboard(locale string) *portfolio.Dashboard {
	args := m.Called(locale)
	return args.Get(0).(*portfolio.Dashboard)
}

func (m *MockPortfolio) Trend(metric metrics.Metric) []metrics.TrendPoint {
	args := m.Called(metric)
	return args.Get(0).([]metrics.TrendPoint)
}

const testToken = "secret"

// startServer serves p over an in-memory listener and returns a client using clientToken
func startServer(t *testing.T, p Portfolio, clientToken string) *Client {
	t.Helper()

	logger, _ := test.NewNullLogger()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger, nil),
		AuthInterceptor(testToken),
	))
	RegisterPortfolioServiceServer(srv, NewServer(p, "zh"))

	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
	})

	return NewClient(conn, clientToken)
}

func TestServer_ImportScreenshot(t *testing.T) {
	p := new(MockPortfolio)
	client := startServer(t, p, testToken)
	image := []byte("\x89PNG\r\n\x1a\n")
	id := uuid.New()
	updated := time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)

	p.On("ImportScreenshot", mock.Anything, image, "").Return(&portfolio.ImportResult{
		Extracted: 2,
		Inserted:  1,
		Updated:   1,
		Assets: []domain.Asset{
			{ID: id, Name: "Fund A", Category: domain.CategoryFund, Amount: decimal.NewFromInt(12000), ReturnRate: decimal.RequireFromString("5.5"), Currency: "CNY", LastUpdated: updated},
		},
		HistoryPoint: domain.HistoryPoint{Date: "2024-05-02", TotalNetWorth: decimal.NewFromInt(12000), TotalReturnRate: decimal.RequireFromString("5.5")},
		Summary:      metrics.Summary{TotalNetWorth: decimal.NewFromInt(12000)},
	}, nil)

	result, err := client.ImportScreenshot(context.Background(), image)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Extracted)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Assets, 1)
	assert.Equal(t, id, result.Assets[0].ID)
	assert.Equal(t, domain.CategoryFund, result.Assets[0].Category)
	assert.True(t, decimal.RequireFromString("5.5").Equal(result.Assets[0].ReturnRate))
	assert.True(t, updated.Equal(result.Assets[0].LastUpdated))
	assert.Equal(t, domain.Day("2024-05-02"), result.HistoryPoint.Date)
	assert.True(t, decimal.NewFromInt(12000).Equal(result.Summary.TotalNetWorth))
	p.AssertExpectations(t)
}

func TestServer_ImportScreenshot_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode codes.Code
	}{
		{name: "busy", err: portfolio.ErrBusy, wantCode: codes.Unavailable},
		{name: "empty image", err: portfolio.ErrEmptyImage, wantCode: codes.InvalidArgument},
		{name: "extraction failed", err: fmt.Errorf("%w: %w", portfolio.ErrExtractionFailed, errors.New("timeout")), wantCode: codes.Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(MockPortfolio)
			client := startServer(t, p, testToken)
			p.On("ImportScreenshot", mock.Anything, mock.Anything, "").Return(nil, tt.err)

			_, err := client.ImportScreenshot(context.Background(), []byte("img"))

			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestServer_Analyze(t *testing.T) {
	p := new(MockPortfolio)
	client := startServer(t, p, testToken)
	generated := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

	p.On("Analyze", mock.Anything).Return(&domain.AnalysisResult{
		AllocationAnalysis:    "Mostly funds.",
		InvestmentAdvice:      "Hold.",
		AdjustmentSuggestions: "Add bonds.",
		GeneratedAt:           generated,
	}, nil).Once()
	p.On("Analyze", mock.Anything).Return(nil, portfolio.ErrNoHoldings).Once()

	result, err := client.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mostly funds.", result.AllocationAnalysis)
	assert.Equal(t, "Add bonds.", result.AdjustmentSuggestions)
	assert.True(t, generated.Equal(result.GeneratedAt))

	_, err = client.Analyze(context.Background())
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestServer_GetDashboard_DefaultLocale(t *testing.T) {
	p := new(MockPortfolio)
	client := startServer(t, p, testToken)

	p.On("Dashboard", "zh").Return(&portfolio.Dashboard{
		Assets:  []domain.Asset{},
		History: []domain.HistoryPoint{},
		Summary: metrics.Summary{TotalNetWorth: decimal.NewFromInt(1000), WeightedReturnRate: decimal.RequireFromString("7.5")},
		Allocation: []metrics.AllocationSlice{
			{Category: domain.CategoryFund, Label: "基金", Amount: decimal.NewFromInt(1000), Percent: decimal.NewFromInt(100), Count: 1},
		},
		AnalysisPreview: "Mostly funds.",
	})
	p.On("Dashboard", "en").Return(&portfolio.Dashboard{})

	dashboard, err := client.Dashboard(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.5").Equal(dashboard.Summary.WeightedReturnRate))
	require.Len(t, dashboard.Allocation, 1)
	assert.Equal(t, "基金", dashboard.Allocation[0].Label)
	assert.Equal(t, 1, dashboard.Allocation[0].Count)
	assert.Equal(t, "Mostly funds.", dashboard.AnalysisPreview)

	_, err = client.Dashboard(context.Background(), "en")
	require.NoError(t, err)
	p.AssertExpectations(t)
}

func TestServer_GetTrend(t *testing.T) {
	p := new(MockPortfolio)
	client := startServer(t, p, testToken)

	p.On("Trend", metrics.MetricReturnRate).Return([]metrics.TrendPoint{
		{Date: "2024-05-01", Value: decimal.NewFromInt(3)},
		{Date: "2024-05-02", Value: decimal.RequireFromString("4.25")},
	})

	trend, err := client.Trend(context.Background(), "return")
	require.NoError(t, err)
	assert.Equal(t, metrics.MetricReturnRate, trend.Metric)
	require.Len(t, trend.Points, 2)
	assert.True(t, decimal.RequireFromString("4.25").Equal(trend.Points[1].Value))

	_, err = client.Trend(context.Background(), "volatility")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	p.AssertNumberOfCalls(t, "Trend", 1)
}

func TestServer_RejectsBadToken(t *testing.T) {
	p := new(MockPortfolio)
	client := startServer(t, p, "wrong")

	_, err := client.Dashboard(context.Background(), "")

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	p.AssertNotCalled(t, "Dashboard", mock.Anything)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode codes.Code
	}{
		{name: "nil", err: nil, wantCode: codes.OK},
		{name: "busy", err: portfolio.ErrBusy, wantCode: codes.Unavailable},
		{name: "analysis failed", err: fmt.Errorf("%w: %w", portfolio.ErrAnalysisFailed, errors.New("bad json")), wantCode: codes.Unavailable},
		{name: "no holdings", err: portfolio.ErrNoHoldings, wantCode: codes.FailedPrecondition},
		{name: "invalid metric", err: fmt.Errorf("%w %q", metrics.ErrInvalidMetric, "x"), wantCode: codes.InvalidArgument},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: codes.DeadlineExceeded},
		{name: "extraction timed out", err: fmt.Errorf("%w: %w", portfolio.ErrExtractionFailed, context.DeadlineExceeded), wantCode: codes.DeadlineExceeded},
		{name: "analysis cancelled", err: fmt.Errorf("%w: %w", portfolio.ErrAnalysisFailed, context.Canceled), wantCode: codes.Canceled},
		{name: "unknown", err: errors.New("disk on fire"), wantCode: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.err)
			assert.Equal(t, tt.wantCode, status.Code(err))
			if tt.err != nil {
				st, _ := status.FromError(err)
				assert.Equal(t, tt.err.Error(), st.Message())
			}
		})
	}
}
