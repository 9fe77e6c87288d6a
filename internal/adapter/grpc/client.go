package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/portfolio"
)

// Client calls a remote PortfolioService and decodes its responses into the usecase views
type Client struct {
	conn  grpc.ClientConnInterface
	token string
}

// Dial connects to the server at target without transport security
func Dial(target, token string) (*Client, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	return NewClient(conn, token), conn, nil
}

// NewClient wraps an existing connection; token may be empty
func NewClient(conn grpc.ClientConnInterface, token string) *Client {
	return &Client{conn: conn, token: token}
}

// ImportScreenshot uploads image and returns the import result
func (c *Client) ImportScreenshot(ctx context.Context, image []byte) (*portfolio.ImportResult, error) {
	out := new(portfolio.ImportResult)
	if err := c.call(ctx, ImportScreenshotMethod, wrapperspb.Bytes(image), out); err != nil {
		return nil, err
	}
	return out, nil
}

// Analyze requests a fresh analysis
func (c *Client) Analyze(ctx context.Context) (*domain.AnalysisResult, error) {
	out := new(domain.AnalysisResult)
	if err := c.call(ctx, AnalyzeMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dashboard fetches the dashboard read model; an empty locale uses the server default
func (c *Client) Dashboard(ctx context.Context, locale string) (*portfolio.Dashboard, error) {
	out := new(portfolio.Dashboard)
	if err := c.call(ctx, GetDashboardMethod, wrapperspb.String(locale), out); err != nil {
		return nil, err
	}
	return out, nil
}

// Trend fetches the chart series of metric
func (c *Client) Trend(ctx context.Context, metric string) (*TrendResponse, error) {
	out := new(TrendResponse)
	if err := c.call(ctx, GetTrendMethod, wrapperspb.String(metric), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, method string, req interface{}, out interface{}) error {
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
		return err
	}
	return fromStruct(resp, out)
}
