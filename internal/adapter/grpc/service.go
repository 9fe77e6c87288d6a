package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "wealthsnap.v1.PortfolioService"

// Full method names, as seen by interceptors
const (
	ImportScreenshotMethod = "/" + ServiceName + "/ImportScreenshot"
	AnalyzeMethod          = "/" + ServiceName + "/Analyze"
	GetDashboardMethod     = "/" + ServiceName + "/GetDashboard"
	GetTrendMethod         = "/" + ServiceName + "/GetTrend"
)

// PortfolioServiceServer is the server API for the PortfolioService service.
// Messages are protobuf well-known types so no generated code is needed.
type PortfolioServiceServer interface {
	ImportScreenshot(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	Analyze(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetDashboard(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetTrend(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterPortfolioServiceServer registers srv on s
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&PortfolioServiceDesc, srv)
}

func importScreenshotHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).ImportScreenshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ImportScreenshotMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).ImportScreenshot(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func analyzeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AnalyzeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).Analyze(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getDashboardHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).GetDashboard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetDashboardMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).GetDashboard(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getTrendHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).GetTrend(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetTrendMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).GetTrend(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// PortfolioServiceDesc is the grpc.ServiceDesc for the PortfolioService service
var PortfolioServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ImportScreenshot", Handler: importScreenshotHandler},
		{MethodName: "Analyze", Handler: analyzeHandler},
		{MethodName: "GetDashboard", Handler: getDashboardHandler},
		{MethodName: "GetTrend", Handler: getTrendHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wealthsnap/v1/portfolio.proto",
}
