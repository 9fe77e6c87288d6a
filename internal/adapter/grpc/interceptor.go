package grpc

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/wealthsnap-backend/internal/telemetry"
)

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata.
// The header may carry the raw token or "Bearer <token>".
// An empty validToken disables the check.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if validToken == "" {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		if subtle.ConstantTimeCompare([]byte(token), []byte(validToken)) != 1 {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor returns a gRPC unary server interceptor that logs every call
// and records its status code and latency. m may be nil.
func LoggingInterceptor(logger logrus.FieldLogger, m *telemetry.Metrics) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		code := status.Code(err)
		m.RPCDone(info.FullMethod, code.String(), elapsed.Seconds())

		entry := logger.WithFields(logrus.Fields{
			"method":   info.FullMethod,
			"code":     code.String(),
			"duration": elapsed.String(),
		})
		switch code {
		case codes.OK:
			entry.Info("gRPC call completed")
		case codes.Internal, codes.Unknown:
			entry.WithError(err).Error("gRPC call failed")
		default:
			entry.WithError(err).Warn("gRPC call rejected")
		}

		return resp, err
	}
}
