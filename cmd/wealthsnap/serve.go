package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/wealthsnap-backend/internal/adapter/grpc"
	"github.com/simaogato/wealthsnap-backend/internal/telemetry"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := telemetry.NewMetrics(registry)

	// 2. Store, providers and state
	svc, closeStore, err := buildService(ctx, a.cfg, a.logger, m, true)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3. gRPC server
	if a.cfg.APIToken == "" {
		a.logger.WithField("addr", a.cfg.GRPCAddr).Warn("API_TOKEN is empty, authorization is disabled")
	}
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(a.logger, m),
			grpcadapter.AuthInterceptor(a.cfg.APIToken),
		),
		grpclib.MaxRecvMsgSize(16<<20),
	)
	grpcadapter.RegisterPortfolioServiceServer(grpcServer, grpcadapter.NewServer(svc, a.cfg.Locale))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", a.cfg.GRPCAddr)
	if err != nil {
		return err
	}

	go func() {
		a.logger.WithField("addr", a.cfg.GRPCAddr).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			a.logger.WithError(err).Fatal("Failed to serve gRPC server")
		}
	}()

	// 4. Metrics endpoint
	var metricsServer *http.Server
	if a.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsServer = &http.Server{
			Addr:              a.cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			a.logger.WithField("addr", a.cfg.MetricsAddr).Info("Metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	// Graceful shutdown
	waitForShutdown(a.logger, grpcServer, metricsServer)
	return nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(logger logrus.FieldLogger, grpcServer *grpclib.Server, metricsServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.WithField("signal", sig.String()).Info("Shutting down gracefully")

	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(ctx)
	}

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
}
