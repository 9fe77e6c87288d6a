package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	grpcadapter "github.com/simaogato/wealthsnap-backend/internal/adapter/grpc"
	"github.com/simaogato/wealthsnap-backend/internal/config"
)

// app carries the state shared by every subcommand
type app struct {
	cfg    *config.Config
	logger *logrus.Logger

	// server selects remote mode: commands call a running gRPC server instead of the local store
	server string
	token  string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "wealthsnap",
		Short:         "Track net worth from screenshots of your investment apps",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := a.cfg.NewLogger(os.Stderr)
			if err != nil {
				return err
			}
			a.logger = logger

			if a.token == "" {
				a.token = a.cfg.APIToken
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.server, "server", "", "address of a running wealthsnap server (default: use the local store)")
	root.PersistentFlags().StringVar(&a.token, "token", "", "API token for --server (default: $API_TOKEN)")

	root.AddCommand(
		newServeCmd(a),
		newImportCmd(a),
		newAnalyzeCmd(a),
		newSummaryCmd(a),
		newChartCmd(a),
	)

	return root
}

// open returns the backend the command should talk to and a function releasing it
// needAI is ignored in remote mode
func (a *app) open(ctx context.Context, needAI bool) (backend, func(), error) {
	if a.server != "" {
		client, conn, err := grpcadapter.Dial(a.server, a.token)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = conn.Close() }, nil
	}

	svc, closeFn, err := buildService(ctx, a.cfg, a.logger, nil, needAI)
	if err != nil {
		return nil, nil, err
	}
	return &localBackend{svc: svc}, closeFn, nil
}
