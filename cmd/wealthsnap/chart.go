package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simaogato/wealthsnap-backend/internal/adapter/chart"
)

func newChartCmd(a *app) *cobra.Command {
	var (
		metric string
		output string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the net worth or return trend as an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, closeFn, err := a.open(ctx, false)
			if err != nil {
				return err
			}
			defer closeFn()

			trend, err := b.Trend(ctx, metric)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			format := strings.TrimPrefix(filepath.Ext(output), ".")
			if err := chart.RenderTrend(&buf, trend.Points, trend.Metric, chart.Options{Title: title, Format: format}); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d point(s) to %s\n", len(trend.Points), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "networth", "networth or return")
	cmd.Flags().StringVarP(&output, "output", "o", "trend.png", "output file; the extension selects the format")
	cmd.Flags().StringVar(&title, "title", "", "chart title")
	return cmd
}
