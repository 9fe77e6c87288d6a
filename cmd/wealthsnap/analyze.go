package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/wealthsnap-backend/internal/adapter/terminal"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Request a fresh analysis of the holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, closeFn, err := a.open(ctx, true)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := b.Analyze(ctx)
			if err != nil {
				return err
			}

			rendered, err := terminal.Analysis(result, width)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 100, "wrap width of the rendered analysis")
	return cmd
}
