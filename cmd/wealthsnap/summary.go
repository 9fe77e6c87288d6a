package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/wealthsnap-backend/internal/adapter/terminal"
)

func newSummaryCmd(a *app) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print net worth, holdings and allocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if locale == "" {
				locale = a.cfg.Locale
			}

			b, closeFn, err := a.open(ctx, false)
			if err != nil {
				return err
			}
			defer closeFn()

			dashboard, err := b.Dashboard(ctx, locale)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), terminal.Summary(dashboard, locale))
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "category label locale, en or zh (default: $LOCALE)")
	return cmd
}
