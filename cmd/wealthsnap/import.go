package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/simaogato/wealthsnap-backend/internal/adapter/terminal"
)

const maxImageSize = 16 << 20

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|url>",
		Short: "Import holdings from a screenshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			image, err := fetchImage(ctx, resty.New().SetTimeout(30*time.Second), args[0])
			if err != nil {
				return err
			}

			b, closeFn, err := a.open(ctx, true)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := b.ImportScreenshot(ctx, image)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Extracted %d record(s): %d new, %d updated, %d skipped\n",
				result.Extracted, result.Inserted, result.Updated, result.Skipped)
			fmt.Fprintf(out, "Net worth on %s: %s (return %s)\n",
				result.HistoryPoint.Date,
				terminal.FormatMoney(result.HistoryPoint.TotalNetWorth, terminal.DisplayCurrency(result.Assets)),
				terminal.FormatRate(result.HistoryPoint.TotalReturnRate))
			return nil
		},
	}
}

// fetchImage reads source from disk, or downloads it when it is an http(s) URL
func fetchImage(ctx context.Context, client *resty.Client, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		info, err := os.Stat(source)
		if err != nil {
			return nil, err
		}
		if info.Size() > maxImageSize {
			return nil, fmt.Errorf("%s is larger than %d bytes", source, maxImageSize)
		}
		return os.ReadFile(source)
	}

	resp, err := client.R().SetContext(ctx).Get(source)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", source, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to download %s: %s", source, resp.Status())
	}
	body := resp.Body()
	if len(body) > maxImageSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", source, maxImageSize)
	}
	return body, nil
}
