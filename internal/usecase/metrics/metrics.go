package metrics

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Summary represents the portfolio-level figures derived from the holdings list
type Summary struct {
	TotalNetWorth      decimal.Decimal `json:"totalNetWorth"`
	TotalReturn        decimal.Decimal `json:"totalReturn"`
	WeightedReturnRate decimal.Decimal `json:"weightedReturnRate"`
}

// Compute derives the summary from the holdings list
// Logic:
//   - TotalNetWorth: Sum of all asset amounts
//   - TotalReturn: Sum of amount * returnRate / 100
//   - WeightedReturnRate: TotalReturn / TotalNetWorth * 100, zero when TotalNetWorth is zero
//
// Nothing is cached; callers recompute from the current holdings on every read.
func Compute(assets []domain.Asset) Summary {
	total := decimal.Zero
	totalReturn := decimal.Zero

	for _, asset := range assets {
		total = total.Add(asset.Amount)
		totalReturn = totalReturn.Add(asset.Amount.Mul(asset.ReturnRate).Div(hundred))
	}

	rate := decimal.Zero
	if !total.IsZero() {
		rate = totalReturn.Div(total).Mul(hundred)
	}

	return Summary{
		TotalNetWorth:      total,
		TotalReturn:        totalReturn,
		WeightedReturnRate: rate,
	}
}

// Snapshot builds the history point for day from the holdings list
func Snapshot(day domain.Day, assets []domain.Asset) domain.HistoryPoint {
	summary := Compute(assets)
	return domain.HistoryPoint{
		Date:            day,
		TotalNetWorth:   summary.TotalNetWorth,
		TotalReturnRate: summary.WeightedReturnRate,
	}
}
