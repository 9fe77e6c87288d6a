package terminal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/metrics"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/portfolio"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{amount: "1234.5", code: "USD", want: "$1,234.50"},
		{amount: "0", code: "usd", want: "$0.00"},
		{amount: "1000", code: "JPY", want: "¥1,000"},
		{amount: "12.345", code: "XYZ", want: "12.35 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.code+" "+tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.amount), tt.code))
		})
	}
}

func TestFormatRate(t *testing.T) {
	assert.Contains(t, FormatRate(decimal.RequireFromString("7.5")), "+7.50%")
	assert.Contains(t, FormatRate(decimal.RequireFromString("-3")), "-3.00%")
	assert.Equal(t, "0.00%", FormatRate(decimal.Zero))
}

func TestDisplayCurrency(t *testing.T) {
	assert.Equal(t, "CNY", DisplayCurrency(nil))
	assert.Equal(t, "USD", DisplayCurrency([]domain.Asset{{Currency: "USD"}, {Currency: "USD"}}))
	assert.Equal(t, "CNY", DisplayCurrency([]domain.Asset{{Currency: "USD"}, {Currency: "EUR"}}))
}

func TestSummary(t *testing.T) {
	assets := []domain.Asset{
		{ID: uuid.New(), Name: "Fund A", Category: domain.CategoryFund, Amount: decimal.NewFromInt(750), ReturnRate: decimal.NewFromInt(10), Currency: "USD", LastUpdated: time.Now()},
		{ID: uuid.New(), Name: "Savings", Category: domain.CategoryCash, Amount: decimal.NewFromInt(250), Currency: "USD", LastUpdated: time.Now()},
	}
	d := &portfolio.Dashboard{
		Assets:          assets,
		Summary:         metrics.Compute(assets),
		Allocation:      metrics.Allocation(assets, metrics.LocaleEnglish),
		AnalysisPreview: "Mostly funds.",
	}

	out := Summary(d, metrics.LocaleEnglish)

	assert.Contains(t, out, "$1,000.00")
	assert.Contains(t, out, "Fund A")
	assert.Contains(t, out, "Savings")
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "Mostly funds.")
}

func TestSummary_Empty(t *testing.T) {
	out := Summary(&portfolio.Dashboard{}, metrics.LocaleChinese)

	assert.Contains(t, out, "No holdings yet")
}

func TestAnalysis(t *testing.T) {
	out, err := Analysis(&domain.AnalysisResult{
		AllocationAnalysis: "Mostly **funds**.",
		InvestmentAdvice:   "Hold.",
	}, 80)

	require.NoError(t, err)
	assert.Contains(t, out, "Allocation")
	assert.Contains(t, out, "funds")
	assert.Contains(t, out, "Investment")
	assert.NotContains(t, out, "Adjustment")
}
