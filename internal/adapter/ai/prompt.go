package ai

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

// ExtractionInstruction is sent alongside every screenshot
const ExtractionInstruction = `You read screenshots of investment and banking apps and list every holding shown.
Reply with JSON only: an array of objects with these fields:
  "name":       the holding name exactly as displayed
  "category":   one of Stock, Fund, Bond, Crypto, Cash, Other
  "amount":     current market value as a number, without currency symbols or separators
  "returnRate": total return in percent as a number (5.2 for +5.2%, -3 for -3%), omit if not shown
  "currency":   ISO 4217 code, CNY if the screenshot does not say otherwise
Return [] if no holdings are visible.`

// AnalysisInstruction frames the portfolio summary sent for analysis
const AnalysisInstruction = `You are a careful personal finance advisor.
Given the holdings below, reply with a single JSON object with exactly these string fields:
  "allocationAnalysis":    how the portfolio is spread across asset classes and its concentration risks
  "investmentAdvice":      general advice on the current positioning
  "adjustmentSuggestions": concrete rebalancing suggestions
Markdown is allowed inside the strings. Do not add any text outside the JSON object.`

// AnalysisPrompt summarizes the holdings as one line per asset followed by totals
func AnalysisPrompt(assets []domain.Asset) string {
	var b strings.Builder
	total := decimal.Zero
	byCategory := make(map[domain.Category]decimal.Decimal)

	b.WriteString("Holdings:\n")
	for _, a := range assets {
		fmt.Fprintf(&b, "- %s (%s): %s %s, return %s%%\n",
			a.Name, a.Category, a.Amount.StringFixed(2), a.Currency, a.ReturnRate.StringFixed(2))
		total = total.Add(a.Amount)
		byCategory[a.Category] = byCategory[a.Category].Add(a.Amount)
	}

	fmt.Fprintf(&b, "\nTotal value: %s\n", total.StringFixed(2))
	b.WriteString("By category:\n")
	for _, c := range domain.Categories {
		amount, ok := byCategory[c]
		if !ok {
			continue
		}
		share := decimal.Zero
		if !total.IsZero() {
			share = amount.Div(total).Mul(decimal.NewFromInt(100))
		}
		fmt.Fprintf(&b, "- %s: %s (%s%%)\n", c, amount.StringFixed(2), share.StringFixed(1))
	}

	return b.String()
}
