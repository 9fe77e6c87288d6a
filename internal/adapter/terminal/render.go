package terminal

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/metrics"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/portfolio"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	gainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// FormatMoney renders amount in currency code using its display conventions.
// Unknown codes fall back to the plain number followed by the code.
func FormatMoney(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// FormatRate renders a signed percentage with a color for its sign
func FormatRate(rate decimal.Decimal) string {
	text := rate.StringFixed(2) + "%"
	switch {
	case rate.IsPositive():
		return gainStyle.Render("+" + text)
	case rate.IsNegative():
		return lossStyle.Render(text)
	default:
		return text
	}
}

// Summary renders the dashboard headline figures, holdings and allocation
func Summary(d *portfolio.Dashboard, locale string) string {
	currency := DisplayCurrency(d.Assets)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Portfolio"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Net worth:"), FormatMoney(d.Summary.TotalNetWorth, currency))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Total return:"), FormatMoney(d.Summary.TotalReturn, currency))
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Return rate:"), FormatRate(d.Summary.WeightedReturnRate))

	if len(d.Assets) == 0 {
		b.WriteString(labelStyle.Render("No holdings yet. Import a screenshot to get started."))
		b.WriteString("\n")
		return b.String()
	}

	holdings := newTable("Name", "Category", "Amount", "Return")
	for _, a := range d.Assets {
		holdings.Row(a.Name, metrics.CategoryLabel(a.Category, locale), FormatMoney(a.Amount, a.Currency), FormatRate(a.ReturnRate))
	}
	b.WriteString(holdings.String())
	b.WriteString("\n")

	allocation := newTable("Category", "Amount", "Share", "Holdings")
	for _, slice := range d.Allocation {
		allocation.Row(slice.Label, FormatMoney(slice.Amount, currency), slice.Percent.StringFixed(2)+"%", fmt.Sprint(slice.Count))
	}
	b.WriteString(allocation.String())
	b.WriteString("\n")

	if d.AnalysisPreview != "" {
		fmt.Fprintf(&b, "\n%s %s\n", labelStyle.Render("Analysis:"), d.AnalysisPreview)
	}

	return b.String()
}

// Analysis renders the three narrative sections as styled markdown
func Analysis(a *domain.AnalysisResult, width int) (string, error) {
	var md strings.Builder
	if !a.GeneratedAt.IsZero() {
		fmt.Fprintf(&md, "_Generated %s_\n\n", a.GeneratedAt.Format("2006-01-02 15:04"))
	}
	section(&md, "Allocation analysis", a.AllocationAnalysis)
	section(&md, "Investment advice", a.InvestmentAdvice)
	section(&md, "Adjustment suggestions", a.AdjustmentSuggestions)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return "", fmt.Errorf("failed to render analysis: %w", err)
	}
	return out, nil
}

func section(b *strings.Builder, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, strings.TrimSpace(body))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(labelStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// DisplayCurrency is the shared currency of all holdings, or the default one
func DisplayCurrency(assets []domain.Asset) string {
	if len(assets) == 0 {
		return domain.DefaultCurrency
	}
	code := assets[0].Currency
	for _, a := range assets[1:] {
		if a.Currency != code {
			return domain.DefaultCurrency
		}
	}
	if code == "" {
		return domain.DefaultCurrency
	}
	return code
}
