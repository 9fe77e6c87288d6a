package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

// Locales supported for category labels
const (
	LocaleEnglish = "en"
	LocaleChinese = "zh"
)

var categoryLabels = map[string]map[domain.Category]string{
	LocaleEnglish: {
		domain.CategoryStock:  "Stocks",
		domain.CategoryFund:   "Funds",
		domain.CategoryBond:   "Bonds",
		domain.CategoryCrypto: "Crypto",
		domain.CategoryCash:   "Cash",
		domain.CategoryOther:  "Other",
	},
	LocaleChinese: {
		domain.CategoryStock:  "股票",
		domain.CategoryFund:   "基金",
		domain.CategoryBond:   "债券",
		domain.CategoryCrypto: "加密货币",
		domain.CategoryCash:   "现金",
		domain.CategoryOther:  "其他",
	},
}

// CategoryLabel returns the display label of c for locale
// Unknown locales fall back to English, e.g. "zh-CN" resolves to "zh"
func CategoryLabel(c domain.Category, locale string) string {
	labels, ok := categoryLabels[baseLocale(locale)]
	if !ok {
		labels = categoryLabels[LocaleEnglish]
	}
	if label, ok := labels[c.Normalize()]; ok {
		return label
	}
	return string(c)
}

func baseLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		locale = locale[:i]
	}
	return locale
}

// AllocationSlice is the share of net worth held in one category
type AllocationSlice struct {
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
	Count    int             `json:"count"`
}

// Allocation groups the holdings by category in enumeration order
// Categories without holdings are omitted; Percent is zero when net worth is zero
func Allocation(assets []domain.Asset, locale string) []AllocationSlice {
	byCategory := make(map[domain.Category]*AllocationSlice)
	total := decimal.Zero

	for _, asset := range assets {
		c := asset.Category.Normalize()
		slice, ok := byCategory[c]
		if !ok {
			slice = &AllocationSlice{Category: c, Label: CategoryLabel(c, locale)}
			byCategory[c] = slice
		}
		slice.Amount = slice.Amount.Add(asset.Amount)
		slice.Count++
		total = total.Add(asset.Amount)
	}

	result := make([]AllocationSlice, 0, len(byCategory))
	for _, c := range domain.Categories {
		slice, ok := byCategory[c]
		if !ok {
			continue
		}
		if !total.IsZero() {
			slice.Percent = slice.Amount.Div(total).Mul(hundred).Round(2)
		}
		result = append(result, *slice)
	}

	return result
}

// ErrInvalidMetric is returned by ParseMetric for an unknown toggle value
var ErrInvalidMetric = errors.New("invalid metric")

// Metric selects which history value a trend series plots
type Metric string

const (
	MetricNetWorth   Metric = "networth"
	MetricReturnRate Metric = "return"
)

// ParseMetric converts a user-selected toggle into a Metric
// An empty string selects net worth
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case "", MetricNetWorth:
		return MetricNetWorth, nil
	case MetricReturnRate:
		return MetricReturnRate, nil
	default:
		return "", fmt.Errorf("%w %q: must be %q or %q", ErrInvalidMetric, s, MetricNetWorth, MetricReturnRate)
	}
}

// TrendPoint is one (date, value) sample of a trend series
type TrendPoint struct {
	Date  domain.Day      `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Time returns the sample date as a time for chart axes
func (p TrendPoint) Time() time.Time {
	return p.Date.Time()
}

// Trend returns the series for metric sorted by ascending date
// The history slice itself is not reordered
func Trend(history []domain.HistoryPoint, metric Metric) []TrendPoint {
	series := make([]TrendPoint, 0, len(history))
	for _, point := range history {
		value := point.TotalNetWorth
		if metric == MetricReturnRate {
			value = point.TotalReturnRate
		}
		series = append(series, TrendPoint{Date: point.Date, Value: value})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})

	return series
}
