package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// dayLayout is the calendar day format used for history points
const dayLayout = "2006-01-02"

// Day is a calendar day in YYYY-MM-DD form
type Day string

// DayOf returns the calendar day of t in t's location
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// ParseDay parses a YYYY-MM-DD string into a Day
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day(s), nil
}

// Time returns midnight UTC of the day
func (d Day) Time() time.Time {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) String() string {
	return string(d)
}

// HistoryPoint is a daily snapshot of aggregate net worth and return rate
// There is at most one point per Day in a history series
type HistoryPoint struct {
	Date            Day             `json:"date"`
	TotalNetWorth   decimal.Decimal `json:"totalNetWorth"`
	TotalReturnRate decimal.Decimal `json:"totalReturnRate"`
}
