package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

// ErrNoJSON is returned when a response carries no JSON document
var ErrNoJSON = errors.New("response contains no JSON")

// listPaths are tried in order when the response is an object instead of an array
var listPaths = []string{"$.assets", "$.holdings", "$.items", "$.data"}

var (
	nameKeys       = []string{"name", "assetName", "asset_name", "title"}
	categoryKeys   = []string{"category", "type", "assetType", "asset_type"}
	amountKeys     = []string{"amount", "value", "marketValue", "market_value", "balance"}
	returnRateKeys = []string{"returnRate", "return_rate", "returnPercent", "yield"}
	currencyKeys   = []string{"currency", "ccy"}
)

// categoryAliases maps lower-cased labels a model may produce onto the enumeration
var categoryAliases = map[string]domain.Category{
	"stock":          domain.CategoryStock,
	"stocks":         domain.CategoryStock,
	"equity":         domain.CategoryStock,
	"股票":             domain.CategoryStock,
	"fund":           domain.CategoryFund,
	"funds":          domain.CategoryFund,
	"etf":            domain.CategoryFund,
	"基金":             domain.CategoryFund,
	"bond":           domain.CategoryBond,
	"bonds":          domain.CategoryBond,
	"债券":             domain.CategoryBond,
	"crypto":         domain.CategoryCrypto,
	"cryptocurrency": domain.CategoryCrypto,
	"加密货币":           domain.CategoryCrypto,
	"cash":           domain.CategoryCash,
	"deposit":        domain.CategoryCash,
	"现金":             domain.CategoryCash,
	"other":          domain.CategoryOther,
	"其他":             domain.CategoryOther,
}

// ParseExtraction decodes an extraction response into partial asset records.
// Items without a usable name are dropped here; defaults are left to reconciliation.
// A negative amount is treated as absent so the holding keeps its previous value.
func ParseExtraction(text string) ([]domain.ExtractedAsset, error) {
	records, _, err := parseExtraction(text)
	return records, err
}

// parseExtraction also returns the names whose negative amount was discarded
func parseExtraction(text string) ([]domain.ExtractedAsset, []string, error) {
	doc, err := decodeDocument(text)
	if err != nil {
		return nil, nil, err
	}

	items, err := assetList(doc)
	if err != nil {
		return nil, nil, err
	}

	records := make([]domain.ExtractedAsset, 0, len(items))
	var negative []string
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		record, ok := extractedAsset(obj)
		if !ok {
			continue
		}
		if record.Amount != nil && record.Amount.IsNegative() {
			record.Amount = nil
			negative = append(negative, record.Name)
		}
		records = append(records, record)
	}
	return records, negative, nil
}

// DecodeExtraction is ParseExtraction for adapters: a response that cannot be
// parsed is logged and treated as an empty extraction
func DecodeExtraction(logger logrus.FieldLogger, provider, text string) []domain.ExtractedAsset {
	records, negative, err := parseExtraction(text)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"provider": provider,
			"response": truncate(text, 200),
		}).WithError(err).Warn("unusable extraction response, treating as empty")
		return []domain.ExtractedAsset{}
	}
	for _, name := range negative {
		logger.WithFields(logrus.Fields{
			"provider": provider,
			"asset":    name,
		}).Warn("discarding negative amount from extraction response")
	}
	if len(records) == 0 {
		logger.WithField("provider", provider).Warn("extraction response contained no holdings")
	}
	return records
}

// ParseAnalysis decodes an analysis response; all three fields missing is an error
func ParseAnalysis(text string) (*domain.AnalysisResult, error) {
	doc, err := decodeDocument(text)
	if err != nil {
		return nil, err
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("analysis response is %T, want an object", doc)
	}

	result := &domain.AnalysisResult{
		AllocationAnalysis:    stringField(obj, "allocationAnalysis", "allocation_analysis"),
		InvestmentAdvice:      stringField(obj, "investmentAdvice", "investment_advice"),
		AdjustmentSuggestions: stringField(obj, "adjustmentSuggestions", "adjustment_suggestions"),
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis response: %w", err)
	}
	return result, nil
}

// decodeDocument extracts the JSON payload of text, tolerating code fences and surrounding prose
func decodeDocument(text string) (any, error) {
	payload := strings.TrimSpace(stripFence(text))
	if payload == "" {
		return nil, ErrNoJSON
	}

	if doc, err := decodeJSON(payload); err == nil {
		return doc, nil
	}

	// Fall back to the outermost bracketed span
	start := strings.IndexAny(payload, "[{")
	if start < 0 {
		return nil, ErrNoJSON
	}
	closer := "]"
	if payload[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(payload, closer)
	if end <= start {
		return nil, ErrNoJSON
	}
	doc, err := decodeJSON(payload[start : end+1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return doc, nil
}

func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// stripFence returns the body of the first markdown code fence in text, or text itself
func stripFence(text string) string {
	open := strings.Index(text, "```")
	if open < 0 {
		return text
	}
	body := text[open+3:]
	// Drop the info string, e.g. ```json
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return body
}

func assetList(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, path := range listPaths {
			found, err := jsonpath.Get(path, v)
			if err != nil {
				continue
			}
			if list, ok := found.([]any); ok {
				return list, nil
			}
		}
		// A single holding returned as a bare object
		if _, ok := lookup(v, nameKeys); ok {
			return []any{v}, nil
		}
		return nil, errors.New("response object has no holdings list")
	default:
		return nil, fmt.Errorf("response is %T, want an array or object", doc)
	}
}

func extractedAsset(obj map[string]any) (domain.ExtractedAsset, bool) {
	var record domain.ExtractedAsset

	name, _ := lookup(obj, nameKeys)
	s, ok := name.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return record, false
	}
	record.Name = strings.TrimSpace(s)

	if raw, ok := lookup(obj, categoryKeys); ok {
		if s, ok := raw.(string); ok {
			c := parseCategory(s)
			record.Category = &c
		}
	}
	if raw, ok := lookup(obj, amountKeys); ok {
		record.Amount = coerceDecimal(raw)
	}
	if raw, ok := lookup(obj, returnRateKeys); ok {
		record.ReturnRate = coerceDecimal(raw)
	}
	if raw, ok := lookup(obj, currencyKeys); ok {
		if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			cur := strings.ToUpper(strings.TrimSpace(s))
			record.Currency = &cur
		}
	}

	return record, true
}

func lookup(obj map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(obj map[string]any, keys ...string) string {
	v, ok := lookup(obj, keys)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []any:
		// Some models answer with a list of bullet points
		lines := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				lines = append(lines, "- "+strings.TrimSpace(str))
			}
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

func parseCategory(s string) domain.Category {
	trimmed := strings.TrimSpace(s)
	if c := domain.Category(trimmed); c.IsValid() {
		return c
	}
	if c, ok := categoryAliases[strings.ToLower(trimmed)]; ok {
		return c
	}
	return domain.CategoryOther
}

// coerceDecimal accepts JSON numbers and numeric strings such as "¥12,345.60" or "-3.5%"
func coerceDecimal(v any) *decimal.Decimal {
	var (
		d   decimal.Decimal
		err error
	)
	switch n := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(n.String())
	case float64:
		d = decimal.NewFromFloat(n)
	case string:
		// Plain and scientific notation first; symbols and separators are stripped only as a fallback
		d, err = decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			d, err = decimal.NewFromString(cleanNumber(n))
		}
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return &d
}

func cleanNumber(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == '−':
			b.WriteRune('-')
		}
	}
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
