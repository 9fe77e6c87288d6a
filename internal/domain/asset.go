package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when an extracted record does not name a currency
const DefaultCurrency = "CNY"

// Category represents the asset class of a holding
type Category string

const (
	CategoryStock  Category = "Stock"
	CategoryFund   Category = "Fund"
	CategoryBond   Category = "Bond"
	CategoryCrypto Category = "Crypto"
	CategoryCash   Category = "Cash"
	CategoryOther  Category = "Other"
)

// Categories lists the fixed category enumeration in display order
var Categories = []Category{
	CategoryStock,
	CategoryFund,
	CategoryBond,
	CategoryCrypto,
	CategoryCash,
	CategoryOther,
}

// IsValid reports whether c is part of the fixed enumeration
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Normalize returns c if it is valid and CategoryOther otherwise
func (c Category) Normalize() Category {
	if c.IsValid() {
		return c
	}
	return CategoryOther
}

// Asset represents a single tracked holding
// Name is the natural merge key used by reconciliation (case-sensitive, not enforced unique)
type Asset struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Category    Category        `json:"category"`
	Amount      decimal.Decimal `json:"amount"`     // Current value in Currency, never negative
	ReturnRate  decimal.Decimal `json:"returnRate"` // Signed percentage, 5 means +5%
	Currency    string          `json:"currency"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Validate ensures the asset adheres to domain rules
// Returns an error if validation fails
func (a *Asset) Validate() error {
	if a.ID == uuid.Nil {
		return errors.New("asset id cannot be empty")
	}

	if a.Name == "" {
		return errors.New("asset name cannot be empty")
	}

	if !a.Category.IsValid() {
		return errors.New("asset category must be one of Stock, Fund, Bond, Crypto, Cash, Other")
	}

	if a.Amount.IsNegative() {
		return errors.New("asset amount cannot be negative")
	}

	return nil
}

// ExtractedAsset is a partial asset record produced by the extraction service
// A nil field means the service did not provide a value for it
type ExtractedAsset struct {
	Name       string
	Category   *Category
	Amount     *decimal.Decimal
	ReturnRate *decimal.Decimal
	Currency   *string
}
