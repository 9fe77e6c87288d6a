package domain

import (
	"errors"
	"time"
)

// AnalysisResult holds the narrative portfolio analysis returned by the analysis service
// It is always replaced as a whole, never partially updated
type AnalysisResult struct {
	AllocationAnalysis    string    `json:"allocationAnalysis"`
	InvestmentAdvice      string    `json:"investmentAdvice"`
	AdjustmentSuggestions string    `json:"adjustmentSuggestions"`
	GeneratedAt           time.Time `json:"generatedAt,omitempty"`
}

// Validate ensures the analysis carries at least one narrative field
func (a *AnalysisResult) Validate() error {
	if a.AllocationAnalysis == "" && a.InvestmentAdvice == "" && a.AdjustmentSuggestions == "" {
		return errors.New("analysis result must have at least one non-empty field")
	}
	return nil
}
