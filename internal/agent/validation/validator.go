package validation

import (
	"context"

	"virtual-bookclub/backend/internal/model"
)

// ValidationInput contains all data needed for validation
type ValidationInput struct {
	Book      model.BookRecord
	Questions []string // parsed questions in generated order
	Raw       string   // raw model output, for logging
	Want      int
	Retried   bool // true once the strict prompt has been used
}

// ValidationResult is the outcome of a validation
type ValidationResult struct {
	IsValid   bool
	Reason    string
	Corrected []string // Non-nil if correction is available
	NeedsRedo bool     // True if questions need to be regenerated from scratch
}

// OK returns a successful validation result
func OK() ValidationResult {
	return ValidationResult{IsValid: true}
}

// Fail returns a failed validation result
func Fail(reason string) ValidationResult {
	return ValidationResult{IsValid: false, Reason: reason, NeedsRedo: true}
}

// FailWithCorrection returns a failed validation result with corrected questions
func FailWithCorrection(reason string, corrected []string) ValidationResult {
	if corrected == nil {
		corrected = []string{}
	}
	return ValidationResult{IsValid: false, Reason: reason, Corrected: corrected}
}

// Validator is the interface for validation rules
type Validator interface {
	// Name returns the validator's name for logging
	Name() string
	// Validate checks the questions and returns a validation result
	Validate(ctx context.Context, input ValidationInput) ValidationResult
}

// truncateForLog truncates a string for logging purposes
func truncateForLog(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
