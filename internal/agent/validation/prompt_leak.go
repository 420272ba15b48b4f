package validation

import (
	"context"
	"regexp"
	"strings"

	"virtual-bookclub/backend/internal/logger"
)

// PromptLeakValidator drops parsed lines that echo the prompt instead of asking a question
type PromptLeakValidator struct {
	// sensitivePatterns are regex patterns that indicate prompt leakage
	sensitivePatterns []*regexp.Regexp
	// sensitiveKeywords are exact keywords that should not appear in a question
	sensitiveKeywords []string
}

// NewPromptLeakValidator creates a new PromptLeakValidator
func NewPromptLeakValidator() *PromptLeakValidator {
	// Covers: book block markers, field labels, the prompt's own rules and format instructions.
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)</?book>`),
		regexp.MustCompile(`(?i)^(title|author|summary|subjects|first published)\s*:`),
		regexp.MustCompile(`(?i)^(return|output|write|generate)\s+(only|exactly)?\s*(\d+|the)?\s*(book club\s+)?(discussion\s+)?(questions|lines)`),
		regexp.MustCompile(`(?i)^rules?\s*:?$`),
		regexp.MustCompile(`(?i)each line (starts|is)`),
	}

	keywords := []string{
		"numbered list",
		"no extra commentary",
		"no title, introduction or closing remark",
		"one per line",
	}

	return &PromptLeakValidator{
		sensitivePatterns: patterns,
		sensitiveKeywords: keywords,
	}
}

// Name returns the validator name
func (v *PromptLeakValidator) Name() string {
	return "PromptLeakValidator"
}

// Validate removes leaked lines. The remaining questions keep their order.
func (v *PromptLeakValidator) Validate(ctx context.Context, input ValidationInput) ValidationResult {
	kept := make([]string, 0, len(input.Questions))
	for _, q := range input.Questions {
		if v.leaks(q) {
			logger.For(ctx).Debugf("[%s] LEAK DETECTED: %s", v.Name(), truncateForLog(q, 50))
			continue
		}
		kept = append(kept, q)
	}

	if len(kept) == len(input.Questions) {
		return OK()
	}
	return FailWithCorrection("instruction text echoed in output", kept)
}

func (v *PromptLeakValidator) leaks(question string) bool {
	for _, pattern := range v.sensitivePatterns {
		if pattern.MatchString(question) {
			return true
		}
	}
	lower := strings.ToLower(question)
	for _, keyword := range v.sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
