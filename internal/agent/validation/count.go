package validation

import (
	"context"
	"fmt"

	"virtual-bookclub/backend/internal/logger"
)

// QuestionCountValidator enforces the number of questions per book.
// Extra questions are cut deterministically; too few require regeneration.
type QuestionCountValidator struct{}

// NewQuestionCountValidator creates a new QuestionCountValidator
func NewQuestionCountValidator() *QuestionCountValidator {
	return &QuestionCountValidator{}
}

// Name returns the validator name
func (v *QuestionCountValidator) Name() string {
	return "QuestionCountValidator"
}

// Validate checks the number of questions against input.Want
func (v *QuestionCountValidator) Validate(ctx context.Context, input ValidationInput) ValidationResult {
	got := len(input.Questions)
	switch {
	case got == input.Want:
		return OK()
	case got > input.Want:
		logger.For(ctx).Debugf("[%s] %d questions for %q, keeping the first %d", v.Name(), got, input.Book.Title, input.Want)
		return FailWithCorrection(fmt.Sprintf("got %d questions, want %d", got, input.Want), input.Questions[:input.Want])
	default:
		return Fail(fmt.Sprintf("got %d questions, want %d", got, input.Want))
	}
}
