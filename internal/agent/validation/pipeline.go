package validation

import (
	"context"
	"errors"
	"fmt"

	"virtual-bookclub/backend/internal/agent/response"
	"virtual-bookclub/backend/internal/logger"
)

// ErrTooFewQuestions is returned when the model produced too few questions even after the retry
var ErrTooFewQuestions = errors.New("too few questions")

// Pipeline runs multiple validators in sequence
type Pipeline struct {
	validators []Validator
	corrector  *ResponseCorrector
}

// NewPipeline creates a new validation pipeline
func NewPipeline(validators []Validator, corrector *ResponseCorrector) *Pipeline {
	return &Pipeline{
		validators: validators,
		corrector:  corrector,
	}
}

// DefaultValidators returns the validators used for discussion questions, in order
func DefaultValidators() []Validator {
	return []Validator{
		NewPromptLeakValidator(),
		NewQuestionCountValidator(),
	}
}

// Validate runs all validators and returns exactly input.Want questions.
// Corrections are applied in place and validation continues with the next validator.
// A validator asking for regeneration triggers a single strict retry.
func (p *Pipeline) Validate(ctx context.Context, input ValidationInput) ([]string, error) {
	log := logger.For(ctx)
	log.Debugf("[Pipeline] Validating %d question(s) for %q: %s", len(input.Questions), input.Book.Title, truncateForLog(input.Raw, 100))

	for _, v := range p.validators {
		result := v.Validate(ctx, input)

		if result.IsValid {
			log.Debugf("[Pipeline] %s: PASS", v.Name())
			continue
		}

		log.Debugf("[Pipeline] %s: FAIL - %s", v.Name(), result.Reason)

		if result.Corrected != nil {
			input.Questions = result.Corrected
			continue
		}

		if result.NeedsRedo {
			return p.redo(ctx, input, v.Name(), result.Reason)
		}
	}

	return input.Questions, nil
}

func (p *Pipeline) redo(ctx context.Context, input ValidationInput, validator, reason string) ([]string, error) {
	if input.Retried || p.corrector == nil {
		return nil, fmt.Errorf("%w: %s", ErrTooFewQuestions, reason)
	}

	logger.For(ctx).Infof("[Pipeline] Regenerating due to %s failure", validator)
	raw, err := p.corrector.Generate(ctx, input.Book)
	if err != nil {
		return nil, fmt.Errorf("strict retry: %w", err)
	}

	return p.Validate(ctx, ValidationInput{
		Book:      input.Book,
		Questions: response.ParseQuestions(raw, input.Want),
		Raw:       raw,
		Want:      input.Want,
		Retried:   true,
	})
}
