package agent

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"virtual-bookclub/backend/internal/agent/deps"
	"virtual-bookclub/backend/internal/agent/prompt"
	"virtual-bookclub/backend/internal/agent/response"
	"virtual-bookclub/backend/internal/agent/validation"
	"virtual-bookclub/backend/internal/logger"
	"virtual-bookclub/backend/internal/metrics"
	"virtual-bookclub/backend/internal/model"
)

const (
	opQuestions = "questions"
	opSummary   = "summary"
)

// DefaultTemperature is the sampling temperature for the first attempt
const DefaultTemperature float32 = 0.8

var summaryLabelRegex = regexp.MustCompile(`(?i)^\s*summary\s*:\s*`)

// QuestionGenerator produces discussion questions and fallback summaries for books
type QuestionGenerator struct {
	llmClient     deps.LLMClient
	promptBuilder *prompt.Builder
	pipeline      *validation.Pipeline
	temperature   float32
}

// NewQuestionGenerator creates a QuestionGenerator on top of llmClient.
// A zero temperature selects DefaultTemperature.
func NewQuestionGenerator(llmClient deps.LLMClient, temperature float32) *QuestionGenerator {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	promptBuilder := prompt.NewBuilder(model.QuestionCount)
	corrector := validation.NewResponseCorrector(llmClient, promptBuilder)
	pipeline := validation.NewPipeline(validation.DefaultValidators(), corrector)

	return &QuestionGenerator{
		llmClient:     llmClient,
		promptBuilder: promptBuilder,
		pipeline:      pipeline,
		temperature:   temperature,
	}
}

// Provider returns the name of the underlying LLM provider
func (g *QuestionGenerator) Provider() string {
	return g.llmClient.Name()
}

// Questions generates exactly model.QuestionCount questions for book.
// Extra questions are cut, too few trigger one strict retry.
// Any failure is returned as *GenerationError.
func (g *QuestionGenerator) Questions(ctx context.Context, book model.BookRecord) (model.DiscussionQuestions, error) {
	var out model.DiscussionQuestions

	start := time.Now()
	questions, err := g.questions(ctx, book)
	metrics.GenerationDuration.WithLabelValues(opQuestions).Observe(time.Since(start).Seconds())
	if err != nil {
		g.recordFailure(ctx, opQuestions, book, err)
		return out, &GenerationError{Book: book.Title, Op: opQuestions, Err: err}
	}

	copy(out[:], questions)
	metrics.GenerationRequestsTotal.WithLabelValues(opQuestions, "ok").Inc()
	return out, nil
}

func (g *QuestionGenerator) questions(ctx context.Context, book model.BookRecord) ([]string, error) {
	raw, err := g.llmClient.GenerateContent(ctx, g.promptBuilder.BuildQuestionPrompt(book), g.temperature, prompt.QuestionMaxTokens)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyResponse
	}

	want := g.promptBuilder.Count()
	questions, err := g.pipeline.Validate(ctx, validation.ValidationInput{
		Book:      book,
		Questions: response.ParseQuestions(raw, want),
		Raw:       raw,
		Want:      want,
	})
	if err != nil {
		return nil, err
	}
	if len(questions) != want {
		return nil, validation.ErrTooFewQuestions
	}
	return questions, nil
}

// Summarize writes a short summary for a book the catalog has none for
func (g *QuestionGenerator) Summarize(ctx context.Context, book model.BookRecord) (string, error) {
	start := time.Now()
	raw, err := g.llmClient.GenerateContent(ctx, g.promptBuilder.BuildSummaryPrompt(book), g.temperature, prompt.SummaryMaxTokens)
	metrics.GenerationDuration.WithLabelValues(opSummary).Observe(time.Since(start).Seconds())

	if err == nil {
		raw = strings.TrimSpace(summaryLabelRegex.ReplaceAllString(raw, ""))
		if raw == "" {
			err = ErrEmptyResponse
		}
	}
	if err != nil {
		g.recordFailure(ctx, opSummary, book, err)
		return "", &GenerationError{Book: book.Title, Op: opSummary, Err: err}
	}

	metrics.GenerationRequestsTotal.WithLabelValues(opSummary, "ok").Inc()
	return raw, nil
}

func (g *QuestionGenerator) recordFailure(ctx context.Context, op string, book model.BookRecord, err error) {
	outcome := "error"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case errors.Is(err, context.Canceled):
		outcome = "cancelled"
	case IsRateLimitError(err):
		outcome = "rate_limited"
	}
	metrics.GenerationRequestsTotal.WithLabelValues(op, outcome).Inc()

	logger.For(ctx).WithFields(logrus.Fields{
		"book":     book.Title,
		"provider": g.llmClient.Name(),
		"outcome":  outcome,
	}).Warnf("[GENERATE] %s failed: %v", op, err)
}
