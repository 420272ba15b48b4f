package validation

import (
	"context"

	"virtual-bookclub/backend/internal/agent/deps"
	"virtual-bookclub/backend/internal/agent/prompt"
	"virtual-bookclub/backend/internal/logger"
	"virtual-bookclub/backend/internal/model"
)

// ResponseCorrector regenerates questions with the strict prompt when validation fails
type ResponseCorrector struct {
	llmClient     deps.LLMClient
	promptBuilder *prompt.Builder
}

// NewResponseCorrector creates a new ResponseCorrector
func NewResponseCorrector(llmClient deps.LLMClient, promptBuilder *prompt.Builder) *ResponseCorrector {
	return &ResponseCorrector{
		llmClient:     llmClient,
		promptBuilder: promptBuilder,
	}
}

// Generate asks the model again for the book's questions using the strict prompt.
// It returns the raw model output.
func (c *ResponseCorrector) Generate(ctx context.Context, book model.BookRecord) (string, error) {
	logger.For(ctx).Infof("[RETRY] Regenerating questions for %q with strict prompt", book.Title)

	strictPrompt := c.promptBuilder.BuildStrictQuestionPrompt(book)
	result, err := c.llmClient.GenerateContent(ctx, strictPrompt, prompt.StrictTemperature, prompt.QuestionMaxTokens)
	if err != nil {
		logger.For(ctx).Warnf("[RETRY] %s error: %v", c.llmClient.Name(), err)
		return "", err
	}

	logger.For(ctx).Debugf("[RETRY] Generated: %s", truncateForLog(result, 100))
	return result, nil
}
