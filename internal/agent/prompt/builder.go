package prompt

import (
	"fmt"

	"virtual-bookclub/backend/internal/agent/sanitize"
	"virtual-bookclub/backend/internal/model"
)

// Builder constructs prompts for the question generator
type Builder struct {
	count int
}

// NewBuilder creates a new prompt builder for count questions per book
func NewBuilder(count int) *Builder {
	return &Builder{count: count}
}

// Count returns the number of questions the prompts ask for
func (b *Builder) Count() int {
	return b.count
}

// BuildQuestionPrompt creates the fixed discussion-question prompt
func (b *Builder) BuildQuestionPrompt(book model.BookRecord) string {
	return fmt.Sprintf(QuestionPromptTemplate, b.count, BuildBookContext(book), Topics(book), b.count)
}

// BuildStrictQuestionPrompt creates the prompt for the retry after a malformed response
func (b *Builder) BuildStrictQuestionPrompt(book model.BookRecord) string {
	return fmt.Sprintf(StrictQuestionPromptTemplate, b.count, BuildBookContext(book), b.count, b.count)
}

// BuildSummaryPrompt creates a prompt to summarize a book the catalog has no summary for
func (b *Builder) BuildSummaryPrompt(book model.BookRecord) string {
	return fmt.Sprintf(SummaryPromptTemplate, sanitize.Text(book.Title), sanitize.Text(authorText(book)), Topics(book))
}
