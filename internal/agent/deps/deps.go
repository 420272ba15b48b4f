package deps

import (
	"context"

	"virtual-bookclub/backend/internal/model"
)

// LLMClient abstracts text-generation API calls
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string, temperature float32, maxOutputTokens int32) (string, error)
	Name() string
}

// BookCatalog abstracts the external book lookup.
// Search returns at most q.Limit records; zero matches is not an error.
type BookCatalog interface {
	Search(ctx context.Context, q model.SearchQuery) ([]model.BookRecord, error)
	Name() string
}
