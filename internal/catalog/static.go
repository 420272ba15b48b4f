package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"virtual-bookclub/backend/internal/metrics"
	"virtual-bookclub/backend/internal/model"
)

// Static is an in-memory catalog, used for offline mode and tests
type Static struct {
	books []model.BookRecord
}

// NewStatic creates a Static catalog over books
func NewStatic(books []model.BookRecord) *Static {
	return &Static{books: books}
}

// LoadStatic reads a JSON array of books from path
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var books []model.BookRecord
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	for i := range books {
		if books[i].Author == "" {
			books[i].Author = JoinAuthors(books[i].Authors)
		}
	}
	return NewStatic(books), nil
}

// Name identifies the provider in logs and metrics
func (s *Static) Name() string {
	return "static"
}

// All returns every book in the catalog
func (s *Static) All() []model.BookRecord {
	return s.books
}

// Search matches the query text against the field selected by the mode
func (s *Static) Search(ctx context.Context, q model.SearchQuery) ([]model.BookRecord, error) {
	if err := ctx.Err(); err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(s.Name(), "error").Inc()
		return nil, &UnavailableError{Provider: s.Name(), Err: err}
	}

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	if q.Mode == model.ModeGenre {
		needle = SubjectForGenre(needle)
	}
	anyGenre := q.Mode == model.ModeGenre && strings.EqualFold(strings.TrimSpace(q.Text), AnyGenre)

	var results []model.BookRecord
	for _, book := range s.books {
		if anyGenre || matches(book, q.Mode, needle) {
			results = append(results, book)
		}
		if q.Limit > 0 && len(results) == q.Limit {
			break
		}
	}

	outcome := "ok"
	if len(results) == 0 {
		outcome = "empty"
	}
	metrics.CatalogRequestsTotal.WithLabelValues(s.Name(), outcome).Inc()
	return results, nil
}

func matches(book model.BookRecord, mode model.SearchMode, needle string) bool {
	switch mode {
	case model.ModeTitle:
		return strings.Contains(strings.ToLower(book.Title), needle)
	case model.ModeAuthor:
		if strings.Contains(strings.ToLower(book.Author), needle) {
			return true
		}
		for _, a := range book.Authors {
			if strings.Contains(strings.ToLower(a), needle) {
				return true
			}
		}
		return false
	default:
		for _, subject := range book.Subjects {
			if strings.Contains(strings.ToLower(subject), needle) {
				return true
			}
		}
		return false
	}
}
