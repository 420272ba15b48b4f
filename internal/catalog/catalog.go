// Package catalog looks up books in an external catalog service.
package catalog

import (
	"fmt"
	"strings"

	"virtual-bookclub/backend/internal/model"
)

const maxSubjects = 5

// UnavailableError reports that the catalog could not be reached or answered badly
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s catalog unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// AnyGenre is the form value meaning "no genre filter"
const AnyGenre = "Any Genre"

// Genres are the genres offered by the search form
var Genres = []string{
	"Fiction", "Mystery", "Romance", "Science Fiction", "Fantasy", "Biography",
	"History", "Self-Help", "Business", "Philosophy", "Psychology", "Poetry",
	"Horror", "Thriller", "Adventure",
}

// genreSubjects maps form genres whose catalog subject differs from the lower-cased name
var genreSubjects = map[string]string{
	"Science Fiction": "science fiction",
	"Self-Help":       "self help",
}

// SubjectForGenre returns the catalog subject for a genre
func SubjectForGenre(genre string) string {
	genre = strings.TrimSpace(genre)
	for name, subject := range genreSubjects {
		if strings.EqualFold(name, genre) {
			return subject
		}
	}
	return strings.ToLower(genre)
}

// JoinAuthors renders up to two authors the way the result list shows them
func JoinAuthors(authors []string) string {
	if len(authors) == 0 {
		return "Unknown"
	}
	if len(authors) > 2 {
		authors = authors[:2]
	}
	return strings.Join(authors, ", ")
}

// CoverURL builds an Open Library cover URL. Returns "" when the book has no cover.
func CoverURL(base string, coverID int, size string) string {
	if coverID == 0 || base == "" {
		return ""
	}
	if size == "" {
		size = "M"
	}
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", strings.TrimRight(base, "/"), coverID, size)
}

func clampLimit(books []model.BookRecord, limit int) []model.BookRecord {
	if limit > 0 && len(books) > limit {
		return books[:limit]
	}
	return books
}
