package prompt

import (
	"fmt"
	"strings"

	"virtual-bookclub/backend/internal/agent/sanitize"
	"virtual-bookclub/backend/internal/model"
)

const maxTopics = 3

// BuildBookContext renders the book block embedded in generation prompts.
// Catalog text is sanitized; it is external data, not instructions.
func BuildBookContext(book model.BookRecord) string {
	var sb strings.Builder
	sb.WriteString("<book>\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", sanitize.Text(book.Title)))
	sb.WriteString(fmt.Sprintf("Author: %s\n", sanitize.Text(authorText(book))))
	if book.Year > 0 {
		sb.WriteString(fmt.Sprintf("First published: %d\n", book.Year))
	}
	if topics := Topics(book); topics != DefaultFocus {
		sb.WriteString(fmt.Sprintf("Subjects: %s\n", topics))
	}
	if summary := sanitize.Text(book.Summary); summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", summary))
	}
	sb.WriteString("</book>\n")
	return sb.String()
}

// Topics returns up to three subjects joined for the prompt
func Topics(book model.BookRecord) string {
	subjects := book.Subjects
	if len(subjects) > maxTopics {
		subjects = subjects[:maxTopics]
	}
	var cleaned []string
	for _, s := range subjects {
		if s = sanitize.Text(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return DefaultFocus
	}
	return strings.Join(cleaned, ", ")
}

func authorText(book model.BookRecord) string {
	if book.Author != "" {
		return book.Author
	}
	if len(book.Authors) > 0 {
		n := len(book.Authors)
		if n > 2 {
			n = 2
		}
		return strings.Join(book.Authors[:n], ", ")
	}
	return "Unknown"
}
