// Package present turns search results into view entries for the HTML page,
// the JSON API and the terminal.
package present

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"virtual-bookclub/backend/internal/catalog"
	"virtual-bookclub/backend/internal/model"
)

// User-facing messages
const (
	MsgNoBooks              = "No books found. Try broadening your search."
	MsgQuestionsUnavailable = "Questions unavailable for this book."
	MsgSearchUnavailable    = "Search unavailable, try again."
	MsgSummaryUnavailable   = "Summary unavailable."
)

// Entry is one rendered book
type Entry struct {
	Title                string
	Author               string
	Summary              string
	SummaryGenerated     bool
	SummaryMissing       bool
	Year                 int
	Subjects             []string
	CoverURL             string
	Rating               float64
	RatingCount          int
	Questions            []string
	QuestionsUnavailable bool
}

// View is the rendered result list
type View struct {
	Entries []Entry
	Message string // set when there is nothing to list
}

// Empty reports whether the view lists no books
func (v View) Empty() bool {
	return len(v.Entries) == 0
}

// Presenter builds views. It makes no external calls.
type Presenter struct {
	policy    *bluemonday.Policy
	coversURL string
}

// New creates a presenter. coversURL is the cover image host; empty disables covers.
func New(coversURL string) *Presenter {
	return &Presenter{
		policy:    bluemonday.StrictPolicy(),
		coversURL: coversURL,
	}
}

// Build converts results into view entries, preserving order
func (p *Presenter) Build(results []model.SearchResult) View {
	if len(results) == 0 {
		return View{Entries: []Entry{}, Message: MsgNoBooks}
	}

	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, p.entry(r))
	}
	return View{Entries: entries}
}

// CoverURL resolves the cover image for book
func (p *Presenter) CoverURL(book model.BookRecord) string {
	return catalog.CoverURL(p.coversURL, book.CoverID, "M")
}

func (p *Presenter) entry(r model.SearchResult) Entry {
	e := Entry{
		Title:            p.text(r.Book.Title),
		Author:           p.text(r.Book.Author),
		Summary:          p.text(r.Book.Summary),
		SummaryGenerated: r.Book.SummaryGenerated,
		Year:             r.Book.Year,
		CoverURL:         p.CoverURL(r.Book),
		Rating:           r.Book.Rating,
		RatingCount:      r.Book.RatingCount,
	}
	for _, s := range r.Book.Subjects {
		if s = p.text(s); s != "" {
			e.Subjects = append(e.Subjects, s)
		}
	}
	if e.Summary == "" {
		e.SummaryMissing = true
	}

	if r.Questions == nil {
		e.QuestionsUnavailable = true
		return e
	}
	e.Questions = make([]string, 0, len(r.Questions))
	for _, q := range r.Questions {
		e.Questions = append(e.Questions, p.text(q))
	}
	return e
}

// text strips markup from external text. html/template escapes again on output,
// so entities left by the sanitizer are decoded here.
func (p *Presenter) text(s string) string {
	s = p.policy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
