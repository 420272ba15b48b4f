package model

import "strings"

// QuestionCount is the number of discussion questions generated per book
const QuestionCount = 5

// SearchMode selects which catalog field the query text is matched against
type SearchMode string

const (
	ModeGenre  SearchMode = "genre"
	ModeAuthor SearchMode = "author"
	ModeTitle  SearchMode = "title"
)

// Modes lists the supported search modes in form order
var Modes = []SearchMode{ModeGenre, ModeAuthor, ModeTitle}

// ParseMode converts user input into a SearchMode. ok is false for unknown modes.
func ParseMode(s string) (SearchMode, bool) {
	mode := SearchMode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range Modes {
		if m == mode {
			return m, true
		}
	}
	return mode, false
}

// SearchQuery is a single search submitted through the form
type SearchQuery struct {
	Mode  SearchMode `json:"mode"`
	Text  string     `json:"text"`
	Limit int        `json:"limit"`
}

// BookRecord is one book returned by the catalog
type BookRecord struct {
	Title            string   `json:"title"`
	Author           string   `json:"author"`
	Summary          string   `json:"summary"`
	Authors          []string `json:"authors,omitempty"`
	Year             int      `json:"year,omitempty"`
	Subjects         []string `json:"subjects,omitempty"`
	CoverID          int      `json:"cover_id,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	RatingCount      int      `json:"rating_count,omitempty"`
	SummaryGenerated bool     `json:"summary_generated,omitempty"`
}

// DiscussionQuestions holds exactly QuestionCount questions in generated order
type DiscussionQuestions [QuestionCount]string

// Slice returns the questions as a slice
func (q DiscussionQuestions) Slice() []string {
	out := make([]string, len(q))
	copy(out, q[:])
	return out
}

// SearchResult pairs a book with its questions.
// Questions is nil when generation failed for the book.
type SearchResult struct {
	Book      BookRecord           `json:"book"`
	Questions *DiscussionQuestions `json:"questions"`
}

// QuestionsAvailable reports whether questions were generated for the book
func (r SearchResult) QuestionsAvailable() bool {
	return r.Questions != nil
}

// SearchResultResponse is the JSON shape returned by the API
type SearchResultResponse struct {
	Title                string   `json:"title"`
	Author               string   `json:"author"`
	Summary              string   `json:"summary"`
	SummaryGenerated     bool     `json:"summary_generated"`
	Year                 int      `json:"year,omitempty"`
	Subjects             []string `json:"subjects,omitempty"`
	Cover                string   `json:"cover,omitempty"`
	Rating               float64  `json:"rating,omitempty"`
	RatingCount          int      `json:"rating_count,omitempty"`
	Questions            []string `json:"questions"`
	QuestionsUnavailable bool     `json:"questions_unavailable"`
}

// ToResponse converts the result for the JSON API. cover is the resolved cover URL.
func (r *SearchResult) ToResponse(cover string) SearchResultResponse {
	resp := SearchResultResponse{
		Title:            r.Book.Title,
		Author:           r.Book.Author,
		Summary:          r.Book.Summary,
		SummaryGenerated: r.Book.SummaryGenerated,
		Year:             r.Book.Year,
		Subjects:         r.Book.Subjects,
		Cover:            cover,
		Rating:           r.Book.Rating,
		RatingCount:      r.Book.RatingCount,
		Questions:        []string{},
	}
	if r.Questions == nil {
		resp.QuestionsUnavailable = true
	} else {
		resp.Questions = r.Questions.Slice()
	}
	return resp
}
