package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"virtual-bookclub/backend/internal/model"
)

const mysteryFixture = `{
  "numFound": 4,
  "docs": [
    {"key": "/works/OL1W", "title": "The Hound of the Baskervilles", "author_name": ["Arthur Conan Doyle"], "first_publish_year": 1902, "subject": ["Mystery", "Detectives", "England", "Dogs", "Moors", "Fiction"], "cover_i": 123, "ratings_average": 4.12, "ratings_count": 88, "first_sentence": ["Mr. Sherlock Holmes, who was usually very late in the mornings."]},
    {"key": "/works/OL2W", "title": "Untitled Fragment"},
    {"key": "/works/OL3W", "title": "Murder on the Orient Express", "author_name": ["Agatha Christie", "Someone Else", "Third Person"], "first_sentence": "It was five o'clock on a winter's morning in Syria."},
    {"key": "/works/OL4W", "title": "The Moonstone", "author_name": ["Wilkie Collins"]}
  ]
}`

func TestOpenLibrarySearchBuildsQueryAndMapsDocs(t *testing.T) {
	t.Parallel()

	var gotQuery, gotLimit, gotFulltext string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		gotFulltext = r.URL.Query().Get("has_fulltext")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mysteryFixture))
	}))
	t.Cleanup(server.Close)

	client := NewOpenLibrary(OpenLibraryConfig{BaseURL: server.URL, FullTextOnly: true, HTTPClient: server.Client()})
	books, err := client.Search(context.Background(), model.SearchQuery{Mode: model.ModeGenre, Text: "Mystery", Limit: 3})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if gotQuery != `subject:"mystery"` {
		t.Fatalf("unexpected q param: %s", gotQuery)
	}
	if gotLimit != "3" {
		t.Fatalf("unexpected limit param: %s", gotLimit)
	}
	if gotFulltext != "true" {
		t.Fatalf("expected has_fulltext=true, got %q", gotFulltext)
	}

	if len(books) != 3 {
		t.Fatalf("expected 3 books (doc without author skipped), got %d", len(books))
	}
	first := books[0]
	if first.Title != "The Hound of the Baskervilles" || first.Author != "Arthur Conan Doyle" {
		t.Fatalf("unexpected first book: %+v", first)
	}
	if first.Summary != "Mr. Sherlock Holmes, who was usually very late in the mornings." {
		t.Fatalf("unexpected summary: %q", first.Summary)
	}
	if len(first.Subjects) != maxSubjects {
		t.Fatalf("expected subjects clipped to %d, got %d", maxSubjects, len(first.Subjects))
	}
	if first.Year != 1902 || first.CoverID != 123 || first.RatingCount != 88 {
		t.Fatalf("metadata not mapped: %+v", first)
	}
	if books[1].Author != "Agatha Christie, Someone Else" {
		t.Fatalf("expected two authors joined, got %q", books[1].Author)
	}
	if books[1].Summary != "It was five o'clock on a winter's morning in Syria." {
		t.Fatalf("string first_sentence not handled: %q", books[1].Summary)
	}
	if books[2].Summary != "" {
		t.Fatalf("expected empty summary, got %q", books[2].Summary)
	}
}

func TestOpenLibrarySearchNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Provider ignores the limit parameter.
		_, _ = w.Write([]byte(mysteryFixture))
	}))
	t.Cleanup(server.Close)

	client := NewOpenLibrary(OpenLibraryConfig{BaseURL: server.URL, HTTPClient: server.Client()})
	for limit := 1; limit <= 4; limit++ {
		books, err := client.Search(context.Background(), model.SearchQuery{Mode: model.ModeGenre, Text: "mystery", Limit: limit})
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(books) > limit {
			t.Fatalf("limit %d: got %d books", limit, len(books))
		}
	}
}

func TestOpenLibrarySearchEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numFound":0,"docs":[]}`))
	}))
	t.Cleanup(server.Close)

	client := NewOpenLibrary(OpenLibraryConfig{BaseURL: server.URL, HTTPClient: server.Client()})
	books, err := client.Search(context.Background(), model.SearchQuery{Mode: model.ModeTitle, Text: "zzzz", Limit: 5})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("expected zero books, got %d", len(books))
	}
}

func TestOpenLibrarySearchFailuresAreUnavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(tt.handler)
			t.Cleanup(server.Close)

			client := NewOpenLibrary(OpenLibraryConfig{BaseURL: server.URL, HTTPClient: server.Client()})
			_, err := client.Search(context.Background(), model.SearchQuery{Mode: model.ModeAuthor, Text: "Christie", Limit: 2})
			if !IsUnavailable(err) {
				t.Fatalf("expected UnavailableError, got %v", err)
			}
		})
	}
}

func TestOpenLibrarySearchNetworkFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewOpenLibrary(OpenLibraryConfig{BaseURL: url})
	_, err := client.Search(context.Background(), model.SearchQuery{Mode: model.ModeTitle, Text: "Dune", Limit: 1})
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if unavailable.Provider != "openlibrary" {
		t.Fatalf("unexpected provider: %s", unavailable.Provider)
	}
}

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   model.SearchQuery
		want string
	}{
		{"title", model.SearchQuery{Mode: model.ModeTitle, Text: " Dune "}, `title:"Dune"`},
		{"author strips quotes", model.SearchQuery{Mode: model.ModeAuthor, Text: `Le "Guin"`}, `author:"Le Guin"`},
		{"genre mapped", model.SearchQuery{Mode: model.ModeGenre, Text: "Science Fiction"}, `subject:"science fiction"`},
		{"genre self-help", model.SearchQuery{Mode: model.ModeGenre, Text: "Self-Help"}, `subject:"self help"`},
		{"genre lowered", model.SearchQuery{Mode: model.ModeGenre, Text: "Poetry"}, `subject:"poetry"`},
		{"any genre", model.SearchQuery{Mode: model.ModeGenre, Text: AnyGenre}, "fiction"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := buildQuery(tt.in); got != tt.want {
				t.Fatalf("buildQuery(%+v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoverURL(t *testing.T) {
	t.Parallel()

	if got := CoverURL("https://covers.openlibrary.org/", 42, ""); got != "https://covers.openlibrary.org/b/id/42-M.jpg" {
		t.Fatalf("unexpected cover url: %s", got)
	}
	if got := CoverURL("https://covers.openlibrary.org", 0, "L"); got != "" {
		t.Fatalf("expected empty url for missing cover, got %s", got)
	}
}
