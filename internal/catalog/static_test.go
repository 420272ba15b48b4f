package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"virtual-bookclub/backend/internal/model"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadStaticAndSearch(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, `[
		{"title": "Dune", "author": "Frank Herbert", "subjects": ["Science fiction"]},
		{"title": "Foundation", "authors": ["Isaac Asimov"], "subjects": ["Science fiction", "Empire"]},
		{"title": "Emma", "author": "Jane Austen", "subjects": ["Romance"]}
	]`)

	static, err := LoadStatic(path)
	if err != nil {
		t.Fatalf("LoadStatic: %v", err)
	}
	if got := static.All()[1].Author; got != "Isaac Asimov" {
		t.Fatalf("expected author derived from authors list, got %q", got)
	}

	tests := []struct {
		name  string
		query model.SearchQuery
		want  []string
	}{
		{"genre", model.SearchQuery{Mode: model.ModeGenre, Text: "Science Fiction", Limit: 10}, []string{"Dune", "Foundation"}},
		{"genre limited", model.SearchQuery{Mode: model.ModeGenre, Text: "science fiction", Limit: 1}, []string{"Dune"}},
		{"author", model.SearchQuery{Mode: model.ModeAuthor, Text: "asimov", Limit: 10}, []string{"Foundation"}},
		{"title", model.SearchQuery{Mode: model.ModeTitle, Text: "EMMA", Limit: 10}, []string{"Emma"}},
		{"any genre", model.SearchQuery{Mode: model.ModeGenre, Text: AnyGenre, Limit: 2}, []string{"Dune", "Foundation"}},
		{"no match", model.SearchQuery{Mode: model.ModeTitle, Text: "Ulysses", Limit: 10}, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			books, err := static.Search(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(books) != len(tt.want) {
				t.Fatalf("expected %d books, got %d", len(tt.want), len(books))
			}
			for i, title := range tt.want {
				if books[i].Title != title {
					t.Fatalf("result %d: expected %q, got %q", i, title, books[i].Title)
				}
			}
		})
	}
}

func TestLoadStaticErrors(t *testing.T) {
	t.Parallel()

	if _, err := LoadStatic(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadStatic(writeCatalog(t, `{not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestStaticSearchCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStatic(nil).Search(ctx, model.SearchQuery{Mode: model.ModeTitle, Text: "x", Limit: 1})
	if !IsUnavailable(err) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
}

func TestBundledCatalogLoads(t *testing.T) {
	t.Parallel()

	static, err := LoadStatic(filepath.Join("..", "..", "data", "books.json"))
	if err != nil {
		t.Fatalf("bundled catalog: %v", err)
	}
	books, err := static.Search(context.Background(), model.SearchQuery{Mode: model.ModeGenre, Text: "Mystery", Limit: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("expected 3 mystery books in bundled catalog, got %d", len(books))
	}
}
