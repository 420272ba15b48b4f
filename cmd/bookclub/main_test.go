package main

import (
	"testing"

	"virtual-bookclub/backend/internal/model"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    model.SearchQuery
		wantErr bool
	}{
		{"genre mystery 3", model.SearchQuery{Mode: model.ModeGenre, Text: "mystery", Limit: 3}, false},
		{"Genre science fiction", model.SearchQuery{Mode: model.ModeGenre, Text: "science fiction", Limit: 5}, false},
		{"title 1984", model.SearchQuery{Mode: model.ModeTitle, Text: "1984", Limit: 5}, false},
		{"title 1984 2", model.SearchQuery{Mode: model.ModeTitle, Text: "1984", Limit: 2}, false},
		{"author Ursula K. Le Guin", model.SearchQuery{Mode: model.ModeAuthor, Text: "Ursula K. Le Guin", Limit: 5}, false},
		{"isbn 123", model.SearchQuery{}, true},
		{"genre", model.SearchQuery{}, true},
	}

	for _, tt := range tests {
		got, err := parseCommand(tt.in, 5)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseCommand(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("parseCommand(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestComplete(t *testing.T) {
	got := complete("genre sci")
	if len(got) != 1 || got[0] != "genre Science Fiction" {
		t.Fatalf("unexpected completions: %v", got)
	}
	if got := complete("a"); len(got) != 1 || got[0] != "author " {
		t.Fatalf("unexpected mode completion: %v", got)
	}
}
