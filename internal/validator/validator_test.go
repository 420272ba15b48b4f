package validator

import "testing"

func TestCheckKeepsFirstError(t *testing.T) {
	v := New()
	if !v.Valid() {
		t.Fatal("new validator should be valid")
	}

	v.Check(false, "limit", "must be at least 1")
	v.Check(false, "limit", "must be at most 50")
	v.Check(true, "text", "must be provided")

	if v.Valid() {
		t.Fatal("expected validator to be invalid")
	}
	if got := v.Errors["limit"]; got != "must be at least 1" {
		t.Fatalf("expected first error to win, got %q", got)
	}
	if _, ok := v.Errors["text"]; ok {
		t.Fatal("passing check must not record an error")
	}
}

func TestPermittedValue(t *testing.T) {
	if !PermittedValue("title", "genre", "author", "title") {
		t.Fatal("expected title to be permitted")
	}
	if PermittedValue(7, 1, 2, 3) {
		t.Fatal("expected 7 to be rejected")
	}
}
