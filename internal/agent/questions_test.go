package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"virtual-bookclub/backend/internal/agent/validation"
	"virtual-bookclub/backend/internal/model"
)

type fakeLLM struct {
	mu      sync.Mutex
	respond func(ctx context.Context, prompt string) (string, error)
	prompts []string
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, temperature float32, maxOutputTokens int32) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(ctx, prompt)
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func isStrict(prompt string) bool {
	return strings.Contains(prompt, "Output exactly")
}

var hound = model.BookRecord{
	Title:    "The Hound of the Baskervilles",
	Author:   "Arthur Conan Doyle",
	Summary:  "Holmes investigates a family curse on the moors.",
	Subjects: []string{"Mystery", "Detectives"},
}

func TestQuestionsNumberedList(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{respond: func(ctx context.Context, p string) (string, error) {
		return "Here are your questions:\n1. Q1?\n2. Q2?\n3. Q3?\n4. Q4?\n5. Q5?", nil
	}}
	got, err := NewQuestionGenerator(llm, 0).Questions(context.Background(), hound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.DiscussionQuestions{"Q1?", "Q2?", "Q3?", "Q4?", "Q5?"}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if llm.calls() != 1 {
		t.Fatalf("expected one call, got %d", llm.calls())
	}
	if !strings.Contains(llm.prompts[0], hound.Title) || !strings.Contains(llm.prompts[0], hound.Author) {
		t.Fatalf("prompt does not identify the book:\n%s", llm.prompts[0])
	}
}

func TestQuestionsMoreThanFiveKeepsFirstFive(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{respond: func(ctx context.Context, p string) (string, error) {
		return "1. A?\n2. B?\n3. C?\n4. D?\n5. E?\n6. F?\n7. G?", nil
	}}
	got, err := NewQuestionGenerator(llm, 0).Questions(context.Background(), hound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (model.DiscussionQuestions{"A?", "B?", "C?", "D?", "E?"}) {
		t.Fatalf("unexpected questions: %v", got)
	}
}

func TestQuestionsRetriesOnceWhenTooFew(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{respond: func(ctx context.Context, p string) (string, error) {
		if isStrict(p) {
			return "1. A?\n2. B?\n3. C?\n4. D?\n5. E?", nil
		}
		return "1. A?\n2. B?\n3. C?", nil
	}}
	got, err := NewQuestionGenerator(llm, 0).Questions(context.Background(), hound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[4] != "E?" {
		t.Fatalf("expected questions from the strict retry, got %v", got)
	}
	if llm.calls() != 2 {
		t.Fatalf("expected two calls, got %d", llm.calls())
	}
}

func TestQuestionsFailsAfterRetry(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{respond: func(ctx context.Context, p string) (string, error) {
		return "1. Only one?", nil
	}}
	_, err := NewQuestionGenerator(llm, 0).Questions(context.Background(), hound)

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Op != "questions" || genErr.Book != hound.Title {
		t.Fatalf("unexpected error fields: %+v", genErr)
	}
	if !errors.Is(err, validation.ErrTooFewQuestions) {
		t.Fatalf("expected ErrTooFewQuestions, got %v", err)
	}
	if llm.calls() != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", llm.calls())
	}
}

func TestQuestionsEmptyResponse(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{respond: func(ctx context.Context, p string) (string, error) {
		return "  \n", nil
	}}
	_, err := NewQuestionGenerator(llm, 0).Questions(context.Background(), hound)
	if !errors.Is(err, ErrEmptyResponse) || !IsGenerationError(err) {
		t.Fatalf("expected empty-response GenerationError, got %v", err)
	}
}

func TestQuestionsTimeout(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{respond: func(ctx context.Context, p string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewQuestionGenerator(llm, 0).Questions(ctx, hound)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !IsGenerationError(err) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{respond: func(ctx context.Context, p string) (string, error) {
		if !strings.Contains(p, "Summary:") {
			t.Errorf("unexpected summary prompt: %s", p)
		}
		return "Summary: A detective story set on Dartmoor.", nil
	}}
	got, err := NewQuestionGenerator(llm, 0).Summarize(context.Background(), hound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A detective story set on Dartmoor." {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestSummarizeFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	llm := &fakeLLM{respond: func(ctx context.Context, p string) (string, error) {
		return "", boom
	}}
	_, err := NewQuestionGenerator(llm, 0).Summarize(context.Background(), hound)

	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Op != "summary" {
		t.Fatalf("expected summary GenerationError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to unwrap, got %v", err)
	}
}
