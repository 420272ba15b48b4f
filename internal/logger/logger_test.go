package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestForCarriesRequestID(t *testing.T) {
	ctx := ContextWithID(context.Background(), "req-42")
	if got := IDFrom(ctx); got != "req-42" {
		t.Fatalf("IDFrom = %q", got)
	}
	if got := For(ctx).Data["request_id"]; got != "req-42" {
		t.Fatalf("expected request_id field, got %v", got)
	}
	if _, ok := For(context.Background()).Data["request_id"]; ok {
		t.Fatal("entry without id must not carry request_id")
	}
}

func TestTrack(t *testing.T) {
	var buf bytes.Buffer
	std := logrus.StandardLogger()
	prev := std.Out
	std.SetOutput(&buf)
	t.Cleanup(func() { std.SetOutput(prev) })

	done := Track(context.Background(), "catalog lookup")
	done()

	out := buf.String()
	if !strings.Contains(out, "[PERF] catalog lookup completed") || !strings.Contains(out, "duration=") {
		t.Fatalf("unexpected log output: %s", out)
	}
}
