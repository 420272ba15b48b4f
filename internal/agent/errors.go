package agent

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrEmptyResponse is returned when the model produced no text
var ErrEmptyResponse = errors.New("empty response from model")

// GenerationError reports that questions or a summary could not be generated for a book
type GenerationError struct {
	Book string
	Op   string // "questions" or "summary"
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s for %q: %v", e.Op, e.Book, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError reports whether err is a *GenerationError
func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}

// IsRateLimitError checks if the error is an LLM provider rate limit error
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	// Check for gRPC ResourceExhausted status
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}
	// Also check for wrapped errors and string matching as fallback
	errStr := err.Error()
	return strings.Contains(errStr, "ResourceExhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota")
}
