package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSuperseded is the cancellation cause of a search replaced by a newer one from the same session
var ErrSuperseded = errors.New("search superseded by a newer search")

// ValidationError lists the form fields that failed validation
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "invalid search: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is a *ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
