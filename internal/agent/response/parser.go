package response

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// 1. / 1) / 1: / (1) / 1 - / Q1. / **1.** at the start of a line
	numberMarkerRegex = regexp.MustCompile(`^(?:\*\*)?\(?(?:[Qq](?:uestion)?\s*)?\d{1,2}\s*([\.\):\-])\)?(?:\*\*)?(\s*)`)
	bulletMarkerRegex = regexp.MustCompile(`^[-*•]\s+`)
	emphasisRegex     = regexp.MustCompile(`\*\*|__`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
)

type line struct {
	text   string
	marked bool
}

// ParseQuestions extracts discussion questions from free text.
// Numbered lists, bullet lists and plain one-per-line output are accepted.
// When list markers are present, unmarked lines before the first item are
// treated as preamble. A later unmarked line continues the previous item only
// when that item is unfinished and the line starts in lower case; otherwise
// it is dropped as epilogue. The result keeps generated order and
// may contain fewer or more than want items; the caller decides the policy.
func ParseQuestions(text string, want int) []string {
	lines := splitLines(text)

	anyMarked := false
	for _, l := range lines {
		if l.marked {
			anyMarked = true
			break
		}
	}

	var candidates []string
	if anyMarked {
		candidates = collectMarked(lines)
	} else {
		for _, l := range lines {
			if isHeading(l.text) {
				continue
			}
			candidates = append(candidates, l.text)
		}
	}

	questions := deduplicate(candidates)

	// Fall back to splitting run-together questions on question marks
	if len(questions) < want && strings.Contains(text, "?") {
		var expanded []string
		for _, q := range questions {
			if strings.Count(q, "?") > 1 {
				expanded = append(expanded, splitOnQuestionMarks(q)...)
			} else {
				expanded = append(expanded, q)
			}
		}
		questions = deduplicate(expanded)
	}

	return questions
}

func splitLines(text string) []line {
	var lines []line
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		marked := false
		if rest, ok := stripNumberMarker(trimmed); ok {
			trimmed = rest
			marked = true
		} else if loc := bulletMarkerRegex.FindStringIndex(trimmed); loc != nil {
			trimmed = trimmed[loc[1]:]
			marked = true
		}
		cleaned := clean(trimmed)
		if cleaned == "" {
			continue
		}
		lines = append(lines, line{text: cleaned, marked: marked})
	}
	return lines
}

// stripNumberMarker removes a leading list number. A marker glued to the text
// ("1.What") only counts when followed by a non-digit and not joined by a hyphen,
// so "3.5 stars" and "10-year-old" stay intact.
func stripNumberMarker(s string) (string, bool) {
	m := numberMarkerRegex.FindStringSubmatchIndex(s)
	if m == nil {
		return s, false
	}
	rest := s[m[1]:]
	if m[5] == m[4] {
		r, _ := utf8.DecodeRuneInString(rest)
		if rest == "" || s[m[2]:m[3]] == "-" || unicode.IsDigit(r) {
			return s, false
		}
	}
	return rest, true
}

func collectMarked(lines []line) []string {
	var items []string
	for _, l := range lines {
		if l.marked {
			items = append(items, l.text)
			continue
		}
		if len(items) == 0 {
			// preamble
			continue
		}
		last := items[len(items)-1]
		if !isContinuation(last, l.text) {
			// epilogue or commentary
			continue
		}
		items[len(items)-1] = last + " " + l.text
	}
	return items
}

// isContinuation reports whether next is a wrapped part of prev rather than a new sentence
func isContinuation(prev, next string) bool {
	if strings.HasSuffix(prev, "?") || strings.HasSuffix(prev, ".") || strings.HasSuffix(prev, "!") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(next)
	return !unicode.IsUpper(r)
}

// isHeading reports lines such as "Here are five questions:" or "Discussion Questions"
func isHeading(s string) bool {
	if strings.HasSuffix(s, ":") {
		return true
	}
	lower := strings.ToLower(s)
	return !strings.HasSuffix(s, "?") && len(strings.Fields(s)) <= 3 && strings.Contains(lower, "question")
}

func clean(s string) string {
	s = emphasisRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"“”'`)
	return strings.TrimSpace(s)
}

func splitOnQuestionMarks(text string) []string {
	var parts []string
	segments := strings.Split(text, "?")
	// the text after the last question mark is not a question
	for _, p := range segments[:len(segments)-1] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p, _ = stripNumberMarker(p)
		p = bulletMarkerRegex.ReplaceAllString(p, "")
		p = clean(p)
		if p == "" {
			continue
		}
		parts = append(parts, p+"?")
	}
	return parts
}

// deduplicate removes duplicates while preserving order
func deduplicate(input []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(input))
	for _, s := range input {
		key := strings.ToLower(s)
		if !seen[key] {
			seen[key] = true
			result = append(result, s)
		}
	}
	return result
}

