// Package sanitize neutralizes instruction-like content in catalog text
// before it is embedded in a generation prompt.
// Reference: OWASP LLM Prompt Injection Prevention Cheat Sheet
// https://cheatsheetseries.owasp.org/cheatsheets/LLM_Prompt_Injection_Prevention_Cheat_Sheet.html
package sanitize

import (
	"regexp"
	"strings"
)

// maxTextRunes caps catalog text embedded in prompts
const maxTextRunes = 1200

// instructionPatterns detects instruction-like content in external data (book summaries, subjects)
var instructionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+|the\s+)?(previous|prior|above)\s+(instructions|prompts?)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+|the\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|the)\s+\w+`),
	regexp.MustCompile(`(?i)(reveal|print|show)\s+(your\s+)?(system\s+)?prompt`),
	regexp.MustCompile(`(?i)\b(system|assistant)\s*:`),
	regexp.MustCompile(`(?i)do\s+not\s+(write|generate|return)\s+(any\s+)?questions`),
}

var (
	markupRe     = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Text neutralizes instruction-like patterns by wrapping them in 【】 brackets,
// strips markup and collapses whitespace.
// The bracketed content signals to the LLM that this is quoted text, not an instruction.
func Text(text string) string {
	result := markupRe.ReplaceAllString(text, " ")
	result = whitespaceRe.ReplaceAllString(strings.TrimSpace(result), " ")
	for _, pattern := range instructionPatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			return "【" + match + "】"
		})
	}
	return clip(result, maxTextRunes)
}

func clip(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
