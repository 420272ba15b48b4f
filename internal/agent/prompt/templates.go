package prompt

// ============================================================================
// Book club prompts
// - the book block is built by BuildBookContext
// - questions come back as a numbered list, one per line
// ============================================================================

// QuestionPromptTemplate asks for the discussion questions.
// Args: count, book context, focus, count
const QuestionPromptTemplate = `Generate %d thoughtful book club discussion questions for the following book.

%s
Focus on %s.
Return ONLY the questions as a numbered list 1-%d, one per line, no extra commentary.`

// StrictQuestionPromptTemplate is used for the single retry after a malformed answer.
// Args: count, book context, count, count
const StrictQuestionPromptTemplate = `Write exactly %d book club discussion questions about the following book.

%s
Rules:
- Output exactly %d lines and nothing else.
- Each line starts with its number followed by a period, e.g. "1." through "%d.".
- Each line is a single question ending with a question mark.
- No title, introduction or closing remark.`

// SummaryPromptTemplate asks for a short summary when the catalog has none.
// Args: title, author, topics
const SummaryPromptTemplate = `Write a short, clear summary for '%s' by %s about %s. Use at most three sentences and do not include discussion questions.
Summary:`

// Default focus when the catalog lists no subjects
const DefaultFocus = "general themes"

// Generation parameters
const (
	QuestionMaxTokens int32 = 512
	SummaryMaxTokens  int32 = 256
	StrictTemperature       = 0.2
)
