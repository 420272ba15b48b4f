package present

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the terminal width used when none is given
const DefaultWidth = 80

// RenderText writes v as wrapped plain text
func RenderText(w io.Writer, v View, width int) error {
	if width <= 20 {
		width = DefaultWidth
	}
	bw := bufio.NewWriter(w)

	if v.Empty() {
		msg := v.Message
		if msg == "" {
			msg = MsgNoBooks
		}
		fmt.Fprintln(bw, msg)
		return bw.Flush()
	}

	for i, e := range v.Entries {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		heading := fmt.Sprintf("%d. %s by %s", i+1, e.Title, e.Author)
		if e.Year > 0 {
			heading += fmt.Sprintf(" (%d)", e.Year)
		}
		fmt.Fprintln(bw, wordwrap.String(heading, width))
		fmt.Fprintln(bw, strings.Repeat("-", min(width, len([]rune(heading)))))

		if e.Rating > 0 {
			fmt.Fprintf(bw, "Rating: %.1f/5 (%d ratings)\n", e.Rating, e.RatingCount)
		}
		if len(e.Subjects) > 0 {
			fmt.Fprintln(bw, wordwrap.String("Subjects: "+strings.Join(e.Subjects, ", "), width))
		}

		fmt.Fprintln(bw, "\nSummary")
		switch {
		case e.SummaryMissing:
			fmt.Fprintln(bw, indent(MsgSummaryUnavailable, "  "))
		case e.SummaryGenerated:
			fmt.Fprintln(bw, indent(wordwrap.String(e.Summary+" (generated)", width-2), "  "))
		default:
			fmt.Fprintln(bw, indent(wordwrap.String(e.Summary, width-2), "  "))
		}

		fmt.Fprintln(bw, "\nDiscussion questions")
		if e.QuestionsUnavailable {
			fmt.Fprintln(bw, indent(MsgQuestionsUnavailable, "  "))
			continue
		}
		for n, q := range e.Questions {
			wrapped := indent(wordwrap.String(q, width-6), "     ")
			fmt.Fprintf(bw, "  %d) %s\n", n+1, strings.TrimLeft(wrapped, " "))
		}
	}
	return bw.Flush()
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
