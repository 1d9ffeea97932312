package markup

import (
	"regexp"
	"strings"
)

// Formatter renders the pieces of a note for one output medium.
type Formatter interface {
	// Escape is applied once to the whole note before anything else.
	Escape(text string) string
	Bold(s string) string
	Italic(s string) string
	Underline(s string) string
	Strike(s string) string
	// Todo renders a todo line. Its Label has already been escaped and gets
	// no inline formatting.
	Todo(line Line) string
	// Break separates adjacent rendered lines.
	Break() string
}

// TodoBreaker is implemented by formatters whose todo lines are not block
// elements and need a separator between consecutive todos.
type TodoBreaker interface {
	TodoBreak() string
}

type inlineRule struct {
	re    *regexp.Regexp
	apply func(f Formatter, inner string) string
}

// Rules run in this order. The italic rule sees double underscores before the
// underline rule does, so "__x__" comes out as two empty emphasis spans around
// x. Existing notes render that way, keep it.
var inlineRules = []inlineRule{
	{regexp.MustCompile(`\*\*(.*?)\*\*`), Formatter.Bold},
	{regexp.MustCompile(`\*(.*?)\*|_(.*?)_`), Formatter.Italic},
	{regexp.MustCompile(`__(.*?)__`), Formatter.Underline},
	{regexp.MustCompile(`~~(.*?)~~`), Formatter.Strike},
}

// Format renders text with f: escape, classify lines, apply inline rules to
// text lines, and join with f.Break() except between consecutive todo lines,
// which get f.TodoBreak() when f is a TodoBreaker.
func Format(text string, f Formatter) string {
	if text == "" {
		return ""
	}

	lines := Parse(f.Escape(text))
	var b strings.Builder
	for i, line := range lines {
		if line.IsTodo() {
			b.WriteString(f.Todo(line))
		} else {
			b.WriteString(formatInline(line.Content, f))
		}

		if i == len(lines)-1 {
			break
		}
		if !(line.IsTodo() && lines[i+1].IsTodo()) {
			b.WriteString(f.Break())
		} else if tb, ok := f.(TodoBreaker); ok {
			b.WriteString(tb.TodoBreak())
		}
	}
	return b.String()
}

func formatInline(s string, f Formatter) string {
	for _, rule := range inlineRules {
		s = rule.re.ReplaceAllStringFunc(s, func(match string) string {
			groups := rule.re.FindStringSubmatch(match)
			return rule.apply(f, strings.Join(groups[1:], ""))
		})
	}
	return s
}
