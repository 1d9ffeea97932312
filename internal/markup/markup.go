// Package markup turns note text into display markup.
//
// Notes support a small inline syntax (**bold**, *italic* or _italic_,
// __underline__, ~~strike~~) and todo lines written as "[] task" or "[x] task".
// Todo lines keep their zero-based line index so a rendered checkbox can be
// mapped back to the line it came from and toggled in the raw text.
package markup

import (
	"regexp"
	"strings"
)

// Kind classifies a single line of note text.
type Kind int

const (
	KindText Kind = iota
	KindTodo
)

// Line is one classified line of a note.
type Line struct {
	Index   int
	Kind    Kind
	Checked bool
	// Content is the line without its trailing carriage return.
	Content string
	// Label is the todo text after the marker and its whitespace. Empty for text lines.
	Label string
}

// IsTodo reports whether the line is a todo line.
func (l Line) IsTodo() bool {
	return l.Kind == KindTodo
}

// space matches Unicode whitespace after a todo marker. RE2's \s is ASCII only.
const space = `[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

var (
	uncheckedLine   = regexp.MustCompile(`^\[\]` + space + `+(.+)$`)
	checkedLine     = regexp.MustCompile(`(?i)^\[x\]` + space + `+(.+)$`)
	uncheckedMarker = regexp.MustCompile(`^\[\]` + space + `+`)
	checkedMarker   = regexp.MustCompile(`(?i)^\[x\]` + space + `+`)
)

// Parse splits text on newlines and classifies each line. It is a pure fold
// over (index, line) pairs; the returned indexes match the line numbers used by
// ToggleCheckboxLine.
func Parse(text string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, r := range raw {
		lines[i] = classify(i, strings.TrimSuffix(r, "\r"))
	}
	return lines
}

func classify(index int, content string) Line {
	line := Line{Index: index, Kind: KindText, Content: content}
	switch {
	case uncheckedLine.MatchString(content):
		line.Kind = KindTodo
		line.Label = uncheckedMarker.ReplaceAllString(content, "")
	case checkedLine.MatchString(content):
		line.Kind = KindTodo
		line.Checked = true
		line.Label = checkedMarker.ReplaceAllString(content, "")
	}
	return line
}

// ToggleCheckboxLine sets the todo marker on line lineIndex of the raw text to
// checked or unchecked. Every other byte of text is preserved. The input is
// returned unchanged when the index is out of range, the line is not a todo
// line, or it is already in the requested state.
func ToggleCheckboxLine(text string, lineIndex int, checked bool) string {
	raw := strings.Split(text, "\n")
	if lineIndex < 0 || lineIndex >= len(raw) {
		return text
	}

	line := classify(lineIndex, strings.TrimSuffix(raw[lineIndex], "\r"))
	if !line.IsTodo() || line.Checked == checked {
		return text
	}

	if checked {
		raw[lineIndex] = "[x]" + strings.TrimPrefix(raw[lineIndex], "[]")
	} else {
		raw[lineIndex] = "[]" + raw[lineIndex][len("[x]"):]
	}
	return strings.Join(raw, "\n")
}

// Toggle flips the todo marker on line lineIndex. Non-todo lines and
// out-of-range indexes leave the text unchanged.
func Toggle(text string, lineIndex int) string {
	lines := Parse(text)
	if lineIndex < 0 || lineIndex >= len(lines) || !lines[lineIndex].IsTodo() {
		return text
	}
	return ToggleCheckboxLine(text, lineIndex, !lines[lineIndex].Checked)
}

// Todos returns only the todo lines of text.
func Todos(text string) []Line {
	var todos []Line
	for _, l := range Parse(text) {
		if l.IsTodo() {
			todos = append(todos, l)
		}
	}
	return todos
}
