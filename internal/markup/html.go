package markup

import (
	"strconv"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// HTML renders notes as HTML fragments for the browser client.
type HTML struct{}

func (HTML) Escape(text string) string { return htmlEscaper.Replace(text) }
func (HTML) Bold(s string) string      { return "<strong>" + s + "</strong>" }
func (HTML) Italic(s string) string    { return "<em>" + s + "</em>" }
func (HTML) Underline(s string) string { return "<u>" + s + "</u>" }
func (HTML) Strike(s string) string    { return "<s>" + s + "</s>" }
func (HTML) Break() string             { return "<br>" }

func (HTML) Todo(line Line) string {
	idx := strconv.Itoa(line.Index)
	checked, textClass := "", "todo-text"
	if line.Checked {
		checked, textClass = " checked", "todo-text todo-checked"
	}
	return `<label class="todo-item" data-line="` + idx + `">` +
		`<input type="checkbox" class="todo-checkbox" data-line="` + idx + `"` + checked + ` />` +
		`<span class="` + textClass + `">` + line.Label + `</span></label>`
}

// Render converts raw note text into sanitized HTML. All user content is
// escaped before any tag is introduced.
func Render(text string) string {
	return Format(text, HTML{})
}
