package notes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/markup"
)

var (
	boldStyle      = lipgloss.NewStyle().Bold(true)
	italicStyle    = lipgloss.NewStyle().Italic(true)
	underlineStyle = lipgloss.NewStyle().Underline(true)
	strikeStyle    = lipgloss.NewStyle().Strikethrough(true)
	checkedStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
)

// Terminal renders note markup with ANSI styling. Text is not escaped; the
// terminal shows it literally.
type Terminal struct{}

func (Terminal) Escape(text string) string { return text }
func (Terminal) Bold(s string) string      { return boldStyle.Render(s) }
func (Terminal) Italic(s string) string    { return italicStyle.Render(s) }
func (Terminal) Underline(s string) string { return underlineStyle.Render(s) }
func (Terminal) Strike(s string) string    { return strikeStyle.Render(s) }

func (Terminal) Todo(line markup.Line) string {
	if line.Checked {
		return "☑ " + checkedStyle.Render(line.Label)
	}
	return "☐ " + line.Label
}

func (Terminal) Break() string     { return "\n" }
func (Terminal) TodoBreak() string { return "\n" }

// Render formats note text for the terminal.
func Render(text string) string {
	return markup.Format(text, Terminal{})
}
