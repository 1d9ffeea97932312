// Package notes renders the notes pane: pinned notes first, then every other
// note, newest first.
package notes

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/markup"
	"github.com/julianstephens/habitlog/internal/models"
)

type AddNoteMsg struct{}

type EditNoteMsg struct {
	Note models.Note
}

type DeleteNoteMsg struct {
	ID string
}

type PinNoteMsg struct {
	ID string
}

// FlipTodoMsg asks for the todo on Line of note ID to be inverted.
type FlipTodoMsg struct {
	ID   string
	Line int
}

var (
	dateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	pinStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true).MarginTop(1)
	selectedStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("205")).
			PaddingLeft(1)
	noteStyle = lipgloss.NewStyle().PaddingLeft(2)
)

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextTodo key.Binding
	Check    key.Binding
	Add      key.Binding
	Edit     key.Binding
	Pin      key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev note"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next note"),
		),
		NextTodo: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next todo"),
		),
		Check: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "check todo"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	viewport viewport.Model
	pinned   []models.Note
	regular  []models.Note
	keys     KeyMap
	cursor   int
	// todo indexes into the selected note's todo lines.
	todo int
}

func New(pinned, regular []models.Note, width, height int) Model {
	m := Model{
		viewport: viewport.New(width, height),
		keys:     DefaultKeyMap(),
	}
	m.SetNotes(pinned, regular)
	return m
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m *Model) SetNotes(pinned, regular []models.Note) {
	m.pinned, m.regular = pinned, regular
	if n := len(pinned) + len(regular); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.clampTodo()
	m.render()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

// Selected returns the note under the cursor.
func (m Model) Selected() (models.Note, bool) {
	switch {
	case m.cursor < len(m.pinned):
		return m.pinned[m.cursor], true
	case m.cursor < len(m.pinned)+len(m.regular):
		return m.regular[m.cursor-len(m.pinned)], true
	}
	return models.Note{}, false
}

// SelectedTodo returns the todo line the check key acts on.
func (m Model) SelectedTodo() (markup.Line, bool) {
	n, ok := m.Selected()
	if !ok {
		return markup.Line{}, false
	}
	todos := markup.Todos(n.Text)
	if len(todos) == 0 {
		return markup.Line{}, false
	}
	return todos[m.todo], true
}

func (m *Model) clampTodo() {
	n, ok := m.Selected()
	if !ok {
		m.todo = 0
		return
	}
	if count := len(markup.Todos(n.Text)); m.todo >= count {
		m.todo = 0
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.todo = 0
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.pinned)+len(m.regular)-1 {
			m.cursor++
			m.todo = 0
		}
	case key.Matches(keyMsg, m.keys.NextTodo):
		m.todo++
		m.clampTodo()
	case key.Matches(keyMsg, m.keys.Add):
		return m, func() tea.Msg { return AddNoteMsg{} }
	case key.Matches(keyMsg, m.keys.Check):
		n, _ := m.Selected()
		if line, ok := m.SelectedTodo(); ok {
			return m, func() tea.Msg { return FlipTodoMsg{ID: n.ID, Line: line.Index} }
		}
	case key.Matches(keyMsg, m.keys.Edit):
		if n, ok := m.Selected(); ok {
			return m, func() tea.Msg { return EditNoteMsg{Note: n} }
		}
	case key.Matches(keyMsg, m.keys.Pin):
		if n, ok := m.Selected(); ok {
			return m, func() tea.Msg { return PinNoteMsg{ID: n.ID} }
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if n, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteNoteMsg{ID: n.ID} }
		}
	}
	m.render()
	return m, nil
}

func (m Model) View() string {
	if len(m.pinned)+len(m.regular) == 0 {
		return "\n  No notes yet.\n  Press 'a' to add one."
	}
	return m.viewport.View()
}

func (m *Model) render() {
	var b strings.Builder
	idx := 0
	section := func(title string, notes []models.Note) {
		if len(notes) == 0 {
			return
		}
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, n := range notes {
			b.WriteString(m.renderNote(n, idx == m.cursor))
			b.WriteString("\n")
			idx++
		}
	}
	section("Pinned", m.pinned)
	section("Notes", m.regular)
	m.viewport.SetContent(b.String())
}

func (m Model) renderNote(n models.Note, selected bool) string {
	header := dateStyle.Render(n.Date)
	if n.Pinned {
		header = pinStyle.Render("📌 ") + header
	}
	body := Render(n.Text)
	if selected {
		if line, ok := m.SelectedTodo(); ok {
			body += "\n" + dateStyle.Render("› todo on line "+strconv.Itoa(line.Index+1))
		}
		return selectedStyle.Render(header + "\n" + body)
	}
	return noteStyle.Render(header + "\n" + body)
}
