// Package habits renders the habit grid: one row per habit, one column per
// day of the display window.
package habits

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/calendar"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/tracker"
	"github.com/julianstephens/habitlog/internal/utils"
)

type AddHabitMsg struct{}

type EditHabitMsg struct {
	Habit tracker.HabitView
}

type DeleteHabitMsg struct {
	ID string
}

type ToggleMsg struct {
	ID  string
	Day string
}

// ShiftWeekMsg asks for the previous (-1) or next (+1) window.
type ShiftWeekMsg struct {
	Delta int
}

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	futureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	nameStyle     = lipgloss.NewStyle().Width(20)
	streakStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Toggle   key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		PrevWeek: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev week"),
		),
		NextWeek: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next week"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	habits []tracker.HabitView
	window calendar.Window
	keys   KeyMap
	row    int
	col    int
}

// New starts with the cursor on today's column.
func New(habits []tracker.HabitView, window calendar.Window) Model {
	m := Model{keys: DefaultKeyMap()}
	m.SetWindow(window)
	m.SetHabits(habits)
	return m
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m *Model) SetHabits(habits []tracker.HabitView) {
	m.habits = habits
	if m.row >= len(habits) {
		m.row = max(len(habits)-1, 0)
	}
}

// SetWindow changes the visible days. The cursor lands on today when today
// is visible, otherwise on the window's end day.
func (m *Model) SetWindow(w calendar.Window) {
	m.window = w
	m.col = constants.WindowDaysBefore
	for i, d := range w.Days() {
		if w.IsToday(d) {
			m.col = i
		}
	}
}

// Selected returns the habit under the cursor.
func (m Model) Selected() (tracker.HabitView, bool) {
	if len(m.habits) == 0 {
		return tracker.HabitView{}, false
	}
	return m.habits[m.row], true
}

// SelectedDay returns the day under the cursor as YYYY-MM-DD.
func (m Model) SelectedDay() string {
	return utils.FormatDate(m.window.Days()[m.col])
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.row < len(m.habits)-1 {
			m.row++
		}
	case key.Matches(keyMsg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(keyMsg, m.keys.Right):
		if m.col < len(m.window.Days())-1 {
			m.col++
		}
	case key.Matches(keyMsg, m.keys.PrevWeek):
		return m, func() tea.Msg { return ShiftWeekMsg{Delta: -1} }
	case key.Matches(keyMsg, m.keys.NextWeek):
		if m.window.HasNext() {
			return m, func() tea.Msg { return ShiftWeekMsg{Delta: 1} }
		}
	case key.Matches(keyMsg, m.keys.Add):
		return m, func() tea.Msg { return AddHabitMsg{} }
	case key.Matches(keyMsg, m.keys.Toggle):
		if h, ok := m.Selected(); ok {
			day := m.SelectedDay()
			return m, func() tea.Msg { return ToggleMsg{ID: h.ID, Day: day} }
		}
	case key.Matches(keyMsg, m.keys.Edit):
		if h, ok := m.Selected(); ok {
			return m, func() tea.Msg { return EditHabitMsg{Habit: h} }
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if h, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteHabitMsg{ID: h.ID} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	days := m.window.Days()

	var b strings.Builder
	b.WriteString(nameStyle.Render(""))
	for _, d := range days {
		label := d.Format("Mon 02")
		cell := " " + label + " "
		if m.window.IsToday(d) {
			b.WriteString(todayStyle.Render(cell))
		} else {
			b.WriteString(headerStyle.Render(cell))
		}
	}
	b.WriteString(headerStyle.Render("  streak"))
	b.WriteString("\n")

	if len(m.habits) == 0 {
		b.WriteString("\n  No habits yet.\n  Press 'a' to add one.")
		return b.String()
	}

	for r, h := range m.habits {
		b.WriteString(nameStyle.Render(truncate(h.Name, 19)))
		for c, d := range days {
			day := utils.FormatDate(d)
			mark := "   ·    "
			style := lipgloss.NewStyle()
			switch {
			case h.IsCompleted(day):
				mark = "   ✓    "
				style = doneStyle
			case d.After(m.window.Today):
				style = futureStyle
			}
			if r == m.row && c == m.col {
				style = cursorStyle
			}
			b.WriteString(style.Render(mark))
		}
		b.WriteString(streakStyle.Render(fmt.Sprintf("  %d (best %d)", h.Streak, h.Longest)))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
