package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case StateNotes:
		content = docStyle.Render(m.notesModel.View())
	case StateHabitForm, StateNoteForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, warningStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Habits", "Notes"} {
		if m.state == SessionState(i) || (m.state > StateNotes && m.previousState == SessionState(i)) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	week := utils.FormatDate(m.window.Start()) + " → " + utils.FormatDate(m.window.Last())
	tabs = append(tabs, rangeStyle.Render(week))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirmDelete() string {
	what := "habit"
	if m.previousState == StateNotes {
		what = "note"
	}
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this "+what+"?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
