package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlog/internal/tui/components/habits"
	"github.com/julianstephens/habitlog/internal/tui/components/notes"
	"github.com/julianstephens/habitlog/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateHabitForm || m.state == StateNoteForm {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.notesModel.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case habits.ToggleMsg:
		if _, err := m.svc.ToggleCompletion(m.userID, msg.ID, msg.Day); err != nil {
			m.fail("toggle habit", err)
			return m, nil
		}
		m.refresh()
		return m, nil

	case habits.ShiftWeekMsg:
		if msg.Delta < 0 {
			m.window = m.window.Previous()
		} else {
			m.window = m.window.Next()
		}
		m.habitsModel.SetWindow(m.window)
		m.refresh()
		return m, nil

	case habits.AddHabitMsg:
		m.editingID = ""
		m.habitForm = &HabitFormModel{}
		return m.openForm(StateHabitForm, NewHabitForm(m.habitForm))

	case habits.EditHabitMsg:
		m.editingID = msg.Habit.ID
		m.habitForm = &HabitFormModel{Name: msg.Habit.Name}
		return m.openForm(StateHabitForm, NewHabitForm(m.habitForm))

	case habits.DeleteHabitMsg:
		return m.confirmDelete(msg.ID), nil

	case notes.AddNoteMsg:
		m.editingID = ""
		m.noteForm = &NoteFormModel{Date: m.defaultNoteDate()}
		return m.openForm(StateNoteForm, NewNoteForm(m.noteForm))

	case notes.EditNoteMsg:
		m.editingID = msg.Note.ID
		m.noteForm = &NoteFormModel{Text: msg.Note.Text, Date: msg.Note.Date}
		return m.openForm(StateNoteForm, NewNoteForm(m.noteForm))

	case notes.DeleteNoteMsg:
		return m.confirmDelete(msg.ID), nil

	case notes.PinNoteMsg:
		if _, err := m.svc.TogglePin(m.userID, msg.ID); err != nil {
			m.fail("pin note", err)
			return m, nil
		}
		m.refresh()
		return m, nil

	case notes.FlipTodoMsg:
		if _, err := m.svc.FlipNoteCheckbox(m.userID, msg.ID, msg.Line); err != nil {
			m.fail("update todo", err)
			return m, nil
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.state == StateConfirmDelete {
			return m.updateConfirmDelete(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.state == StateHabits {
				m.state = StateNotes
			} else {
				m.state = StateHabits
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case StateNotes:
		m.notesModel, cmd = m.notesModel.Update(msg)
	}
	return m, cmd
}

// defaultNoteDate is today when today is on screen, otherwise the window's
// end day.
func (m Model) defaultNoteDate() string {
	today := m.svc.TodayString()
	if m.window.Contains(today) {
		return today
	}
	return utils.FormatDate(m.window.End)
}

func (m Model) openForm(state SessionState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.previousState = m.state
	m.state = state
	m.form = form
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.saveForm()
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

// saveForm applies the submitted habit or note form.
func (m *Model) saveForm() {
	var err error
	switch m.state {
	case StateHabitForm:
		if m.editingID == "" {
			_, err = m.svc.AddHabit(m.userID, m.habitForm.Name)
		} else {
			_, err = m.svc.RenameHabit(m.userID, m.editingID, m.habitForm.Name)
		}
	case StateNoteForm:
		if m.editingID == "" {
			_, err = m.svc.AddNote(m.userID, m.noteForm.Text, m.noteForm.Date)
		} else {
			_, err = m.svc.EditNote(m.userID, m.editingID, m.noteForm.Text, m.noteForm.Date)
		}
	}
	if err != nil {
		m.fail("save", err)
		return
	}
	m.refresh()
}

func (m Model) confirmDelete(id string) Model {
	m.deleteID = id
	m.previousState = m.state
	m.state = StateConfirmDelete
	return m
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		var err error
		if m.previousState == StateHabits {
			err = m.svc.DeleteHabit(m.userID, m.deleteID)
		} else {
			err = m.svc.DeleteNote(m.userID, m.deleteID)
		}
		m.state = m.previousState
		m.deleteID = ""
		if err != nil {
			m.fail("delete", err)
			return m, nil
		}
		m.refresh()
	case key.Matches(msg, m.keys.Cancel):
		m.state = m.previousState
		m.deleteID = ""
	}
	return m, nil
}
