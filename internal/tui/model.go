// Package tui is the interactive terminal interface: a habit grid for the
// current week and the week's notes.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlog/internal/calendar"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/tracker"
	"github.com/julianstephens/habitlog/internal/tui/components/habits"
	"github.com/julianstephens/habitlog/internal/tui/components/notes"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateNotes
	StateHabitForm
	StateNoteForm
	StateConfirmDelete
)

type Model struct {
	svc           *tracker.Service
	userID        string
	window        calendar.Window
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	habitsModel   habits.Model
	notesModel    notes.Model
	form          *huh.Form
	habitForm     *HabitFormModel
	noteForm      *NoteFormModel
	// editingID is the habit or note being edited; empty when adding.
	editingID string
	deleteID  string
	status    string
	quitting  bool
	width     int
	height    int
}

func NewModel(svc *tracker.Service, userID string) Model {
	window := svc.Window()
	m := Model{
		svc:         svc,
		userID:      userID,
		window:      window,
		state:       StateHabits,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(nil, window),
		notesModel:  notes.New(nil, nil, 0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads habits and notes for the current window.
func (m *Model) refresh() {
	m.status = ""
	views, err := m.svc.ListHabits(m.userID)
	if err != nil {
		m.fail("load habits", err)
		return
	}
	m.habitsModel.SetHabits(views)

	pinned, regular, err := m.svc.SplitNotes(m.userID)
	if err != nil {
		m.fail("load notes", err)
		return
	}
	m.notesModel.SetNotes(pinned, regular)
}

func (m *Model) fail(action string, err error) {
	logger.Warn("TUI action failed", "action", action, "error", err)
	m.status = "⚠ failed to " + action + ": " + err.Error()
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateHabits:
		hk := m.habitsModel.Keys()
		keys = append(keys, hk.Toggle, hk.PrevWeek, hk.NextWeek, hk.Add)
	case StateNotes:
		nk := m.notesModel.Keys()
		keys = append(keys, nk.Add, nk.Pin, nk.Check)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateHabits:
		hk := m.habitsModel.Keys()
		return [][]key.Binding{
			global,
			{hk.Up, hk.Down, hk.Left, hk.Right, hk.PrevWeek, hk.NextWeek},
			{hk.Toggle, hk.Add, hk.Edit, hk.Delete},
		}
	case StateNotes:
		nk := m.notesModel.Keys()
		return [][]key.Binding{
			global,
			{nk.Up, nk.Down, nk.NextTodo},
			{nk.Add, nk.Edit, nk.Pin, nk.Check, nk.Delete},
		}
	}
	return [][]key.Binding{global}
}

func (m Model) Init() tea.Cmd {
	return nil
}
