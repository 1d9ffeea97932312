package tracker

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/markup"
	"github.com/julianstephens/habitlog/internal/models"
)

// AddNote stores text as written; only the emptiness check trims it.
// An empty day means today.
func (s *Service) AddNote(userID, text, day string) (models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return models.Note{}, apperr.ErrInvalidText
	}
	if strings.TrimSpace(day) == "" {
		day = s.TodayString()
	}
	day, err := cleanDay(day)
	if err != nil {
		return models.Note{}, err
	}

	now := s.now().UTC()
	n := models.Note{
		ID:        s.newID(),
		UserID:    userID,
		Text:      text,
		Date:      day,
		Pinned:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.AddNote(n); err != nil {
		return models.Note{}, fmt.Errorf("failed to add note: %w", err)
	}
	logger.Debug("Added note", "user", userID, "id", n.ID, "date", n.Date)
	return n, nil
}

func (s *Service) GetNote(userID, id string) (models.Note, error) {
	return s.store.GetNote(userID, id)
}

// EditNote replaces the body (trimmed) and date of a note. An empty day keeps
// the current date.
func (s *Service) EditNote(userID, id, text, day string) (models.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Note{}, apperr.ErrInvalidText
	}
	n, err := s.store.GetNote(userID, id)
	if err != nil {
		return models.Note{}, err
	}
	if strings.TrimSpace(day) != "" {
		if n.Date, err = cleanDay(day); err != nil {
			return models.Note{}, err
		}
	}
	n.Text = text
	err = s.update(&n)
	return n, err
}

func (s *Service) update(n *models.Note) error {
	n.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateNote(*n); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

// TogglePin flips the sticky flag.
func (s *Service) TogglePin(userID, id string) (models.Note, error) {
	n, err := s.store.GetNote(userID, id)
	if err != nil {
		return models.Note{}, err
	}
	n.Pinned = !n.Pinned
	err = s.update(&n)
	return n, err
}

func (s *Service) DeleteNote(userID, id string) error {
	return s.store.DeleteNote(userID, id)
}

// ListNotes returns every note, newest first.
func (s *Service) ListNotes(userID string) ([]models.Note, error) {
	return s.store.GetNotes(userID)
}

// SplitNotes partitions every note into pinned and regular, both newest first.
// A note's date never hides it.
func (s *Service) SplitNotes(userID string) (pinned, regular []models.Note, err error) {
	notes, err := s.store.GetNotes(userID)
	if err != nil {
		return nil, nil, err
	}
	pinned, regular = []models.Note{}, []models.Note{}
	for _, n := range notes {
		if n.Pinned {
			pinned = append(pinned, n)
		} else {
			regular = append(regular, n)
		}
	}
	return pinned, regular, nil
}

// ToggleNoteCheckbox sets the todo on line to checked. The note is only
// written when its text actually changes.
func (s *Service) ToggleNoteCheckbox(userID, id string, line int, checked bool) (models.Note, error) {
	n, err := s.store.GetNote(userID, id)
	if err != nil {
		return models.Note{}, err
	}
	text := markup.ToggleCheckboxLine(n.Text, line, checked)
	if text == n.Text {
		return n, nil
	}
	n.Text = text
	err = s.update(&n)
	return n, err
}

// FlipNoteCheckbox inverts the todo on line.
func (s *Service) FlipNoteCheckbox(userID, id string, line int) (models.Note, error) {
	n, err := s.store.GetNote(userID, id)
	if err != nil {
		return models.Note{}, err
	}
	text := markup.Toggle(n.Text, line)
	if text == n.Text {
		return n, nil
	}
	n.Text = text
	err = s.update(&n)
	return n, err
}

// RenderNote returns the sanitized HTML for a note body.
func (s *Service) RenderNote(n models.Note) string {
	return markup.Render(n.Text)
}

// SearchNotes fuzzy matches query against note bodies, best match first.
// An empty query returns every note.
func (s *Service) SearchNotes(userID, query string) ([]models.Note, error) {
	notes, err := s.store.GetNotes(userID)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return notes, nil
	}

	bodies := make([]string, len(notes))
	for i, n := range notes {
		bodies[i] = n.Text
	}
	matches := fuzzy.Find(query, bodies)
	out := make([]models.Note, 0, len(matches))
	for _, m := range matches {
		out = append(out, notes[m.Index])
	}
	return out, nil
}
