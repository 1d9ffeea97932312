package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/julianstephens/habitlog/internal/auth"
	"github.com/julianstephens/habitlog/internal/markup"
	"github.com/julianstephens/habitlog/internal/models"
)

// NoteResponse is a note with its rendered body.
type NoteResponse struct {
	models.Note
	HTML string `json:"html"`
}

// NotesResponse splits notes the way the client shows them: pinned notes
// first, then every unpinned note.
type NotesResponse struct {
	Pinned  []NoteResponse `json:"pinned"`
	Regular []NoteResponse `json:"regular"`
}

func withHTML(notes []models.Note) []NoteResponse {
	out := make([]NoteResponse, len(notes))
	for i, n := range notes {
		out[i] = NoteResponse{Note: n, HTML: markup.Render(n.Text)}
	}
	return out
}

func (s *Server) noteJSON(c echo.Context, code int, n models.Note) error {
	return c.JSON(code, NoteResponse{Note: n, HTML: s.svc.RenderNote(n)})
}

func (s *Server) handleListNotes(c echo.Context) error {
	pinned, regular, err := s.svc.SplitNotes(auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NotesResponse{Pinned: withHTML(pinned), Regular: withHTML(regular)})
}

type noteRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

func (s *Server) handleAddNote(c echo.Context) error {
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n, err := s.svc.AddNote(auth.UserID(c), req.Text, req.Date)
	if err != nil {
		return err
	}
	return s.noteJSON(c, http.StatusCreated, n)
}

func (s *Server) handleEditNote(c echo.Context) error {
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n, err := s.svc.EditNote(auth.UserID(c), c.Param("id"), req.Text, req.Date)
	if err != nil {
		return err
	}
	return s.noteJSON(c, http.StatusOK, n)
}

func (s *Server) handleDeleteNote(c echo.Context) error {
	if err := s.svc.DeleteNote(auth.UserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handlePinNote(c echo.Context) error {
	n, err := s.svc.TogglePin(auth.UserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return s.noteJSON(c, http.StatusOK, n)
}

type checkboxRequest struct {
	Line    *int `json:"line"`
	Checked bool `json:"checked"`
}

func (s *Server) handleNoteCheckbox(c echo.Context) error {
	var req checkboxRequest
	if err := c.Bind(&req); err != nil || req.Line == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "line is required")
	}
	n, err := s.svc.ToggleNoteCheckbox(auth.UserID(c), c.Param("id"), *req.Line, req.Checked)
	if err != nil {
		return err
	}
	return s.noteJSON(c, http.StatusOK, n)
}

func (s *Server) handleSearchNotes(c echo.Context) error {
	notes, err := s.svc.SearchNotes(auth.UserID(c), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, withHTML(notes))
}

type renderRequest struct {
	Text string `json:"text"`
}

// RenderResponse carries sanitized HTML for a markup preview.
type RenderResponse struct {
	HTML string `json:"html"`
}

func (s *Server) handleRender(c echo.Context) error {
	var req renderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, RenderResponse{HTML: markup.Render(req.Text)})
}
