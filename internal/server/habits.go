package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/julianstephens/habitlog/internal/auth"
	"github.com/julianstephens/habitlog/internal/calendar"
	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/utils"
)

// WeekResponse describes the seven-day display window.
type WeekResponse struct {
	Days     []string `json:"days"`
	Today    string   `json:"today"`
	End      string   `json:"end"`
	Previous string   `json:"previous"`
	Next     string   `json:"next,omitempty"`
	HasNext  bool     `json:"hasNext"`
}

// window resolves the ?end= query parameter, defaulting to today.
func (s *Server) window(c echo.Context) (calendar.Window, error) {
	today := s.svc.Today()
	end := c.QueryParam("end")
	if end == "" {
		return calendar.NewWindow(today), nil
	}
	d, err := utils.ParseDate(end)
	if err != nil {
		return calendar.Window{}, apperr.ErrInvalidDate
	}
	return calendar.WindowEndingOn(d, today), nil
}

func (s *Server) handleWeek(c echo.Context) error {
	w, err := s.window(c)
	if err != nil {
		return err
	}
	resp := WeekResponse{
		Days:     w.DayStrings(),
		Today:    utils.FormatDate(w.Today),
		End:      utils.FormatDate(w.End),
		Previous: utils.FormatDate(w.Previous().End),
		HasNext:  w.HasNext(),
	}
	if resp.HasNext {
		resp.Next = utils.FormatDate(w.Next().End)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListHabits(c echo.Context) error {
	habits, err := s.svc.ListHabits(auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, habits)
}

type habitRequest struct {
	Name  *string `json:"name"`
	Order *int    `json:"order"`
}

func (s *Server) handleAddHabit(c echo.Context) error {
	var req habitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == nil {
		return apperr.ErrInvalidName
	}
	h, err := s.svc.AddHabit(auth.UserID(c), *req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h)
}

// handleReplaceHabits saves the whole habit list, as the browser client does
// after a burst of edits.
func (s *Server) handleReplaceHabits(c echo.Context) error {
	var habits []models.Habit
	if err := c.Bind(&habits); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	userID := auth.UserID(c)
	if _, err := s.svc.ReplaceHabits(userID, habits); err != nil {
		return err
	}
	views, err := s.svc.ListHabits(userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) handleUpdateHabit(c echo.Context) error {
	var req habitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	userID, id := auth.UserID(c), c.Param("id")

	if req.Name != nil {
		if _, err := s.svc.RenameHabit(userID, id, *req.Name); err != nil {
			return err
		}
	}
	if req.Order != nil {
		if err := s.svc.ReorderHabit(userID, id, *req.Order); err != nil {
			return err
		}
	}
	h, err := s.svc.GetHabit(userID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h)
}

func (s *Server) handleDeleteHabit(c echo.Context) error {
	if err := s.svc.DeleteHabit(auth.UserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type toggleRequest struct {
	Date string `json:"date"`
}

// ToggleResponse reports the completion state after a toggle.
type ToggleResponse struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

func (s *Server) handleToggleHabit(c echo.Context) error {
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Date == "" {
		req.Date = s.svc.TodayString()
	}
	done, err := s.svc.ToggleCompletion(auth.UserID(c), c.Param("id"), req.Date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToggleResponse{Date: req.Date, Completed: done})
}
