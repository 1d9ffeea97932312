// Package tracker is the per-user application service shared by the CLI, the
// TUI and the HTTP API. It validates input, talks to storage and decorates
// habits with streaks.
package tracker

import (
	"time"

	"github.com/julianstephens/habitlog/internal/calendar"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/utils"
)

type Service struct {
	store storage.Provider
	loc   *time.Location
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

// WithLocation sets the timezone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store: store,
		loc:   time.Local,
		now:   time.Now,
		newID: newUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the underlying provider.
func (s *Service) Store() storage.Provider {
	return s.store
}

// Today is the current calendar day in the configured timezone, as midnight UTC.
func (s *Service) Today() time.Time {
	return utils.DateOf(s.now().In(s.loc))
}

// TodayString is Today formatted as YYYY-MM-DD.
func (s *Service) TodayString() string {
	return utils.FormatDate(s.Today())
}

// Window returns the display window ending today.
func (s *Service) Window() calendar.Window {
	return calendar.NewWindow(s.Today())
}
