package models

import "time"

// Note is a date-stamped journal entry. Pinned notes are shown regardless of date.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Text      string    `json:"text"`
	Date      string    `json:"date"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
