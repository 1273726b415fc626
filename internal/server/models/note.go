package models

import "time"

// Note is one text note owned by a single user. UserID is never taken from
// client input; it is always the authenticated identity bound by the HTTP
// middleware.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotePatch carries the updatable note fields. Nil means "leave unchanged",
// so a partial PUT body only touches the fields it names.
type NotePatch struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}
