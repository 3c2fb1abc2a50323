package models

import "time"

// Category is a named grouping of trackers, unique by title. A tracker
// belongs to exactly one category at a time.
type Category struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Trackers  []Tracker `json:"trackers,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
