package model

import "time"

type EventType string

const (
	EventCreate EventType = "CREATE"
	EventWrite  EventType = "WRITE"
	EventRemove EventType = "REMOVE"
	EventRename EventType = "RENAME"
)

// FileEvent is a single change reported under a watched source tree.
type FileEvent struct {
	Type      EventType
	Path      string
	IsDir     bool
	Timestamp time.Time
}
