package model

import "time"

type SyncEventKind string

const (
	EventCopy     SyncEventKind = "copy"
	EventDelete   SyncEventKind = "remove"
	EventError    SyncEventKind = "error"
	EventWatch    SyncEventKind = "watch"
	EventMaxDepth SyncEventKind = "max-depth"
	EventNoDelete SyncEventKind = "no-delete"
)

// SyncEvent is what the mirror engine reports to its notifier. Copy fills
// From and To, Error fills Err, every other kind fills Path.
type SyncEvent struct {
	Kind SyncEventKind
	From string
	To   string
	Path string
	Err  error
	At   time.Time
}

// Subject returns the path an event is about.
func (e SyncEvent) Subject() string {
	if e.Kind == EventCopy {
		return e.From
	}

	return e.Path
}
