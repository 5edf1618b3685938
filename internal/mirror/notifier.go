package mirror

import (
	"dirmirror/internal/model"
)

// Notifier receives every event of a sync invocation, synchronously and in
// the order the events occur.
type Notifier interface {
	Notify(event model.SyncEvent)
}

type NotifierFunc func(event model.SyncEvent)

func (f NotifierFunc) Notify(event model.SyncEvent) {
	f(event)
}

// Fanout forwards each event to every non-nil notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(event model.SyncEvent) {
	for _, n := range f {
		if n != nil {
			n.Notify(event)
		}
	}
}

var Discard Notifier = NotifierFunc(func(model.SyncEvent) {})

// Result is the outcome of one mirror pass.
type Result struct {
	OK     bool
	Errors []*SyncError
}

// collector records the errors of the initial pass on their way to the
// caller's notifier.
type collector struct {
	next Notifier
	errs []*SyncError
}

func (c *collector) Notify(event model.SyncEvent) {
	if event.Kind == model.EventError {
		if se, ok := event.Err.(*SyncError); ok {
			c.errs = append(c.errs, se)
		}
	}

	c.next.Notify(event)
}
