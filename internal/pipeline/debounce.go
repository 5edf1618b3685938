package pipeline

import (
	"context"
	"time"

	"dirmirror/internal/model"
)

// Debounce holds each event until its path has been quiet for delay, then
// forwards the latest event seen for that path. Pending events are flushed
// when inCh closes.
func Debounce(ctx context.Context, inCh <-chan model.FileEvent, delay time.Duration) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		pending := make(map[string]model.FileEvent)
		due := make(map[string]time.Time)

		timer := time.NewTimer(delay)
		timer.Stop()
		defer timer.Stop()

		send := func(event model.FileEvent) bool {
			select {
			case outCh <- event:
				return true
			case <-ctx.Done():
				return false
			}
		}

		rearm := func() {
			timer.Stop()
			var next time.Time
			for _, t := range due {
				if next.IsZero() || t.Before(next) {
					next = t
				}
			}
			if !next.IsZero() {
				timer.Reset(time.Until(next))
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-inCh:
				if !ok {
					for path, e := range pending {
						if !send(e) {
							return
						}
						delete(pending, path)
					}
					return
				}

				pending[event.Path] = event
				due[event.Path] = time.Now().Add(delay)
				rearm()

			case <-timer.C:
				now := time.Now()
				for path, t := range due {
					if t.After(now) {
						continue
					}
					if !send(pending[path]) {
						return
					}
					delete(pending, path)
					delete(due, path)
				}
				rearm()
			}
		}
	}()

	return outCh
}
