package pipeline

import (
	"context"
	"time"

	"dirmirror/internal/model"
)

// Build chains Filter and Debounce. A zero delay skips debouncing and an
// empty ignore list skips filtering.
func Build(ignoreList []string, delay time.Duration) func(context.Context, <-chan model.FileEvent) <-chan model.FileEvent {
	return func(ctx context.Context, inCh <-chan model.FileEvent) <-chan model.FileEvent {
		out := inCh
		if len(ignoreList) > 0 {
			out = Filter(ctx, out, ignoreList)
		}
		if delay > 0 {
			out = Debounce(ctx, out, delay)
		}
		return out
	}
}
