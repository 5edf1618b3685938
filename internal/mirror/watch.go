package mirror

import (
	"context"
	"errors"

	"dirmirror/internal/model"

	"go.uber.org/zap"
)

func (e *Engine) watch(ctx context.Context, s *Session, stream ChangeStream, source, target string, opts Options, n Notifier) {
	final := Stopped
	defer func() {
		stream.Stop()
		s.finish(final)
	}()

	events := stream.Events()
	if e.Pipeline != nil {
		events = e.Pipeline(ctx, events)
	}
	errs := stream.Errors()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("watch stopped",
				zap.String("src", source))
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			e.apply(event, source, target, opts, n)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err == nil {
				err = errors.New("watcher failed")
			}
			e.fail(n, WatchFailure, source, err)
			final = Faulted
			return
		}
	}
}

// apply replays one source change onto the target. A reported change is
// copied without comparing timestamps.
func (e *Engine) apply(event model.FileEvent, source, target string, opts Options, n Notifier) bool {
	dst, ok := targetFor(source, target, event.Path)
	if !ok {
		e.log.Warn("change outside source tree",
			zap.String("path", event.Path),
			zap.String("src", source))
		return false
	}

	e.log.Debug("change",
		zap.String("type", string(event.Type)),
		zap.String("path", event.Path))

	switch event.Type {
	case model.EventCreate, model.EventWrite:
		return e.copy(event.Path, dst, n)
	case model.EventRemove, model.EventRename:
		return e.deleteExtra(dst, opts, n)
	default:
		return true
	}
}
