package mirror

import (
	"dirmirror/internal/model"
	"dirmirror/internal/util"

	"go.uber.org/zap"
)

func (e *Engine) copy(src, dst string, n Notifier) bool {
	e.emit(n, model.SyncEvent{Kind: model.EventCopy, From: src, To: dst})

	if err := util.CopyTree(e.fs, src, dst); err != nil {
		return e.fail(n, IOFailure, src, err)
	}

	e.log.Debug("copied",
		zap.String("src", src),
		zap.String("dst", dst))
	return true
}

func (e *Engine) destroy(path string, n Notifier) bool {
	e.emit(n, model.SyncEvent{Kind: model.EventDelete, Path: path})

	if err := util.RemoveIfExists(e.fs, path); err != nil {
		return e.fail(n, IOFailure, path, err)
	}

	e.log.Debug("removed",
		zap.String("path", path))
	return true
}

func (e *Engine) deleteExtra(path string, opts Options, n Notifier) bool {
	if opts.Delete {
		return e.destroy(path, n)
	}

	e.emit(n, model.SyncEvent{Kind: model.EventNoDelete, Path: path})
	return true
}

func (e *Engine) fail(n Notifier, kind ErrorKind, path string, err error) bool {
	e.log.Warn("mirror failed",
		zap.String("kind", string(kind)),
		zap.String("path", path),
		zap.Error(err))

	e.emit(n, model.SyncEvent{
		Kind: model.EventError,
		Path: path,
		Err:  newError(kind, path, err),
	})
	return false
}

func (e *Engine) emit(n Notifier, event model.SyncEvent) {
	event.At = e.now()
	n.Notify(event)
}
