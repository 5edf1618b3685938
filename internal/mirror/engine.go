package mirror

import (
	"context"
	"path/filepath"
	"time"

	"dirmirror/internal/model"
	"dirmirror/internal/watcher"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ChangeStream is a live subscription to changes under a source tree.
type ChangeStream interface {
	Events() <-chan model.FileEvent
	Errors() <-chan error
	Stop()
}

// StreamOpener subscribes to root, watching directories down to depth
// levels below it.
type StreamOpener func(root string, depth int) (ChangeStream, error)

// Stage transforms the change stream between the watcher and the
// controller. It must stop sending once ctx is done.
type Stage func(ctx context.Context, in <-chan model.FileEvent) <-chan model.FileEvent

type Engine struct {
	fs  afero.Fs
	log *zap.Logger
	now func() time.Time

	// OpenStream defaults to an fsnotify watcher.
	OpenStream StreamOpener
	// Pipeline, when set, runs on watch events before they are applied.
	Pipeline Stage
	// BufferSize is the capacity of the default watcher's event channel.
	BufferSize int
}

func New(fs afero.Fs, log *zap.Logger) *Engine {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = zap.NewNop()
	}

	e := &Engine{
		fs:         fs,
		log:        log,
		now:        time.Now,
		BufferSize: 100,
	}
	e.OpenStream = e.openWatcher

	return e
}

func (e *Engine) openWatcher(root string, depth int) (ChangeStream, error) {
	w, err := watcher.New(e.BufferSize, e.log)
	if err != nil {
		return nil, err
	}

	if err := w.Watch(root, depth); err != nil {
		w.Stop()
		return nil, err
	}

	return w, nil
}

// Sync validates opts, mirrors source onto target once and, in watch mode,
// keeps applying source changes until the returned Session is stopped or
// ctx is cancelled. It returns when the initial pass is complete.
//
// The only error returned is an invalid option, reported before the
// filesystem is touched. Everything else is delivered to n.
func (e *Engine) Sync(ctx context.Context, source, target string, opts Options, n Notifier) (*Session, error) {
	if n == nil {
		n = Discard
	}

	if err := opts.Validate(); err != nil {
		e.emit(n, model.SyncEvent{Kind: model.EventError, Err: err})
		return nil, err
	}

	source = filepath.Clean(source)
	target = filepath.Clean(target)

	e.log.Info("mirror pass started",
		zap.String("src", source),
		zap.String("dst", target),
		zap.Bool("delete", opts.Delete),
		zap.String("depth", FormatDepth(opts.Depth)))

	c := &collector{next: n}
	ok := e.mirror(source, target, opts, c, 0)

	e.log.Info("mirror pass finished",
		zap.String("src", source),
		zap.Bool("ok", ok),
		zap.Int("errors", len(c.errs)))

	s := newSession(Result{OK: ok, Errors: c.errs})
	if !opts.Watch {
		s.finish(Idle)
		return s, nil
	}

	stream, err := e.OpenStream(source, opts.Depth)
	if err != nil {
		e.fail(n, WatchFailure, source, err)
		s.finish(Faulted)
		return s, nil
	}

	wctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state.Store(int32(Watching))
	e.emit(n, model.SyncEvent{Kind: model.EventWatch, Path: source})

	go e.watch(wctx, s, stream, source, target, opts, n)

	return s, nil
}
