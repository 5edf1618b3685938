package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dirmirror/internal/model"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Unbounded watches every directory below the root.
const Unbounded = -1

type Watcher struct {
	fw      *fsnotify.Watcher
	log     *zap.Logger
	eventCh chan model.FileEvent
	errCh   chan error
	doneCh  chan struct{}
	once    sync.Once

	root  string
	depth int
}

func New(bufferSize int, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Watcher{
		fw:      fw,
		log:     log,
		eventCh: make(chan model.FileEvent, bufferSize),
		errCh:   make(chan error, 1),
		doneCh:  make(chan struct{}),
		depth:   Unbounded,
	}, nil
}

// Watch subscribes to dir and every directory at most depth levels below
// it. Event paths are reported relative to dir exactly as given, so callers
// can map them back with filepath.Rel.
func (w *Watcher) Watch(dir string, depth int) error {
	root := filepath.Clean(dir)

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("source directory not found: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source is not a directory: %s", root)
	}

	w.root = root
	w.depth = depth

	if err := w.addRecursive(root); err != nil {
		return err
	}

	go w.run()

	w.log.Info("watcher started",
		zap.String("dir", root),
		zap.Int("depth", depth))
	return nil
}

// level is the number of directories between the root and path.
func (w *Watcher) level(path string) int {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return 0
	}

	return strings.Count(rel, string(filepath.Separator)) + 1
}

func (w *Watcher) within(path string) bool {
	return w.depth == Unbounded || w.level(path) <= w.depth
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if !w.within(path) {
			return filepath.SkipDir
		}

		if err := w.fw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.log.Debug("watching directory",
			zap.String("path", path))

		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.eventCh)
	defer close(w.errCh)

	for {
		select {
		case <-w.doneCh:
			w.log.Info("watcher stopping")
			return

		case fsEvent, ok := <-w.fw.Events:
			if !ok {
				return
			}

			eventType := toEventType(fsEvent.Op)
			if eventType == "" {
				continue
			}

			isDir := false
			if eventType == model.EventCreate || eventType == model.EventWrite {
				if info, err := os.Stat(fsEvent.Name); err == nil && info.IsDir() {
					isDir = true
				}
			}

			if isDir && eventType == model.EventCreate && w.within(fsEvent.Name) {
				if err := w.addRecursive(fsEvent.Name); err != nil {
					w.log.Warn("failed to watch new directory",
						zap.String("path", fsEvent.Name),
						zap.Error(err))
				} else {
					w.log.Debug("added new directory to watch",
						zap.String("path", fsEvent.Name))
				}
			}

			event := model.FileEvent{
				Type:      eventType,
				Path:      fsEvent.Name,
				IsDir:     isDir,
				Timestamp: time.Now(),
			}

			select {
			case w.eventCh <- event:
			case <-w.doneCh:
				return
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}

			w.log.Error("watcher error",
				zap.Error(err))

			select {
			case w.errCh <- err:
			default:
			}
		}
	}
}

func (w *Watcher) Events() <-chan model.FileEvent {
	return w.eventCh
}

func (w *Watcher) Errors() <-chan error {
	return w.errCh
}

func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.doneCh)
		_ = w.fw.Close()
	})
}

func toEventType(op fsnotify.Op) model.EventType {
	switch {
	case op.Has(fsnotify.Create):
		return model.EventCreate
	case op.Has(fsnotify.Write):
		return model.EventWrite
	case op.Has(fsnotify.Remove):
		return model.EventRemove
	case op.Has(fsnotify.Rename):
		return model.EventRename
	default:
		return ""
	}
}
