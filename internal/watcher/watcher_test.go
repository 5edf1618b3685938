package watcher

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"dirmirror/internal/model"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b", "c"), 0755))
	return root
}

func watched(w *Watcher) []string {
	list := w.fw.WatchList()
	slices.Sort(list)
	return list
}

func TestWatchDepth(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		exp   []string
	}{
		{name: "root only", depth: 0, exp: []string{""}},
		{name: "one level", depth: 1, exp: []string{"", "a"}},
		{name: "two levels", depth: 2, exp: []string{"", "a", "a/b"}},
		{name: "unbounded", depth: Unbounded, exp: []string{"", "a", "a/b", "a/b/c"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root := newTree(t)

			w, err := New(10, nil)
			require.NoError(t, err)
			defer w.Stop()

			require.NoError(t, w.Watch(root, test.depth))

			var exp []string
			for _, rel := range test.exp {
				exp = append(exp, filepath.Join(root, filepath.FromSlash(rel)))
			}
			slices.Sort(exp)
			assert.Equal(t, exp, watched(w))
		})
	}
}

func TestWatchRejectsMissingOrFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	w, err := New(10, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Watch(filepath.Join(root, "missing"), Unbounded))
	assert.Error(t, w.Watch(file, Unbounded))
}

func TestWatchReportsEvents(t *testing.T) {
	root := t.TempDir()

	w, err := New(10, nil)
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.Watch(root, Unbounded))

	path := filepath.Join(root, "new.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	select {
	case event := <-w.Events():
		assert.Equal(t, model.EventCreate, event.Type)
		assert.Equal(t, path, event.Path)
		assert.False(t, event.IsDir)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestWatchFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()

	w, err := New(10, nil)
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.Watch(root, 1))

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	require.Eventually(t, func() bool {
		return slices.Contains(w.fw.WatchList(), sub)
	}, 2*time.Second, 10*time.Millisecond)

	// one level below the new directory is past the limit
	deeper := filepath.Join(sub, "deeper")
	require.NoError(t, os.Mkdir(deeper, 0755))
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, w.fw.WatchList(), deeper)
}

func TestStopClosesChannels(t *testing.T) {
	root := t.TempDir()

	w, err := New(10, nil)
	require.NoError(t, err)
	require.NoError(t, w.Watch(root, Unbounded))

	w.Stop()
	w.Stop()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-w.Events():
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestToEventType(t *testing.T) {
	tests := []struct {
		op  fsnotify.Op
		exp model.EventType
	}{
		{op: fsnotify.Create, exp: model.EventCreate},
		{op: fsnotify.Write, exp: model.EventWrite},
		{op: fsnotify.Remove, exp: model.EventRemove},
		{op: fsnotify.Rename, exp: model.EventRename},
		{op: fsnotify.Chmod, exp: ""},
		{op: fsnotify.Create | fsnotify.Chmod, exp: model.EventCreate},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, toEventType(test.op), test.op.String())
	}
}

func TestLevel(t *testing.T) {
	w := &Watcher{root: "/src", depth: 1}

	assert.Equal(t, 0, w.level("/src"))
	assert.Equal(t, 1, w.level("/src/a"))
	assert.Equal(t, 2, w.level("/src/a/b"))
	assert.True(t, w.within("/src/a"))
	assert.False(t, w.within("/src/a/b"))
}
