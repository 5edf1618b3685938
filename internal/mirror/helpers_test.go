package mirror

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"dirmirror/internal/model"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []model.SyncEvent
}

func (r *recorder) Notify(event model.SyncEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) all() []model.SyncEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.SyncEvent(nil), r.events...)
}

func (r *recorder) of(kind model.SyncEventKind) []model.SyncEvent {
	var out []model.SyncEvent
	for _, e := range r.all() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) subjects(kind model.SyncEventKind) []string {
	var out []string
	for _, e := range r.of(kind) {
		out = append(out, e.Subject())
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func writeFile(t *testing.T, fs afero.Fs, path, contents string, modTime time.Time) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(contents), 0644))
	require.NoError(t, fs.Chtimes(path, modTime, modTime))
}

func mkdir(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(path, 0755))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(b)
}

func exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return ok
}

// tree lists every path below root, relative to it, with file contents.
// Directories map to "/".
func tree(t *testing.T, fs afero.Fs, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			out[rel] = "/"
			return nil
		}
		out[rel] = readFile(t, fs, path)
		return nil
	})
	require.NoError(t, err)
	return out
}

func at(sec int64) time.Time {
	return time.Unix(sec, 0)
}
