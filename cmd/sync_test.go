package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"dirmirror/internal/config"
	"dirmirror/internal/db"
	"dirmirror/internal/mirror"
	"dirmirror/internal/repository"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func useConfig(t *testing.T, c config.Config) {
	t.Helper()
	prev := cfg
	cfg = &c
	t.Cleanup(func() {
		cfg = prev
	})
}

func useDB(t *testing.T) {
	t.Helper()
	require.NoError(t, db.Init(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() {
		_ = db.Close()
	})
}

func newSyncCommand(t *testing.T, out *lockedBuffer, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "sync", RunE: runSync}
	addSyncFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))

	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetContext(context.Background())
	return cmd
}

func TestSyncOptionsFlagsOverConfig(t *testing.T) {
	tests := []struct {
		name     string
		delete   bool
		depth    string
		flags    []string
		exp      mirror.Options
		expError bool
	}{
		{name: "config only", delete: true, depth: "3", exp: mirror.Options{Delete: true, Depth: 3}},
		{name: "delete flag off", delete: true, depth: "3", flags: []string{"--delete=false"}, exp: mirror.Options{Depth: 3}},
		{name: "delete flag on", depth: "unbounded", flags: []string{"-d"}, exp: mirror.Options{Delete: true, Depth: mirror.Unbounded}},
		{name: "depth flag", delete: true, depth: "3", flags: []string{"--depth", "0"}, exp: mirror.Options{Delete: true, Depth: 0}},
		{name: "watch flag", depth: "", flags: []string{"-w"}, exp: mirror.Options{Watch: true, Depth: mirror.Unbounded}},
		{name: "bad config depth", depth: "deep", expError: true},
		{name: "flag replaces bad config depth", depth: "deep", flags: []string{"--depth", "2"}, exp: mirror.Options{Depth: 2}},
		{name: "bad flag depth", depth: "3", flags: []string{"--depth", "-7"}, expError: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			useConfig(t, config.Config{Delete: test.delete, Depth: test.depth})
			cmd := newSyncCommand(t, &lockedBuffer{}, test.flags...)

			opts, err := syncOptions(cmd)
			if test.expError {
				assert.ErrorIs(t, err, mirror.ErrInvalidOption)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.exp, opts)
		})
	}
}

func TestJobAddUsesConfigDefaults(t *testing.T) {
	useDB(t)
	useConfig(t, config.Config{Delete: true, Depth: "2"})

	var out lockedBuffer
	jobAddCmd.SetOut(&out)
	t.Cleanup(func() {
		jobAddCmd.SetOut(nil)
	})

	require.NoError(t, jobAddCmd.RunE(jobAddCmd, []string{t.TempDir(), t.TempDir()}))

	jobs, err := repository.NewJobRepository().GetAll()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.True(t, jobs[0].Delete)
	assert.Equal(t, 2, jobs[0].Depth)
}

// conflictTree has a source directory where the target holds a file.
func conflictTree(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "dir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "dir", "x.txt"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(dst, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "dir"), []byte("file"), 0644))
	return src, dst
}

func TestRunSyncSinglePass(t *testing.T) {
	useDB(t)
	useConfig(t, config.Default)

	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0644))

	var out lockedBuffer
	require.NoError(t, runSync(newSyncCommand(t, &out), []string{src, dst}))

	got, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))
	assert.Contains(t, out.String(), "done: 1 copied, 0 removed, 0 failed")
}

func TestRunSyncFailedPassExitCode(t *testing.T) {
	useDB(t)
	useConfig(t, config.Default)
	src, dst := conflictTree(t)

	var out lockedBuffer
	err := runSync(newSyncCommand(t, &out), []string{src, dst})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, mirror.DefaultErrorCode, exitErr.Code)
	assert.Contains(t, out.String(), "1 failed")

	recent, err := repository.NewHistoryRepository().GetFailed(10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestRunSyncInvalidDepth(t *testing.T) {
	useConfig(t, config.Default)

	err := runSync(newSyncCommand(t, &lockedBuffer{}, "--depth", "nope"), []string{"a", "b"})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, mirror.DefaultErrorCode, exitErr.Code)
	assert.ErrorIs(t, err, mirror.ErrInvalidOption)
}

func TestRunSyncExitOnErrorAfterFailedPass(t *testing.T) {
	useDB(t)
	useConfig(t, config.Default)
	src, dst := conflictTree(t)

	err := runSync(newSyncCommand(t, &lockedBuffer{}, "-w", "--exit-on-error"), []string{src, dst})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, mirror.DefaultErrorCode, exitErr.Code)
	assert.Equal(t, mirror.TypeConflict, mirror.KindOf(err))
}

func TestRunSyncExitOnErrorWhileWatching(t *testing.T) {
	useDB(t)
	useConfig(t, config.Default)

	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.MkdirAll(dst, 0755))
	// target-only file, kept because delete is off
	require.NoError(t, os.WriteFile(filepath.Join(dst, "new"), []byte("file"), 0644))

	var out lockedBuffer
	cmd := newSyncCommand(t, &out, "-w", "--exit-on-error")

	done := make(chan error, 1)
	go func() {
		done <- runSync(cmd, []string{src, dst})
	}()

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("WATCHING"))
	}, 5*time.Second, 10*time.Millisecond)

	// copying the new source directory collides with the target file
	require.NoError(t, os.Mkdir(filepath.Join(src, "new"), 0755))

	select {
	case err := <-done:
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, mirror.DefaultErrorCode, exitErr.Code)
		assert.Equal(t, mirror.IOFailure, mirror.KindOf(err))
	case <-time.After(5 * time.Second):
		t.Fatal("sync did not exit on the watch error")
	}
}
