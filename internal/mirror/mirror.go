package mirror

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"dirmirror/internal/model"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type entryKind int

const (
	kindMissing entryKind = iota
	kindFile
	kindDir
	kindOther
)

func (e *Engine) stat(path string) (os.FileInfo, entryKind, error) {
	info, err := e.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
			return nil, kindMissing, nil
		}
		return nil, kindMissing, err
	}

	switch {
	case info.IsDir():
		return info, kindDir, nil
	case info.Mode().IsRegular():
		return info, kindFile, nil
	default:
		return info, kindOther, nil
	}
}

// mirror makes dst match src and reports whether every step succeeded.
func (e *Engine) mirror(src, dst string, opts Options, n Notifier, depth int) bool {
	srcInfo, srcKind, err := e.stat(src)
	if err != nil {
		return e.fail(n, IOFailure, src, err)
	}

	if srcKind == kindMissing {
		_, dstKind, err := e.stat(dst)
		if err != nil {
			return e.fail(n, IOFailure, dst, err)
		}
		if dstKind == kindMissing {
			return true
		}
		return e.deleteExtra(dst, opts, n)
	}

	if srcKind == kindOther {
		return e.fail(n, UnexpectedState, src,
			fmt.Errorf("unsupported file type %s", srcInfo.Mode().Type()))
	}

	dstInfo, dstKind, err := e.stat(dst)
	if err != nil {
		return e.fail(n, IOFailure, dst, err)
	}

	switch {
	case dstKind == kindMissing:
		return e.copy(src, dst, n)

	case srcKind == kindDir && dstKind == kindDir:
		return e.mirrorDir(src, dst, opts, n, depth)

	case srcKind == kindFile && dstKind == kindFile:
		if srcInfo.ModTime().After(dstInfo.ModTime()) {
			return e.copy(src, dst, n)
		}
		e.log.Debug("up to date",
			zap.String("src", src),
			zap.String("dst", dst))
		return true

	case dstKind == kindOther:
		return e.fail(n, UnexpectedState, dst,
			fmt.Errorf("unsupported file type %s", dstInfo.Mode().Type()))

	case opts.Delete:
		if !e.destroy(dst, n) {
			return false
		}
		return e.copy(src, dst, n)

	case srcKind == kindFile:
		return e.fail(n, TypeConflict, dst,
			fmt.Errorf("cannot copy file '%s' to '%s' as existing folder", src, dst))

	default:
		return e.fail(n, TypeConflict, dst,
			fmt.Errorf("cannot copy folder '%s' to '%s' as existing file", src, dst))
	}
}

// mirrorDir visits every source child before pruning target-only children.
// A failing child fails the directory but never stops its siblings.
func (e *Engine) mirrorDir(src, dst string, opts Options, n Notifier, depth int) bool {
	if opts.atDepthLimit(depth) {
		e.emit(n, model.SyncEvent{Kind: model.EventMaxDepth, Path: src})
		return true
	}

	srcNames, err := e.readNames(src)
	if err != nil {
		return e.fail(n, IOFailure, src, err)
	}

	ok := true
	inSource := make(map[string]struct{}, len(srcNames))
	for _, name := range srcNames {
		inSource[name] = struct{}{}
		if !e.mirror(filepath.Join(src, name), filepath.Join(dst, name), opts, n, depth+1) {
			ok = false
		}
	}

	dstNames, err := e.readNames(dst)
	if err != nil {
		e.fail(n, IOFailure, dst, err)
		return false
	}

	for _, name := range dstNames {
		if _, found := inSource[name]; found {
			continue
		}
		if !e.deleteExtra(filepath.Join(dst, name), opts, n) {
			ok = false
		}
	}

	return ok
}

func (e *Engine) readNames(dir string) ([]string, error) {
	infos, err := afero.ReadDir(e.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dir: %w", err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}

	return names, nil
}

// targetFor maps a path under sourceRoot onto targetRoot. Paths outside
// sourceRoot have no target.
func targetFor(sourceRoot, targetRoot, path string) (string, bool) {
	rel, err := filepath.Rel(sourceRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return filepath.Join(targetRoot, rel), true
}
