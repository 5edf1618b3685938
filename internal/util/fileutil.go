package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const tmpSuffix = ".dirmirror.tmp"

func AtomicWrite(fs afero.Fs, dst string, r io.Reader, perm os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create parent dir: %w", err)
	}

	tmp := dst + tmpSuffix
	f, err := fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to write: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Rename(tmp, dst); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to rename: %w", err)
	}

	return nil
}

// CopyFile writes src to dst atomically and gives dst the permission bits
// and modification time of src.
func CopyFile(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	return copyFile(fs, src, dst, info)
}

func copyFile(fs afero.Fs, src, dst string, info os.FileInfo) error {
	f, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open src: %w", err)
	}

	defer func(f afero.File) {
		_ = f.Close()
	}(f)

	if err := AtomicWrite(fs, dst, f, info.Mode().Perm()); err != nil {
		return err
	}

	if err := fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set mtime of %s: %w", dst, err)
	}

	return nil
}

// CopyTree copies src to dst. Directories are merged into an existing dst,
// files overwrite. Symlinks are followed; a link back to one of its own
// ancestors is an error.
func CopyTree(fs afero.Fs, src, dst string) error {
	return copyTree(fs, src, dst, nil)
}

func copyTree(fs afero.Fs, src, dst string, ancestors []os.FileInfo) error {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	switch {
	case info.Mode().IsRegular():
		return copyFile(fs, src, dst, info)
	case !info.IsDir():
		return fmt.Errorf("unsupported file type %s: %s", info.Mode().Type(), src)
	}

	for _, a := range ancestors {
		if os.SameFile(a, info) {
			return fmt.Errorf("symlink cycle at %s", src)
		}
	}

	if err := fs.MkdirAll(dst, info.Mode().Perm()|0700); err != nil {
		return fmt.Errorf("failed to create dir %s: %w", dst, err)
	}

	entries, err := afero.ReadDir(fs, src)
	if err != nil {
		return fmt.Errorf("failed to read dir %s: %w", src, err)
	}

	chain := append(ancestors[:len(ancestors):len(ancestors)], info)
	for _, entry := range entries {
		name := entry.Name()
		if err := copyTree(fs, filepath.Join(src, name), filepath.Join(dst, name), chain); err != nil {
			return err
		}
	}

	return nil
}

func RemoveIfExists(fs afero.Fs, path string) error {
	if err := fs.RemoveAll(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}
