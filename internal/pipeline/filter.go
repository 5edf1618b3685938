package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"dirmirror/internal/model"
)

func Filter(ctx context.Context, inCh <-chan model.FileEvent, ignoreList []string) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		for event := range inCh {
			if ShouldIgnore(event.Path, ignoreList) {
				continue
			}

			select {
			case outCh <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return outCh
}

// ShouldIgnore reports whether any element of path matches one of the glob
// patterns in ignoreList.
func ShouldIgnore(path string, ignoreList []string) bool {
	if len(ignoreList) == 0 {
		return false
	}

	parts := strings.Split(filepath.ToSlash(path), "/")

	for _, part := range parts {
		for _, pattern := range ignoreList {
			matched, err := filepath.Match(pattern, part)
			if err == nil && matched {
				return true
			}
		}
	}

	return false
}
