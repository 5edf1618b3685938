package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"dirmirror/internal/logger"
	"dirmirror/internal/mirror"
	"dirmirror/internal/model"
	"dirmirror/internal/repository"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Bold(true).Faint(true)
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

// console prints sync events the way a person wants to read them and keeps
// totals for the closing summary.
type console struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	verbose bool

	copied  int
	removed int
	failed  int
}

func newConsole(out, errOut io.Writer, verbose bool) *console {
	return &console{out: out, errOut: errOut, verbose: verbose}
}

func abs(path string) string {
	if p, err := filepath.Abs(path); err == nil {
		return p
	}
	return path
}

func (c *console) Notify(event model.SyncEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Kind {
	case model.EventError:
		c.failed++
		fmt.Fprintln(c.errOut, errorStyle.Render(event.Err.Error()))

	case model.EventCopy:
		c.copied++
		fmt.Fprintf(c.out, "%s %s to %s\n",
			labelStyle.Render("COPY"),
			pathStyle.Render(abs(event.From)),
			pathStyle.Render(abs(event.To)))

	case model.EventDelete:
		c.removed++
		fmt.Fprintf(c.out, "%s %s\n", labelStyle.Render("DELETE"), pathStyle.Render(event.Path))

	case model.EventWatch:
		fmt.Fprintf(c.out, "%s %s\n", labelStyle.Render("WATCHING"), pathStyle.Render(event.Path))

	case model.EventMaxDepth:
		fmt.Fprintf(c.out, "%s: %s too deep\n", dimStyle.Render("MAX-DEPTH"), pathStyle.Render(event.Path))

	case model.EventNoDelete:
		if c.verbose {
			fmt.Fprintf(c.out, "%s %s\n", dimStyle.Render("KEEP"), pathStyle.Render(event.Path))
		}
	}
}

func (c *console) summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("done: %d copied, %d removed, %d failed", c.copied, c.removed, c.failed)
}

func recordTo(repo *repository.HistoryRepository, jobID uint) mirror.Notifier {
	return mirror.NotifierFunc(func(event model.SyncEvent) {
		if err := repo.Save(jobID, event); err != nil {
			logger.Log.Warn("failed to save history",
				zap.Error(err))
		}
	})
}

// firstError hands the first error event to ch without blocking.
func firstError(ch chan<- *mirror.SyncError) mirror.Notifier {
	return mirror.NotifierFunc(func(event model.SyncEvent) {
		if event.Kind != model.EventError {
			return
		}
		se, ok := event.Err.(*mirror.SyncError)
		if !ok {
			return
		}
		select {
		case ch <- se:
		default:
		}
	})
}
