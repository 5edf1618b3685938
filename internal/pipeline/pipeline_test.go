package pipeline

import (
	"context"
	"testing"
	"time"

	"dirmirror/internal/model"

	"github.com/stretchr/testify/assert"
)

func drain(ch <-chan model.FileEvent) []model.FileEvent {
	var out []model.FileEvent
	for event := range ch {
		out = append(out, event)
	}
	return out
}

func feed(events ...model.FileEvent) chan model.FileEvent {
	ch := make(chan model.FileEvent, len(events))
	for _, e := range events {
		ch <- e
	}
	return ch
}

func TestShouldIgnore(t *testing.T) {
	ignore := []string{".git", "*.swp", "node_modules"}

	tests := []struct {
		path string
		exp  bool
	}{
		{path: "/src/.git/HEAD", exp: true},
		{path: "/src/notes.swp", exp: true},
		{path: "/src/web/node_modules/x/index.js", exp: true},
		{path: "/src/main.go", exp: false},
		{path: "/src/git/file", exp: false},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, ShouldIgnore(test.path, ignore), test.path)
	}

	assert.False(t, ShouldIgnore("/src/.git/HEAD", nil))
}

func TestFilter(t *testing.T) {
	in := feed(
		model.FileEvent{Type: model.EventWrite, Path: "/src/a.txt"},
		model.FileEvent{Type: model.EventWrite, Path: "/src/a.swp"},
		model.FileEvent{Type: model.EventCreate, Path: "/src/b.txt"},
	)
	close(in)

	out := drain(Filter(context.Background(), in, []string{"*.swp"}))

	assert.Len(t, out, 2)
	assert.Equal(t, "/src/a.txt", out[0].Path)
	assert.Equal(t, "/src/b.txt", out[1].Path)
}

func TestDebounceKeepsLatestPerPath(t *testing.T) {
	in := make(chan model.FileEvent, 10)
	out := Debounce(context.Background(), in, 50*time.Millisecond)

	in <- model.FileEvent{Type: model.EventCreate, Path: "/src/a.txt"}
	in <- model.FileEvent{Type: model.EventWrite, Path: "/src/a.txt"}
	in <- model.FileEvent{Type: model.EventWrite, Path: "/src/b.txt"}
	in <- model.FileEvent{Type: model.EventRemove, Path: "/src/a.txt"}

	var got []model.FileEvent
	deadline := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case event := <-out:
			got = append(got, event)
		case <-deadline:
			t.Fatalf("got %d events", len(got))
		}
	}
	close(in)

	assert.ElementsMatch(t, []model.FileEvent{
		{Type: model.EventRemove, Path: "/src/a.txt"},
		{Type: model.EventWrite, Path: "/src/b.txt"},
	}, got)
	assert.Empty(t, drain(out))
}

func TestDebounceFlushesOnClose(t *testing.T) {
	in := feed(model.FileEvent{Type: model.EventWrite, Path: "/src/a.txt"})
	close(in)

	out := drain(Debounce(context.Background(), in, time.Hour))

	assert.Equal(t, []model.FileEvent{{Type: model.EventWrite, Path: "/src/a.txt"}}, out)
}

func TestDebounceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan model.FileEvent)
	out := Debounce(ctx, in, time.Hour)

	cancel()

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("debounce did not stop")
	}
}

func TestBuild(t *testing.T) {
	in := feed(
		model.FileEvent{Type: model.EventWrite, Path: "/src/a.tmp"},
		model.FileEvent{Type: model.EventWrite, Path: "/src/b.txt"},
	)
	close(in)

	// no stages returns the input as is
	assert.Equal(t, (<-chan model.FileEvent)(in), Build(nil, 0)(context.Background(), in))

	out := drain(Build([]string{"*.tmp"}, 10*time.Millisecond)(context.Background(), in))
	assert.Equal(t, []model.FileEvent{{Type: model.EventWrite, Path: "/src/b.txt"}}, out)
}
