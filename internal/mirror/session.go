package mirror

import (
	"context"
	"sync/atomic"
)

type WatchState int32

const (
	Idle WatchState = iota
	Watching
	Stopped
	Faulted
)

func (s WatchState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Watching:
		return "WATCHING"
	case Stopped:
		return "STOPPED"
	case Faulted:
		return "FAULTED"
	default:
		return "UNKNOWN"
	}
}

// Session is the handle of one Sync invocation.
type Session struct {
	// Result is the outcome of the initial mirror pass.
	Result Result

	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

func newSession(result Result) *Session {
	return &Session{
		Result: result,
		done:   make(chan struct{}),
	}
}

func (s *Session) State() WatchState {
	return WatchState(s.state.Load())
}

// Done is closed once the session no longer watches.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop unsubscribes from the source tree and waits for the change handler
// to return. It is safe to call more than once.
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
}

func (s *Session) finish(state WatchState) {
	s.state.Store(int32(state))
	close(s.done)
}
