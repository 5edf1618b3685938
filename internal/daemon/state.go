package daemon

import (
	"sync"
	"time"

	"dirmirror/internal/mirror"
	"dirmirror/internal/model"
)

// JobState counts the events of one running job. It is the job's
// notifier, so it is written from the job's watch goroutine and read by
// the status server.
type JobState struct {
	mu        sync.RWMutex
	JobID     uint
	Src       string
	Dst       string
	StartedAt time.Time
	Initial   bool
	Copied    int
	Removed   int
	Failed    int
	LastEvent *time.Time
	session   *mirror.Session
}

func NewJobState(job model.Job) *JobState {
	return &JobState{
		JobID:     job.ID,
		Src:       job.Src,
		Dst:       job.Dst,
		StartedAt: time.Now(),
	}
}

func (s *JobState) Notify(event model.SyncEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := event.At
	s.LastEvent = &at
	switch event.Kind {
	case model.EventCopy:
		s.Copied++
	case model.EventDelete:
		s.Removed++
	case model.EventError:
		s.Failed++
	}
}

func (s *JobState) attach(session *mirror.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session
	s.Initial = session.Result.OK
}

func (s *JobState) Session() *mirror.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *JobState) Snapshot() model.JobSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := mirror.Idle.String()
	if s.session != nil {
		state = s.session.State().String()
	}

	return model.JobSnapshot{
		JobID:     s.JobID,
		Src:       s.Src,
		Dst:       s.Dst,
		State:     state,
		Initial:   s.Initial,
		StartedAt: s.StartedAt,
		Copied:    s.Copied,
		Removed:   s.Removed,
		Failed:    s.Failed,
		LastEvent: s.LastEvent,
	}
}
