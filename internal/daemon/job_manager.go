package daemon

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"dirmirror/internal/config"
	"dirmirror/internal/mirror"
	"dirmirror/internal/model"
	"dirmirror/internal/pipeline"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Recorder persists the events of a job.
type Recorder interface {
	Save(jobID uint, event model.SyncEvent) error
}

type JobManager struct {
	mu       sync.RWMutex
	jobs     map[uint]*JobState
	cfg      *config.Config
	engine   *mirror.Engine
	recorder Recorder
	log      *zap.Logger
}

func NewJobManager(cfg *config.Config, engine *mirror.Engine, recorder Recorder, log *zap.Logger) *JobManager {
	if log == nil {
		log = zap.NewNop()
	}

	engine.BufferSize = cfg.BufferSize
	engine.Pipeline = pipeline.Build(cfg.IgnoreList, cfg.Debounce)

	return &JobManager{
		jobs:     make(map[uint]*JobState),
		cfg:      cfg,
		engine:   engine,
		recorder: recorder,
		log:      log,
	}
}

func JobOptions(job model.Job) mirror.Options {
	return mirror.Options{
		Watch:  true,
		Delete: job.Delete,
		Depth:  job.Depth,
	}
}

// StartJob runs the initial pass of job and leaves it watching. The job is
// registered before the pass so its progress shows up in snapshots.
func (m *JobManager) StartJob(ctx context.Context, job model.Job) error {
	m.mu.Lock()
	if _, exists := m.jobs[job.ID]; exists {
		m.mu.Unlock()
		return fmt.Errorf("job %d already running", job.ID)
	}
	state := NewJobState(job)
	m.jobs[job.ID] = state
	m.mu.Unlock()

	notifier := mirror.Fanout{state, m.recorderFor(job.ID)}

	session, err := m.engine.Sync(ctx, job.Src, job.Dst, JobOptions(job), notifier)
	if err != nil {
		m.mu.Lock()
		delete(m.jobs, job.ID)
		m.mu.Unlock()
		return fmt.Errorf("failed to start job %d: %w", job.ID, err)
	}

	state.attach(session)

	m.log.Info("job started",
		zap.Uint("id", job.ID),
		zap.String("src", job.Src),
		zap.String("dst", job.Dst),
		zap.Bool("initial_ok", session.Result.OK),
		zap.String("state", session.State().String()))

	return nil
}

// StartAll starts jobs with at most cfg.Concurrency initial passes running
// at once. A job that fails to start does not prevent the others. ctx
// bounds the lifetime of every started session.
func (m *JobManager) StartAll(ctx context.Context, jobs []model.Job) error {
	var g errgroup.Group
	g.SetLimit(m.cfg.Concurrency)

	var mu sync.Mutex
	var failed []error

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := m.StartJob(ctx, job); err != nil {
				m.log.Warn("failed to start job",
					zap.Uint("id", job.ID),
					zap.Error(err))
				mu.Lock()
				failed = append(failed, err)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d jobs failed to start: %w", len(failed), len(jobs), failed[0])
	}

	return nil
}

func (m *JobManager) recorderFor(jobID uint) mirror.Notifier {
	if m.recorder == nil {
		return nil
	}

	return mirror.NotifierFunc(func(event model.SyncEvent) {
		if err := m.recorder.Save(jobID, event); err != nil {
			m.log.Warn("failed to save history",
				zap.Uint("id", jobID),
				zap.Error(err))
		}
	})
}

func (m *JobManager) StopJob(id uint) error {
	m.mu.Lock()
	state, exists := m.jobs[id]
	delete(m.jobs, id)
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("job %d not found", id)
	}

	if session := state.Session(); session != nil {
		session.Stop()
	}

	m.log.Info("job stopped",
		zap.Uint("id", id))
	return nil
}

func (m *JobManager) StopAll() {
	m.mu.RLock()
	ids := make([]uint, 0, len(m.jobs))
	for id := range m.jobs {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		_ = m.StopJob(id)
	}
}

func (m *JobManager) Snapshots() []model.JobSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := make([]model.JobSnapshot, 0, len(m.jobs))
	for _, state := range m.jobs {
		snaps = append(snaps, state.Snapshot())
	}

	slices.SortFunc(snaps, func(a, b model.JobSnapshot) int {
		return cmp.Compare(a.JobID, b.JobID)
	})

	return snaps
}
