package download

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/ytget/mediagrab/internal/model"
	"golang.org/x/sync/semaphore"
)

// Service accepts validated requests, creates their jobs and runs each one on
// its own goroutine.
type Service struct {
	logger *slog.Logger
	store  *Store
	runner *Runner
	slots  *semaphore.Weighted // nil means unbounded
	wg     sync.WaitGroup
}

// NewService creates a download service. maxParallel <= 0 lets every job run
// immediately; otherwise extra jobs stay queued until a slot frees up.
func NewService(logger *slog.Logger, store *Store, runner *Runner, maxParallel int) *Service {
	s := &Service{
		logger: logger,
		store:  store,
		runner: runner,
	}
	if maxParallel > 0 {
		s.slots = semaphore.NewWeighted(int64(maxParallel))
	}
	return s
}

// Submit creates a job for req and starts it in the background
func (s *Service) Submit(req Request) string {
	req.JobID = s.store.Create(req.URL, req.Platform)
	s.logger.Info("job submitted", "job_id", req.JobID, "platform", req.Platform, "url", req.URL)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// Jobs are not cancellable; the background context outlives the request
		ctx := context.Background()
		if s.slots != nil {
			if err := s.slots.Acquire(ctx, 1); err != nil {
				s.store.Update(req.JobID, model.FailedUpdate(err.Error()))
				return
			}
			defer s.slots.Release(1)
		}
		s.runner.Run(ctx, req)
	}()

	return req.JobID
}

// GetJob returns a snapshot of the job
func (s *Service) GetJob(id string) (model.Job, bool) {
	return s.store.Get(id)
}

// ListJobs returns snapshots of every job
func (s *Service) ListJobs() []model.Job {
	return s.store.List()
}

// ResolveFile returns a completed job whose artifact is still on disk
func (s *Service) ResolveFile(id string) (model.Job, error) {
	job, exists := s.store.Get(id)
	if !exists {
		return model.Job{}, ErrJobNotFound
	}
	if job.Status != model.JobStatusCompleted || job.FilePath == "" {
		return model.Job{}, ErrNotReady
	}
	if _, err := os.Stat(job.FilePath); err != nil {
		return model.Job{}, ErrFileMissing
	}
	return job, nil
}

// Wait blocks until every started job finished
func (s *Service) Wait() {
	s.wg.Wait()
}
