package download

import (
	"encoding/hex"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/ytget/mediagrab/internal/model"
)

// Store is the concurrency-safe job table. It is the only place job records
// live; callers always receive copies.
type Store struct {
	jobs  map[string]*model.Job
	mutex sync.RWMutex
}

// NewStore creates an empty job store
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*model.Job),
	}
}

// Create inserts a queued job and returns its ID
func (s *Store) Create(url string, p model.Platform) string {
	id := generateJobID()
	job := model.NewJob(id, url, p)

	s.mutex.Lock()
	s.jobs[id] = &job
	s.mutex.Unlock()

	return id
}

// Update merges u into the job. Unknown IDs and finished jobs are left alone,
// and progress never moves backwards until the job fails. It reports whether
// the update was applied.
func (s *Store) Update(id string, u model.JobUpdate) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[id]
	if !exists || job.Status.IsFinished() {
		return false
	}

	failing := u.Status != nil && *u.Status == model.JobStatusError
	if u.Progress != nil && !failing && *u.Progress < job.Progress {
		u.Progress = nil
	}

	job.Apply(u)
	return true
}

// Get returns a copy of the job
func (s *Store) Get(id string) (model.Job, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return model.Job{}, false
	}
	return *job, true
}

// List returns copies of all jobs, oldest first
func (s *Store) List() []model.Job {
	s.mutex.RLock()
	jobs := make([]model.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	s.mutex.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
	return jobs
}

// generateJobID returns 32 hex characters from a random UUID
func generateJobID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
