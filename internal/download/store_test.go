package download

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/mediagrab/internal/model"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore()
	id := store.Create("https://youtu.be/abc123", model.PlatformYouTube)

	assert.Len(t, id, 32)

	job, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, model.JobStatusQueued, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, model.PlatformYouTube, job.Platform)
	assert.Empty(t, job.Error)
	assert.Empty(t, job.FilePath)
}

func TestStore_UniqueIDs(t *testing.T) {
	store := NewStore()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := store.Create("u", model.PlatformTikTok)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := NewStore()
	id := store.Create("u", model.PlatformYouTube)

	job, _ := store.Get(id)
	job.Status = model.JobStatusCompleted
	job.Progress = 77

	again, _ := store.Get(id)
	assert.Equal(t, model.JobStatusQueued, again.Status)
	assert.Equal(t, 0, again.Progress)
}

func TestStore_UpdateUnknownIsNoop(t *testing.T) {
	store := NewStore()
	assert.False(t, store.Update("missing", model.ProgressUpdate(10)))

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.List())
}

func TestStore_ProgressIsMonotonic(t *testing.T) {
	store := NewStore()
	id := store.Create("u", model.PlatformYouTube)

	store.Update(id, model.ProgressUpdate(40))
	store.Update(id, model.ProgressUpdate(20))

	job, _ := store.Get(id)
	assert.Equal(t, 40, job.Progress)
	assert.Equal(t, model.JobStatusQueued, job.Status)
}

func TestStore_FailureResetsProgress(t *testing.T) {
	store := NewStore()
	id := store.Create("u", model.PlatformYouTube)

	store.Update(id, model.ProgressUpdate(60))
	require.True(t, store.Update(id, model.FailedUpdate("boom")))

	job, _ := store.Get(id)
	assert.Equal(t, model.JobStatusError, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, "boom", job.Error)
}

func TestStore_FinishedJobsAreImmutable(t *testing.T) {
	store := NewStore()
	id := store.Create("u", model.PlatformYouTube)
	require.True(t, store.Update(id, model.CompletedUpdate("/d/a.mp4", "a.mp4", "/d")))

	assert.False(t, store.Update(id, model.ProgressUpdate(10)))
	assert.False(t, store.Update(id, model.FailedUpdate("late")))

	job, _ := store.Get(id)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, "/d/a.mp4", job.FilePath)
	assert.Equal(t, "a.mp4", job.FileName)
	assert.Equal(t, "/d", job.SavedDir)
	assert.Empty(t, job.Error)
}

func TestStore_ListIsOrdered(t *testing.T) {
	store := NewStore()
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, store.Create(fmt.Sprintf("u%d", i), model.PlatformYouTube))
	}

	jobs := store.List()
	require.Len(t, jobs, 5)
	for i := 1; i < len(jobs); i++ {
		prev, cur := jobs[i-1], jobs[i]
		ordered := prev.CreatedAt.Before(cur.CreatedAt) ||
			(prev.CreatedAt.Equal(cur.CreatedAt) && prev.ID < cur.ID)
		assert.True(t, ordered, "jobs %d and %d out of order", i-1, i)
	}
	for _, id := range ids {
		_, ok := store.Get(id)
		assert.True(t, ok)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()
	id := store.Create("u", model.PlatformYouTube)

	var wg sync.WaitGroup
	for i := 1; i <= 99; i++ {
		wg.Add(2)
		go func(p int) {
			defer wg.Done()
			store.Update(id, model.ProgressUpdate(p))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.Get(id)
			_ = store.List()
		}()
	}
	wg.Wait()

	job, _ := store.Get(id)
	assert.Equal(t, 99, job.Progress)
}
