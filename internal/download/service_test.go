package download

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/mediagrab/internal/model"
)

func newTestService(t *testing.T, fetcher Fetcher, maxParallel int) *Service {
	t.Helper()
	store := NewStore()
	runner := NewRunner(testLogger(), store, fetcher, t.TempDir(), "")
	return NewService(testLogger(), store, runner, maxParallel)
}

func TestService_SubmitRunsToCompletion(t *testing.T) {
	svc := newTestService(t, &fakeFetcher{fn: succeedWith("mp4", true)}, 0)

	req, err := NewRequest(model.PlatformYouTube, Input{URL: "https://youtu.be/abc123", Format: "mp4", Quality: "720p"})
	require.NoError(t, err)

	id := svc.Submit(req)
	require.NotEmpty(t, id)

	job, ok := svc.GetJob(id)
	require.True(t, ok)
	assert.Equal(t, "https://youtu.be/abc123", job.URL)

	svc.Wait()

	job, _ = svc.GetJob(id)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, id+".mp4", job.FileName)

	resolved, err := svc.ResolveFile(id)
	require.NoError(t, err)
	assert.Equal(t, job.FilePath, resolved.FilePath)
	assert.Len(t, svc.ListJobs(), 1)
}

func TestService_ResolveFileErrors(t *testing.T) {
	release := make(chan struct{})
	fetcher := &fakeFetcher{}
	fetcher.fn = func(ctx context.Context, url string, opts FetchOptions, onProgress ProgressFunc) (FetchResult, error) {
		<-release
		return succeedWith("mp4", true)(ctx, url, opts, onProgress)
	}
	svc := newTestService(t, fetcher, 0)

	_, err := svc.ResolveFile("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)

	id := svc.Submit(Request{URL: "https://youtu.be/abc", Platform: model.PlatformYouTube, Format: model.FormatMP4, Quality: model.Quality720p, SoundOn: true})
	_, err = svc.ResolveFile(id)
	assert.ErrorIs(t, err, ErrNotReady)

	close(release)
	svc.Wait()

	job, err := svc.ResolveFile(id)
	require.NoError(t, err)

	require.NoError(t, os.Remove(job.FilePath))
	_, err = svc.ResolveFile(id)
	assert.ErrorIs(t, err, ErrFileMissing)
}

func TestService_FailedJobIsNotReady(t *testing.T) {
	svc := newTestService(t, &fakeFetcher{}, 0)

	id := svc.Submit(Request{URL: "https://youtu.be/abc", Platform: model.PlatformYouTube, Format: model.FormatMP4, Quality: model.Quality720p, SoundOn: true})
	svc.Wait()

	job, _ := svc.GetJob(id)
	require.Equal(t, model.JobStatusError, job.Status)

	_, err := svc.ResolveFile(id)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestService_MaxParallelKeepsExtraJobsQueued(t *testing.T) {
	release := make(chan struct{})
	var started atomic.Int32

	fetcher := &fakeFetcher{}
	fetcher.fn = func(ctx context.Context, url string, opts FetchOptions, onProgress ProgressFunc) (FetchResult, error) {
		started.Add(1)
		onProgress(Progress{Downloaded: 1, Total: 10})
		<-release
		path, err := writeOutput(opts.OutputTemplate, "mp4")
		return FetchResult{FilePath: path}, err
	}
	svc := newTestService(t, fetcher, 1)

	req := Request{URL: "https://youtu.be/abc", Platform: model.PlatformYouTube, Format: model.FormatMP4, Quality: model.Quality720p, SoundOn: true}
	first := svc.Submit(req)
	second := svc.Submit(req)

	require.Eventually(t, func() bool { return started.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), started.Load())

	jobs := map[string]model.Job{}
	for _, id := range []string{first, second} {
		jobs[id], _ = svc.GetJob(id)
	}
	assert.Equal(t, model.JobStatusQueued, jobs[first].Status)
	assert.Equal(t, model.JobStatusQueued, jobs[second].Status)
	progress := []int{jobs[first].Progress, jobs[second].Progress}
	assert.ElementsMatch(t, []int{10, 0}, progress, "only the running job reports progress")

	close(release)
	svc.Wait()

	assert.Equal(t, int32(2), started.Load())
	for _, id := range []string{first, second} {
		job, _ := svc.GetJob(id)
		assert.Equal(t, model.JobStatusCompleted, job.Status)
	}
}

func TestService_UnboundedRunsConcurrently(t *testing.T) {
	release := make(chan struct{})
	var started atomic.Int32

	fetcher := &fakeFetcher{}
	fetcher.fn = func(ctx context.Context, url string, opts FetchOptions, onProgress ProgressFunc) (FetchResult, error) {
		started.Add(1)
		<-release
		path, err := writeOutput(opts.OutputTemplate, "mp4")
		return FetchResult{FilePath: path}, err
	}
	svc := newTestService(t, fetcher, 0)

	req := Request{URL: "https://youtu.be/abc", Platform: model.PlatformYouTube, Format: model.FormatMP4, Quality: model.Quality720p, SoundOn: true}
	for i := 0; i < 3; i++ {
		svc.Submit(req)
	}

	require.Eventually(t, func() bool { return started.Load() == 3 }, time.Second, 5*time.Millisecond)
	close(release)
	svc.Wait()
}
