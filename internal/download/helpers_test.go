package download

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher records calls and delegates to fn
type fakeFetcher struct {
	mu    sync.Mutex
	calls []FetchOptions
	fn    func(ctx context.Context, url string, opts FetchOptions, onProgress ProgressFunc) (FetchResult, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, opts FetchOptions, onProgress ProgressFunc) (FetchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	f.mu.Unlock()
	if f.fn == nil {
		return FetchResult{}, nil
	}
	return f.fn(ctx, url, opts, onProgress)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// writeOutput creates the file yt-dlp would produce for the template
func writeOutput(template, ext string) (string, error) {
	path := strings.Replace(template, "%(ext)s", ext, 1)
	return path, os.WriteFile(path, []byte("media"), 0644)
}

// succeedWith returns a fetch func that reports progress and writes <base>.ext
func succeedWith(ext string, report bool) func(context.Context, string, FetchOptions, ProgressFunc) (FetchResult, error) {
	return func(ctx context.Context, url string, opts FetchOptions, onProgress ProgressFunc) (FetchResult, error) {
		if onProgress != nil {
			onProgress(Progress{Downloaded: 50, Total: 100})
			onProgress(Progress{Finished: true})
		}
		path, err := writeOutput(opts.OutputTemplate, ext)
		if err != nil {
			return FetchResult{}, err
		}
		if !report {
			return FetchResult{}, nil
		}
		return FetchResult{FilePath: path}, nil
	}
}
