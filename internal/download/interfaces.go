package download

import (
	"context"
)

// Progress is a single transfer report from the external downloader. Finished
// is set once the byte transfer ended and post-processing may follow.
type Progress struct {
	Downloaded int64
	Total      int64
	Finished   bool
}

// ProgressFunc receives transfer reports on the runner's goroutine
type ProgressFunc func(Progress)

// FetchOptions is everything the external downloader needs for one job
type FetchOptions struct {
	Format            string // selection expression
	OutputTemplate    string // e.g. /dir/name.%(ext)s
	MergeOutputFormat string // container to merge separate streams into
	ExtractAudio      bool
	AudioFormat       string
	AudioQuality      string
	FFmpegLocation    string
}

// FetchResult is the metadata reported after a successful download
type FetchResult struct {
	FilePath string // empty when the tool did not report one
	Title    string
}

// VideoInfo is public metadata about a single video
type VideoInfo struct {
	Title           string   `json:"title"`
	Thumbnail       string   `json:"thumbnail"`
	Duration        string   `json:"duration"`
	DurationSeconds *float64 `json:"duration_seconds"`
	Views           *int64   `json:"views"`
	Likes           *int64   `json:"likes"`
	Dislikes        *int64   `json:"dislikes"`
	Comments        *int64   `json:"comments"`
	Channel         string   `json:"channel"`
	UploadDate      string   `json:"upload_date"`
}

// Fetcher downloads media for a URL into the location described by opts.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts FetchOptions, onProgress ProgressFunc) (FetchResult, error)
}

// Prober reads video metadata without downloading media.
type Prober interface {
	Probe(ctx context.Context, url string) (VideoInfo, error)
}
