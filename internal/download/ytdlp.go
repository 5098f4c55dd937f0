package download

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/ytget/mediagrab/internal/platform"
)

// DefaultProgressInterval is how often yt-dlp progress is sampled
const DefaultProgressInterval = 200 * time.Millisecond

// YTDLP runs the yt-dlp executable through go-ytdlp. It implements Fetcher
// and Prober.
type YTDLP struct {
	logger           *slog.Logger
	progressInterval time.Duration
}

// NewYTDLP creates a yt-dlp backed downloader
func NewYTDLP(logger *slog.Logger) *YTDLP {
	return &YTDLP{
		logger:           logger,
		progressInterval: DefaultProgressInterval,
	}
}

// Install makes sure a yt-dlp binary is available, downloading it if needed
func (y *YTDLP) Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	y.logger.Info("yt-dlp ready")
	return nil
}

// Fetch downloads url according to opts
func (y *YTDLP) Fetch(ctx context.Context, url string, opts FetchOptions, onProgress ProgressFunc) (FetchResult, error) {
	dl := ytdlp.New().
		NoPlaylist().
		NoWarnings().
		Format(opts.Format).
		Output(opts.OutputTemplate)

	if opts.MergeOutputFormat != "" {
		dl.MergeOutputFormat(opts.MergeOutputFormat)
	}
	if opts.ExtractAudio {
		dl.ExtractAudio().
			AudioFormat(opts.AudioFormat).
			AudioQuality(opts.AudioQuality)
	}
	if opts.FFmpegLocation != "" {
		dl.FFmpegLocation(opts.FFmpegLocation)
	}

	if onProgress != nil {
		dl.ProgressFunc(y.progressInterval, func(update ytdlp.ProgressUpdate) {
			switch update.Status {
			case ytdlp.ProgressStatusDownloading:
				onProgress(Progress{
					Downloaded: int64(update.DownloadedBytes),
					Total:      int64(update.TotalBytes),
				})
			case ytdlp.ProgressStatusFinished:
				onProgress(Progress{Finished: true})
			}
		})
	}

	result, err := dl.Run(ctx, url)
	if err != nil {
		return FetchResult{}, newToolError(err, result)
	}

	var out FetchResult
	info, err := result.GetExtractedInfo()
	if err != nil {
		y.logger.Debug("no extracted info from yt-dlp", "url", url, "error", err)
		return out, nil
	}
	if len(info) > 0 {
		if info[0].Filename != nil {
			out.FilePath = *info[0].Filename
		}
		if info[0].Title != nil {
			out.Title = *info[0].Title
		}
	}
	return out, nil
}

// probeInfo is the subset of yt-dlp's --dump-json output we expose
type probeInfo struct {
	Title        string   `json:"title"`
	Thumbnail    string   `json:"thumbnail"`
	Duration     *float64 `json:"duration"`
	ViewCount    *int64   `json:"view_count"`
	LikeCount    *int64   `json:"like_count"`
	DislikeCount *int64   `json:"dislike_count"`
	CommentCount *int64   `json:"comment_count"`
	Channel      string   `json:"channel"`
	Uploader     string   `json:"uploader"`
	UploadDate   string   `json:"upload_date"`
}

// Probe reads metadata for a single video without downloading it
func (y *YTDLP) Probe(ctx context.Context, url string) (VideoInfo, error) {
	result, err := ytdlp.New().
		NoPlaylist().
		NoWarnings().
		DumpJSON().
		Run(ctx, url)
	if err != nil {
		return VideoInfo{}, newToolError(err, result)
	}
	return parseProbeOutput(result.Stdout)
}

// parseProbeOutput decodes the first JSON document printed by yt-dlp
func parseProbeOutput(stdout string) (VideoInfo, error) {
	var raw probeInfo
	dec := json.NewDecoder(strings.NewReader(stdout))
	if err := dec.Decode(&raw); err != nil {
		return VideoInfo{}, fmt.Errorf("failed to parse yt-dlp metadata: %w", err)
	}

	info := VideoInfo{
		Title:           raw.Title,
		Thumbnail:       raw.Thumbnail,
		DurationSeconds: raw.Duration,
		Views:           raw.ViewCount,
		Likes:           raw.LikeCount,
		Dislikes:        raw.DislikeCount,
		Comments:        raw.CommentCount,
		Channel:         raw.Channel,
		UploadDate:      raw.UploadDate,
	}
	if info.Title == "" {
		info.Title = "Unknown title"
	}
	if info.Channel == "" {
		info.Channel = raw.Uploader
	}
	seconds := 0
	if raw.Duration != nil {
		seconds = int(math.Round(*raw.Duration))
	}
	info.Duration = platform.FormatDuration(seconds)
	return info, nil
}

func newToolError(err error, result *ytdlp.Result) *ToolError {
	toolErr := &ToolError{Err: err}
	if result != nil {
		toolErr.Stderr = result.Stderr
	}
	return toolErr
}
