package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ytget/mediagrab/internal/model"
	"github.com/ytget/mediagrab/internal/platform"
)

// Progress markers
const (
	MinActivePercent   = 1
	MaxActivePercent   = 99
	TransferEndPercent = 98
)

// Known downloader failures and their client facing rewrites
const (
	AgeGateMarker  = "Sign in to confirm your age"
	AgeGateMessage = "This video is age-restricted and cannot be downloaded without authentication."
)

// OutputTemplateExt is the yt-dlp placeholder for the final extension
const OutputTemplateExt = ".%(ext)s"

// Runner drives a single job through the external downloader and records
// every state change in the store.
type Runner struct {
	logger      *slog.Logger
	store       *Store
	fetcher     Fetcher
	downloadDir string
	ffmpegDir   string
}

// NewRunner creates a runner writing into downloadDir unless a request names
// its own output directory.
func NewRunner(logger *slog.Logger, store *Store, fetcher Fetcher, downloadDir, ffmpegDir string) *Runner {
	return &Runner{
		logger:      logger,
		store:       store,
		fetcher:     fetcher,
		downloadDir: downloadDir,
		ffmpegDir:   ffmpegDir,
	}
}

// Run executes req to completion. The job always ends completed or error.
func (r *Runner) Run(ctx context.Context, req Request) {
	logger := r.logger.With("job_id", req.JobID, "platform", req.Platform)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("job panicked", "panic", rec)
			r.store.Update(req.JobID, model.FailedUpdate(fmt.Sprintf("internal error: %v", rec)))
		}
	}()

	job, err := r.run(ctx, req)
	if err != nil {
		msg := classifyError(req.Platform, err)
		logger.Warn("job failed", "error", err)
		r.store.Update(req.JobID, model.FailedUpdate(msg))
		return
	}

	logger.Info("job completed", "file", job.FilePath)
	r.store.Update(req.JobID, model.CompletedUpdate(job.FilePath, job.FileName, job.SavedDir))
}

func (r *Runner) run(ctx context.Context, req Request) (model.Job, error) {
	targetDir := req.OutputDir
	if targetDir == "" {
		targetDir = r.downloadDir
	}
	base := req.OutputName
	if base == "" {
		base = req.JobID
	}
	outputTemplate := filepath.Join(targetDir, base+OutputTemplateExt)

	opts, err := fetchOptions(req, outputTemplate, r.ffmpegDir)
	if err != nil {
		return model.Job{}, err
	}

	if err := platform.CreateDirectoryIfNotExists(targetDir); err != nil {
		return model.Job{}, fmt.Errorf("%w: %v", ErrDirectory, err)
	}

	r.logger.Info("job started", "job_id", req.JobID, "url", req.URL, "format", opts.Format)

	result, err := r.fetcher.Fetch(ctx, req.URL, opts, r.progressHook(req.JobID))
	if err != nil {
		return model.Job{}, err
	}

	finalPath, err := resolveOutputPath(result.FilePath, req.Format, targetDir, base)
	if err != nil {
		return model.Job{}, err
	}

	return model.Job{
		FilePath: finalPath,
		FileName: filepath.Base(finalPath),
		SavedDir: filepath.Dir(finalPath),
	}, nil
}

// progressHook converts downloader reports into job progress updates
func (r *Runner) progressHook(jobID string) ProgressFunc {
	return func(p Progress) {
		if p.Finished {
			r.store.Update(jobID, model.ProgressUpdate(TransferEndPercent))
			return
		}
		if p.Total <= 0 {
			return
		}
		r.store.Update(jobID, model.ProgressUpdate(transferPercent(p.Downloaded, p.Total)))
	}
}

// transferPercent returns floor(downloaded/total*100) clamped to [1,99]
func transferPercent(downloaded, total int64) int {
	pct := int(downloaded * 100 / total)
	return max(MinActivePercent, min(pct, MaxActivePercent))
}

// resolveOutputPath finds the artifact produced by the downloader. The path
// it reported wins; otherwise the newest "<base>.*" file in dir is used.
func resolveOutputPath(reported string, format model.Format, dir, base string) (string, error) {
	candidate := filepath.Join(dir, base+format.Extension())
	if reported != "" {
		candidate = reported
		if format == model.FormatMP3 {
			candidate = strings.TrimSuffix(reported, filepath.Ext(reported)) + format.Extension()
		}
	}

	if platform.FileExists(candidate) {
		return candidate, nil
	}

	latest, err := platform.FindLatestWithPrefix(dir, base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputNotFound, err)
	}
	return latest, nil
}

// classifyError turns a job failure into the message stored on the job
func classifyError(p model.Platform, err error) string {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		if p == model.PlatformYouTube && toolErr.Contains(AgeGateMarker) {
			return AgeGateMessage
		}
		return toolErr.Error()
	}

	switch {
	case errors.Is(err, ErrOutputNotFound):
		return "Download finished but output file was not found."
	case errors.Is(err, ErrDirectory):
		return "Cannot create download folder: " + strings.TrimPrefix(err.Error(), ErrDirectory.Error()+": ")
	case errors.Is(err, ErrUnsupportedFormat):
		return "Unsupported format"
	case errors.Is(err, ErrUnsupportedQuality):
		return "Unsupported quality"
	case errors.Is(err, ErrSoundOffMP3):
		return MsgSoundOffMP3
	}
	return err.Error()
}
