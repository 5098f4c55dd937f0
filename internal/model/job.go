package model

import (
	"time"
)

// Platform identifies the video site a job was submitted for
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
)

// Format is the requested output container
type Format string

const (
	FormatMP4 Format = "mp4"
	FormatMP3 Format = "mp3"
)

// Extension returns the file suffix produced for the format, with the leading dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Quality is the requested video quality preset
type Quality string

const (
	Quality360p    Quality = "360p"
	Quality720p    Quality = "720p"
	Quality1080p60 Quality = "1080p60"
)

// Request defaults applied when a field is omitted
const (
	DefaultFormat  = FormatMP4
	DefaultQuality = Quality1080p60
)

// Job represents a single asynchronous download request
type Job struct {
	ID        string
	URL       string
	Platform  Platform
	Status    JobStatus
	Progress  int    // 0 to 100
	Error     string // set only when Status is error
	FilePath  string // resolved artifact, set only when Status is completed
	FileName  string
	SavedDir  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob creates a queued job with zero progress
func NewJob(id, url string, platform Platform) Job {
	now := time.Now()
	return Job{
		ID:        id,
		URL:       url,
		Platform:  platform,
		Status:    JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobUpdate is a partial update; nil fields are left untouched
type JobUpdate struct {
	Status   *JobStatus
	Progress *int
	Error    *string
	FilePath *string
	FileName *string
	SavedDir *string
}

// Apply merges the non-nil fields of u into the job
func (j *Job) Apply(u JobUpdate) {
	if u.Status != nil {
		j.Status = *u.Status
	}
	if u.Progress != nil {
		j.Progress = *u.Progress
	}
	if u.Error != nil {
		j.Error = *u.Error
	}
	if u.FilePath != nil {
		j.FilePath = *u.FilePath
	}
	if u.FileName != nil {
		j.FileName = *u.FileName
	}
	if u.SavedDir != nil {
		j.SavedDir = *u.SavedDir
	}
	j.UpdatedAt = time.Now()
}

// ProgressUpdate reports transfer progress. The status is left untouched.
func ProgressUpdate(percent int) JobUpdate {
	return JobUpdate{Progress: &percent}
}

// CompletedUpdate marks the job completed with its resolved artifact
func CompletedUpdate(filePath, fileName, savedDir string) JobUpdate {
	status := JobStatusCompleted
	progress := 100
	return JobUpdate{
		Status:   &status,
		Progress: &progress,
		FilePath: &filePath,
		FileName: &fileName,
		SavedDir: &savedDir,
	}
}

// FailedUpdate marks the job failed and resets its progress
func FailedUpdate(message string) JobUpdate {
	status := JobStatusError
	progress := 0
	return JobUpdate{Status: &status, Progress: &progress, Error: &message}
}
