package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ytget/mediagrab/internal/model"
)

// Client facing messages
const (
	MsgInvalidJSON      = "Invalid JSON body."
	MsgJobNotFound      = "Job not found."
	MsgFileNotReady     = "File is not ready."
	MsgFileMissing      = "File no longer exists."
	MsgMetricsNotObject = "metrics must be an object."
	MsgInvalidPlaylist  = "Invalid YouTube playlist URL."
	MsgAgeRestricted    = "Age-restricted video detected. Sign-in/auth cookies are required."
	MsgUnavailable      = "This feature is not available."
)

// FileRoute is the prefix of completed job download links
const FileRoute = "/file/"

type errorResponse struct {
	Error string `json:"error"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

type progressResponse struct {
	Status      model.JobStatus `json:"status"`
	Progress    int             `json:"progress"`
	Error       *string         `json:"error"`
	DownloadURL string          `json:"download_url,omitempty"`
	FileName    string          `json:"file_name,omitempty"`
	SavedPath   string          `json:"saved_path,omitempty"`
	SavedDir    string          `json:"saved_dir,omitempty"`
}

func newProgressResponse(job model.Job) progressResponse {
	resp := progressResponse{
		Status:   job.Status,
		Progress: job.Progress,
	}
	if job.Error != "" {
		msg := job.Error
		resp.Error = &msg
	}
	if job.Status == model.JobStatusCompleted {
		resp.DownloadURL = FileRoute + job.ID
		resp.FileName = job.FileName
		resp.SavedPath = job.FilePath
		resp.SavedDir = job.SavedDir
	}
	return resp
}

type jobResponse struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	Platform  model.Platform  `json:"platform"`
	Status    model.JobStatus `json:"status"`
	Progress  int             `json:"progress"`
	Error     string          `json:"error,omitempty"`
	FileName  string          `json:"file_name,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func newJobResponse(job model.Job) jobResponse {
	return jobResponse{
		ID:        job.ID,
		URL:       job.URL,
		Platform:  job.Platform,
		Status:    job.Status,
		Progress:  job.Progress,
		Error:     job.Error,
		FileName:  job.FileName,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}
