package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ytget/mediagrab/internal/download"
	"github.com/ytget/mediagrab/internal/model"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindJSON decodes the request body into obj. An empty body leaves obj
// untouched.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, MsgInvalidJSON)
		return false
	}
	return true
}

func (s *Server) startDownload(p model.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in download.Input
		if !bindJSON(c, &in) {
			return
		}

		req, err := download.NewRequest(p, in)
		if err != nil {
			var verr *download.ValidationError
			if errors.As(err, &verr) {
				abortWithError(c, http.StatusBadRequest, verr.Message)
				return
			}
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}

		id := s.jobs.Submit(req)
		c.JSON(http.StatusOK, submitResponse{JobID: id})
	}
}

func (s *Server) progress(c *gin.Context) {
	job, ok := s.jobs.GetJob(c.Param("job_id"))
	if !ok {
		abortWithError(c, http.StatusNotFound, MsgJobNotFound)
		return
	}
	c.JSON(http.StatusOK, newProgressResponse(job))
}

func (s *Server) file(c *gin.Context) {
	job, err := s.jobs.ResolveFile(c.Param("job_id"))
	switch {
	case errors.Is(err, download.ErrJobNotFound):
		abortWithError(c, http.StatusNotFound, MsgJobNotFound)
		return
	case errors.Is(err, download.ErrNotReady):
		abortWithError(c, http.StatusBadRequest, MsgFileNotReady)
		return
	case errors.Is(err, download.ErrFileMissing):
		abortWithError(c, http.StatusNotFound, MsgFileMissing)
		return
	case err != nil:
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	name := job.FileName
	if name == "" {
		name = filepath.Base(job.FilePath)
	}
	c.FileAttachment(job.FilePath, name)
}

func (s *Server) listJobs(c *gin.Context) {
	jobs := s.jobs.ListJobs()
	resp := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, newJobResponse(job))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": resp})
}
