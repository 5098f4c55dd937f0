package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ytget/mediagrab/internal/analytics"
	"github.com/ytget/mediagrab/internal/download"
	"github.com/ytget/mediagrab/internal/platform"
)

type urlRequest struct {
	URL string `json:"url"`
}

type analyzeRequest struct {
	Metrics json.RawMessage `json:"metrics"`
}

func (s *Server) fetchInfo(c *gin.Context) {
	var in urlRequest
	if !bindJSON(c, &in) {
		return
	}
	url := strings.TrimSpace(in.URL)
	if !platform.IsValidYouTubeURL(url) {
		abortWithError(c, http.StatusBadRequest, download.MsgInvalidYouTubeURL)
		return
	}
	if s.prober == nil {
		abortWithError(c, http.StatusServiceUnavailable, MsgUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.probeTimeout)
	defer cancel()

	info, err := s.prober.Probe(ctx, url)
	if err != nil {
		s.logger.Warn("metadata lookup failed", "url", url, "error", err)

		var toolErr *download.ToolError
		if errors.As(err, &toolErr) {
			msg := toolErr.Error()
			if toolErr.Contains(download.AgeGateMarker) {
				msg = MsgAgeRestricted
			}
			abortWithError(c, http.StatusBadRequest, msg)
			return
		}
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) playlistInfo(c *gin.Context) {
	var in urlRequest
	if !bindJSON(c, &in) {
		return
	}
	url := strings.TrimSpace(in.URL)
	if _, ok := platform.ExtractPlaylistID(url); !ok {
		abortWithError(c, http.StatusBadRequest, MsgInvalidPlaylist)
		return
	}
	if s.playlists == nil {
		abortWithError(c, http.StatusServiceUnavailable, MsgUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.probeTimeout)
	defer cancel()

	playlist, err := s.playlists.ParsePlaylist(ctx, url)
	if err != nil {
		if errors.Is(err, platform.ErrNotPlaylist) {
			abortWithError(c, http.StatusBadRequest, MsgInvalidPlaylist)
			return
		}
		s.logger.Warn("playlist lookup failed", "url", url, "error", err)
		abortWithError(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, playlist)
}

func (s *Server) analyzeVideo(c *gin.Context) {
	var in analyzeRequest
	if !bindJSON(c, &in) {
		return
	}

	metrics, err := analytics.ParseMetrics(in.Metrics)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, MsgMetricsNotObject)
		return
	}
	c.JSON(http.StatusOK, analytics.Analyze(metrics))
}
