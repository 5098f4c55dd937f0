package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/ytget/mediagrab/internal/download"
	"github.com/ytget/mediagrab/internal/model"
)

// DefaultProbeTimeout bounds metadata and playlist lookups
const DefaultProbeTimeout = 60 * time.Second

// Jobs is the part of the download service the HTTP layer needs
type Jobs interface {
	Submit(req download.Request) string
	GetJob(id string) (model.Job, bool)
	ListJobs() []model.Job
	ResolveFile(id string) (model.Job, error)
}

// PlaylistSource expands playlist URLs into their videos
type PlaylistSource interface {
	ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error)
}

// Options configures a Server
type Options struct {
	AllowedOrigins []string
	ProbeTimeout   time.Duration
}

// Server routes HTTP requests to the download service
type Server struct {
	logger       *slog.Logger
	jobs         Jobs
	prober       download.Prober
	playlists    PlaylistSource
	probeTimeout time.Duration
	handler      http.Handler
}

// NewServer builds the router. prober and playlists may be nil, in which case
// their endpoints report the feature as unavailable.
func NewServer(logger *slog.Logger, jobs Jobs, prober download.Prober, playlists PlaylistSource, opts Options) *Server {
	s := &Server{
		logger:       logger,
		jobs:         jobs,
		prober:       prober,
		playlists:    playlists,
		probeTimeout: opts.ProbeTimeout,
	}
	if s.probeTimeout <= 0 {
		s.probeTimeout = DefaultProbeTimeout
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	s.routes(router)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	s.handler = c.Handler(router)

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", s.health)

	r.POST("/download", s.startDownload(model.PlatformYouTube))
	r.POST("/download_tiktok", s.startDownload(model.PlatformTikTok))
	r.POST("/download_instagram", s.startDownload(model.PlatformInstagram))

	r.GET("/progress/:job_id", s.progress)
	r.GET("/file/:job_id", s.file)
	r.GET("/jobs", s.listJobs)

	r.POST("/fetch_info", s.fetchInfo)
	r.POST("/playlist_info", s.playlistInfo)
	r.POST("/analyze_video", s.analyzeVideo)
}

// requestLogger logs each request once it has been served. Successful reads
// are logged at debug level since clients poll progress continuously.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if c.Request.Method == http.MethodGet && status < http.StatusBadRequest {
			level = slog.LevelDebug
		}
		logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
