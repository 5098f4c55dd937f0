package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ytget/mediagrab/internal/platform"
)

// Environment keys
const (
	KeyHost           = "HOST"
	KeyPort           = "PORT"
	KeyDownloadDir    = "MEDIAGRAB_DOWNLOAD_DIR"
	KeyMaxParallel    = "MEDIAGRAB_MAX_PARALLEL"
	KeyAllowedOrigins = "MEDIAGRAB_ALLOWED_ORIGINS"
	KeyFFmpegLocation = platform.FFmpegLocationEnv
	KeyLogLevel       = "MEDIAGRAB_LOG_LEVEL"
	KeyLogFormat      = "MEDIAGRAB_LOG_FORMAT"
	KeyProbeTimeout   = "MEDIAGRAB_PROBE_TIMEOUT"
)

// Default values
const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 5000
	DefaultMaxParallel    = 0
	DefaultAllowedOrigins = "*"
	DefaultLogFormat      = LogFormatText
	DefaultProbeTimeout   = 60 * time.Second
	DefaultEnvFile        = ".env"
)

// Limits
const (
	MaxParallelLimit = 32
	MinPort          = 1
	MaxPort          = 65535
)

// Log output formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Settings manages application configuration. Values come from the
// environment; setters override them for the life of the process.
type Settings struct {
	lookup    func(string) (string, bool)
	overrides map[string]string
}

// NewSettings creates a settings manager reading from lookup
func NewSettings(lookup func(string) (string, bool)) *Settings {
	return &Settings{
		lookup:    lookup,
		overrides: make(map[string]string),
	}
}

// Load reads envFile into the process environment when it exists and
// returns settings backed by the environment. Variables already set win.
func Load(envFile string) (*Settings, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}
	return NewSettings(os.LookupEnv), nil
}

func (s *Settings) get(key string) string {
	if v, ok := s.overrides[key]; ok {
		return v
	}
	if s.lookup == nil {
		return ""
	}
	v, _ := s.lookup(key)
	return strings.TrimSpace(v)
}

// GetHost returns the listen host
func (s *Settings) GetHost() string {
	if host := s.get(KeyHost); host != "" {
		return host
	}
	return DefaultHost
}

// SetHost sets the listen host
func (s *Settings) SetHost(host string) {
	s.overrides[KeyHost] = host
}

// GetPort returns the listen port
func (s *Settings) GetPort() int {
	port, err := strconv.Atoi(s.get(KeyPort))
	if err != nil || port < MinPort || port > MaxPort {
		return DefaultPort
	}
	return port
}

// SetPort sets the listen port. Out of range values fall back to the default.
func (s *Settings) SetPort(port int) {
	if port < MinPort || port > MaxPort {
		port = DefaultPort
	}
	s.overrides[KeyPort] = strconv.Itoa(port)
}

// Addr returns host:port for the HTTP server
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.GetHost(), strconv.Itoa(s.GetPort()))
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	if dir := s.get(KeyDownloadDir); dir != "" {
		if expanded, err := platform.ExpandHome(dir); err == nil {
			return expanded
		}
		return dir
	}
	defaultDir, err := platform.GetDefaultDownloadsDir()
	if err != nil {
		return platform.DefaultDownloadsDirName
	}
	return defaultDir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.overrides[KeyDownloadDir] = dir
}

// GetMaxParallelDownloads returns how many jobs may transfer at once.
// Zero means no limit.
func (s *Settings) GetMaxParallelDownloads() int {
	value, err := strconv.Atoi(s.get(KeyMaxParallel))
	if err != nil {
		return DefaultMaxParallel
	}
	return clampParallel(value)
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	s.overrides[KeyMaxParallel] = strconv.Itoa(clampParallel(count))
}

func clampParallel(count int) int {
	if count < 0 {
		return 0
	}
	if count > MaxParallelLimit {
		return MaxParallelLimit
	}
	return count
}

// GetAllowedOrigins returns the CORS origins, "*" allowing any
func (s *Settings) GetAllowedOrigins() []string {
	raw := s.get(KeyAllowedOrigins)
	if raw == "" {
		raw = DefaultAllowedOrigins
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{DefaultAllowedOrigins}
	}
	return origins
}

// SetAllowedOrigins sets the CORS origins
func (s *Settings) SetAllowedOrigins(origins []string) {
	s.overrides[KeyAllowedOrigins] = strings.Join(origins, ",")
}

// GetFFmpegLocation returns the configured ffmpeg directory when it exists
// on disk, otherwise ""
func (s *Settings) GetFFmpegLocation() string {
	dir := s.get(KeyFFmpegLocation)
	if dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); err != nil {
		return ""
	}
	return dir
}

// GetLogLevel returns the configured log level, info by default
func (s *Settings) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.get(KeyLogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// GetLogFormat returns "json" or "text"
func (s *Settings) GetLogFormat() string {
	if strings.EqualFold(s.get(KeyLogFormat), LogFormatJSON) {
		return LogFormatJSON
	}
	return DefaultLogFormat
}

// GetProbeTimeout bounds metadata and playlist lookups
func (s *Settings) GetProbeTimeout() time.Duration {
	timeout, err := time.ParseDuration(s.get(KeyProbeTimeout))
	if err != nil || timeout <= 0 {
		return DefaultProbeTimeout
	}
	return timeout
}
