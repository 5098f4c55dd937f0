package download

import (
	"errors"
	"strings"
)

// Request and lookup errors
var (
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrUnsupportedQuality = errors.New("unsupported quality")
	ErrSoundOffMP3        = errors.New("sound off is not valid for mp3 downloads")
	ErrJobNotFound        = errors.New("job not found")
	ErrNotReady           = errors.New("file is not ready")
	ErrFileMissing        = errors.New("file no longer exists")
)

// Per-job failures recorded on the job record
var (
	ErrDirectory      = errors.New("cannot create download folder")
	ErrOutputNotFound = errors.New("download finished but output file was not found")
)

// ValidationError is a request rejected before any job exists. Message is
// safe to show to the client.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(message string, err error) *ValidationError {
	return &ValidationError{Message: message, Err: err}
}

// ToolError is a failure reported by the external downloader. Stderr holds
// the tool's diagnostic output, used to recognise known failure causes.
type ToolError struct {
	Err    error
	Stderr string
}

func (e *ToolError) Error() string {
	if line := lastErrorLine(e.Stderr); line != "" {
		return line
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "download failed"
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Contains reports whether the tool output or the wrapped error mentions s
func (e *ToolError) Contains(s string) bool {
	if strings.Contains(e.Stderr, s) {
		return true
	}
	return e.Err != nil && strings.Contains(e.Err.Error(), s)
}

// lastErrorLine returns the last "ERROR:" line printed by yt-dlp
func lastErrorLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
	}
	return ""
}
