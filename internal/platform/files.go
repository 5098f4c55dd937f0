package platform

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"
)

// Operating system constants
const (
	OSWindows = "windows"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Download directory defaults
const (
	DefaultDownloadsDirName = "downloads"
)

// FFmpeg discovery
const (
	FFmpegLocationEnv = "FFMPEG_LOCATION"
	WingetFFmpegPkg   = "Gyan.FFmpeg_Microsoft.Winget.Source_8wekyb3d8bbwe"
	WingetFFmpegGlob  = "ffmpeg.exe"
)

// File extensions to skip when scanning for artifacts
var (
	SkippedExtensions = []string{".part", ".ytdl"}
)

// MediaExtensions are stripped from requested output names
var MediaExtensions = map[string]struct{}{
	"mp4": {}, "m4v": {}, "mkv": {}, "webm": {}, "mov": {}, "avi": {}, "flv": {}, "3gp": {},
	"mp3": {}, "m4a": {}, "aac": {}, "ogg": {}, "opus": {}, "wav": {}, "flac": {},
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._ -]`)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dirPath)
		}
		return nil
	}
	return os.MkdirAll(dirPath, DefaultDirPermissions)
}

// GetDefaultDownloadsDir returns ./downloads next to the working directory
func GetDefaultDownloadsDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, DefaultDownloadsDirName), nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// SanitizeBaseName turns a user supplied output name into a safe file stem.
// Directory parts and media extensions are dropped, unsafe characters become
// underscores and surrounding spaces and dots are trimmed. ok is false when nothing is left.
// The result is a fixed point: sanitizing it again returns it unchanged.
func SanitizeBaseName(name string) (string, bool) {
	safe := baseName(strings.TrimSpace(name))
	safe = unsafeNameChars.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, " .")
	for {
		ext := filepath.Ext(safe)
		if ext == "" || ext == safe || !isMediaExtension(ext) {
			break
		}
		safe = strings.Trim(strings.TrimSuffix(safe, ext), " .")
	}
	return safe, safe != ""
}

// baseName drops directory parts, accepting both / and \ separators
func baseName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := path.Base(name)
	if base == "/" || base == "." {
		return ""
	}
	return base
}

func isMediaExtension(ext string) bool {
	_, ok := MediaExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FindLatestWithPrefix returns the most recently modified file in dir whose
// name starts with "<base>." Temporary downloader files are ignored.
func FindLatestWithPrefix(dir, base string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	prefix := base + "."
	var (
		latestPath string
		latestTime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) || isTemporaryFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latestPath == "" || info.ModTime().After(latestTime) {
			latestPath = filepath.Join(dir, entry.Name())
			latestTime = info.ModTime()
		}
	}

	if latestPath == "" {
		return "", fmt.Errorf("no file matching %s* in %s", prefix, dir)
	}
	return latestPath, nil
}

func isTemporaryFile(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// DetectFFmpegDir returns the directory containing ffmpeg, or "" if unknown.
// FFMPEG_LOCATION wins; on Windows the winget package folder is searched.
func DetectFFmpegDir() string {
	if envDir := os.Getenv(FFmpegLocationEnv); envDir != "" {
		if _, err := os.Stat(envDir); err == nil {
			return envDir
		}
	}

	if runtime.GOOS != OSWindows {
		return ""
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	wingetRoot := filepath.Join(homeDir, "AppData", "Local", "Microsoft", "WinGet", "Packages", WingetFFmpegPkg)
	return findBinDir(wingetRoot, WingetFFmpegGlob)
}

// findBinDir walks root looking for bin/<exe> and returns its directory
func findBinDir(root, exe string) string {
	if _, err := os.Stat(root); err != nil {
		return ""
	}
	var found string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || found != "" {
			return nil
		}
		if !d.IsDir() && d.Name() == exe && filepath.Base(filepath.Dir(path)) == "bin" {
			found = filepath.Dir(path)
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
