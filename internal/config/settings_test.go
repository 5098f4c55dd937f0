package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	settings := NewSettings(envFrom(nil))

	if got := settings.GetHost(); got != DefaultHost {
		t.Errorf("Expected host %s, got %s", DefaultHost, got)
	}
	if got := settings.GetPort(); got != DefaultPort {
		t.Errorf("Expected port %d, got %d", DefaultPort, got)
	}
	if got := settings.Addr(); got != "127.0.0.1:5000" {
		t.Errorf("Expected addr 127.0.0.1:5000, got %s", got)
	}
	if got := settings.GetMaxParallelDownloads(); got != DefaultMaxParallel {
		t.Errorf("Expected max parallel %d, got %d", DefaultMaxParallel, got)
	}
	if got := settings.GetAllowedOrigins(); !reflect.DeepEqual(got, []string{"*"}) {
		t.Errorf("Expected origins [*], got %v", got)
	}
	if got := settings.GetLogLevel(); got != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", got)
	}
	if got := settings.GetLogFormat(); got != LogFormatText {
		t.Errorf("Expected text format, got %s", got)
	}
	if got := settings.GetProbeTimeout(); got != DefaultProbeTimeout {
		t.Errorf("Expected probe timeout %v, got %v", DefaultProbeTimeout, got)
	}
	if got := settings.GetFFmpegLocation(); got != "" {
		t.Errorf("Expected no ffmpeg location, got %s", got)
	}

	dir := settings.GetDownloadDirectory()
	if filepath.Base(dir) != "downloads" {
		t.Errorf("Expected default download dir to end with downloads, got %s", dir)
	}
}

func TestValuesFromEnvironment(t *testing.T) {
	ffmpegDir := t.TempDir()
	settings := NewSettings(envFrom(map[string]string{
		KeyHost:           "0.0.0.0",
		KeyPort:           "8080",
		KeyDownloadDir:    "/srv/media",
		KeyMaxParallel:    "4",
		KeyAllowedOrigins: "http://localhost:3000, https://example.com,",
		KeyFFmpegLocation: ffmpegDir,
		KeyLogLevel:       "debug",
		KeyLogFormat:      "JSON",
		KeyProbeTimeout:   "15s",
	}))

	if got := settings.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Expected addr 0.0.0.0:8080, got %s", got)
	}
	if got := settings.GetDownloadDirectory(); got != "/srv/media" {
		t.Errorf("Expected /srv/media, got %s", got)
	}
	if got := settings.GetMaxParallelDownloads(); got != 4 {
		t.Errorf("Expected max parallel 4, got %d", got)
	}
	expectedOrigins := []string{"http://localhost:3000", "https://example.com"}
	if got := settings.GetAllowedOrigins(); !reflect.DeepEqual(got, expectedOrigins) {
		t.Errorf("Expected origins %v, got %v", expectedOrigins, got)
	}
	if got := settings.GetFFmpegLocation(); got != ffmpegDir {
		t.Errorf("Expected ffmpeg location, got %s", got)
	}
	if got := settings.GetLogLevel(); got != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", got)
	}
	if got := settings.GetLogFormat(); got != LogFormatJSON {
		t.Errorf("Expected json format, got %s", got)
	}
	if got := settings.GetProbeTimeout(); got != 15*time.Second {
		t.Errorf("Expected 15s, got %v", got)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	settings := NewSettings(envFrom(map[string]string{
		KeyPort:         "99999",
		KeyMaxParallel:  "many",
		KeyLogLevel:     "loud",
		KeyProbeTimeout: "-5s",
	}))

	if got := settings.GetPort(); got != DefaultPort {
		t.Errorf("Expected default port, got %d", got)
	}
	if got := settings.GetMaxParallelDownloads(); got != DefaultMaxParallel {
		t.Errorf("Expected default max parallel, got %d", got)
	}
	if got := settings.GetLogLevel(); got != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", got)
	}
	if got := settings.GetProbeTimeout(); got != DefaultProbeTimeout {
		t.Errorf("Expected default probe timeout, got %v", got)
	}
}

func TestMaxParallelDownloads(t *testing.T) {
	settings := NewSettings(envFrom(map[string]string{KeyMaxParallel: "100"}))

	// Environment values are clamped too
	if got := settings.GetMaxParallelDownloads(); got != MaxParallelLimit {
		t.Errorf("Expected clamp to %d, got %d", MaxParallelLimit, got)
	}

	settings.SetMaxParallelDownloads(5)
	if got := settings.GetMaxParallelDownloads(); got != 5 {
		t.Errorf("Expected max parallel 5, got %d", got)
	}

	settings.SetMaxParallelDownloads(-3)
	if got := settings.GetMaxParallelDownloads(); got != 0 {
		t.Error("Max parallel should be clamped to minimum 0")
	}

	settings.SetMaxParallelDownloads(1000)
	if got := settings.GetMaxParallelDownloads(); got != MaxParallelLimit {
		t.Errorf("Max parallel should be clamped to maximum %d", MaxParallelLimit)
	}
}

func TestSettersOverrideEnvironment(t *testing.T) {
	settings := NewSettings(envFrom(map[string]string{KeyHost: "0.0.0.0", KeyPort: "8080"}))

	settings.SetHost("localhost")
	settings.SetPort(9000)
	if got := settings.Addr(); got != "localhost:9000" {
		t.Errorf("Expected localhost:9000, got %s", got)
	}

	settings.SetPort(0)
	if got := settings.GetPort(); got != DefaultPort {
		t.Errorf("Expected invalid port to reset to default, got %d", got)
	}

	settings.SetDownloadDirectory("/tmp/elsewhere")
	if got := settings.GetDownloadDirectory(); got != "/tmp/elsewhere" {
		t.Errorf("Expected /tmp/elsewhere, got %s", got)
	}

	settings.SetAllowedOrigins([]string{"http://a", "http://b"})
	if got := settings.GetAllowedOrigins(); !reflect.DeepEqual(got, []string{"http://a", "http://b"}) {
		t.Errorf("Unexpected origins %v", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	// Restore whatever the process had once the test ends
	t.Setenv(KeyPort, "")
	t.Setenv(KeyHost, "10.0.0.1")
	os.Unsetenv(KeyPort)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PORT=7000\nHOST=192.168.1.1\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	settings, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := settings.GetPort(); got != 7000 {
		t.Errorf("Expected port from env file, got %d", got)
	}
	// Existing variables are not overwritten
	if got := settings.GetHost(); got != "10.0.0.1" {
		t.Errorf("Expected host from environment, got %s", got)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Missing env file should not fail: %v", err)
	}
	if settings == nil {
		t.Fatal("Expected settings")
	}
}

func TestFFmpegLocationMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	settings := NewSettings(envFrom(map[string]string{KeyFFmpegLocation: missing}))

	if got := settings.GetFFmpegLocation(); got != "" {
		t.Errorf("Expected missing ffmpeg location to be ignored, got %s", got)
	}
}
