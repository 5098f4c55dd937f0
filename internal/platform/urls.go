package platform

import (
	"net/url"
	"strings"

	"github.com/ytget/mediagrab/internal/model"
)

// Default scheme for URLs typed without one
const (
	DefaultScheme = "https://"
	WWWPrefix     = "www."
)

// Supported hosts, compared after lowercasing and stripping "www."
var (
	YouTubeShortHost = "youtu.be"
	YouTubeHosts     = []string{"youtube.com", "m.youtube.com"}
	TikTokHosts      = []string{"tiktok.com", "m.tiktok.com", "vm.tiktok.com", "vt.tiktok.com"}
	InstagramHosts   = []string{"instagram.com", "m.instagram.com"}
)

// Path markers
const (
	YouTubeWatchPath   = "/watch"
	YouTubeShortsPath  = "/shorts/"
	YouTubeVideoParam  = "v"
	PlaylistQueryParam = "list"
)

// InstagramPathPrefixes lists post kinds that can be downloaded
var InstagramPathPrefixes = []string{"/reel/", "/p/", "/tv/"}

// parseLoose parses a user supplied URL, adding https:// when the scheme is
// missing, and returns the normalized host alongside the parsed URL.
func parseLoose(raw string) (*url.URL, string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, "", false
	}
	if !strings.Contains(raw, "://") {
		raw = DefaultScheme + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, "", false
	}
	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, WWWPrefix)
	return parsed, host, true
}

func hostIn(host string, hosts []string) bool {
	for _, h := range hosts {
		if host == h {
			return true
		}
	}
	return false
}

// IsValidYouTubeURL accepts youtu.be links and youtube.com watch or shorts URLs
func IsValidYouTubeURL(raw string) bool {
	parsed, host, ok := parseLoose(raw)
	if !ok {
		return false
	}

	if host == YouTubeShortHost {
		return strings.Trim(parsed.Path, "/") != ""
	}

	if !hostIn(host, YouTubeHosts) {
		return false
	}

	if parsed.Path == YouTubeWatchPath {
		return parsed.Query().Get(YouTubeVideoParam) != ""
	}
	if strings.HasPrefix(parsed.Path, YouTubeShortsPath) {
		return strings.TrimPrefix(parsed.Path, YouTubeShortsPath) != ""
	}
	return false
}

// IsValidTikTokURL accepts TikTok video links, including vm./vt. short links
func IsValidTikTokURL(raw string) bool {
	parsed, host, ok := parseLoose(raw)
	if !ok {
		return false
	}
	return hostIn(host, TikTokHosts) && strings.Trim(parsed.Path, "/") != ""
}

// IsValidInstagramURL accepts reels, posts and IGTV links
func IsValidInstagramURL(raw string) bool {
	parsed, host, ok := parseLoose(raw)
	if !ok || !hostIn(host, InstagramHosts) {
		return false
	}
	for _, prefix := range InstagramPathPrefixes {
		if strings.HasPrefix(parsed.Path, prefix) {
			return true
		}
	}
	return false
}

// DetectPlatform classifies a URL; ok is false when no supported site matches
func DetectPlatform(raw string) (model.Platform, bool) {
	switch {
	case IsValidYouTubeURL(raw):
		return model.PlatformYouTube, true
	case IsValidTikTokURL(raw):
		return model.PlatformTikTok, true
	case IsValidInstagramURL(raw):
		return model.PlatformInstagram, true
	}
	return "", false
}

// ExtractPlaylistID returns the list= query value of a YouTube URL
func ExtractPlaylistID(raw string) (string, bool) {
	parsed, host, ok := parseLoose(raw)
	if !ok {
		return "", false
	}
	if host != YouTubeShortHost && !hostIn(host, YouTubeHosts) {
		return "", false
	}
	id := parsed.Query().Get(PlaylistQueryParam)
	return id, id != ""
}
