package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/mediagrab/internal/model"
	"github.com/ytget/ytdlp/v2"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// Default values
const (
	DefaultDuration     = "Unknown"
	DefaultPlaylistName = "Unknown Playlist"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Playlist title constants
const (
	MinPrefixLength = 10
	PlaylistSuffix  = " Playlist"
)

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)

// ErrNotPlaylist is returned for URLs without a list= parameter
var ErrNotPlaylist = errors.New("URL does not contain a YouTube playlist")

// PlaylistEntry is a single item returned by the playlist source
type PlaylistEntry struct {
	VideoID string
	Title   string
}

// PlaylistParser expands YouTube playlists into video URLs using the ytdlp library
type PlaylistParser struct {
	timeout time.Duration
	fetch   func(ctx context.Context, playlistID string) ([]PlaylistEntry, error)
}

// NewPlaylistParser creates a parser backed by github.com/ytget/ytdlp/v2
func NewPlaylistParser() *PlaylistParser {
	return &PlaylistParser{
		timeout: DefaultParseTimeout,
		fetch:   fetchPlaylistItems,
	}
}

// SetTimeout sets the timeout for parsing operations
func (p *PlaylistParser) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

func fetchPlaylistItems(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	entries := make([]PlaylistEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, PlaylistEntry{VideoID: it.VideoID, Title: it.Title})
	}
	return entries, nil
}

// ParsePlaylist lists the videos of the playlist referenced by url
func (p *PlaylistParser) ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	playlistID, ok := ExtractPlaylistID(url)
	if !ok {
		return nil, ErrNotPlaylist
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	items, err := p.fetch(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	playlist := model.NewPlaylist(playlistID, url)
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		playlist.AddVideo(&model.PlaylistVideo{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	playlist.Title = extractPlaylistTitle(playlist.Videos)

	return playlist, nil
}

// extractPlaylistTitle generates a title for the playlist based on videos
func extractPlaylistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 {
		return DefaultPlaylistName
	}
	if len(videos) > 1 {
		commonPrefix := findCommonPrefix(videos[0].Title, videos[1].Title)
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return videos[0].Title + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}

// FormatDuration renders seconds as H:MM:SS or M:SS, or "Unknown" for zero
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return DefaultDuration
	}
	hours := seconds / SecondsPerHour
	minutes := (seconds % SecondsPerHour) / SecondsPerMinute
	secs := seconds % SecondsPerMinute
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
