package model

// PlaylistVideo represents a single entry of a YouTube playlist
type PlaylistVideo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Playlist represents a YouTube playlist expanded into its videos
type Playlist struct {
	ID     string           `json:"id"`
	Title  string           `json:"title"`
	URL    string           `json:"url"`
	Videos []*PlaylistVideo `json:"videos"`
}

// NewPlaylist creates an empty playlist for the given URL
func NewPlaylist(id, url string) *Playlist {
	return &Playlist{
		ID:     id,
		URL:    url,
		Videos: make([]*PlaylistVideo, 0),
	}
}

// AddVideo appends a video to the playlist
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	p.Videos = append(p.Videos, video)
}
