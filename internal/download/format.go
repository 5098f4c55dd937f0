package download

import (
	"fmt"

	"github.com/ytget/mediagrab/internal/model"
)

// Selection expressions handed to yt-dlp
const (
	AudioOnlySelector = "bestaudio/best"
	SocialSelector    = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
)

// Audio extraction settings for mp3 output
const (
	MP3Codec   = "mp3"
	MP3Bitrate = "320"
	MergeMP4   = "mp4"
)

// maxHeights maps quality presets to the highest accepted vertical resolution
var maxHeights = map[model.Quality]int{
	model.Quality360p:    360,
	model.Quality720p:    720,
	model.Quality1080p60: 1080,
}

// IsSupportedFormat reports whether f is a known output format
func IsSupportedFormat(f model.Format) bool {
	return f == model.FormatMP4 || f == model.FormatMP3
}

// IsSupportedQuality reports whether q is a known quality preset
func IsSupportedQuality(q model.Quality) bool {
	_, ok := maxHeights[q]
	return ok
}

// FormatSelector derives the yt-dlp selection expression for a request.
// 1080p60 asks for 60fps first, then relaxes frame rate, then resolution.
func FormatSelector(format model.Format, quality model.Quality, soundOn bool) (string, error) {
	maxH, ok := maxHeights[quality]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedQuality, quality)
	}
	if !IsSupportedFormat(format) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if format == model.FormatMP3 {
		if !soundOn {
			return "", ErrSoundOffMP3
		}
		return AudioOnlySelector, nil
	}

	if quality == model.Quality1080p60 {
		if soundOn {
			return "bestvideo[ext=mp4][height<=1080][fps>=60]+bestaudio[ext=m4a]" +
				"/bestvideo[height<=1080][fps>=60]+bestaudio" +
				"/best[ext=mp4][height<=1080][fps>=60]" +
				"/best[height<=1080]", nil
		}
		return "bestvideo[ext=mp4][height<=1080][fps>=60]" +
			"/bestvideo[height<=1080][fps>=60]" +
			"/bestvideo[height<=1080]", nil
	}

	if soundOn {
		return fmt.Sprintf(
			"bestvideo[ext=mp4][height<=%[1]d]+bestaudio[ext=m4a]/best[ext=mp4][height<=%[1]d]/best[height<=%[1]d]",
			maxH,
		), nil
	}
	return fmt.Sprintf("bestvideo[ext=mp4][height<=%[1]d]/bestvideo[height<=%[1]d]", maxH), nil
}

// fetchOptions builds downloader options for a validated request
func fetchOptions(req Request, outputTemplate, ffmpegDir string) (FetchOptions, error) {
	opts := FetchOptions{
		OutputTemplate: outputTemplate,
		FFmpegLocation: ffmpegDir,
	}

	if req.Platform != model.PlatformYouTube {
		opts.Format = SocialSelector
		opts.MergeOutputFormat = MergeMP4
		return opts, nil
	}

	selector, err := FormatSelector(req.Format, req.Quality, req.SoundOn)
	if err != nil {
		return FetchOptions{}, err
	}
	opts.Format = selector

	switch {
	case req.Format == model.FormatMP3:
		opts.ExtractAudio = true
		opts.AudioFormat = MP3Codec
		opts.AudioQuality = MP3Bitrate
	case req.Format == model.FormatMP4 && req.SoundOn:
		opts.MergeOutputFormat = MergeMP4
	}
	return opts, nil
}
