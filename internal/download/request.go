package download

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ytget/mediagrab/internal/model"
	"github.com/ytget/mediagrab/internal/platform"
)

// Client facing validation messages
const (
	MsgInvalidYouTubeURL   = "Invalid YouTube URL."
	MsgInvalidTikTokURL    = "Invalid TikTok URL."
	MsgInvalidInstagramURL = "Invalid Instagram URL."
	MsgInvalidFormat       = "Format must be mp4 or mp3."
	MsgInvalidQuality      = "Quality must be 360p, 720p, or 1080p60."
	MsgSoundOffMP3         = "Sound Off is not valid for MP3 downloads."
	MsgInvalidOutputDir    = "Invalid output folder path."
	MsgInvalidOutputName   = "Invalid output file name."
)

// Input is a raw download request as submitted by a client
type Input struct {
	URL        string `json:"url"`
	Format     string `json:"format"`
	Quality    string `json:"quality"`
	SoundOn    Toggle `json:"sound_on"`
	OutputDir  string `json:"output_dir"`
	OutputName string `json:"output_name"`
}

// Toggle is an optional JSON boolean. Set records that the key was present;
// an explicit null counts as false.
type Toggle struct {
	Set   bool
	Value bool
}

// ToggleOf returns a Toggle that was set to v
func ToggleOf(v bool) Toggle {
	return Toggle{Set: true, Value: v}
}

func (t *Toggle) UnmarshalJSON(data []byte) error {
	*t = Toggle{Set: true}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return json.Unmarshal(data, &t.Value)
}

// Request is a validated download request, ready to be run
type Request struct {
	JobID      string
	URL        string
	Platform   model.Platform
	Format     model.Format
	Quality    model.Quality
	SoundOn    bool
	OutputDir  string // empty means the service default
	OutputName string // sanitized stem, empty means use the job ID
}

// NewRequest validates in for the given platform. Format, quality and sound
// settings apply to YouTube only; other platforms always produce mp4.
func NewRequest(p model.Platform, in Input) (Request, error) {
	url := strings.TrimSpace(in.URL)
	req := Request{
		URL:      url,
		Platform: p,
		Format:   model.FormatMP4,
		Quality:  model.DefaultQuality,
		SoundOn:  true,
	}

	switch p {
	case model.PlatformYouTube:
		if !platform.IsValidYouTubeURL(url) {
			return Request{}, invalid(MsgInvalidYouTubeURL, nil)
		}
		if err := applyMediaOptions(&req, in); err != nil {
			return Request{}, err
		}
	case model.PlatformTikTok:
		if !platform.IsValidTikTokURL(url) {
			return Request{}, invalid(MsgInvalidTikTokURL, nil)
		}
	case model.PlatformInstagram:
		if !platform.IsValidInstagramURL(url) {
			return Request{}, invalid(MsgInvalidInstagramURL, nil)
		}
	default:
		return Request{}, invalid("Unsupported platform.", nil)
	}

	if err := applyOutputOptions(&req, in); err != nil {
		return Request{}, err
	}
	return req, nil
}

func applyMediaOptions(req *Request, in Input) error {
	if f := strings.ToLower(strings.TrimSpace(in.Format)); f != "" {
		req.Format = model.Format(f)
	}
	if q := strings.TrimSpace(in.Quality); q != "" {
		req.Quality = model.Quality(q)
	}
	if in.SoundOn.Set {
		req.SoundOn = in.SoundOn.Value
	}

	if !IsSupportedFormat(req.Format) {
		return invalid(MsgInvalidFormat, ErrUnsupportedFormat)
	}
	if !IsSupportedQuality(req.Quality) {
		return invalid(MsgInvalidQuality, ErrUnsupportedQuality)
	}
	if _, err := FormatSelector(req.Format, req.Quality, req.SoundOn); err != nil {
		return invalid(MsgSoundOffMP3, err)
	}
	return nil
}

func applyOutputOptions(req *Request, in Input) error {
	if dir := strings.TrimSpace(in.OutputDir); dir != "" {
		if strings.ContainsRune(dir, 0) {
			return invalid(MsgInvalidOutputDir, nil)
		}
		expanded, err := platform.ExpandHome(dir)
		if err != nil {
			return invalid(MsgInvalidOutputDir, err)
		}
		req.OutputDir = expanded
	}

	if name := strings.TrimSpace(in.OutputName); name != "" {
		safe, ok := platform.SanitizeBaseName(name)
		if !ok {
			return invalid(MsgInvalidOutputName, nil)
		}
		req.OutputName = safe
	}
	return nil
}
