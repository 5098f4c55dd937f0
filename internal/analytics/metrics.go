package analytics

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrMetricsNotObject is returned when the metrics payload is not a JSON object
var ErrMetricsNotObject = errors.New("metrics must be an object")

// Metrics is the fixed set of inputs the analyzer understands. Every field is
// optional; percentages are given as 0-100 values.
type Metrics struct {
	Views             Number `json:"views"`
	Likes             Number `json:"likes"`
	Dislikes          Number `json:"dislikes"`
	CTR               Number `json:"ctr"`
	AVD               Number `json:"avd"` // average view duration, seconds
	APV               Number `json:"apv"` // average percentage viewed
	Impressions       Number `json:"impressions"`
	UniqueViewers     Number `json:"unique_viewers"`
	WatchTime         Number `json:"watch_time"`
	Shares            Number `json:"shares"`
	Comments          Number `json:"comments"`
	SubsGained        Number `json:"subs_gained"`
	SubsLost          Number `json:"subs_lost"`
	ReturningViewers  Number `json:"returning_viewers"`
	NewViewers        Number `json:"new_viewers"`
	EndScreenCTR      Number `json:"end_screen_ctr"`
	CardTeaserClicks  Number `json:"card_teaser_clicks"`
	RPM               Number `json:"rpm"`
	CPM               Number `json:"cpm"`
	PlaybackCPM       Number `json:"playback_cpm"`
	EstimatedRevenue  Number `json:"estimated_revenue"`
	AudienceRetention Number `json:"audience_retention"`
	RelativeRetention Number `json:"relative_retention"`
	SubToViewRatio    Number `json:"sub_to_view_ratio"`
	EngagementRate    Number `json:"engagement_rate"`
	DurationSeconds   Number `json:"duration_seconds"`
}

// ParseMetrics decodes a raw metrics value. Missing and empty values
// (null, false, 0, "", [] or {}) give empty metrics.
func ParseMetrics(raw json.RawMessage) (Metrics, error) {
	var m Metrics

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return m, nil
	}

	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return m, ErrMetricsNotObject
	}
	if isEmptyValue(probe) {
		return m, nil
	}
	if _, ok := probe.(map[string]any); !ok {
		return m, ErrMetricsNotObject
	}

	if err := json.Unmarshal(raw, &m); err != nil {
		return Metrics{}, ErrMetricsNotObject
	}
	return m, nil
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
