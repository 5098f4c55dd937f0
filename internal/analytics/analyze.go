package analytics

// Scores awarded per metric
const (
	ScoreGood = 95
	ScoreOK   = 75
	ScoreLow  = 45
)

// Rating thresholds
const (
	ExcellentFrom = 90
	GoodFrom      = 70
)

// Ratings attached to each metric result
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingNeedsWork = "Needs Work"
	RatingNoData    = "No data"
)

// Overall verdicts
const (
	VerdictStrong        = "Strong performance"
	VerdictHealthy       = "Healthy, but with optimization room"
	VerdictUnderperforms = "Underperforming"

	strongFrom  = 85
	healthyFrom = 70
)

// MaxTips caps the number of tips in a report
const MaxTips = 12

// HealthyTip is the only tip when no metric needs work
const HealthyTip = "Metrics look healthy. Keep testing titles, thumbnails, and first-30-second hooks."

// Notes is attached to every report
var Notes = []string{
	"Most advanced metrics (CTR, AVD, APV, retention, revenue, RPM/CPM) are YouTube Studio analytics inputs.",
	"Public fetch can auto-fill only limited fields like views/likes/comments/title/duration.",
}

// Result is the score of a single metric. Score is nil when the input was
// missing.
type Result struct {
	Name   string   `json:"name"`
	Value  *float64 `json:"value"`
	Score  *int     `json:"score"`
	Rating string   `json:"rating"`
}

// Report is the outcome of Analyze
type Report struct {
	OverallScore int      `json:"overall_score"`
	Verdict      string   `json:"verdict"`
	Metrics      []Result `json:"metrics"`
	Tips         []string `json:"tips"`
	Notes        []string `json:"notes"`
}

// threshold scores a value: at or past good earns ScoreGood, at or past ok
// earns ScoreOK. lower flips the comparison for metrics where less is better.
type threshold struct {
	good, ok float64
	lower    bool
}

func higher(good, ok float64) threshold { return threshold{good: good, ok: ok} }
func lower(good, ok float64) threshold  { return threshold{good: good, ok: ok, lower: true} }

func (t threshold) score(v float64) int {
	meets := func(limit float64) bool {
		if t.lower {
			return v <= limit
		}
		return v >= limit
	}
	switch {
	case meets(t.good):
		return ScoreGood
	case meets(t.ok):
		return ScoreOK
	}
	return ScoreLow
}

type check struct {
	name  string
	value Number
	limit threshold
	tip   string
}

// Analyze scores m, derives the missing ratios it can and collects a tip for
// every metric that needs work.
func Analyze(m Metrics) Report {
	derive(&m)

	checks := []check{
		{"CTR", m.CTR, higher(6.0, 3.5), "Low CTR: test 2-3 stronger title/thumbnail combinations with clearer promise."},
		{"AVD (sec)", m.AVD, higher(240, 90), "Low AVD: tighten first 30 seconds and remove slow segments."},
		{"APV (%)", m.APV, higher(45, 30), "Low APV: improve pacing and set up stronger open loops."},
		{"Engagement Rate (%)", m.EngagementRate, higher(4.0, 2.0), "Low engagement: ask a specific comment question and add a stronger CTA."},
		{"Audience Retention (%)", m.AudienceRetention, higher(45, 30), "Low retention: inspect drop-off timestamps and trim weak sections."},
		{"Relative Retention (%)", m.RelativeRetention, higher(100, 80), "Relative retention is below peers: tighten storytelling and add pattern interrupts."},
		{"Sub-to-View Ratio (%)", m.SubToViewRatio, higher(1.0, 0.3), "Low subscriber conversion: explicitly state why viewers should subscribe."},
		{"End Screen CTR (%)", m.EndScreenCTR, higher(1.0, 0.5), "Low end-screen CTR: simplify to one clear next-video recommendation."},
		{"Shares", m.Shares, higher(50, 10), "Low shares: add practical takeaways people can send to others."},
		{"Comments", m.Comments, higher(25, 5), "Low comments: pin a polarizing or specific question."},
		{"Subscribers Gained", m.SubsGained, higher(20, 5), "Few subscribers gained: clarify channel value proposition in intro and outro."},
		{"Subscribers Lost", m.SubsLost, lower(5, 20), "High subscriber loss: align content topic with audience expectations."},
		{"Returning Viewers", m.ReturningViewers, higher(1000, 200), "Low returning viewers: publish consistent series and recurring formats."},
		{"New Viewers", m.NewViewers, higher(1000, 200), "Low new viewers: improve search intent alignment and topic selection."},
		{"Card Teaser Clicks", m.CardTeaserClicks, higher(30, 8), "Low card clicks: place cards at high-retention moments."},
		{"RPM", m.RPM, higher(4.0, 1.5), "Low RPM: target higher-intent topics and optimize audience geography."},
		{"CPM", m.CPM, higher(8.0, 3.0), "Low CPM: adjust content niche toward stronger advertiser demand."},
		{"Playback-based CPM", m.PlaybackCPM, higher(8.0, 3.0), "Low playback CPM: improve ad-friendly pacing and topic fit."},
		{"Estimated Revenue", m.EstimatedRevenue, higher(100, 20), "Low revenue: focus on videos with stronger retention and ad suitability."},
	}

	// ratios that only appear when both of their inputs are known
	if m.Views.Valid && m.Impressions.Valid && m.Impressions.Value > 0 {
		checks = append(checks, check{
			"View/Impression Ratio (%)",
			Of(m.Views.Value / m.Impressions.Value * 100),
			higher(6.0, 3.0),
			"Low views from impressions: test new packaging (title/thumbnail) and improve hook delivery.",
		})
	}
	if m.Likes.Valid && m.Dislikes.Valid && m.Likes.Value+m.Dislikes.Value > 0 {
		checks = append(checks, check{
			"Like Ratio (%)",
			Of(m.Likes.Value / (m.Likes.Value + m.Dislikes.Value) * 100),
			higher(95, 85),
			"Low like ratio: clarify expectations in title and deliver on promise sooner.",
		})
	}

	report := Report{
		Metrics: make([]Result, 0, len(checks)),
		Tips:    []string{},
		Notes:   append([]string(nil), Notes...),
	}

	total, scored := 0, 0
	for _, c := range checks {
		if !c.value.Valid {
			report.Metrics = append(report.Metrics, Result{Name: c.name, Rating: RatingNoData})
			continue
		}
		score := c.limit.score(c.value.Value)
		report.Metrics = append(report.Metrics, Result{
			Name:   c.name,
			Value:  c.value.Float(),
			Score:  &score,
			Rating: rating(score),
		})
		total += score
		scored++
		if score < GoodFrom {
			report.Tips = append(report.Tips, c.tip)
		}
	}

	if scored > 0 {
		report.OverallScore = total / scored
	}
	report.Verdict = verdict(report.OverallScore)

	if len(report.Tips) == 0 {
		report.Tips = append(report.Tips, HealthyTip)
	}
	if len(report.Tips) > MaxTips {
		report.Tips = report.Tips[:MaxTips]
	}
	return report
}

// derive fills engagement rate, sub-to-view ratio and APV when they were not
// supplied but can be computed from other inputs.
func derive(m *Metrics) {
	views := m.Views.Value
	if m.Views.Valid && views > 0 {
		if !m.EngagementRate.Valid {
			interactions := m.Likes.Value + m.Comments.Value + m.Shares.Value
			m.EngagementRate = Of(interactions / views * 100)
		}
		if !m.SubToViewRatio.Valid {
			m.SubToViewRatio = Of(m.SubsGained.Value / views * 100)
		}
	}

	if !m.APV.Valid && m.AVD.Valid && m.DurationSeconds.Valid && m.DurationSeconds.Value > 0 {
		m.APV = Of(m.AVD.Value / m.DurationSeconds.Value * 100)
	}
}

func rating(score int) string {
	switch {
	case score >= ExcellentFrom:
		return RatingExcellent
	case score >= GoodFrom:
		return RatingGood
	}
	return RatingNeedsWork
}

func verdict(overall int) string {
	switch {
	case overall >= strongFrom:
		return VerdictStrong
	case overall >= healthyFrom:
		return VerdictHealthy
	}
	return VerdictUnderperforms
}
