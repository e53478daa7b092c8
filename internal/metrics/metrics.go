// Package metrics derives comparable performance metrics from raw video
// counters. All functions are pure and never error: undefined ratios map to
// the unknown sentinel instead of infinity or NaN.
package metrics

// Level is a qualitative band derived from a numeric ratio.
type Level int

const (
	LevelUnknown Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelVeryHigh
)

// String returns the Korean display label used across the UI surfaces.
func (l Level) String() string {
	switch l {
	case LevelVeryHigh:
		return "매우 높음"
	case LevelHigh:
		return "높음"
	case LevelMedium:
		return "보통"
	case LevelLow:
		return "낮음"
	default:
		return "정보없음"
	}
}

// Tag returns a stable ASCII identifier for serialization.
func (l Level) Tag() string {
	switch l {
	case LevelVeryHigh:
		return "very_high"
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	default:
		return "unknown"
	}
}

// Metric is a derived ratio plus its qualitative band. A Metric is
// recomputed on demand from the owning record's counters and never cached
// beyond a single ranking pass.
type Metric struct {
	Ratio float64 `json:"ratio"`
	Level Level   `json:"level"`
}

// unknown is the sentinel for undefined ratios.
var unknown = Metric{Ratio: 0, Level: LevelUnknown}

// ViewSubscriberRatio measures views relative to the channel's subscriber
// base. A zero, absent, or negative subscriber count makes the ratio
// undefined. Bands are evaluated in descending threshold order with closed
// lower bounds.
func ViewSubscriberRatio(views, subscribers int64) Metric {
	if subscribers <= 0 || views < 0 {
		return unknown
	}

	ratio := float64(views) / float64(subscribers)

	switch {
	case ratio >= 5:
		return Metric{Ratio: ratio, Level: LevelVeryHigh}
	case ratio >= 2:
		return Metric{Ratio: ratio, Level: LevelHigh}
	case ratio >= 0.5:
		return Metric{Ratio: ratio, Level: LevelMedium}
	default:
		return Metric{Ratio: ratio, Level: LevelLow}
	}
}

// EngagementLevel measures likes relative to comments. A zero, absent, or
// negative comment count makes the ratio undefined.
func EngagementLevel(likes, comments int64) Metric {
	if comments <= 0 || likes < 0 {
		return unknown
	}

	ratio := float64(likes) / float64(comments)

	switch {
	case ratio >= 50:
		return Metric{Ratio: ratio, Level: LevelVeryHigh}
	case ratio >= 20:
		return Metric{Ratio: ratio, Level: LevelHigh}
	case ratio >= 10:
		return Metric{Ratio: ratio, Level: LevelMedium}
	default:
		return Metric{Ratio: ratio, Level: LevelLow}
	}
}

// EngagementDensity is the raw (likes+comments)/views fraction used for
// cross-video ranking. It is intentionally a separate formula from
// EngagementLevel: density ranks videos against each other while the banded
// level classifies a single video for display. Zero views yields 0.
func EngagementDensity(views, likes, comments int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(likes+comments) / float64(views)
}
