// Package rank provides the deterministic multi-field sort over video
// record batches.
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/vidpulse/vidpulse/internal/video"
)

// Field identifies a sortable column.
type Field string

const (
	FieldTitle               Field = "title"
	FieldChannelTitle        Field = "channelTitle"
	FieldSubscriberCount     Field = "subscriberCount"
	FieldPublishedAt         Field = "publishedAt"
	FieldDuration            Field = "duration"
	FieldViewCount           Field = "viewCount"
	FieldLikeCount           Field = "likeCount"
	FieldCommentCount        Field = "commentCount"
	FieldViewSubscriberRatio Field = "viewSubscriberRatio"
	FieldEngagementRate      Field = "engagementRate"
	FieldType                Field = "type"
)

// Direction is the requested sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseField maps a field name to its Field, reporting whether the name is
// supported.
func ParseField(name string) (Field, bool) {
	switch Field(name) {
	case FieldTitle, FieldChannelTitle, FieldSubscriberCount, FieldPublishedAt,
		FieldDuration, FieldViewCount, FieldLikeCount, FieldCommentCount,
		FieldViewSubscriberRatio, FieldEngagementRate, FieldType:
		return Field(name), true
	default:
		return "", false
	}
}

// ParseDirection maps a direction name, defaulting to descending.
func ParseDirection(name string) Direction {
	if Direction(name) == Ascending {
		return Ascending
	}
	return Descending
}

// Sort returns a new slice with the records reordered by the requested field
// and direction. The sort is stable: ties keep the original batch order.
// Records whose computed key is NaN sort after records with valid keys in
// both directions; two NaN keys compare equal. Unknown fields leave the
// batch order unchanged. Sort never errors.
func Sort(records []video.Record, field Field, dir Direction) []video.Record {
	out := make([]video.Record, len(records))
	copy(out, records)

	switch {
	case field == FieldTitle || field == FieldChannelTitle:
		sortByText(out, field, dir)
	default:
		if _, ok := ParseField(string(field)); ok {
			sortByNumber(out, field, dir)
		}
	}
	return out
}

func sortByText(records []video.Record, field Field, dir Direction) {
	keys := make([]string, len(records))
	for i, r := range records {
		if field == FieldChannelTitle {
			keys[i] = strings.ToLower(r.ChannelTitle)
		} else {
			keys[i] = strings.ToLower(r.Title)
		}
	}

	reorder(records, func(i, j int) bool {
		if dir == Ascending {
			return keys[i] < keys[j]
		}
		return keys[i] > keys[j]
	})
}

func sortByNumber(records []video.Record, field Field, dir Direction) {
	keys := make([]float64, len(records))
	for i, r := range records {
		keys[i] = numericKey(r, field)
	}

	reorder(records, func(i, j int) bool {
		a, b := keys[i], keys[j]

		// A NaN key always sinks below a valid key, and two NaN keys
		// tie. This is the one place ordering is not reversed by
		// flipping direction.
		aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
		if aNaN || bNaN {
			return !aNaN && bNaN
		}

		if dir == Ascending {
			return a < b
		}
		return a > b
	})
}

// reorder stably sorts records in place using less over original indices.
func reorder(records []video.Record, less func(i, j int) bool) {
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(i, j int) bool {
		return less(idx[i], idx[j])
	})

	sorted := make([]video.Record, len(records))
	for i, from := range idx {
		sorted[i] = records[from]
	}
	copy(records, sorted)
}

// numericKey extracts the comparable value for a numeric field. Absent or
// undefined inputs degrade to NaN except where a specific default applies.
func numericKey(r video.Record, field Field) float64 {
	switch field {
	case FieldSubscriberCount:
		if !r.HasSubscriberCount {
			return math.NaN()
		}
		return float64(r.SubscriberCount)
	case FieldPublishedAt:
		return float64(r.PublishedAt.UnixMilli())
	case FieldDuration:
		return float64(r.DurationSeconds)
	case FieldViewCount:
		return float64(r.ViewCount)
	case FieldLikeCount:
		return float64(r.LikeCount)
	case FieldCommentCount:
		// Missing comment counts rank as zero for this column.
		return float64(r.CommentCountOrZero())
	case FieldViewSubscriberRatio:
		if !r.HasSubscriberCount || r.SubscriberCount <= 0 {
			return math.NaN()
		}
		return float64(r.ViewCount) / float64(r.SubscriberCount)
	case FieldEngagementRate:
		// Zero or missing comment counts divide by one here, unlike
		// metrics.EngagementLevel which reports unknown.
		comments := r.CommentCountOrZero()
		if comments <= 0 {
			comments = 1
		}
		return float64(r.LikeCount) / float64(comments)
	case FieldType:
		// Shorts sort before long-form when ascending.
		if r.IsShort() {
			return 0
		}
		return 1
	default:
		return math.NaN()
	}
}
