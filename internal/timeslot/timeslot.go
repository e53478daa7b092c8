// Package timeslot maps the hour of day to a recommended trending category.
package timeslot

import "time"

// Slot is the category recommendation for a window of the day.
type Slot struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Category is one entry of the fixed trending category table.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Categories is the fixed trending category table, IDs matching the video
// metadata provider's category taxonomy.
var Categories = []Category{
	{ID: "all", Name: "🔥 전체 급상승"},
	{ID: "10", Name: "🎵 음악"},
	{ID: "20", Name: "🎮 게임"},
	{ID: "24", Name: "📺 엔터테인먼트"},
	{ID: "25", Name: "📰 뉴스/정치"},
	{ID: "26", Name: "🍳 요리/라이프"},
	{ID: "22", Name: "👥 인물/블로그"},
	{ID: "27", Name: "🎓 교육"},
}

// At maps an hour of day (0-23) to its recommended category. The table is
// kept exactly as the product defined it: 22:00-02:00 is the music window
// and everything the ranges leave uncovered (02:00-06:00) falls through to
// gaming. Do not normalize the seam at 02:00.
func At(hour int) Slot {
	switch {
	case hour >= 6 && hour < 9:
		return Slot{
			CategoryID:  "25",
			Name:        "뉴스/정치",
			Description: "☀️ 아침 시간대 - 하루를 시작하는 뉴스와 정보",
		}
	case hour >= 9 && hour < 12:
		return Slot{
			CategoryID:  "27",
			Name:        "교육",
			Description: "📚 오전 시간대 - 학습과 자기계발 콘텐츠",
		}
	case hour >= 12 && hour < 14:
		return Slot{
			CategoryID:  "26",
			Name:        "요리/라이프",
			Description: "🍽️ 점심 시간대 - 요리와 라이프스타일",
		}
	case hour >= 14 && hour < 18:
		return Slot{
			CategoryID:  "22",
			Name:        "인물/블로그",
			Description: "💼 오후 시간대 - 인물과 브이로그",
		}
	case hour >= 18 && hour < 22:
		return Slot{
			CategoryID:  "24",
			Name:        "엔터테인먼트",
			Description: "🎭 저녁 시간대 - 엔터테인먼트와 휴식",
		}
	case hour >= 22 || hour < 2:
		return Slot{
			CategoryID:  "10",
			Name:        "음악",
			Description: "🌙 심야 시간대 - 감성적인 음악",
		}
	default:
		return Slot{
			CategoryID:  "20",
			Name:        "게임",
			Description: "🌌 새벽 시간대 - 게임과 오락",
		}
	}
}

// Now returns the slot for the wall-clock hour in the local timezone.
func Now(clock func() time.Time) Slot {
	if clock == nil {
		clock = time.Now
	}
	return At(clock().Hour())
}
