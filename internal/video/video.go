// Package video defines the immutable metadata record shared by every
// ranking and recommendation component.
package video

import "time"

// ShortMaxSeconds is the duration ceiling for Shorts classification.
const ShortMaxSeconds = 60

// Record is one fetched video plus its engagement counters and the owning
// channel's subscriber count. Records are constructed once per fetch
// response and never mutated; ranking and filtering always produce new
// slices.
type Record struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title"`
	ChannelID    string    `json:"channel_id"`
	PublishedAt  time.Time `json:"published_at"`
	ThumbnailURL string    `json:"thumbnail_url"`

	// DurationSeconds is the content length in whole seconds.
	DurationSeconds int64 `json:"duration_seconds"`

	ViewCount int64 `json:"view_count"`
	LikeCount int64 `json:"like_count"`

	// CommentCount is only meaningful when HasCommentCount is true. The
	// statistics API omits the field for videos with comments disabled.
	CommentCount    int64 `json:"comment_count"`
	HasCommentCount bool  `json:"has_comment_count"`

	// SubscriberCount is only meaningful when HasSubscriberCount is true.
	// Channels can hide their subscriber totals.
	SubscriberCount    int64 `json:"subscriber_count"`
	HasSubscriberCount bool  `json:"has_subscriber_count"`
}

// IsShort reports whether the record is classified as a Short.
func (r Record) IsShort() bool {
	return r.DurationSeconds <= ShortMaxSeconds
}

// CommentCountOrZero returns the comment count, defaulting an unknown count
// to zero.
func (r Record) CommentCountOrZero() int64 {
	if !r.HasCommentCount {
		return 0
	}
	return r.CommentCount
}

// URL returns the public watch URL for the record.
func (r Record) URL() string {
	return "https://www.youtube.com/watch?v=" + r.ID
}

// ChannelURL returns the public URL of the owning channel.
func (r Record) ChannelURL() string {
	return "https://www.youtube.com/channel/" + r.ChannelID
}
