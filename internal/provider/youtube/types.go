package youtube

// Wire types for the metadata API. Statistics arrive as decimal strings and
// may omit fields entirely (hidden subscriber counts, disabled comments);
// parsing failures degrade to absent values rather than errors.

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
}

type videoListResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID             string         `json:"id"`
	Snippet        snippet        `json:"snippet"`
	Statistics     statistics     `json:"statistics"`
	ContentDetails contentDetails `json:"contentDetails"`
}

type snippet struct {
	Title        string     `json:"title"`
	ChannelTitle string     `json:"channelTitle"`
	ChannelID    string     `json:"channelId"`
	PublishedAt  string     `json:"publishedAt"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

type thumbnails struct {
	Medium thumbnail `json:"medium"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type statistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

type contentDetails struct {
	Duration string `json:"duration"`
}

type channelListResponse struct {
	Items []channelItem `json:"items"`
}

type channelItem struct {
	ID         string            `json:"id"`
	Statistics channelStatistics `json:"statistics"`
}

type channelStatistics struct {
	SubscriberCount   string `json:"subscriberCount"`
	HiddenSubscribers bool   `json:"hiddenSubscriberCount"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
