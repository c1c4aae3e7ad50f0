package domain

type VideoSource string

const (
	VideoSourceYouTubeAPI  VideoSource = "youtube_api"
	VideoSourceScrapeProxy VideoSource = "scrape_proxy"
	VideoSourceFallback    VideoSource = "fallback"
)

func (s VideoSource) String() string {
	return string(s)
}

// VideoSearchResult is produced whole by a single resolution tier.
// VideoID is empty only for the search-results placeholder.
type VideoSearchResult struct {
	VideoID      string      `json:"videoId"`
	Title        string      `json:"title"`
	ThumbnailURL string      `json:"thumbnailUrl"`
	ShortsURL    string      `json:"shortsUrl"`
	Source       VideoSource `json:"source"`
}

// IsComplete reports whether every link the plan needs is present.
func (v VideoSearchResult) IsComplete() bool {
	return v.Title != "" && v.ThumbnailURL != "" && v.ShortsURL != ""
}
