package domain

// ScrapeResult is the body of a successful youtube-search proxy response.
type ScrapeResult struct {
	Thumbnail string `json:"thumbnail"`
	VideoURL  string `json:"videoUrl"`
}
