package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/constants"
	"github.com/kapu/workout-planner-go/internal/domain"
	"github.com/kapu/workout-planner-go/internal/util"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

var videoIDPattern = regexp.MustCompile(`"videoId":"([^"]+)"`)

// Service scrapes the public YouTube results page for a short-form video.
// The markup is not a stable interface; only the first "videoId" occurrence is used.
type Service struct {
	httpClient *http.Client
	searchURL  string
	logger     *zap.Logger
}

// NewService builds a scraper. An empty searchURL means the public YouTube results page.
func NewService(searchURL string, client *http.Client, logger *zap.Logger) *Service {
	if searchURL == "" {
		searchURL = constants.YouTubeURLs.SearchResults
	}
	if client == nil {
		client = &http.Client{Timeout: constants.ScraperConfig.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		httpClient: client,
		searchURL:  searchURL,
		logger:     logger,
	}
}

// SearchShorts returns the first short-form match for query.
// NotFoundError when the page has no video id, UpstreamError on fetch failure.
func (s *Service) SearchShorts(ctx context.Context, query string) (domain.ScrapeResult, error) {
	target := s.searchURL + util.EscapeQueryComponent(query) + "+shorts"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.ScrapeResult{}, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", constants.ScraperConfig.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.ScrapeResult{}, apperrors.NewUpstreamError("search page request failed", "youtube_web", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ScrapeResult{}, apperrors.NewUpstreamError(
			fmt.Sprintf("search page returned status %d", resp.StatusCode), "youtube_web", resp.StatusCode, nil,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.ScraperConfig.MaxBody))
	if err != nil {
		return domain.ScrapeResult{}, apperrors.NewUpstreamError("failed to read search page", "youtube_web", resp.StatusCode, err)
	}

	videoID, ok := ExtractVideoID(body)
	if !ok {
		s.logger.Debug("No video id in search page",
			zap.String("query", query),
			zap.Int("bytes", len(body)))
		return domain.ScrapeResult{}, apperrors.NewNotFoundError("video", query)
	}

	s.logger.Debug("Scraped video id",
		zap.String("query", query),
		zap.String("video_id", videoID))

	return ResultForID(videoID), nil
}

// ResultForID builds the proxy response links for a video id.
func ResultForID(videoID string) domain.ScrapeResult {
	return domain.ScrapeResult{
		Thumbnail: fmt.Sprintf(constants.YouTubeURLs.ThumbnailFmt, videoID),
		VideoURL:  constants.YouTubeURLs.ShortsBase + videoID,
	}
}

// ExtractVideoID looks inside <script> elements first, where the initial data blob lives,
// then over the raw markup.
func ExtractVideoID(markup []byte) (string, bool) {
	var found string

	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup)); err == nil {
		doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := sel.Text()
			if !strings.Contains(text, `"videoId"`) {
				return true
			}
			if m := videoIDPattern.FindStringSubmatch(text); len(m) > 1 {
				found = m[1]
				return false
			}
			return true
		})
	}
	if found != "" {
		return found, true
	}

	if m := videoIDPattern.FindSubmatch(markup); len(m) > 1 {
		return string(m[1]), true
	}
	return "", false
}
