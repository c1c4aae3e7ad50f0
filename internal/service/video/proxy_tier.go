package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/constants"
	"github.com/kapu/workout-planner-go/internal/domain"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// ProxyTier asks the youtube-search scrape proxy for the first short-form match.
type ProxyTier struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewProxyTier(baseURL string, client *http.Client, logger *zap.Logger) *ProxyTier {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProxyTier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

func (p *ProxyTier) Source() domain.VideoSource {
	return domain.VideoSourceScrapeProxy
}

func (p *ProxyTier) Search(ctx context.Context, exerciseName string) (domain.VideoSearchResult, error) {
	params := url.Values{}
	params.Set("q", exerciseName+" exercise form")
	endpoint := p.baseURL + "/api/youtube-search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.VideoSearchResult{}, fmt.Errorf("build proxy request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.VideoSearchResult{}, apperrors.NewUpstreamError("scrape proxy request failed", "scrape_proxy", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.VideoSearchResult{}, apperrors.NewNotFoundError("video", exerciseName)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.VideoSearchResult{}, apperrors.NewUpstreamError(
			fmt.Sprintf("scrape proxy returned status %d", resp.StatusCode), "scrape_proxy", resp.StatusCode, nil,
		)
	}

	var body domain.ScrapeResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return domain.VideoSearchResult{}, apperrors.NewUpstreamError("invalid scrape proxy response", "scrape_proxy", resp.StatusCode, err)
	}
	if body.Thumbnail == "" || body.VideoURL == "" {
		return domain.VideoSearchResult{}, apperrors.NewUpstreamError("incomplete scrape proxy response", "scrape_proxy", resp.StatusCode, nil)
	}

	return domain.VideoSearchResult{
		VideoID:      videoIDFromURL(body.VideoURL),
		Title:        exerciseName,
		ThumbnailURL: body.Thumbnail,
		ShortsURL:    body.VideoURL,
		Source:       domain.VideoSourceScrapeProxy,
	}, nil
}

func videoIDFromURL(videoURL string) string {
	if id, ok := strings.CutPrefix(videoURL, constants.YouTubeURLs.ShortsBase); ok {
		return id
	}
	if u, err := url.Parse(videoURL); err == nil {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		return segments[len(segments)-1]
	}
	return ""
}
