package video

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/kapu/workout-planner-go/internal/constants"
	"github.com/kapu/workout-planner-go/internal/domain"
	"github.com/kapu/workout-planner-go/internal/util"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// YouTubeTier searches the YouTube Data API for a short-form demonstration video.
// It tracks the daily quota locally and stops calling the API once the quota is spent or refused.
type YouTubeTier struct {
	service    *youtube.Service
	logger     *zap.Logger
	now        func() time.Time
	quotaMu    sync.Mutex
	quotaUsed  int
	quotaReset time.Time
	exhausted  bool
}

func NewYouTubeTier(ctx context.Context, apiKey string, logger *zap.Logger, opts ...option.ClientOption) (*YouTubeTier, error) {
	if apiKey == "" {
		return nil, apperrors.NewConfigurationError("YouTube API key is required", "YOUTUBE_API_KEY")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	yt := &YouTubeTier{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
	yt.quotaReset = util.NextPacificMidnight(yt.now())

	logger.Info("YouTube search tier initialized",
		zap.String("api_key", util.MaskSecret(apiKey, 6)),
		zap.Time("quotaReset", yt.quotaReset))

	return yt, nil
}

func (yt *YouTubeTier) Source() domain.VideoSource {
	return domain.VideoSourceYouTubeAPI
}

func (yt *YouTubeTier) Search(ctx context.Context, exerciseName string) (domain.VideoSearchResult, error) {
	cost := constants.QuotaConfig.SearchCost
	if err := yt.checkQuota(cost); err != nil {
		return domain.VideoSearchResult{}, err
	}

	call := yt.service.Search.List([]string{"snippet"}).
		Q(exerciseName + " exercise form #shorts").
		MaxResults(1).
		Type("video").
		VideoDuration("short").
		VideoEmbeddable("true").
		Order("rating")

	response, err := call.Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusTooManyRequests) {
			yt.markExhausted()
			yt.logger.Warn("YouTube API refused search",
				zap.String("exercise", exerciseName),
				zap.Int("status", apiErr.Code))
			return domain.VideoSearchResult{}, fmt.Errorf("%w: %w", ErrAccessDenied, err)
		}
		status := 0
		if apiErr != nil {
			status = apiErr.Code
		}
		return domain.VideoSearchResult{}, apperrors.NewUpstreamError("YouTube search failed", "youtube", status, err)
	}

	yt.consumeQuota(cost)

	if len(response.Items) == 0 {
		return domain.VideoSearchResult{}, apperrors.NewNotFoundError("video", exerciseName)
	}

	item := response.Items[0]
	if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
		return domain.VideoSearchResult{}, apperrors.NewNotFoundError("video", exerciseName)
	}

	videoID := item.Id.VideoId
	return domain.VideoSearchResult{
		VideoID:      videoID,
		Title:        item.Snippet.Title,
		ThumbnailURL: extractThumbnail(item.Snippet.Thumbnails),
		ShortsURL:    constants.YouTubeURLs.ShortsBase + videoID,
		Source:       domain.VideoSourceYouTubeAPI,
	}, nil
}

// extractThumbnail prefers the high resolution thumbnail.
func extractThumbnail(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}

	for _, t := range []*youtube.Thumbnail{thumbnails.High, thumbnails.Medium, thumbnails.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}

	return ""
}

func (yt *YouTubeTier) resetIfDue() {
	if yt.now().After(yt.quotaReset) {
		yt.quotaUsed = 0
		yt.exhausted = false
		yt.quotaReset = util.NextPacificMidnight(yt.now())
		yt.logger.Info("YouTube API quota auto-reset",
			zap.Time("nextReset", yt.quotaReset))
	}
}

func (yt *YouTubeTier) checkQuota(cost int) error {
	yt.quotaMu.Lock()
	defer yt.quotaMu.Unlock()

	yt.resetIfDue()

	limit := constants.QuotaConfig.DailyLimit - constants.QuotaConfig.SafetyMargin
	if yt.exhausted || yt.quotaUsed+cost > limit {
		return &QuotaExceededError{
			Used:      yt.quotaUsed,
			Limit:     constants.QuotaConfig.DailyLimit,
			Requested: cost,
			ResetTime: yt.quotaReset,
		}
	}

	return nil
}

func (yt *YouTubeTier) consumeQuota(cost int) {
	yt.quotaMu.Lock()
	defer yt.quotaMu.Unlock()

	yt.quotaUsed += cost
	remaining := constants.QuotaConfig.DailyLimit - yt.quotaUsed

	yt.logger.Debug("YouTube API quota consumed",
		zap.Int("cost", cost),
		zap.Int("used", yt.quotaUsed),
		zap.Int("remaining", remaining))

	if remaining < constants.QuotaConfig.SafetyMargin {
		yt.logger.Warn("YouTube API quota running low",
			zap.Int("remaining", remaining),
			zap.Time("resetTime", yt.quotaReset))
	}
}

func (yt *YouTubeTier) markExhausted() {
	yt.quotaMu.Lock()
	defer yt.quotaMu.Unlock()

	yt.exhausted = true
}

// GetQuotaStatus reports local quota accounting.
func (yt *YouTubeTier) GetQuotaStatus() (used int, remaining int, resetTime time.Time) {
	yt.quotaMu.Lock()
	defer yt.quotaMu.Unlock()

	yt.resetIfDue()
	if yt.exhausted {
		return yt.quotaUsed, 0, yt.quotaReset
	}
	return yt.quotaUsed, constants.QuotaConfig.DailyLimit - yt.quotaUsed, yt.quotaReset
}

type QuotaExceededError struct {
	Used      int
	Limit     int
	Requested int
	ResetTime time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("YouTube API quota exceeded: used %d/%d (requested %d more), resets at %s",
		e.Used, e.Limit, e.Requested, e.ResetTime.Format(time.RFC3339))
}

// Is lets errors.Is(err, ErrAccessDenied) match a spent quota.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrAccessDenied
}
