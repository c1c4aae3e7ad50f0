package video

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/kapu/workout-planner-go/internal/constants"
	"github.com/kapu/workout-planner-go/internal/domain"
	"github.com/kapu/workout-planner-go/internal/util"
)

type ResolverConfig struct {
	YouTubeAPIKey  string
	ProxyBaseURL   string
	TierTimeout    time.Duration
	HTTPClient     *http.Client
	YouTubeOptions []option.ClientOption
}

// Resolver walks the tiers in order and falls back to a search-results link. Resolve never fails.
type Resolver struct {
	tiers       []Tier
	cache       VideoCache
	tierTimeout time.Duration
	logger      *zap.Logger
}

// NewResolver builds the chain. The API tier is left out when no key is configured,
// and the proxy tier when no base URL is.
func NewResolver(ctx context.Context, cfg ResolverConfig, cache VideoCache, logger *zap.Logger) (*Resolver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tiers := make([]Tier, 0, 2)
	if cfg.YouTubeAPIKey != "" {
		yt, err := NewYouTubeTier(ctx, cfg.YouTubeAPIKey, logger, cfg.YouTubeOptions...)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, yt)
	} else {
		logger.Info("YouTube API key not set, video lookups start at the scrape proxy")
	}

	if cfg.ProxyBaseURL != "" {
		tiers = append(tiers, NewProxyTier(cfg.ProxyBaseURL, cfg.HTTPClient, logger))
	}

	return NewResolverWithTiers(tiers, cache, cfg.TierTimeout, logger), nil
}

func NewResolverWithTiers(tiers []Tier, cache VideoCache, tierTimeout time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tierTimeout <= 0 {
		tierTimeout = constants.VideoConfig.TierTimeout
	}
	return &Resolver{
		tiers:       tiers,
		cache:       cache,
		tierTimeout: tierTimeout,
		logger:      logger,
	}
}

// Sources lists the configured tiers in order, ending with the fallback.
func (r *Resolver) Sources() []domain.VideoSource {
	sources := make([]domain.VideoSource, 0, len(r.tiers)+1)
	for _, t := range r.tiers {
		sources = append(sources, t.Source())
	}
	return append(sources, domain.VideoSourceFallback)
}

func (r *Resolver) Resolve(ctx context.Context, exerciseName string) domain.VideoSearchResult {
	key := "video:" + util.NormalizeKey(exerciseName)

	if r.cache != nil {
		if cached, ok := r.cache.GetVideo(ctx, key); ok && cached.IsComplete() {
			resolutionsTotal.WithLabelValues(cached.Source.String(), "true").Inc()
			return cached
		}
	}

	for _, tier := range r.tiers {
		if ctx.Err() != nil {
			break
		}

		result, err := r.attempt(ctx, tier, exerciseName)
		if err != nil {
			tierFailuresTotal.WithLabelValues(tier.Source().String()).Inc()
			r.logger.Debug("Video tier failed, trying next",
				zap.String("exercise", exerciseName),
				zap.String("tier", tier.Source().String()),
				zap.Error(err))
			continue
		}

		if r.cache != nil {
			r.cache.SetVideo(ctx, key, result)
		}
		resolutionsTotal.WithLabelValues(result.Source.String(), "false").Inc()
		return result
	}

	resolutionsTotal.WithLabelValues(domain.VideoSourceFallback.String(), "false").Inc()
	return FallbackResult(exerciseName)
}

// attempt runs one tier under its own timeout. A panic or an incomplete result counts as a failure.
func (r *Resolver) attempt(ctx context.Context, tier Tier, exerciseName string) (result domain.VideoSearchResult, err error) {
	tierCtx, cancel := context.WithTimeout(ctx, r.tierTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		tierDuration.WithLabelValues(tier.Source().String()).Observe(time.Since(start).Seconds())
	}()

	recovered := panics.Try(func() {
		result, err = tier.Search(tierCtx, exerciseName)
	})
	if recovered != nil {
		r.logger.Error("Video tier panicked",
			zap.String("tier", tier.Source().String()),
			zap.String("exercise", exerciseName),
			zap.String("panic", fmt.Sprint(recovered.Value)))
		return domain.VideoSearchResult{}, recovered.AsError()
	}
	if err != nil {
		return domain.VideoSearchResult{}, err
	}
	if !result.IsComplete() {
		return domain.VideoSearchResult{}, fmt.Errorf("%s returned an incomplete result", tier.Source())
	}

	result.Source = tier.Source()
	return result, nil
}
