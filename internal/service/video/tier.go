package video

import (
	"context"
	"errors"

	"github.com/kapu/workout-planner-go/internal/domain"
)

// ErrAccessDenied marks a permission or quota refusal from the search API.
var ErrAccessDenied = errors.New("video search access denied")

// Tier is one strategy of the resolution chain. A tier either returns a complete result or an error;
// any error sends the resolver to the next tier.
type Tier interface {
	Source() domain.VideoSource
	Search(ctx context.Context, exerciseName string) (domain.VideoSearchResult, error)
}

// VideoCache stores results of the network tiers keyed by normalized exercise name.
type VideoCache interface {
	GetVideo(ctx context.Context, key string) (domain.VideoSearchResult, bool)
	SetVideo(ctx context.Context, key string, result domain.VideoSearchResult)
}
