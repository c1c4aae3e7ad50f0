package video

import (
	"github.com/kapu/workout-planner-go/internal/constants"
	"github.com/kapu/workout-planner-go/internal/domain"
	"github.com/kapu/workout-planner-go/internal/util"
)

// FallbackResult links to a search-results page for the exercise with a placeholder thumbnail.
func FallbackResult(exerciseName string) domain.VideoSearchResult {
	query := exerciseName + " exercise form shorts"
	return domain.VideoSearchResult{
		Title:        exerciseName,
		ThumbnailURL: constants.YouTubeURLs.Placeholder,
		ShortsURL:    constants.YouTubeURLs.SearchResults + util.EscapeQueryComponent(query),
		Source:       domain.VideoSourceFallback,
	}
}
