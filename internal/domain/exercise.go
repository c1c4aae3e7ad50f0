package domain

type Exercise struct {
	Name            string   `json:"name"`
	MusclesTargeted []string `json:"musclesTargeted"`
	Equipment       []string `json:"equipment"`
	Description     string   `json:"description"`
	Sets            int      `json:"sets"`
	Reps            string   `json:"reps"` // "12" or "30 seconds"
	VideoURL        string   `json:"videoUrl,omitempty"`
	ThumbnailURL    string   `json:"thumbnailUrl,omitempty"`
}

// WithVideo returns a copy of the exercise carrying the resolved video links.
func (e Exercise) WithVideo(video VideoSearchResult) Exercise {
	e.MusclesTargeted = append([]string(nil), e.MusclesTargeted...)
	e.Equipment = append([]string(nil), e.Equipment...)
	e.VideoURL = video.ShortsURL
	e.ThumbnailURL = video.ThumbnailURL
	return e
}

// WorkoutResponse is a named, ordered plan.
type WorkoutResponse struct {
	WorkoutDay string     `json:"workoutDay"`
	Exercises  []Exercise `json:"exercises"`
}

// ExerciseNames returns exercise names in plan order.
func (w *WorkoutResponse) ExerciseNames() []string {
	if w == nil {
		return nil
	}
	names := make([]string, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		names = append(names, ex.Name)
	}
	return names
}
