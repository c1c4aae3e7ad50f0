package prompt

type WorkoutUserData struct {
	Equipment    []string
	Requirements string
	Options      string
}

// WorkoutPrompts is the rendered system/user message pair sent to the model.
type WorkoutPrompts struct {
	System string
	User   string
}
