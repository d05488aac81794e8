package fill

import "github.com/abhisek/rappel/internal/authoring"

// commitDoneMsg carries the result of a background commit.
type commitDoneMsg struct {
	result authoring.CommitResult
	err    error
}

// playbackEndedMsg is sent when a preview playback returns.
type playbackEndedMsg struct {
	err error
}
