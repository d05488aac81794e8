package review

import "time"

const (
	// revealDuration is how long skipped answers stay on screen.
	revealDuration = time.Second
	// noticeDuration is how long a transient notice stays on screen.
	noticeDuration = time.Second
	// replayDelay separates the failure cue from the media replay.
	replayDelay = 800 * time.Millisecond
)

// playbackEndedMsg is sent when a Play call returns.
type playbackEndedMsg struct {
	gen   int
	entry bool
	err   error
}

// replayMsg asks for the entry media to be replayed after a failure cue.
type replayMsg struct {
	gen  int
	path string
}

// revealDoneMsg ends the reveal that follows a skip.
type revealDoneMsg struct{}

// noticeDoneMsg clears the transient notice with the given id.
type noticeDoneMsg struct {
	id int
}
