package media

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"sync"
)

// DefaultPlayer plays audio without a window and exits at the end.
var DefaultPlayer = []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}

// Player runs one external playback process at a time. Starting a new
// playback stops the current one.
type Player struct {
	argv   []string
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPlayer returns a player using argv, with the media path appended. An
// empty argv selects DefaultPlayer.
func NewPlayer(argv []string, logger *slog.Logger) *Player {
	if len(argv) == 0 {
		argv = DefaultPlayer
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Player{argv: argv, logger: logger}
}

// Play blocks until playback of path ends. It returns nil when the media
// played to the end and ErrStopped when Stop, a newer Play or ctx ended it.
func (p *Player) Play(ctx context.Context, path string) error {
	if err := Check(path); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})

	p.mu.Lock()
	prevCancel, prevDone := p.cancel, p.done
	p.cancel, p.done = cancel, done
	p.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}

	args := append(append([]string{}, p.argv[1:]...), path)
	cmd := exec.CommandContext(ctx, p.argv[0], args...)
	if err := cmd.Start(); err != nil {
		p.release(done)
		if ctx.Err() != nil {
			return ErrStopped
		}
		return err
	}

	err := cmd.Wait()
	p.release(done)

	if ctx.Err() != nil {
		return ErrStopped
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		p.logger.Warn("player exited with error", "path", path, "err", err)
	}
	return err
}

func (p *Player) release(done chan struct{}) {
	close(done)
	p.mu.Lock()
	if p.done == done {
		p.cancel, p.done = nil, nil
	}
	p.mu.Unlock()
}

// Stop ends the current playback, if any, and waits for it to exit.
func (p *Player) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Playing reports whether a playback process is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done != nil
}
