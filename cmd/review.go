package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/rappel/internal/app"
	"github.com/abhisek/rappel/internal/checkpoint"
	"github.com/abhisek/rappel/internal/deck"
	"github.com/abhisek/rappel/internal/journal"
	"github.com/abhisek/rappel/internal/media"
	"github.com/abhisek/rappel/internal/queue"
	"github.com/abhisek/rappel/internal/screen"
	"github.com/abhisek/rappel/internal/screens/resume"
	"github.com/abhisek/rappel/internal/screens/review"
	"github.com/abhisek/rappel/internal/session"
	"github.com/abhisek/rappel/internal/store"
)

const (
	minDate = "0001-01-01"
	maxDate = "9999-12-31"
)

var (
	errNoEntries    = errors.New("no entries to review")
	errNoCheckpoint = errors.New("no saved session to resume")
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Quiz yourself on stored entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, journal.ModeQuiz)
	},
}

var reviseCmd = &cobra.Command{
	Use:   "revise",
	Short: "Read through stored entries without answering",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, journal.ModeRevise)
	},
}

func init() {
	addSourceFlags(reviewCmd)
	addSourceFlags(reviseCmd)
	reviseCmd.Flags().Bool("autoplay", false, "Advance to the next entry when its media finishes")
}

func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("from", "", "Only entries created on or after this date (YYYY-MM-DD)")
	f.String("to", "", "Only entries created on or before this date (YYYY-MM-DD)")
	f.Bool("favorites", false, "Only favorite entries")
	f.String("file", "", "Load entries from a saved session file")
	f.Bool("resume", false, "Resume the saved session without asking")
	cmd.MarkFlagsMutuallyExclusive("favorites", "file", "resume")
	cmd.MarkFlagsMutuallyExclusive("from", "favorites")
	cmd.MarkFlagsMutuallyExclusive("to", "favorites")
}

// sourceFlags selects where a session's entries come from.
type sourceFlags struct {
	from      string
	to        string
	favorites bool
	file      string
	resume    bool
	autoplay  bool
}

func readSourceFlags(cmd *cobra.Command) sourceFlags {
	var sf sourceFlags
	flags := cmd.Flags()
	sf.from, _ = flags.GetString("from")
	sf.to, _ = flags.GetString("to")
	sf.favorites, _ = flags.GetBool("favorites")
	sf.file, _ = flags.GetString("file")
	sf.resume, _ = flags.GetBool("resume")
	if flags.Lookup("autoplay") != nil {
		sf.autoplay, _ = flags.GetBool("autoplay")
	}
	return sf
}

// runSession pulls entries, builds the review screen and runs the TUI.
// A saved checkpoint is offered through the resume prompt unless
// --resume or --file decides the source.
func runSession(cmd *cobra.Command, mode journal.Mode) error {
	ctx := cmd.Context()
	sf := readSourceFlags(cmd)

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	st, err := e.openStore()
	if err != nil {
		return err
	}

	cp := checkpoint.New[deck.Entry](e.cfg.CheckpointPath, checkpoint.ReviewSchema)
	cfg := session.Config{
		Mode:       mode,
		Checkpoint: cp,
		Reports:    e.errorLog(),
		Favorites:  e.favorites(),
		Stats:      e.usageStats(),
		Logger:     e.logger,
	}
	player := media.NewPlayer(e.cfg.PlayerCommand, e.logger)

	load := func(resumed bool) (screen.Screen, error) {
		var (
			sess *session.Session
			err  error
		)
		switch {
		case sf.file != "":
			sess, err = sessionFromFile(sf.file, cfg)
		case resumed:
			sess, err = resumeSession(ctx, st, cp, cfg)
		default:
			sess, err = freshSession(ctx, e.favorites(), st, sf, cfg)
		}
		if err != nil {
			return nil, err
		}
		return review.New(review.Options{
			Session:     sess,
			Fetcher:     st,
			Player:      player,
			SuccessCue:  existing(e.cfg.Cues.Success),
			FailureCue:  existing(e.cfg.Cues.Failure),
			CompleteCue: existing(e.cfg.Cues.Complete),
			Autoplay:    sf.autoplay,
			Logger:      e.logger,
		}), nil
	}

	var root screen.Screen
	switch {
	case sf.file == "" && !sf.resume && cp.Exists():
		root = resume.New("Resume previous session?", checkpointDetail(cp), load)
	default:
		root, err = load(sf.resume)
		if err != nil {
			return err
		}
	}

	defer player.Stop()
	return app.Run(app.Options{Root: root, Logger: e.logger})
}

// freshSession pulls entries from the store according to sf.
func freshSession(ctx context.Context, favs *journal.Favorites, st *store.Store, sf sourceFlags, cfg session.Config) (*session.Session, error) {
	var (
		items []deck.Entry
		err   error
	)
	switch {
	case sf.favorites:
		items, err = favoriteEntries(ctx, favs, st)
	case sf.from != "" || sf.to != "":
		items, err = st.FetchByDateRange(ctx, first(sf.from, minDate), first(sf.to, maxDate))
	default:
		items, err = st.FetchAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errNoEntries
	}
	return session.New(items, cfg), nil
}

// favoriteEntries resolves favorite uuids to stored entries. Uuids with
// no stored record are skipped with a warning.
func favoriteEntries(ctx context.Context, favs *journal.Favorites, st *store.Store) ([]deck.Entry, error) {
	ids, err := favs.List()
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	items, err := st.FetchByUUIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(items))
	for _, it := range items {
		found[it.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			fmt.Fprintf(os.Stderr, "warning: favorite %s has no stored record, skipping\n", id)
		}
	}
	return items, nil
}

// resumeSession restores the checkpoint and refreshes its entries from the
// store. Entries deleted since the save are dropped and the cursor moves
// to the next surviving entry.
func resumeSession(ctx context.Context, st *store.Store, cp *checkpoint.Store[deck.Entry], cfg session.Config) (*session.Session, error) {
	snap, ok, err := cp.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoCheckpoint
	}
	ids := make([]string, len(snap.Entries))
	for i, it := range snap.Entries {
		ids[i] = it.ID
	}
	fresh, err := st.FetchByUUIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(fresh) == 0 {
		return nil, errNoEntries
	}
	cursor := queue.RemapCursor(snap.Entries, fresh, snap.CurrentIndex)
	return session.Resume(fresh, cursor, cfg), nil
}

// sessionFromFile starts a session from a saved session file. Progress is
// checkpointed to the standard location, not back into the file.
func sessionFromFile(path string, cfg session.Config) (*session.Session, error) {
	snap, ok, err := checkpoint.New[deck.Entry](path, checkpoint.ReviewSchema).Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("session file %s: %w", path, os.ErrNotExist)
	}
	if len(snap.Entries) == 0 {
		return nil, errNoEntries
	}
	return session.Resume(snap.Entries, snap.CurrentIndex, cfg), nil
}

func checkpointDetail(cp *checkpoint.Store[deck.Entry]) string {
	snap, ok, err := cp.Load()
	if err != nil {
		return "The saved session could not be read: " + err.Error()
	}
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d entries left, at entry %d.", len(snap.Entries), snap.CurrentIndex+1)
}

// existing returns path when it names a readable file, "" otherwise.
func existing(path string) string {
	if path == "" || media.Check(path) != nil {
		return ""
	}
	return path
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
