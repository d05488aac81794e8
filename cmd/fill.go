package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/rappel/internal/app"
	"github.com/abhisek/rappel/internal/authoring"
	"github.com/abhisek/rappel/internal/checkpoint"
	"github.com/abhisek/rappel/internal/media"
	"github.com/abhisek/rappel/internal/screen"
	"github.com/abhisek/rappel/internal/screens/fill"
	"github.com/abhisek/rappel/internal/screens/resume"
)

var fillCmd = &cobra.Command{
	Use:   "fill [input.json]",
	Short: "Fill in missing answers for imported entries and commit them",
	Long: `Walk through a JSON array of {question, audio_path, start_time_ms, end_time_ms}
drafts, supply each answer, then commit the batch to the record store.

Progress is saved after every change. Without an input file the saved
batch is resumed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFill,
}

func runFill(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	st, err := e.openStore()
	if err != nil {
		return err
	}

	cp := checkpoint.New[authoring.Draft](e.cfg.DraftCheckpointPath, authoring.Schema)
	if len(args) == 0 && !cp.Exists() {
		return errors.New("no input file given and no saved batch to resume")
	}

	lib := media.New(media.Options{
		Dir:    e.cfg.MediaDir,
		Player: e.cfg.PlayerCommand,
		FFmpeg: e.cfg.FFmpegCommand,
		Logger: e.logger,
	})
	defer lib.Stop()
	bcfg := authoring.Config{Checkpoint: cp, Logger: e.logger}

	load := func(resumed bool) (screen.Screen, error) {
		var (
			batch *authoring.Batch
			err   error
		)
		if resumed {
			batch, err = resumeBatch(cp, bcfg)
		} else {
			batch, err = newBatch(args[0], bcfg)
		}
		if err != nil {
			return nil, err
		}
		e.logger.Info("fill started", "drafts", batch.Len(), "missing", batch.MissingCount(), "resumed", resumed)
		return fill.New(fill.Options{
			Batch:    batch,
			Inserter: st,
			Preparer: lib,
			Player:   lib,
			Logger:   e.logger,
		}), nil
	}

	var root screen.Screen
	switch {
	case len(args) == 0:
		root, err = load(true)
	case cp.Exists():
		root = resume.New("Resume previous batch?", draftDetail(cp), load)
	default:
		root, err = load(false)
	}
	if err != nil {
		return err
	}
	return app.Run(app.Options{Root: root, Logger: e.logger})
}

func newBatch(path string, cfg authoring.Config) (*authoring.Batch, error) {
	drafts, err := authoring.LoadDrafts(path)
	if err != nil {
		return nil, err
	}
	b, err := authoring.New(drafts, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// Saving up front replaces any older batch.
	if err := b.Save(); err != nil {
		return nil, err
	}
	return b, nil
}

func resumeBatch(cp *checkpoint.Store[authoring.Draft], cfg authoring.Config) (*authoring.Batch, error) {
	snap, ok, err := cp.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoCheckpoint
	}
	return authoring.Resume(snap.Entries, snap.CurrentIndex, cfg)
}

func draftDetail(cp *checkpoint.Store[authoring.Draft]) string {
	snap, ok, err := cp.Load()
	if err != nil {
		return "The saved batch could not be read: " + err.Error()
	}
	if !ok {
		return ""
	}
	missing := 0
	for _, d := range snap.Entries {
		if d.Missing() {
			missing++
		}
	}
	return fmt.Sprintf("%d drafts, %d still missing an answer.", len(snap.Entries), missing)
}
