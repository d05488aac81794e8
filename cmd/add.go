package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/rappel/internal/deck"
	"github.com/abhisek/rappel/internal/media"
	"github.com/abhisek/rappel/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add one entry to the record store",
	Long: `Add one entry. Mark each blank in the question with (?) and give one
--answer per blank, in order. Media is copied into the media library,
trimmed to --start/--end when given (hh:mm:ss, mm:ss or ss).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		question, _ := flags.GetString("question")
		answers, _ := flags.GetStringArray("answer")
		src, _ := flags.GetString("media")
		start, _ := flags.GetString("start")
		end, _ := flags.GetString("end")
		date, _ := flags.GetString("date")
		attribution, _ := flags.GetString("attribution")

		question = strings.TrimSpace(question)
		var trimmed []string
		for _, a := range answers {
			if a = strings.TrimSpace(a); a != "" {
				trimmed = append(trimmed, a)
			}
		}
		if len(trimmed) == 0 {
			return errors.New("at least one --answer is required")
		}
		if n := strings.Count(question, deck.Marker); n > 0 && n != len(trimmed) {
			return fmt.Errorf("question has %d blanks but %d answers were given", n, len(trimmed))
		}

		startMs, err := timecodeFlag("start", start)
		if err != nil {
			return err
		}
		endMs, err := timecodeFlag("end", end)
		if err != nil {
			return err
		}
		if startMs != nil && endMs != nil && *endMs <= *startMs {
			return fmt.Errorf("--end %s is not after --start %s", end, start)
		}

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		st, err := e.openStore()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		mediaPath := ""
		if src != "" {
			if err := media.Check(src); err != nil {
				return err
			}
			lib := media.New(media.Options{
				Dir:    e.cfg.MediaDir,
				FFmpeg: e.cfg.FFmpegCommand,
				Logger: e.logger,
			})
			if mediaPath, err = lib.Prepare(ctx, src, startMs, endMs); err != nil {
				return fmt.Errorf("prepare media: %w", err)
			}
		}

		res, err := st.Insert(ctx, store.NewRecord{
			MediaPath:   mediaPath,
			Question:    question,
			Response:    deck.JoinAnswers(trimmed),
			StartMs:     startMs,
			EndMs:       endMs,
			CreatedAt:   date,
			Attribution: attribution,
		})
		if err != nil {
			return err
		}
		if res.Duplicate {
			fmt.Println("An entry with this question and answer already exists.")
			return nil
		}
		e.logger.Info("entry added", "uuid", res.ID)
		fmt.Println("Added", res.ID)
		return nil
	},
}

func init() {
	f := addCmd.Flags()
	f.String("question", "", "Question text, with (?) marking each blank")
	f.StringArray("answer", nil, "Answer for the next blank (repeatable)")
	f.String("media", "", "Audio or video file to attach")
	f.String("start", "", "Media start offset")
	f.String("end", "", "Media end offset")
	f.String("date", "", "Creation date, YYYY-MM-DD (default today)")
	f.String("attribution", "", "Source of the entry")
	_ = addCmd.MarkFlagRequired("question")
}

// timecodeFlag parses an optional timecode flag value.
func timecodeFlag(name, v string) (*int64, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	ms, ok := media.ParseTimecode(v)
	if !ok {
		return nil, fmt.Errorf("invalid --%s %q: want hh:mm:ss, mm:ss or ss", name, v)
	}
	return &ms, nil
}
