// Package media prepares media files for the library and plays them with an
// external player.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrUnavailable is wrapped by UnavailableError.
var ErrUnavailable = errors.New("media unavailable")

// ErrUnsupported is returned by Prepare for an unknown file type.
var ErrUnsupported = errors.New("unsupported media format")

// ErrStopped is returned by Play when playback was interrupted.
var ErrStopped = errors.New("playback stopped")

// UnavailableError reports a media path that cannot be read.
type UnavailableError struct {
	Path string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("media unavailable: %s", e.Path)
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// Service prepares and plays media.
type Service interface {
	Prepare(ctx context.Context, src string, startMs, endMs *int64) (string, error)
	Play(ctx context.Context, path string) error
	Stop()
}

var (
	audioExts = []string{".mp3", ".wav", ".ogg"}
	videoExts = []string{".mp4", ".avi", ".mov", ".mkv"}
)

// IsVideo reports whether path has a video extension.
func IsVideo(path string) bool {
	return hasExt(path, videoExts)
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// Check returns an UnavailableError when path is empty or missing.
func Check(path string) error {
	if path == "" {
		return &UnavailableError{Path: path}
	}
	if _, err := os.Stat(path); err != nil {
		return &UnavailableError{Path: path}
	}
	return nil
}

// Options configures Local.
type Options struct {
	// Dir is the media library directory.
	Dir string
	// Player is the playback argv; the media path is appended.
	Player []string
	// FFmpeg is the ffmpeg executable used for trimming.
	FFmpeg string
	Logger *slog.Logger
}

// Local is a Service backed by local files and external processes.
type Local struct {
	dir    string
	ffmpeg string
	logger *slog.Logger
	*Player
}

// New returns a Local service.
func New(opts Options) *Local {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ffmpeg := opts.FFmpeg
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	return &Local{
		dir:    opts.Dir,
		ffmpeg: ffmpeg,
		logger: logger,
		Player: NewPlayer(opts.Player, logger),
	}
}

// Prepare copies src into the library, trimming it to [startMs, endMs) when
// both offsets are set. It returns the library path.
func (l *Local) Prepare(ctx context.Context, src string, startMs, endMs *int64) (string, error) {
	if src == "" {
		return "", nil
	}
	if err := Check(src); err != nil {
		return "", err
	}
	video := IsVideo(src)
	if !video && !hasExt(src, audioExts) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(src))
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	trim := startMs != nil && endMs != nil
	name := CleanFilename(filepath.Base(src))
	if trim {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		ext := ".mp3"
		if video {
			ext = ".mp4"
		}
		name = fmt.Sprintf("%s_clip_%d_%d%s", base, *startMs, *endMs, ext)
	}
	dest := filepath.Join(l.dir, name)

	if !trim {
		if same, _ := samePath(src, dest); same {
			return dest, nil
		}
		if err := copyFile(src, dest); err != nil {
			return "", fmt.Errorf("copy media: %w", err)
		}
		return dest, nil
	}

	if *endMs <= *startMs {
		return "", fmt.Errorf("trim %s: end %d is not after start %d", src, *endMs, *startMs)
	}
	args := []string{
		"-y", "-i", src,
		"-ss", seconds(*startMs),
		"-t", seconds(*endMs - *startMs),
	}
	if video {
		args = append(args, "-c:v", "libx264", "-c:a", "aac")
	}
	args = append(args, dest)

	cmd := exec.CommandContext(ctx, l.ffmpeg, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		l.logger.Error("ffmpeg failed", "src", src, "err", err, "output", string(out))
		return "", fmt.Errorf("trim %s: %w", src, err)
	}
	l.logger.Debug("media trimmed", "src", src, "dest", dest)
	return dest, nil
}

func seconds(ms int64) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', 3, 64)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// CleanFilename folds accents and ligatures and replaces any other unsafe
// run of characters with an underscore.
func CleanFilename(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = strings.NewReplacer("æ", "ae", "Æ", "AE", "œ", "oe", "Œ", "OE").Replace(s)
	s = unsafeChars.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

func samePath(a, b string) (bool, error) {
	sa, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(sa, sb), nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
