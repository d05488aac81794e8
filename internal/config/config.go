// Package config resolves the file paths and external commands rappel uses.
//
// Values are layered: XDG defaults, then an optional YAML file, then
// RAPPEL_* environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/rappel/internal/journal"
	"github.com/abhisek/rappel/internal/media"
	"github.com/abhisek/rappel/internal/store"
)

// Environment variables read by Load.
const (
	EnvConfig   = "RAPPEL_CONFIG"
	EnvDataDir  = "RAPPEL_DATA_DIR"
	EnvDB       = "RAPPEL_DB"
	EnvMediaDir = "RAPPEL_MEDIA_DIR"
	EnvPlayer   = "RAPPEL_PLAYER"
	EnvFFmpeg   = "RAPPEL_FFMPEG"
	EnvLogLevel = "RAPPEL_LOG_LEVEL"
)

// DraftCheckpointName is the authoring checkpoint file kept in the
// temp directory.
const DraftCheckpointName = ".missing_responses_progress.json"

// Cues are the audio files played after grading and when a session ends.
type Cues struct {
	Success  string `yaml:"success"`
	Failure  string `yaml:"failure"`
	Complete string `yaml:"complete"`
}

// Config holds every resolved path and command.
type Config struct {
	DataDir             string
	DBPath              string
	CheckpointPath      string
	DraftCheckpointPath string
	ErrorLogPath        string
	FavoritesPath       string
	StatsPath           string
	MediaDir            string
	Cues                Cues
	PlayerCommand       []string
	FFmpegCommand       string
	LogPath             string
	LogLevel            string
}

// Options carries command-line overrides. Empty fields are ignored.
type Options struct {
	ConfigFile string
	DataDir    string
	DBPath     string
	LogLevel   string
}

type fileConfig struct {
	DataDir  string   `yaml:"data_dir"`
	DB       string   `yaml:"db"`
	MediaDir string   `yaml:"media_dir"`
	Cues     Cues     `yaml:"cues"`
	Player   []string `yaml:"player"`
	FFmpeg   string   `yaml:"ffmpeg"`
	Log      struct {
		Path  string `yaml:"path"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	dataDir := first(opts.DataDir, os.Getenv(EnvDataDir))
	if dataDir == "" {
		d, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		dataDir = d
	}

	fc, err := readFile(first(opts.ConfigFile, os.Getenv(EnvConfig)), dataDir)
	if err != nil {
		return nil, err
	}
	if fc.DataDir != "" && opts.DataDir == "" && os.Getenv(EnvDataDir) == "" {
		dataDir = fc.DataDir
	}

	dbPath := first(opts.DBPath, os.Getenv(EnvDB), fc.DB, filepath.Join(dataDir, "rappel.db"))

	cfg := &Config{
		DataDir:             dataDir,
		DBPath:              dbPath,
		CheckpointPath:      filepath.Join(dataDir, "saved_records.json"),
		DraftCheckpointPath: filepath.Join(os.TempDir(), DraftCheckpointName),
		ErrorLogPath:        filepath.Join(dataDir, "entry_error.csv"),
		FavoritesPath:       filepath.Join(dataDir, journal.FavoritesFileName(dbPath)),
		StatsPath:           filepath.Join(dataDir, "usage_stats.json"),
		MediaDir:            first(os.Getenv(EnvMediaDir), fc.MediaDir, filepath.Join(dataDir, "media")),
		Cues: Cues{
			Success:  first(fc.Cues.Success, filepath.Join(dataDir, "cues", "success.mp3")),
			Failure:  first(fc.Cues.Failure, filepath.Join(dataDir, "cues", "failure.mp3")),
			Complete: first(fc.Cues.Complete, filepath.Join(dataDir, "cues", "complete.mp3")),
		},
		PlayerCommand: slices.Clone(media.DefaultPlayer),
		FFmpegCommand: first(os.Getenv(EnvFFmpeg), fc.FFmpeg, "ffmpeg"),
		LogPath:       first(fc.Log.Path, filepath.Join(dataDir, "rappel.log")),
		LogLevel:      strings.ToLower(first(opts.LogLevel, os.Getenv(EnvLogLevel), fc.Log.Level, "info")),
	}
	if len(fc.Player) > 0 {
		cfg.PlayerCommand = fc.Player
	}
	if p := os.Getenv(EnvPlayer); p != "" {
		cfg.PlayerCommand = strings.Fields(p)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(explicit, dataDir string) (fileConfig, error) {
	var fc fileConfig
	path := explicit
	if path == "" {
		path = filepath.Join(dataDir, "config.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && explicit == "" {
			return fc, nil
		}
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

func (c *Config) validate() error {
	var errs []error
	for name, v := range map[string]string{
		"data dir":  c.DataDir,
		"db path":   c.DBPath,
		"media dir": c.MediaDir,
		"log path":  c.LogPath,
		"ffmpeg":    c.FFmpegCommand,
	} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}
	if len(c.PlayerCommand) == 0 {
		errs = append(errs, errors.New("player command must not be empty"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// EnsureDirs creates the data and media directories.
func (c *Config) EnsureDirs() error {
	for _, d := range []string{c.DataDir, c.MediaDir, filepath.Dir(c.DBPath)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
