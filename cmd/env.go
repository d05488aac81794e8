package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abhisek/rappel/internal/config"
	"github.com/abhisek/rappel/internal/journal"
	"github.com/abhisek/rappel/internal/logging"
	"github.com/abhisek/rappel/internal/store"
)

// env holds what every command needs: the resolved configuration, the
// file logger and, once opened, the record store.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	st      *store.Store
	closers []func() error
}

// loadEnv resolves configuration from the persistent flags, creates the
// data directories and opens the log file.
func loadEnv(cmd *cobra.Command) (*env, error) {
	flags := cmd.Flags()
	opts := config.Options{}
	opts.ConfigFile, _ = flags.GetString("config")
	opts.DataDir, _ = flags.GetString("data-dir")
	opts.DBPath, _ = flags.GetString("db")
	opts.LogLevel, _ = flags.GetString("log-level")

	cfg, err := config.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}
	logger.Debug("config loaded", "db", cfg.DBPath, "data_dir", cfg.DataDir)

	return &env{cfg: cfg, logger: logger, closers: []func() error{closeLog}}, nil
}

// openStore opens the record database. It is closed by Close.
func (e *env) openStore() (*store.Store, error) {
	if e.st != nil {
		return e.st, nil
	}
	st, err := store.Open(e.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.st = st
	e.closers = append(e.closers, st.Close)
	return st, nil
}

func (e *env) errorLog() *journal.ErrorLog { return journal.NewErrorLog(e.cfg.ErrorLogPath) }

func (e *env) favorites() *journal.Favorites { return journal.NewFavorites(e.cfg.FavoritesPath) }

func (e *env) usageStats() *journal.UsageStats { return journal.NewUsageStats(e.cfg.StatsPath) }

// Close releases resources in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for _, c := range slices.Backward(e.closers) {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
