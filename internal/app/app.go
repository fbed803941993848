package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lectern-app/lectern/internal/config"
	"github.com/lectern-app/lectern/internal/librarian"
	"github.com/lectern-app/lectern/internal/logging"
	"github.com/lectern-app/lectern/internal/paging"
	"github.com/lectern-app/lectern/internal/poll"
	"github.com/lectern-app/lectern/internal/prefs"
	"github.com/lectern-app/lectern/internal/state"
	"github.com/lectern-app/lectern/internal/ui"
)

// Options configure the lectern TUI.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/lectern/prefs.toml
	Server     string        // overrides the configured server when set
	Refresh    time.Duration // UI refresh; zero uses the default
}

// Run boots the TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Server != "" {
		cfg.Server = opts.Server
	}

	logger, closer, err := logging.NewFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("load prefs failed")
	}

	client, err := librarian.NewClient(cfg.Server)
	if err != nil {
		return fmt.Errorf("init librarian client: %w", err)
	}
	threshold, err := paging.ParseThreshold(cfg.Threshold, cfg.ThresholdValue)
	if err != nil {
		return fmt.Errorf("load threshold: %w", err)
	}

	logger.Info().Str("server", cfg.Server).Msg("lectern starting")

	store := &state.Store{}
	pager := openContent(ctx, store, client, cfg.ContentPath, threshold, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range pollers(cfg, client, store, logger) {
		g.Go(func() error { return p.Run(gctx) })
	}

	uiErr := ui.Run(ui.Options{
		Context:        ctx,
		Store:          store,
		Pager:          pager,
		Client:         client,
		SettingsPath:   cfg.SettingsPath,
		Server:         cfg.Server,
		LogFile:        cfg.LogFile,
		PollTick:       opts.Refresh,
		ScrollDebounce: cfg.ScrollDebounce,
		ThemeName:      userPrefs.Theme,
		StartView:      userPrefs.View,
		PrefsPath:      opts.PrefsPath,
		Logger:         logger,
	})

	cancel()
	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Msg("poller exited with error")
	}
	if uiErr != nil {
		return fmt.Errorf("run ui: %w", uiErr)
	}
	logger.Info().Msg("lectern stopped")
	return nil
}

// openContent loads the first content page into the store. When it cannot be
// loaded the UI still starts, showing the error, and no pager is returned.
func openContent(ctx context.Context, store *state.Store, client librarian.Getter, path string, threshold paging.Threshold, logger zerolog.Logger) ui.Pager {
	lib, err := OpenLibrary(ctx, LibraryOptions{
		Client:    client,
		Path:      path,
		Threshold: threshold,
		Container: store.Library(),
		Indicator: store.Library(),
		Logger:    logger.With().Str("component", "library").Logger(),
	})
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("content unavailable")
		store.SetNotice(state.NoticeError, "Content unavailable: "+err.Error())
		return nil
	}

	cur := lib.Fetcher.Cursor()
	store.ResetLibrary(lib.First.Entries(), cur.Current, cur.Total)
	if lib.Fetcher.Ended() {
		store.MarkEnded()
	}
	return lib.Fetcher
}

// pollers builds the status and files pollers. A blank path in the config
// leaves that poller disabled.
func pollers(cfg config.Config, client librarian.Getter, store *state.Store, logger zerolog.Logger) []*poll.Poller {
	return []*poll.Poller{
		poll.New(state.PaneStatus.String(), cfg.StatusPath, cfg.StatusInterval, client, store.Pane(state.PaneStatus), logger),
		poll.New(state.PaneFiles.String(), cfg.FilesPath, cfg.FilesInterval, client, store.Pane(state.PaneFiles), logger),
	}
}
