package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/antenna/internal/app"
	"github.com/llehouerou/antenna/internal/artwork"
	"github.com/llehouerou/antenna/internal/config"
	"github.com/llehouerou/antenna/internal/errmsg"
	"github.com/llehouerou/antenna/internal/favorites"
	"github.com/llehouerou/antenna/internal/mpris"
	"github.com/llehouerou/antenna/internal/notify"
	"github.com/llehouerou/antenna/internal/playback"
	"github.com/llehouerou/antenna/internal/player"
	"github.com/llehouerou/antenna/internal/radiobrowser"
	"github.com/llehouerou/antenna/internal/state"
	"github.com/llehouerou/antenna/internal/stderr"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	logger, logFile, err := openLogger(cfg.GetLogConfig())
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	// Capture ALSA noise before the audio device is opened.
	if err := stderr.Start(logger); err != nil {
		logger.Warn("stderr capture unavailable", "err", err)
	}
	defer stderr.Stop()

	stateMgr, err := state.Open()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer stateMgr.Close()

	dirCfg := cfg.GetDirectoryConfig()
	dirOpts := []radiobrowser.Option{
		radiobrowser.WithUserAgent(dirCfg.UserAgent),
		radiobrowser.WithTimeout(dirCfg.Timeout()),
		radiobrowser.WithLogger(logger),
	}
	if dirCfg.BaseURL != "" {
		dirOpts = append(dirOpts, radiobrowser.WithBaseURL(dirCfg.BaseURL))
	}
	directory := radiobrowser.New(dirOpts...)

	artCfg := cfg.GetArtworkConfig()
	icons, err := artwork.NewCache(
		artwork.WithDir(artCfg.CacheDir),
		artwork.WithMemoryEntries(artCfg.MemoryEntries),
		artwork.WithTimeout(artCfg.Timeout()),
		artwork.WithUserAgent(dirCfg.UserAgent),
		artwork.WithLogger(logger),
	)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}

	notifier, err := notify.New()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	announcer := notify.NewAnnouncer(notifier, icons, logger)
	announcer.SetEnabled(cfg.NotificationsEnabled())

	favPath := cfg.Favorites.Path
	if favPath == "" {
		if favPath, err = favorites.DefaultPath(); err != nil {
			return errors.New(errmsg.Format(errmsg.OpInitialize, err))
		}
	}
	saveErrs := make(chan error, 4)
	favs := favorites.Open(favPath,
		favorites.WithLogger(logger),
		favorites.OnSaveError(func(err error) {
			announcer.SaveFailed(err)
			select {
			case saveErrs <- err:
			default:
			}
		}),
	)

	pbCfg := cfg.GetPlaybackConfig()
	p := player.New(
		player.WithUserAgent(dirCfg.UserAgent),
		player.WithPrebuffer(pbCfg.Prebuffer()),
	)

	// The MPRIS adapter routes media keys to the engine, which is created
	// after it because the engine publishes through the adapter.
	controls := &deferredControls{}
	var np playback.NowPlaying
	adapter, err := mpris.New(controls, logger)
	if err != nil {
		logger.Warn("mpris unavailable", "err", err)
	} else {
		np = adapter
		defer adapter.Close()
	}

	engine := playback.New(p, np, playback.WithLogger(logger))
	controls.set(engine)
	defer engine.Close()

	restoreVolume(engine, stateMgr, pbCfg)

	m := app.New(app.Deps{
		Engine:     engine,
		Directory:  directory,
		Favorites:  favs,
		History:    stateMgr,
		Artwork:    icons,
		Announcer:  announcer,
		SaveErrors: saveErrs,
		Stderr:     stderr.Messages,
		Logger:     logger,
	})

	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// openLogger writes text logs to the configured file so the TUI is left
// untouched.
func openLogger(cfg config.LogConfig) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	return slog.New(h), f, nil
}

// restoreVolume applies the configured startup volume, or the last saved one.
func restoreVolume(engine playback.Engine, st state.Interface, cfg config.PlaybackConfig) {
	if cfg.Volume != nil {
		engine.SetVolume(*cfg.Volume)
		return
	}
	v, err := st.GetVolume()
	if err != nil {
		return
	}
	engine.SetVolume(v.Volume)
	engine.SetMuted(v.Muted)
}

// deferredControls forwards to controls set after construction. Commands
// arriving before then are dropped.
type deferredControls struct {
	mu sync.RWMutex
	c  playback.Controls
}

func (d *deferredControls) set(c playback.Controls) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.c = c
}

func (d *deferredControls) get() playback.Controls {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.c
}

func (d *deferredControls) Resume() {
	if c := d.get(); c != nil {
		c.Resume()
	}
}

func (d *deferredControls) Pause() {
	if c := d.get(); c != nil {
		c.Pause()
	}
}

func (d *deferredControls) Stop() {
	if c := d.get(); c != nil {
		c.Stop()
	}
}

func (d *deferredControls) TogglePlayPause() {
	if c := d.get(); c != nil {
		c.TogglePlayPause()
	}
}
