package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "antenna"

type Config struct {
	// Station directory (radio-browser.info) settings
	Directory DirectoryConfig `koanf:"directory"`

	// Favicon cache settings
	Artwork ArtworkConfig `koanf:"artwork"`

	Favorites     FavoritesConfig     `koanf:"favorites"`
	Playback      PlaybackConfig      `koanf:"playback"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Log           LogConfig           `koanf:"log"`
}

// DirectoryConfig holds radio-browser client settings.
type DirectoryConfig struct {
	BaseURL        string `koanf:"base_url"`        // empty means discover a mirror via DNS
	TimeoutSeconds int    `koanf:"timeout_seconds"` // request timeout (default: 10)
	UserAgent      string `koanf:"user_agent"`      // default: "Antenna/0.1"
}

// ArtworkConfig holds favicon cache settings.
type ArtworkConfig struct {
	CacheDir       string `koanf:"cache_dir"`       // default: $XDG_CACHE_HOME/antenna/favicons
	MemoryEntries  int    `koanf:"memory_entries"`  // decoded images kept in memory (default: 256)
	TimeoutSeconds int    `koanf:"timeout_seconds"` // download timeout (default: 5)
}

// FavoritesConfig holds the favorites file location.
type FavoritesConfig struct {
	Path string `koanf:"path"` // default: $XDG_DATA_HOME/antenna/favorites.json
}

// PlaybackConfig holds audio settings.
type PlaybackConfig struct {
	Volume      *float64 `koanf:"volume"`       // startup volume 0.0-1.0 (default: last saved)
	PrebufferMS int      `koanf:"prebuffer_ms"` // audio buffered before playback starts (default: 500)
}

// NotificationsConfig holds desktop notification settings.
type NotificationsConfig struct {
	Enabled *bool `koanf:"enabled"` // now-playing notifications (default: true)
}

// LogConfig holds log output settings.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error (default: info)
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/antenna/antenna.log
}

func Load() (*Config, error) {
	return loadPaths(getConfigPaths())
}

// loadPaths merges the existing files in order; later files win.
func loadPaths(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Directory.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.Directory.BaseURL), "/")
	cfg.Artwork.CacheDir = expandPath(cfg.Artwork.CacheDir)
	cfg.Favorites.Path = expandPath(cfg.Favorites.Path)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. ~/.config/antenna/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetDirectoryConfig returns the directory configuration with defaults applied.
func (c *Config) GetDirectoryConfig() DirectoryConfig {
	cfg := c.Directory
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 10
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Antenna/0.1"
	}
	return cfg
}

// Timeout returns the request timeout.
func (d DirectoryConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// GetArtworkConfig returns the artwork configuration with defaults applied.
func (c *Config) GetArtworkConfig() ArtworkConfig {
	cfg := c.Artwork
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(xdg.CacheHome, appName, "favicons")
	}
	if cfg.MemoryEntries <= 0 {
		cfg.MemoryEntries = 256
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 5
	}
	return cfg
}

// Timeout returns the download timeout.
func (a ArtworkConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback
	if cfg.Volume != nil {
		v := min(max(*cfg.Volume, 0), 1)
		cfg.Volume = &v
	}
	if cfg.PrebufferMS <= 0 || cfg.PrebufferMS > 10000 {
		cfg.PrebufferMS = 500
	}
	return cfg
}

// Prebuffer returns the prebuffer duration.
func (p PlaybackConfig) Prebuffer() time.Duration {
	return time.Duration(p.PrebufferMS) * time.Millisecond
}

// NotificationsEnabled reports whether now-playing notifications are on.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications.Enabled == nil || *c.Notifications.Enabled
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	}
	return cfg
}

// SlogLevel parses Level, falling back to info for unknown names.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
