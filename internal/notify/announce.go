package notify

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/llehouerou/antenna/internal/station"
)

const (
	nowPlayingTimeout = 5000
	errorTimeout      = 8000
	maxTags           = 3
)

// IconSource resolves a favicon URL to a local image file, or "".
type IconSource interface {
	Path(url string) string
}

// Announcer turns player events into desktop notifications. Now-playing
// notifications replace each other so only the latest station is shown.
type Announcer struct {
	notifier Notifier
	icons    IconSource
	logger   *slog.Logger

	mu      sync.Mutex
	enabled bool
	lastID  uint32
}

// NewAnnouncer creates an enabled announcer. icons may be nil.
func NewAnnouncer(n Notifier, icons IconSource, logger *slog.Logger) *Announcer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Announcer{notifier: n, icons: icons, logger: logger, enabled: true}
}

// SetEnabled turns now-playing announcements on or off. Error
// notifications are always sent.
func (a *Announcer) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// NowPlaying announces that st started playing.
func (a *Announcer) NowPlaying(st station.Station) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.enabled {
		return
	}

	icon := "audio-x-generic"
	if a.icons != nil {
		if p := a.icons.Path(st.FaviconURL()); p != "" {
			icon = p
		}
	}
	id, err := a.notifier.Notify(Notification{
		Title:      st.Name,
		Body:       describe(st),
		Icon:       icon,
		Category:   CategoryNowPlaying,
		Timeout:    nowPlayingTimeout,
		ReplacesID: a.lastID,
		Urgency:    UrgencyLow,
		Transient:  true,
	})
	if err != nil {
		a.logger.Debug("notify: now playing", "err", err)
		return
	}
	a.lastID = id
}

// Dismiss withdraws the current now-playing notification, if any.
func (a *Announcer) Dismiss() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastID == 0 {
		return
	}
	if err := a.notifier.Close(a.lastID); err != nil {
		a.logger.Debug("notify: dismiss", "err", err)
	}
	a.lastID = 0
}

// SaveFailed reports that the favorites file could not be written.
func (a *Announcer) SaveFailed(err error) {
	_, nerr := a.notifier.Notify(Notification{
		Title:    "Favorites not saved",
		Body:     err.Error(),
		Icon:     "dialog-warning",
		Category: CategoryError,
		Timeout:  errorTimeout,
		Urgency:  UrgencyCritical,
	})
	if nerr != nil {
		a.logger.Debug("notify: save failed", "err", nerr)
	}
}

// describe builds the body line: country, first tags, codec and bitrate.
func describe(st station.Station) string {
	var parts []string
	if st.CountryCode != "" {
		parts = append(parts, st.CountryCode)
	}
	if tags := st.TagList(); len(tags) > 0 {
		if len(tags) > maxTags {
			tags = tags[:maxTags]
		}
		parts = append(parts, strings.Join(tags, ", "))
	}
	switch {
	case st.Codec != "" && st.Bitrate > 0:
		parts = append(parts, fmt.Sprintf("%s %d kbps", strings.ToLower(st.Codec), st.Bitrate))
	case st.Codec != "":
		parts = append(parts, strings.ToLower(st.Codec))
	}
	return strings.Join(parts, " · ")
}
