// Package notify sends desktop notifications for station changes and
// persistence failures.
package notify

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Freedesktop categories used by the announcer.
const (
	CategoryNowPlaying = "x-antenna.nowplaying"
	CategoryError      = "transfer.error"
)

// Notification is one popup. Icon is a file path or a themed icon name.
type Notification struct {
	Title      string
	Body       string
	Icon       string
	Category   string
	Timeout    int32 // ms; -1 server default, 0 never expires
	ReplacesID uint32
	Urgency    Urgency
	// Transient notifications are not kept in the server's history.
	Transient bool
}

// Notifier delivers notifications to the desktop.
type Notifier interface {
	// Notify shows n and returns the server-assigned ID, or 0 when
	// notifications are unavailable.
	Notify(n Notification) (uint32, error)
	// Close withdraws a notification. Unknown IDs are ignored.
	Close(id uint32) error
}

// Nop discards everything. It is used when no notification server is
// reachable.
type Nop struct{}

func (Nop) Notify(Notification) (uint32, error) { return 0, nil }
func (Nop) Close(uint32) error                  { return nil }
