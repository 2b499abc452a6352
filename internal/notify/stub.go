//go:build !linux

package notify

// New returns a Nop notifier; desktop notifications are Linux only.
func New() (Notifier, error) {
	return Nop{}, nil
}
