//go:build windows

// Package stderr is inert on Windows: the audio backend does not write to
// fd 2 there, so there is nothing to capture.
package stderr

import "log/slog"

// Messages stays silent on Windows; the UI may still select on it.
var Messages = make(chan string)

// Start does nothing.
func Start(_ *slog.Logger) error { return nil }

// Stop does nothing.
func Stop() {}
