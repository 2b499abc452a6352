// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"context"
	"errors"
	"fmt"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Directory operations
	OpSearch        Op = "search stations"
	OpDiscover      Op = "load popular stations"
	OpCountries     Op = "load countries"
	OpTags          Op = "load tags"
	OpReportClick   Op = "report station click"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlayURL       Op = "play stream"

	// Favorites
	OpFavoriteSave Op = "save favorites"
	OpAddStation   Op = "add station"

	// History
	OpHistoryLoad   Op = "load recent stations"
	OpHistoryRecord Op = "record played station"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, reason(err))
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, context, reason(err))
}

func reason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return err.Error()
}
