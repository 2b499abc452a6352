package player

import "testing"

func TestSignal_String(t *testing.T) {
	tests := []struct {
		signal Signal
		want   string
	}{
		{SignalReady, "Ready"},
		{SignalFailed, "Failed"},
		{SignalBuffering, "Buffering"},
		{SignalPlaying, "Playing"},
		{SignalPlaying + 1, "Unknown"},
		{Signal(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.signal.String(); got != tt.want {
				t.Errorf("Signal.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignal_IsTerminal(t *testing.T) {
	tests := []struct {
		signal Signal
		want   bool
	}{
		{SignalReady, false},
		{SignalFailed, true},
		{SignalBuffering, false},
		{SignalPlaying, false},
	}

	for _, tt := range tests {
		t.Run(tt.signal.String(), func(t *testing.T) {
			if got := tt.signal.IsTerminal(); got != tt.want {
				t.Errorf("Signal.IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}
