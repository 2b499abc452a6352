package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionPlayPause, []string{" "}, "Pause", "playback"},
		{ActionMoveUp, []string{"k", "up"}, "Move up", "list"},
	})

	tests := []struct {
		key  string
		want Action
	}{
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{" ", ActionPlayPause},
		{"up", ActionMoveUp},
		{"x", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.key))
		})
	}
}

func TestResolver_KeysForKeepsOrderAndDedupes(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionToggleFavorite, []string{"f", "F"}, "Favorite", "list"},
		{ActionToggleFavorite, []string{"F", "*"}, "Favorite", "favorites"},
	})

	assert.Equal(t, []string{"f", "F", "*"}, r.KeysFor(ActionToggleFavorite))
	assert.Nil(t, r.KeysFor(ActionQuit))
}

func TestResolver_LaterBindingWins(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionStop, []string{"s"}, "Stop", "playback"},
		{ActionSearch, []string{"s"}, "Search", "global"},
	})
	assert.Equal(t, ActionSearch, r.Resolve("s"))
}

func TestResolver_Hint(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionSelect, []string{"enter"}, "Play", "list"},
		{ActionPlayPause, []string{" "}, "Pause", "playback"},
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	})

	assert.Equal(t, "enter play · space pause · q quit",
		r.Hint(ActionSelect, ActionPlayPause, ActionQuit))
	assert.Equal(t, "q quit", r.Hint(ActionMoveUp, ActionQuit), "unbound actions are skipped")
	assert.Empty(t, r.Hint())
}

func TestResolver_AppBindings(t *testing.T) {
	r := NewResolver(Bindings)

	assert.Equal(t, ActionQuit, r.Resolve("q"))
	assert.Equal(t, ActionNextTab, r.Resolve("tab"))
	assert.Equal(t, ActionVolumeUp, r.Resolve("+"))
	assert.Equal(t, ActionVolumeUp, r.Resolve("="))
	assert.Equal(t, ActionPlayPause, r.Resolve(" "))
	assert.Equal(t, ActionMoveItemDown, r.Resolve("J"))
	assert.Equal(t, []string{"q", "ctrl+c"}, r.KeysFor(ActionQuit))
}
