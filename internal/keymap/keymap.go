// Package keymap defines key bindings for the application.
package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "list", "favorites"
}

// Bindings contains every key binding. Keys are unique across contexts
// so one resolver serves the whole app.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionNextTab, []string{"tab"}, "Next tab", "global"},
	{ActionPrevTab, []string{"shift+tab"}, "Previous tab", "global"},
	{ActionViewDiscover, []string{"1", "f1"}, "Discover", "global"},
	{ActionViewSearch, []string{"2", "f2"}, "Search", "global"},
	{ActionViewFavorites, []string{"3", "f3"}, "Favorites", "global"},
	{ActionViewRecent, []string{"4", "f4"}, "Recently played", "global"},
	{ActionSearch, []string{"/"}, "Search", "global"},
	{ActionAddCustom, []string{"a"}, "Open URL", "global"},
	{ActionAddStation, []string{"A"}, "Add station", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionToggleMute, []string{"m"}, "Mute", "playback"},

	// Station list
	{ActionMoveUp, []string{"k", "up"}, "Move up", "list"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "list"},
	{ActionJumpStart, []string{"g", "home"}, "First station", "list"},
	{ActionJumpEnd, []string{"G", "end"}, "Last station", "list"},
	{ActionPageUp, []string{"pgup"}, "Page up", "list"},
	{ActionPageDown, []string{"pgdown"}, "Page down", "list"},
	{ActionSelect, []string{"enter"}, "Play", "list"},
	{ActionToggleFavorite, []string{"f"}, "Favorite", "list"},

	// Favorites ordering
	{ActionMoveItemUp, []string{"K", "shift+up"}, "Move favorite up", "favorites"},
	{ActionMoveItemDown, []string{"J", "shift+down"}, "Move favorite down", "favorites"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
