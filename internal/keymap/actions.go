package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit       Action = "quit"
	ActionNextTab    Action = "next_tab"
	ActionPrevTab    Action = "prev_tab"
	ActionSearch     Action = "search"
	ActionAddCustom  Action = "add_custom"
	ActionAddStation Action = "add_station"

	// Tab switching
	ActionViewDiscover  Action = "view_discover"
	ActionViewSearch    Action = "view_search"
	ActionViewFavorites Action = "view_favorites"
	ActionViewRecent    Action = "view_recent"

	// Playback actions
	ActionPlayPause  Action = "play_pause"
	ActionStop       Action = "stop"
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionToggleMute Action = "toggle_mute"

	// Navigation actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"
	ActionPageUp    Action = "page_up"
	ActionPageDown  Action = "page_down"

	// Station actions
	ActionSelect         Action = "select" // enter - play
	ActionToggleFavorite Action = "toggle_favorite"
	ActionMoveItemUp     Action = "move_item_up"   // shift+k in favorites
	ActionMoveItemDown   Action = "move_item_down" // shift+j in favorites
)
