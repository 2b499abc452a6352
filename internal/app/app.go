// internal/app/app.go
package app

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/antenna/internal/keymap"
	"github.com/llehouerou/antenna/internal/playback"
	"github.com/llehouerou/antenna/internal/state"
)

// Tab identifies one of the station lists.
type Tab int

const (
	TabDiscover Tab = iota
	TabSearch
	TabFavorites
	TabRecent
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabDiscover:
		return "Discover"
	case TabSearch:
		return "Search"
	case TabFavorites:
		return "Favorites"
	case TabRecent:
		return "Recent"
	case tabCount:
	}
	return ""
}

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputURL
	// Add station: name first, then the stream URL.
	inputStationName
	inputStationURL
)

const (
	discoverLimit = 30
	recentLimit   = 50
	volumeStep    = 0.05

	suggestTags      = 6
	suggestCountries = 5
)

// Deps are the services the UI drives. Announcer, Artwork, SaveErrors and
// Stderr may be nil.
type Deps struct {
	Engine     playback.Engine
	Directory  Directory
	Favorites  Favorites
	History    state.Interface
	Artwork    Artwork
	Announcer  Announcer
	SaveErrors <-chan error
	Stderr     <-chan string
	Logger     *slog.Logger
}

// Model is the root application model.
type Model struct {
	deps   Deps
	keys   *keymap.Resolver
	logger *slog.Logger
	sub    *playback.Subscription

	tab   Tab
	lists [tabCount]stationList

	input       inputMode
	searchInput textinput.Model
	urlInput    textinput.Model
	nameInput   textinput.Model
	pendingName string
	lastQuery   string
	suggestions string

	snapshot  playback.Snapshot
	volume    float64
	muted     bool
	announced string
	status    string

	width  int
	height int
}

// New creates the application model and subscribes to engine events.
func New(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	search := textinput.New()
	search.Placeholder = "name, tag:jazz, cc:FR"
	search.Prompt = "/ "
	search.CharLimit = 120

	url := textinput.New()
	url.Placeholder = "https://…"
	url.Prompt = "URL: "
	url.CharLimit = 2048

	name := textinput.New()
	name.Placeholder = "e.g. WXPN 88.5"
	name.Prompt = "Name: "
	name.CharLimit = 200

	m := Model{
		deps:        deps,
		keys:        keymap.NewResolver(keymap.Bindings),
		logger:      logger,
		sub:         deps.Engine.Subscribe(),
		searchInput: search,
		urlInput:    url,
		nameInput:   name,
		snapshot:    deps.Engine.Snapshot(),
		volume:      deps.Engine.Volume(),
		muted:       deps.Engine.Muted(),
		width:       80,
		height:      24,
	}
	m.lists[TabDiscover].loading = true
	m.lists[TabRecent].loading = true
	m.refreshFavorites()
	return m
}

// Init implements tea.Model. Discover is loaded once per session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadDiscoverCmd(),
		m.loadRecentCmd(),
		m.loadSuggestionsCmd(),
		m.WatchServiceEvents(),
		m.WatchSaveErrors(),
		m.WatchStderr(),
	)
}

// Tab returns the active tab.
func (m Model) Tab() Tab { return m.tab }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

func (m *Model) current() *stationList {
	return &m.lists[m.tab]
}

func (m *Model) refreshFavorites() {
	l := &m.lists[TabFavorites]
	l.set(m.deps.Favorites.List())
}
