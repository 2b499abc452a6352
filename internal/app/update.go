// internal/app/update.go
package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/antenna/internal/errmsg"
	"github.com/llehouerou/antenna/internal/keymap"
	"github.com/llehouerou/antenna/internal/playback"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.searchInput.Width = max(msg.Width-8, 10)
		m.urlInput.Width = max(msg.Width-10, 10)
		m.nameInput.Width = max(msg.Width-10, 10)
		return m, nil
	case tea.KeyMsg:
		if m.input != inputNone {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	case PlaybackMessage:
		return m.handlePlaybackMsg(msg)
	case DirectoryMessage:
		return m.handleDirectoryMsg(msg)
	case FavoritesSaveFailedMsg:
		m.status = errmsg.Format(errmsg.OpFavoriteSave, msg.Err)
		return m, m.WatchSaveErrors()
	case StderrMsg:
		m.status = string(msg)
		return m, m.WatchStderr()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.current()
	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return m, tea.Quit

	case keymap.ActionNextTab:
		m.tab = (m.tab + 1) % tabCount
	case keymap.ActionPrevTab:
		m.tab = (m.tab + tabCount - 1) % tabCount
	case keymap.ActionViewDiscover:
		m.tab = TabDiscover
	case keymap.ActionViewSearch:
		m.tab = TabSearch
	case keymap.ActionViewFavorites:
		m.tab = TabFavorites
	case keymap.ActionViewRecent:
		m.tab = TabRecent
	case keymap.ActionSearch:
		m.tab = TabSearch
		m.input = inputSearch
		return m, m.searchInput.Focus()
	case keymap.ActionAddCustom:
		m.input = inputURL
		m.urlInput.SetValue("")
		return m, m.urlInput.Focus()
	case keymap.ActionAddStation:
		m.input = inputStationName
		m.pendingName = ""
		m.nameInput.SetValue("")
		return m, m.nameInput.Focus()

	case keymap.ActionPlayPause:
		switch m.deps.Engine.State() {
		case playback.StatePlaying, playback.StatePaused:
			m.deps.Engine.TogglePlayPause()
		case playback.StateIdle, playback.StateError:
			return m.playSelected()
		case playback.StateLoading:
		}
	case keymap.ActionStop:
		m.deps.Engine.Stop()
	case keymap.ActionVolumeUp:
		m.setVolume(m.volume + volumeStep)
	case keymap.ActionVolumeDown:
		m.setVolume(m.volume - volumeStep)
	case keymap.ActionToggleMute:
		m.muted = !m.muted
		m.deps.Engine.SetMuted(m.muted)
		m.deps.History.SaveVolume(m.volume, m.muted)

	case keymap.ActionMoveUp:
		l.move(-1)
	case keymap.ActionMoveDown:
		l.move(1)
	case keymap.ActionPageUp:
		l.move(-m.listHeight())
	case keymap.ActionPageDown:
		l.move(m.listHeight())
	case keymap.ActionJumpStart:
		l.cursor = 0
		l.clamp()
	case keymap.ActionJumpEnd:
		l.jumpEnd()
	case keymap.ActionSelect:
		return m.playSelected()
	case keymap.ActionToggleFavorite:
		m.toggleFavorite()
	case keymap.ActionMoveItemUp:
		m.moveFavorite(-1)
	case keymap.ActionMoveItemDown:
		m.moveFavorite(1)
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.blurInputs()
		return m, nil
	case tea.KeyEnter:
		mode := m.input
		m.blurInputs()
		switch mode {
		case inputSearch:
			query := strings.TrimSpace(m.searchInput.Value())
			if query == "" {
				return m, nil
			}
			m.lastQuery = query
			m.lists[TabSearch].loading = true
			m.lists[TabSearch].err = ""
			return m, m.searchCmd(query)
		case inputURL:
			raw := strings.TrimSpace(m.urlInput.Value())
			if raw == "" {
				return m, nil
			}
			streamURL, err := parseStreamURL(raw)
			if err != nil {
				m.status = errmsg.FormatWith(errmsg.OpPlayURL, raw, err)
				return m, nil
			}
			m.status = ""
			return m, m.playURLCmd(streamURL)
		case inputStationName:
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				m.status = errmsg.Format(errmsg.OpAddStation, errStationName)
				return m, nil
			}
			m.pendingName = name
			m.input = inputStationURL
			m.urlInput.SetValue("")
			return m, m.urlInput.Focus()
		case inputStationURL:
			m.addStation(m.pendingName, m.urlInput.Value())
			m.pendingName = ""
			return m, nil
		case inputNone:
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.input {
	case inputSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case inputURL, inputStationURL:
		m.urlInput, cmd = m.urlInput.Update(msg)
	case inputStationName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case inputNone:
	}
	return m, cmd
}

func (m *Model) blurInputs() {
	m.input = inputNone
	m.searchInput.Blur()
	m.urlInput.Blur()
	m.nameInput.Blur()
}

func (m Model) playSelected() (tea.Model, tea.Cmd) {
	st, ok := m.current().selected()
	if !ok {
		return m, nil
	}
	m.status = ""
	fromDirectory := m.tab == TabDiscover || m.tab == TabSearch
	return m, m.playStationCmd(st, fromDirectory)
}

func (m *Model) setVolume(level float64) {
	m.volume = min(max(level, 0), 1)
	m.deps.Engine.SetVolume(m.volume)
	m.deps.History.SaveVolume(m.volume, m.muted)
}

func (m *Model) toggleFavorite() {
	st, ok := m.current().selected()
	if !ok {
		return
	}
	if m.deps.Favorites.Toggle(st) {
		m.status = "Added " + st.Name + " to favorites"
	} else {
		m.status = "Removed " + st.Name + " from favorites"
	}
	m.refreshFavorites()
}

func (m *Model) moveFavorite(delta int) {
	if m.tab != TabFavorites {
		return
	}
	l := &m.lists[TabFavorites]
	from := l.cursor
	if !m.deps.Favorites.Move(from, from+delta) {
		return
	}
	m.refreshFavorites()
	l.cursor = from + delta
	l.clamp()
}

func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateChangedMsg:
		m.snapshot = m.deps.Engine.Snapshot()
		m.announce(msg.Current)
		return m, m.WatchServiceEvents()
	case StationChangedMsg:
		m.snapshot = m.deps.Engine.Snapshot()
		return m, m.WatchServiceEvents()
	case PlaybackErrorMsg:
		m.snapshot = m.deps.Engine.Snapshot()
		m.status = errmsg.FormatWith(errmsg.OpPlaybackStart, msg.Title, msg.Err)
		return m, m.WatchServiceEvents()
	case ServiceClosedMsg:
		m.sub = nil
		return m, nil
	case PlayResultMsg:
		return m.handlePlayResult(msg)
	}
	return m, nil
}

// announce notifies once per station when playback actually starts.
// Rebuffering returns to Playing without a second notification.
func (m *Model) announce(current playback.State) {
	switch current {
	case playback.StatePlaying:
		st := m.snapshot.Station
		if st == nil || st.ID() == m.announced {
			return
		}
		m.announced = st.ID()
		if m.deps.Announcer != nil {
			m.deps.Announcer.NowPlaying(*st)
		}
	case playback.StateIdle:
		if m.announced != "" && m.deps.Announcer != nil {
			m.deps.Announcer.Dismiss()
		}
		m.announced = ""
	case playback.StateError:
		m.announced = ""
	case playback.StateLoading, playback.StatePaused:
	}
}

func (m Model) handlePlayResult(msg PlayResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		op := errmsg.OpPlaybackStart
		if !msg.FromDirectory && msg.Station.UUID == "" {
			op = errmsg.OpPlayURL
		}
		m.status = errmsg.FormatWith(op, msg.Station.Name, msg.Err)
		return m, nil
	}
	m.snapshot = m.deps.Engine.Snapshot()

	cmds := []tea.Cmd{m.loadRecentCmd(), m.prefetchIconCmd(msg.Station)}
	if msg.FromDirectory {
		cmds = append(cmds, m.reportClickCmd(msg.Station.UUID))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleDirectoryMsg(msg DirectoryMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DiscoverLoadedMsg:
		l := &m.lists[TabDiscover]
		if msg.Err != nil {
			l.loading = false
			l.err = errmsg.Format(errmsg.OpDiscover, msg.Err)
			return m, nil
		}
		l.set(mergeDiscover(msg.Voted, msg.Clicked))
	case SearchResultMsg:
		// A newer query supersedes this one.
		if msg.Query != m.lastQuery {
			return m, nil
		}
		l := &m.lists[TabSearch]
		if msg.Err != nil {
			l.loading = false
			l.err = errmsg.FormatWith(errmsg.OpSearch, msg.Query, msg.Err)
			return m, nil
		}
		l.set(msg.Stations)
		l.cursor, l.offset = 0, 0
	case SuggestionsLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("app: " + errmsg.Format(msg.Op, msg.Err))
			return m, nil
		}
		m.suggestions = suggestionText(msg.Tags, msg.Countries)
	case RecentLoadedMsg:
		l := &m.lists[TabRecent]
		if msg.Err != nil {
			l.loading = false
			l.err = errmsg.Format(errmsg.OpHistoryLoad, msg.Err)
			return m, nil
		}
		l.set(msg.Stations)
	}
	return m, nil
}
