// internal/app/view.go
package app

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/antenna/internal/keymap"
	"github.com/llehouerou/antenna/internal/playback"
	"github.com/llehouerou/antenna/internal/station"
	"github.com/llehouerou/antenna/internal/ui/render"
	"github.com/llehouerou/antenna/internal/ui/styles"
)

const (
	// Lines taken by everything except the station rows: header,
	// separator, player box (3) and status line.
	chromeHeight = 6

	volumeMeterWidth = 8
)

// View renders the application UI.
func (m Model) View() string {
	var lines []string
	lines = append(lines, m.renderHeader(), render.Separator(m.width))
	if m.tab == TabSearch {
		lines = append(lines, m.searchInput.View())
	}
	lines = append(lines, m.renderList()...)
	lines = append(lines, m.renderPlayer())
	lines = append(lines, m.renderStatus())

	out := strings.Split(strings.Join(lines, "\n"), "\n")
	for i, line := range out {
		out[i] = render.Clip(line, m.width)
	}
	return strings.Join(out, "\n")
}

func (m Model) listHeight() int {
	h := m.height - chromeHeight
	if m.tab == TabSearch {
		h--
	}
	return max(h, 1)
}

func (m Model) renderHeader() string {
	s := styles.T().S()
	var tabs []string
	for t := range tabCount {
		label := fmt.Sprintf("%d %s", t+1, t)
		if t == m.tab {
			tabs = append(tabs, s.TabActive.Render(label))
		} else {
			tabs = append(tabs, s.TabIdle.Render(label))
		}
	}
	left := styles.Logo("Antenna") + "  " + strings.Join(tabs, "")
	return render.Row(left, m.volumeLabel(), m.width)
}

func (m Model) volumeLabel() string {
	if m.muted {
		return styles.T().S().Muted.Render("muted")
	}
	return styles.Meter(m.volume, volumeMeterWidth) + fmt.Sprintf(" %d%%", int(m.volume*100+0.5))
}

func (m Model) renderList() []string {
	s := styles.T().S()
	height := m.listHeight()
	l := m.lists[m.tab]

	var lines []string
	switch {
	case l.loading && len(l.items) == 0:
		lines = append(lines, s.Muted.Render("Loading…"))
	case l.err != "":
		lines = append(lines, s.Error.Render(l.err))
	case len(l.items) == 0:
		lines = append(lines, s.Muted.Render(m.emptyText()))
		if m.tab == TabSearch && m.lastQuery == "" && m.suggestions != "" && height > 1 {
			lines = append(lines, s.Subtle.Render("Try "+m.suggestions))
		}
	default:
		rows, first := l.visible(height)
		for i, st := range rows {
			lines = append(lines, m.renderRow(st, first+i == l.cursor))
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func (m Model) emptyText() string {
	switch m.tab {
	case TabSearch:
		if m.lastQuery == "" {
			return "Press / to search the station directory"
		}
		return "No stations match " + m.lastQuery
	case TabFavorites:
		return "No favorites yet. Press f on a station to add it"
	case TabRecent:
		return "Nothing played yet"
	case TabDiscover, tabCount:
	}
	return "No stations"
}

func (m Model) renderRow(st station.Station, selected bool) string {
	s := styles.T().S()

	marker := "  "
	if m.isOnAir(st) {
		marker = s.Playing.Render("▶ ")
	}
	fav := "  "
	if m.deps.Favorites.Contains(st.ID()) {
		fav = s.Favorite.Render("★ ")
	}

	details := stationDetails(st)
	nameWidth := max(m.width-4-len(details)-1, 8)
	name := render.TruncateAndPad(st.Name, nameWidth)
	if !st.IsOnline() {
		name = s.Subtle.Render(name)
	}

	line := render.Row(marker+fav+name, s.Muted.Render(details), m.width)
	if selected {
		return s.Cursor.Render(line)
	}
	return line
}

// stationDetails is the right-hand column: country, format and popularity.
func stationDetails(st station.Station) string {
	var parts []string
	if st.CountryCode != "" {
		parts = append(parts, st.CountryCode)
	}
	switch {
	case st.Codec != "" && st.Bitrate > 0:
		parts = append(parts, fmt.Sprintf("%s %dk", strings.ToUpper(st.Codec), st.Bitrate))
	case st.Codec != "":
		parts = append(parts, strings.ToUpper(st.Codec))
	}
	if st.Votes > 0 {
		parts = append(parts, humanize.Comma(int64(st.Votes))+" votes")
	}
	return strings.Join(parts, "  ")
}

func (m Model) isOnAir(st station.Station) bool {
	cur := m.snapshot.Station
	return cur != nil && cur.ID() == st.ID() && m.snapshot.State.IsActive()
}

func (m Model) renderPlayer() string {
	s := styles.T().S()
	snap := m.snapshot

	var icon, label string
	switch snap.State {
	case playback.StatePlaying:
		icon, label = "▶", "Playing"
	case playback.StatePaused:
		icon, label = "⏸", "Paused"
	case playback.StateLoading:
		icon, label = "…", "Buffering"
	case playback.StateError:
		icon, label = "✕", "Error"
	case playback.StateIdle:
		icon, label = "■", "Stopped"
	}

	text := s.Muted.Render(icon + " " + label)
	if snap.Title != "" {
		title := render.Truncate(snap.Title, max(m.width-20, 10))
		text += "  " + s.Title.Render(title)
	}
	if snap.State == playback.StateError && snap.Err != "" {
		text += "  " + s.Error.Render(snap.Err)
	}

	box := styles.BoxStyle(snap.State.IsActive()).Width(max(m.width-2, 10))
	return box.Render(text)
}

func (m Model) renderStatus() string {
	s := styles.T().S()
	switch m.input {
	case inputURL, inputStationURL:
		return m.urlInput.View()
	case inputStationName:
		return m.nameInput.View()
	case inputSearch:
		return s.Muted.Render("enter search · esc cancel")
	case inputNone:
	}
	if m.status != "" {
		return s.Warning.Render(m.status)
	}
	return s.Subtle.Render(m.keys.Hint(
		keymap.ActionSelect,
		keymap.ActionPlayPause,
		keymap.ActionStop,
		keymap.ActionToggleFavorite,
		keymap.ActionSearch,
		keymap.ActionAddCustom,
		keymap.ActionAddStation,
		keymap.ActionQuit,
	))
}
