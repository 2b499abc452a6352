// internal/app/commands.go
package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/antenna/internal/errmsg"
	"github.com/llehouerou/antenna/internal/station"
)

// WatchServiceEvents returns a command that waits for the next engine event.
func (m Model) WatchServiceEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateChangedMsg(e)
		case e := <-sub.StationChanged:
			return StationChangedMsg(e)
		case e := <-sub.Error:
			return PlaybackErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// WatchSaveErrors returns a command that waits for a favorites save failure.
func (m Model) WatchSaveErrors() tea.Cmd {
	ch := m.deps.SaveErrors
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return FavoritesSaveFailedMsg{Err: err}
	}
}

// WatchStderr returns a command that waits for a native stderr line.
func (m Model) WatchStderr() tea.Cmd {
	ch := m.deps.Stderr
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil
		}
		return StderrMsg(line)
	}
}

func (m Model) loadDiscoverCmd() tea.Cmd {
	dir := m.deps.Directory
	return func() tea.Msg {
		ctx := context.Background()
		voted, err := dir.TopVoted(ctx, discoverLimit)
		if err != nil {
			return DiscoverLoadedMsg{Err: err}
		}
		clicked, err := dir.TopClicked(ctx, discoverLimit)
		if err != nil {
			return DiscoverLoadedMsg{Err: err}
		}
		return DiscoverLoadedMsg{Voted: voted, Clicked: clicked}
	}
}

func (m Model) searchCmd(query string) tea.Cmd {
	dir := m.deps.Directory
	f := parseQuery(query)
	return func() tea.Msg {
		stations, err := dir.Search(context.Background(), f)
		return SearchResultMsg{Query: query, Stations: stations, Err: err}
	}
}

func (m Model) loadSuggestionsCmd() tea.Cmd {
	dir := m.deps.Directory
	return func() tea.Msg {
		ctx := context.Background()
		tags, err := dir.Tags(ctx, suggestTags*2)
		if err != nil {
			return SuggestionsLoadedMsg{Op: errmsg.OpTags, Err: err}
		}
		countries, err := dir.Countries(ctx)
		if err != nil {
			return SuggestionsLoadedMsg{Op: errmsg.OpCountries, Err: err}
		}
		return SuggestionsLoadedMsg{Tags: tags, Countries: countries}
	}
}

func (m Model) loadRecentCmd() tea.Cmd {
	history := m.deps.History
	return func() tea.Msg {
		stations, err := history.RecentStations(recentLimit)
		return RecentLoadedMsg{Stations: stations, Err: err}
	}
}

// playStationCmd starts st and records it in the history.
func (m Model) playStationCmd(st station.Station, fromDirectory bool) tea.Cmd {
	engine, history, logger := m.deps.Engine, m.deps.History, m.logger
	return func() tea.Msg {
		if err := engine.PlayStation(st); err != nil {
			return PlayResultMsg{Station: st, FromDirectory: fromDirectory, Err: err}
		}
		if err := history.RecordPlay(st); err != nil {
			logger.Warn("app: " + errmsg.FormatWith(errmsg.OpHistoryRecord, st.Name, err))
		}
		return PlayResultMsg{Station: st, FromDirectory: fromDirectory}
	}
}

func (m Model) playURLCmd(url string) tea.Cmd {
	engine, history, logger := m.deps.Engine, m.deps.History, m.logger
	return func() tea.Msg {
		st, err := engine.PlayURL(url, "")
		if err != nil {
			return PlayResultMsg{Station: station.Station{Name: url, URL: url}, Err: err}
		}
		if err := history.RecordPlay(st); err != nil {
			logger.Warn("app: " + errmsg.FormatWith(errmsg.OpHistoryRecord, st.Name, err))
		}
		return PlayResultMsg{Station: st}
	}
}

// reportClickCmd tells the directory a station was played. The outcome
// never reaches the UI.
func (m Model) reportClickCmd(uuid string) tea.Cmd {
	dir, logger := m.deps.Directory, m.logger
	return func() tea.Msg {
		if err := dir.ReportClick(context.Background(), uuid); err != nil {
			logger.Debug("app: "+errmsg.Format(errmsg.OpReportClick, err), "uuid", uuid)
		}
		return nil
	}
}

// prefetchIconCmd loads the station favicon into the artwork cache.
func (m Model) prefetchIconCmd(st station.Station) tea.Cmd {
	art := m.deps.Artwork
	url := st.FaviconURL()
	if art == nil || url == "" {
		return nil
	}
	return func() tea.Msg {
		art.Fetch(context.Background(), url)
		return nil
	}
}
