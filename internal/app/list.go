// internal/app/list.go
package app

import "github.com/llehouerou/antenna/internal/station"

// stationList is one tab's rows with its cursor and scroll offset.
type stationList struct {
	items   []station.Station
	cursor  int
	offset  int
	loading bool
	err     string
}

// set replaces the rows, keeping the cursor in range.
func (l *stationList) set(items []station.Station) {
	l.items = items
	l.loading = false
	l.err = ""
	l.clamp()
}

func (l *stationList) clamp() {
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.offset > l.cursor {
		l.offset = l.cursor
	}
}

func (l *stationList) move(delta int) {
	l.cursor += delta
	l.clamp()
}

func (l *stationList) jumpEnd() {
	l.cursor = len(l.items) - 1
	l.clamp()
}

// selected returns the station under the cursor.
func (l *stationList) selected() (station.Station, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return station.Station{}, false
	}
	return l.items[l.cursor], true
}

// visible returns the window of rows to draw for the given height and the
// index of the first one.
func (l *stationList) visible(height int) ([]station.Station, int) {
	if height <= 0 || len(l.items) == 0 {
		return nil, 0
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+height {
		l.offset = l.cursor - height + 1
	}
	end := min(l.offset+height, len(l.items))
	return l.items[l.offset:end], l.offset
}
