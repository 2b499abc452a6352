package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/antenna/internal/db"
	"github.com/llehouerou/antenna/internal/station"
)

// maxHistory is the number of stations kept in the play history.
const maxHistory = 50

// RecordPlay moves st to the top of the play history.
func (m *Manager) RecordPlay(st station.Station) error {
	return recordPlay(m.db, st, time.Now())
}

func recordPlay(conn *sql.DB, st station.Station, at time.Time) error {
	if st.ID() == "" {
		return errors.New("record play: station has no uuid")
	}
	return db.WithTx(conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO play_history
				(station_uuid, name, url, url_resolved, favicon, countrycode, tags, codec, bitrate, played_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(station_uuid) DO UPDATE SET
				name = excluded.name,
				url = excluded.url,
				url_resolved = excluded.url_resolved,
				favicon = excluded.favicon,
				countrycode = excluded.countrycode,
				tags = excluded.tags,
				codec = excluded.codec,
				bitrate = excluded.bitrate,
				played_at = excluded.played_at
		`, st.UUID, st.Name, st.URL, db.NullString(st.URLResolved), db.NullString(st.Favicon),
			db.NullString(st.CountryCode), db.NullString(st.Tags), db.NullString(st.Codec), st.Bitrate, at.UnixNano())
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM play_history WHERE station_uuid NOT IN (
				SELECT station_uuid FROM play_history ORDER BY played_at DESC LIMIT ?
			)
		`, maxHistory)
		return err
	})
}

// RecentStations returns up to limit stations, most recently played first.
func (m *Manager) RecentStations(limit int) ([]station.Station, error) {
	return recentStations(m.db, limit)
}

// GetLastStation returns the most recently played station, or nil.
func (m *Manager) GetLastStation() (*station.Station, error) {
	list, err := recentStations(m.db, 1)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func recentStations(conn *sql.DB, limit int) ([]station.Station, error) {
	if limit <= 0 || limit > maxHistory {
		limit = maxHistory
	}
	rows, err := conn.Query(`
		SELECT station_uuid, name, url, url_resolved, favicon, countrycode, tags, codec, bitrate
		FROM play_history
		ORDER BY played_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []station.Station
	for rows.Next() {
		var st station.Station
		var resolved, favicon, country, tags, codec sql.NullString
		if err := rows.Scan(&st.UUID, &st.Name, &st.URL, &resolved, &favicon, &country, &tags, &codec, &st.Bitrate); err != nil {
			return nil, err
		}
		st.URLResolved = db.NullStringValue(resolved)
		st.Favicon = db.NullStringValue(favicon)
		st.CountryCode = db.NullStringValue(country)
		st.Tags = db.NullStringValue(tags)
		st.Codec = db.NullStringValue(codec)
		// Only stations that played end up here.
		st.LastCheckOK = 1
		out = append(out, st)
	}
	return out, rows.Err()
}
