package state

import (
	"database/sql"
	"errors"
	"time"
)

// VolumeState represents the saved volume state.
type VolumeState struct {
	Volume float64
	Muted  bool
}

// GetVolume returns the saved volume state, full volume when none was saved.
func (m *Manager) GetVolume() (*VolumeState, error) {
	m.saveMu.Lock()
	pending := m.pending
	m.saveMu.Unlock()
	if pending != nil {
		v := *pending
		return &v, nil
	}

	var volume float64
	var muted bool

	row := m.db.QueryRow(`SELECT volume, muted FROM volume_state WHERE id = 1`)
	err := row.Scan(&volume, &muted)
	if errors.Is(err, sql.ErrNoRows) {
		return &VolumeState{Volume: 1.0, Muted: false}, nil
	}
	if err != nil {
		return nil, err
	}

	return &VolumeState{Volume: volume, Muted: muted}, nil
}

// SaveVolume persists the volume. Saves are debounced: holding a volume key
// writes once when it is released.
func (m *Manager) SaveVolume(volume float64, muted bool) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &VolumeState{Volume: volume, Muted: muted}

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			_ = saveVolume(m.db, *pending)
		}
	})
}

func saveVolume(db *sql.DB, v VolumeState) error {
	_, err := db.Exec(`
		INSERT INTO volume_state (id, volume, muted)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted
	`, v.Volume, v.Muted)
	return err
}
