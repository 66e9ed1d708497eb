package database

import (
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/seligo-ai/seligo/internal/profile"
)

const profileKey = "profile"

// ProfileRepo persists the whole profile snapshot as one JSON value in
// the kv table. Writes replace the prior snapshot atomically.
type ProfileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Load returns the stored snapshot, or nil when none exists yet.
func (r *ProfileRepo) Load() (*profile.Snapshot, error) {
	var value string
	err := r.db.conn.QueryRow("SELECT value FROM profile_kv WHERE key = ?", profileKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var snap profile.Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot, replacing any prior one.
func (r *ProfileRepo) Save(snap *profile.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", profile.ErrPersist, err)
	}
	_, err = r.db.conn.Exec(
		"INSERT OR REPLACE INTO profile_kv (key, value) VALUES (?, ?)",
		profileKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", profile.ErrPersist, err)
	}
	return nil
}
