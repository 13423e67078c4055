package models

import "time"

// ChangeType discriminates outbox entries.
type ChangeType string

const (
	ChangeFavorite   ChangeType = "favorite"
	ChangeSongCreate ChangeType = "song_create"
	ChangeSongUpdate ChangeType = "song_update"
)

// Change is an outbox entry: a mutation made while the data service could not
// be reached, waiting to be replayed.
type Change struct {
	// ID is assigned by the store on enqueue.
	ID int64 `json:"id"`

	Type   ChangeType `json:"type"`
	UserID string     `json:"userId"`
	SongID string     `json:"songId"`

	// IsFavorite is meaningful for ChangeFavorite entries.
	IsFavorite bool `json:"isFavorite"`

	// Song carries the payload of song create/update entries.
	Song *Song `json:"song,omitempty"`

	Synced    bool      `json:"synced"`
	Timestamp time.Time `json:"timestamp"`
}
