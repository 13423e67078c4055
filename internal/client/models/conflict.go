package models

import "time"

// Conflict keeps both versions of a song whose local and server copies
// diverged during a merge. It is resolved by an explicit action and never
// deleted automatically.
type Conflict struct {
	SongID    string    `json:"songId"`
	Local     Song      `json:"local"`
	Server    Song      `json:"server"`
	Resolved  bool      `json:"resolved"`
	Timestamp time.Time `json:"timestamp"`
}
