package models

import "time"

// AnonymousUserID is the user id of single-user deployments.
const AnonymousUserID = "anonymous"

// Favorite records whether a user marked a song as favorite.
// (UserID, SongID) is the identity; there is at most one record per pair.
type Favorite struct {
	UserID     string    `json:"userId"`
	SongID     string    `json:"songId"`
	IsFavorite bool      `json:"isFavorite"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Key returns the composite "<userId>::<songId>" form of the identity.
func (f Favorite) Key() string {
	return f.UserID + "::" + f.SongID
}
