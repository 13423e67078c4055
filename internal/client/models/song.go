// Package models defines the records kept by the SongBook local store.
package models

import "time"

// Source tags where the working copy of a song came from.
type Source string

const (
	SourceServer      Source = "server"
	SourceLocal       Source = "local"
	SourceLocalMerged Source = "local_merged"
)

// Song is a lyrics record. It is replaced wholesale on every upsert.
type Song struct {
	// ID is the opaque identifier assigned by the data service.
	ID string `json:"id"`

	Title    string `json:"title"`
	Language string `json:"language"`

	// Content is the lyrics body.
	Content string `json:"content"`

	Source Source `json:"source,omitempty"`

	// LastModified is milliseconds since the Unix epoch; zero means the
	// record was never modified locally.
	LastModified int64 `json:"lastModified"`
}

// Modified returns LastModified as a time.Time in UTC.
func (s Song) Modified() time.Time {
	return time.UnixMilli(s.LastModified).UTC()
}

// WithSource returns a copy of s tagged with src.
func (s Song) WithSource(src Source) Song {
	s.Source = src
	return s
}
