package cache

import (
	"encoding/hex"
	"net/http"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Entry is one captured response.
type Entry struct {
	Method   string      `json:"method"`
	URL      string      `json:"url"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	Digest   string      `json:"digest"`
	StoredAt time.Time   `json:"storedAt"`
}

// NewEntry captures a response, cloning header and stamping the body digest.
func NewEntry(method, url string, status int, header http.Header, body []byte, now time.Time) Entry {
	return Entry{
		Method:   method,
		URL:      url,
		Status:   status,
		Header:   header.Clone(),
		Body:     body,
		Digest:   Digest(body),
		StoredAt: now.UTC(),
	}
}

// Key identifies an entry inside a generation.
func Key(method, url string) string {
	sum := blake2b.Sum256([]byte(method + " " + url))
	return hex.EncodeToString(sum[:])
}

func Digest(body []byte) string {
	sum := blake2b.Sum256(body)
	return hex.EncodeToString(sum[:])
}
