// Package cache stores cache generations: named buckets of captured HTTP
// responses keyed by request method and URL.
//
// Three Storage backends exist. Memory keeps everything in process and is
// used for tests and ephemeral runs. SQLite persists generations in a local
// database migrated with goose. S3 keeps one object per entry under
// "<generation>/<key>" so several controller replicas can share a bucket.
//
// Keys and body digests are BLAKE2b-256 hashes rendered as hex.
package cache
