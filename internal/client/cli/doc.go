// Package cli provides the interactive SongBook command-line client.
//
// It wires configuration, the local store, the sync services and an
// interactive REPL that keeps working offline. A background watcher probes
// the remote side; going from offline to online replays the outbox and
// pulls a fresh snapshot.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
