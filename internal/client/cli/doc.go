// Package cli provides the interactive Growth Journal command-line client.
//
// NewApp wires the local SQLite store, the gRPC document client, the sync
// engine and the offline manager. App.Run starts connectivity probing in the
// background and serves a REPL until the user exits. Every write lands in the
// local store first, so the commands work the same online and offline; the
// offline manager syncs on every offline-to-online transition and the sync
// command runs a pass on demand.
//
// The prompt is printed only when stdin is a terminal, so commands can also
// be piped in from a file.
package cli
