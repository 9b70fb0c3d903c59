// Package cli provides the interactive staff directory command-line client.
//
// The client works on its own local cache, syncing with the remote source
// directly, or against a running directory daemon when an address is
// configured. A background watcher probes for remote changes and the REPL
// offers search with filters, sync, status and team views.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartUpdateWatcher, and runREPL for details.
package cli
