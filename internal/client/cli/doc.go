// Package cli provides the cfreminder command-line client.
//
// It wires configuration, the local identity store, the backend client and
// the workflow services, and exposes them two ways: an interactive REPL
// (the default, see App.Run) and one-shot cobra subcommands for scripting.
//
// The REPL keeps a background connectivity watcher running and shows the
// current user and online/offline mode in its prompt.
package cli
