// Package client contains client-side building blocks for cfreminder.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     reminder backend: profile save/fetch, contest listing, subscription
//     read/replace, reminder preview, dispatch and a liveness probe.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) built on the
//     gateway package, which owns headers, error normalization, timeouts and
//     retries.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Backend and network failures surface as *gateway.Error; Ping maps any
// failure to ErrUnavailable.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
