// Package state provides thread-safe state management for lectern.
//
// # Overview
//
// The Store is the meeting point between the background producers (the two
// pollers and the page fetcher) and the Bubble Tea UI. Producers write
// through small adapters; the UI reads immutable snapshots on each tick.
//
//	Producers:                          Consumer (UI):
//	┌──────────────────────┐           ┌─────────────────┐
//	│ status poller        │──Pane────→│                 │
//	│ files poller         │──Pane────→│ store.Snapshot()│
//	│ paging.Fetcher       │──Library─→│      ↓          │
//	└──────────────────────┘  (mutex)  │  render views   │
//	                                   └─────────────────┘
//
// # Core Types
//
// Pane:
//   - Text lines of the last successfully polled fragment
//   - Last error and consecutive failure count; the previous lines survive a
//     failed poll so the display is never blanked by a transient error
//
// Library:
//   - Flattened entries of every page appended so far
//   - Loading and Ended flags driven by the fetcher's indicator callbacks
//   - A single notice slot for empty-page and failure messages
//
// # Adapters
//
// Store.Pane(id) returns a poll.Target, and Store.Library() returns a value
// satisfying both paging.Container and paging.Indicator. Neither package
// imports state; the adapters are wired in internal/app.
//
// # Concurrency Model
//
// All writes take the write lock; Snapshot takes the read lock and returns
// deep copies of slices and errors, so the UI can hold a snapshot across
// renders without racing the producers. No lock is held during network I/O.
package state
