// Package ui provides the terminal user interface for lectern.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds all view state and renders
// from a state.Snapshot that is refreshed on a fixed tick; pollers and the
// pager write into the store from their own goroutines and never touch the
// model directly.
//
// # Package Structure
//
//   - app.go: Model, Options, the update loop and view switching
//   - library.go: the content list, scroll debounce and page requests
//   - panes.go: the status and downloads panes
//   - settings.go: the receiver settings form
//   - logs.go: the log file tail
//   - header.go, help.go: chrome and the help overlay
//   - theme.go, segments.go, strings.go: styling and text helpers
//
// # Views
//
//   - Library (c): the paged content list
//   - Status (s): receiver status, refreshed by the status poller
//   - Downloads (f): in-progress files, refreshed by the files poller
//   - Settings (o): transponder presets and manual tuning
//   - Logs (l): lectern's own log file, following by default
//
// # Paging
//
// Every scroll in the library bumps a sequence number and schedules a
// scrollSettledMsg after the debounce interval. Only the message carrying the
// newest sequence runs the load threshold check, so a burst of scrolling
// produces at most one page request. Pressing m requests the next page
// directly. Both paths go through the same paging.Fetcher, whose gate drops
// requests while one is in flight.
package ui
