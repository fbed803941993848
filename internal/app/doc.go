// Package app is the composition root for lectern.
//
// # Overview
//
// Run wires configuration, logging, the librarian client, the shared
// state.Store, the pollers and the UI together:
//
//	Run()
//	  ├─> config.Load()          read ~/.config/lectern/config.toml
//	  ├─> logging.NewFile()      JSON log file (the TUI owns the terminal)
//	  ├─> librarian.NewClient()  fragment client for the server
//	  ├─> OpenLibrary()          first content page and its paging.Fetcher
//	  ├─> poll.Poller x2         status and files panes, in an errgroup
//	  └─> ui.Run()               Bubble Tea program (blocks)
//
// # Error Handling
//
// Fatal errors are returned from Run: an unreadable config, an invalid
// server address or threshold, and a log file that cannot be opened.
//
// Everything after start-up is recoverable. A first content page that fails
// to load leaves the library empty with an error notice; poll and page
// failures are logged and shown in the UI while the previous content stays.
//
// # Headless use
//
// Dump walks the same Fetcher without a UI and prints each page's entries,
// which backs the "lectern pages" command.
package app
