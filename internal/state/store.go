package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/lectern-app/lectern/internal/fragment"
)

// PaneID names a polled display.
type PaneID int

const (
	PaneStatus PaneID = iota
	PaneFiles
)

func (p PaneID) String() string {
	switch p {
	case PaneStatus:
		return "status"
	case PaneFiles:
		return "files"
	default:
		return fmt.Sprintf("pane(%d)", int(p))
	}
}

// Pane holds the latest fragment rendered into a polled display.
type Pane struct {
	Lines               []string
	HasContent          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the endpoint has failed for multiple polls.
func (p Pane) IsOffline() bool {
	return p.ConsecutiveFailures >= 2
}

// NoticeLevel grades library notices.
type NoticeLevel int

const (
	NoticeNone NoticeLevel = iota
	NoticeInfo
	NoticeError
)

// Library is the state of the paginated content list.
type Library struct {
	Entries []fragment.Entry
	Page    int
	Total   int
	Loading bool
	Ended   bool
	Notice  string
	Level   NoticeLevel
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Status  Pane
	Files   Pane
	Library Library
}

// Store coordinates concurrent updates from pollers and the page fetcher.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// UpdatePane replaces a pane's content. When err is non-nil the previous
// content is kept but the error is recorded for visibility.
func (s *Store) UpdatePane(id PaneID, lines []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pane := s.pane(id)
	if pane == nil {
		return
	}
	pane.LastUpdated = time.Now()
	if err != nil {
		pane.LastError = err
		pane.ConsecutiveFailures++
		return
	}
	pane.Lines = cloneLines(lines)
	pane.HasContent = true
	pane.LastError = nil
	pane.ConsecutiveFailures = 0
}

// ResetLibrary starts the list over with the first page of entries.
func (s *Store) ResetLibrary(entries []fragment.Entry, page, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Library = Library{
		Entries: cloneEntries(entries),
		Page:    page,
		Total:   total,
	}
}

// AppendEntries adds a page of entries to the list.
func (s *Store) AppendEntries(entries []fragment.Entry, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lib := &s.snapshot.Library
	lib.Entries = append(lib.Entries, cloneEntries(entries)...)
	if page > lib.Page {
		lib.Page = page
	}
}

// SetLoading toggles the loading indicator.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Library.Loading = loading
}

// MarkEnded shows the end-of-content indicator. It cannot be undone except
// by ResetLibrary.
func (s *Store) MarkEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Library.Ended = true
	s.snapshot.Library.Loading = false
}

// SetNotice records a non-blocking message for the library view.
func (s *Store) SetNotice(level NoticeLevel, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Library.Notice = msg
	s.snapshot.Library.Level = level
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Status = clonePane(s.snapshot.Status)
	snap.Files = clonePane(s.snapshot.Files)
	snap.Library.Entries = cloneEntries(s.snapshot.Library.Entries)
	return snap
}

func (s *Store) pane(id PaneID) *Pane {
	switch id {
	case PaneStatus:
		return &s.snapshot.Status
	case PaneFiles:
		return &s.snapshot.Files
	default:
		return nil
	}
}

func clonePane(p Pane) Pane {
	dup := p
	dup.Lines = cloneLines(p.Lines)
	if p.LastError != nil {
		dup.LastError = fmt.Errorf("%w", p.LastError)
	}
	return dup
}

func cloneLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	dup := make([]string, len(lines))
	copy(dup, lines)
	return dup
}

func cloneEntries(entries []fragment.Entry) []fragment.Entry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]fragment.Entry, len(entries))
	for i, e := range entries {
		dup[i] = e
		dup[i].Lines = cloneLines(e.Lines)
	}
	return dup
}
