package state

import (
	"fmt"

	"github.com/lectern-app/lectern/internal/fragment"
)

// PaneTarget renders poll results into one pane of the store.
type PaneTarget struct {
	store *Store
	id    PaneID
}

// Pane returns a poll target writing into the given pane.
func (s *Store) Pane(id PaneID) PaneTarget {
	return PaneTarget{store: s, id: id}
}

func (t PaneTarget) Replace(frag fragment.Fragment) {
	t.store.UpdatePane(t.id, frag.Lines(), nil)
}

func (t PaneTarget) Fail(err error) {
	t.store.UpdatePane(t.id, nil, err)
}

// LibraryView adapts the store to the page fetcher's container and indicator.
type LibraryView struct {
	store *Store
}

// Library returns the container/indicator pair for the content list.
func (s *Store) Library() LibraryView {
	return LibraryView{store: s}
}

func (v LibraryView) Append(frag fragment.Fragment) {
	v.store.AppendEntries(frag.Entries(), 0)
}

func (v LibraryView) Loading(page int) {
	v.store.SetLoading(true)
	v.store.SetNotice(NoticeNone, "")
}

func (v LibraryView) Loaded(page int) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	lib := &v.store.snapshot.Library
	lib.Loading = false
	if page > lib.Page {
		lib.Page = page
	}
}

func (v LibraryView) End() {
	v.store.MarkEnded()
}

func (v LibraryView) Empty(page int) {
	v.store.SetLoading(false)
	v.store.SetNotice(NoticeInfo, fmt.Sprintf("Page %d has no content", page))
}

func (v LibraryView) Failed(page int, err error) {
	v.store.SetLoading(false)
	v.store.SetNotice(NoticeError, fmt.Sprintf("Could not load page %d: %v", page, err))
}
