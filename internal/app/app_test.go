package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lectern-app/lectern/internal/config"
	"github.com/lectern-app/lectern/internal/librarian"
	"github.com/lectern-app/lectern/internal/paging"
	"github.com/lectern-app/lectern/internal/state"
)

const firstPage = `<html><body>
<ul id="content-list" data-total="3">
  <li><h3>Alpha</h3><p>first entry</p></li>
  <li><a href="/content/beta/">Beta</a></li>
</ul>
</body></html>`

func newLibraryServer(t *testing.T, pages map[string]string) (*librarian.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.RequestURI()]
		if !ok {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	client, err := librarian.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestOpenLibrary_ReadsListAndTotal(t *testing.T) {
	client, _ := newLibraryServer(t, map[string]string{"/": firstPage})

	lib, err := OpenLibrary(context.Background(), LibraryOptions{Client: client, Path: "/", Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("OpenLibrary: %v", err)
	}
	entries := lib.First.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %#v, want 2 list items", entries)
	}
	if entries[0].Title != "Alpha" || entries[1].Href != "/content/beta/" {
		t.Fatalf("entries = %#v", entries)
	}
	if cur := lib.Fetcher.Cursor(); cur.Current != 1 || cur.Total != 3 {
		t.Fatalf("cursor = %+v, want 1/3", cur)
	}
}

func TestOpenLibrary_PageWithoutListIsSinglePage(t *testing.T) {
	client, _ := newLibraryServer(t, map[string]string{"/": `<p>Nothing here yet</p>`})

	lib, err := OpenLibrary(context.Background(), LibraryOptions{Client: client, Path: "/"})
	if err != nil {
		t.Fatalf("OpenLibrary: %v", err)
	}
	if cur := lib.Fetcher.Cursor(); cur.Total != 1 {
		t.Fatalf("cursor = %+v, want a single page", cur)
	}
	res, err := lib.Fetcher.LoadMore(context.Background())
	if err != nil || res.Outcome != paging.OutcomeEnd {
		t.Fatalf("LoadMore = %v, %v; want end", res.Outcome, err)
	}
}

func TestOpenLibrary_StartsAtRequestedPage(t *testing.T) {
	client, _ := newLibraryServer(t, map[string]string{"/?p=2": firstPage})

	lib, err := OpenLibrary(context.Background(), LibraryOptions{Client: client, Path: "/?p=2"})
	if err != nil {
		t.Fatalf("OpenLibrary: %v", err)
	}
	if cur := lib.Fetcher.Cursor(); cur.Current != 2 {
		t.Fatalf("cursor = %+v, want page 2", cur)
	}
}

func TestOpenLibrary_ServerError(t *testing.T) {
	client, _ := newLibraryServer(t, nil)

	_, err := OpenLibrary(context.Background(), LibraryOptions{Client: client, Path: "/"})
	var statusErr *librarian.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
		t.Fatalf("err = %v, want status 500", err)
	}
}

func TestOpenContent_FillsStore(t *testing.T) {
	client, _ := newLibraryServer(t, map[string]string{"/": firstPage})
	store := &state.Store{}

	pager := openContent(context.Background(), store, client, "/", nil, zerolog.Nop())
	if pager == nil {
		t.Fatal("openContent returned no pager")
	}
	lib := store.Snapshot().Library
	if len(lib.Entries) != 2 || lib.Page != 1 || lib.Total != 3 {
		t.Fatalf("library = %+v", lib)
	}
}

func TestOpenContent_FailureLeavesNotice(t *testing.T) {
	client, _ := newLibraryServer(t, nil)
	store := &state.Store{}

	if pager := openContent(context.Background(), store, client, "/", nil, zerolog.Nop()); pager != nil {
		t.Fatal("openContent returned a pager for a failed first page")
	}
	lib := store.Snapshot().Library
	if lib.Level != state.NoticeError || !strings.Contains(lib.Notice, "Content unavailable") {
		t.Fatalf("notice = %q level %v", lib.Notice, lib.Level)
	}
}

func TestPollers_BlankPathDisables(t *testing.T) {
	cfg := config.Default()
	cfg.FilesPath = ""
	client, _ := newLibraryServer(t, nil)

	ps := pollers(cfg, client, &state.Store{}, zerolog.Nop())
	if len(ps) != 2 {
		t.Fatalf("pollers = %d, want 2", len(ps))
	}
	if !ps[0].Enabled() {
		t.Fatal("status poller disabled")
	}
	if ps[1].Enabled() {
		t.Fatal("files poller enabled with a blank path")
	}
}

func TestDump_FollowsPagesAndSkipsFailures(t *testing.T) {
	client, _ := newLibraryServer(t, map[string]string{
		"/":     firstPage,
		"/?p=2": `<li><h3>Gamma</h3><p>third entry</p></li>`,
		// page 3 is missing and fails with a 500
	})

	var out bytes.Buffer
	if err := Dump(context.Background(), DumpOptions{Client: client, Path: "/", Out: &out}); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	want := []string{
		"Alpha",
		"    first entry",
		"Beta </content/beta/>",
		"-- page 2 --",
		"Gamma",
		"    third entry",
		"-- page 3 --",
		"-- page 3 failed:",
		"-- end --",
	}
	got := out.String()
	pos := 0
	for _, w := range want {
		i := strings.Index(got[pos:], w)
		if i < 0 {
			t.Fatalf("output missing %q after offset %d:\n%s", w, pos, got)
		}
		pos += i + len(w)
	}
}

func TestDump_CancelledContext(t *testing.T) {
	client, _ := newLibraryServer(t, map[string]string{"/": firstPage})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Dump(ctx, DumpOptions{Client: client, Path: "/", Out: &bytes.Buffer{}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
