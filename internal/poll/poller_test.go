package poll

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lectern-app/lectern/internal/fragment"
	"github.com/lectern-app/lectern/internal/librarian"
)

type recordingTarget struct {
	mu       sync.Mutex
	content  []string
	failures int
}

func (r *recordingTarget) Replace(frag fragment.Fragment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = append(r.content, frag.Raw)
}

func (r *recordingTarget) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *recordingTarget) snapshot() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.content...), r.failures
}

// stamps records request arrival times for one endpoint.
type stamps struct {
	mu    sync.Mutex
	times []time.Time
}

func (s *stamps) add() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.times = append(s.times, time.Now())
}

func (s *stamps) get() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.times...)
}

func newClient(t *testing.T, handler http.Handler) *librarian.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := librarian.NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestPoller_ReplacesContentOnSuccess(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<p>locked</p>`))
	}))
	target := &recordingTarget{}
	p := New("status", "/ondd/status/", time.Second, c, target, zerolog.Nop())

	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("Poll returned error: %v", err)
	}
	content, failures := target.snapshot()
	if len(content) != 1 || content[0] != `<p>locked</p>` || failures != 0 {
		t.Fatalf("content=%q failures=%d, want one replace", content, failures)
	}
}

func TestPoller_FailureLeavesContentAndReschedulesAfterInterval(t *testing.T) {
	var hits stamps
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.add()
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	target := &recordingTarget{}
	const interval = 60 * time.Millisecond
	p := New("status", "/ondd/status/", interval, c, target, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for len(hits.get()) < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d polls within deadline", len(hits.get()))
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	times := hits.get()
	if first := times[0].Sub(start); first < interval-5*time.Millisecond {
		t.Fatalf("first poll after %v, want about %v", first, interval)
	}
	for i := 1; i < len(times); i++ {
		if gap := times[i].Sub(times[i-1]); gap < interval-5*time.Millisecond {
			t.Fatalf("gap between polls %d and %d = %v, want >= %v", i-1, i, gap, interval)
		}
	}
	content, failures := target.snapshot()
	if len(content) != 0 {
		t.Fatalf("content replaced on failure: %q", content)
	}
	if failures < 3 {
		t.Fatalf("failures = %d, want >= 3", failures)
	}
}

func TestPoller_IndependentChains(t *testing.T) {
	var fast, slow atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/fast", func(w http.ResponseWriter, r *http.Request) {
		fast.Add(1)
		_, _ = w.Write([]byte("fast"))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		slow.Add(1)
		// A slow endpoint must not hold back the other chain.
		time.Sleep(40 * time.Millisecond)
		_, _ = w.Write([]byte("slow"))
	})
	c := newClient(t, mux)

	a := New("a", "/fast", 15*time.Millisecond, c, &recordingTarget{}, zerolog.Nop())
	b := New("b", "/slow", 150*time.Millisecond, c, &recordingTarget{}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 900*time.Millisecond)
	defer cancel()
	var wg sync.WaitGroup
	for _, p := range []*Poller{a, b} {
		wg.Add(1)
		go func(p *Poller) {
			defer wg.Done()
			_ = p.Run(ctx)
		}(p)
	}
	wg.Wait()

	// 900ms at 15ms cadence allows at most 60 polls; at 150ms+40ms at most 5.
	if got := fast.Load(); got < 15 || got > 60 {
		t.Fatalf("fast poller fetched %d times, want between 15 and 60", got)
	}
	if got := slow.Load(); got < 2 || got > 5 {
		t.Fatalf("slow poller fetched %d times, want between 2 and 5", got)
	}
	if fast.Load() < 3*slow.Load() {
		t.Fatalf("fast=%d slow=%d, want fast chain unaffected by slow one", fast.Load(), slow.Load())
	}
}

func TestPoller_DisabledWhenRefEmpty(t *testing.T) {
	var hits atomic.Int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	p := New("files", "  ", 5*time.Millisecond, c, &recordingTarget{}, zerolog.Nop())
	if p.Enabled() {
		t.Fatal("Enabled() = true for empty ref")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Run blocked until context expiry, want immediate return")
	}
	if hits.Load() != 0 {
		t.Fatalf("disabled poller made %d requests", hits.Load())
	}
}
