package check

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lectern-app/lectern/internal/librarian"
)

func TestRun_AgainstServer(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("<ul><li>ok</li></ul>"))
	}))
	defer srv.Close()

	client, err := librarian.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	var out bytes.Buffer
	report, err := Run(context.Background(), Options{
		Client:  client,
		Targets: []string{"/", "/broken"},
		Workers: 2,
		Cycles:  2,
		JSON:    true,
		Out:     &out,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := hits.Load(); got != 8 {
		t.Fatalf("server hits = %d, want 8", got)
	}
	if report.Transactions() != 8 || report.Successful() != 4 || report.Failed() != 4 {
		t.Fatalf("report = %d/%d/%d, want 8/4/4", report.Transactions(), report.Successful(), report.Failed())
	}
	if report.Availability() != 50 {
		t.Fatalf("Availability = %v, want 50", report.Availability())
	}

	var status, records int
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		switch {
		case strings.HasPrefix(line, "----> SUCCESS["), strings.HasPrefix(line, "----> FAIL["):
			status++
		case strings.HasPrefix(line, "{"):
			var resp Response
			if err := json.Unmarshal([]byte(line), &resp); err != nil {
				t.Fatalf("bad JSON line %q: %v", line, err)
			}
			records++
		default:
			t.Fatalf("unexpected output line %q", line)
		}
	}
	if status != 8 || records != 8 {
		t.Fatalf("status lines = %d, JSON lines = %d, want 8 each", status, records)
	}
}

type slowGetter struct {
	delay   time.Duration
	mu      sync.Mutex
	active  int
	maxSeen int
}

func (g *slowGetter) Get(ctx context.Context, ref string) (string, error) {
	g.mu.Lock()
	g.active++
	if g.active > g.maxSeen {
		g.maxSeen = g.active
	}
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.active--
		g.mu.Unlock()
	}()
	select {
	case <-time.After(g.delay):
		return "ok", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestRun_LimitsParallelismToWorkers(t *testing.T) {
	getter := &slowGetter{delay: 20 * time.Millisecond}
	report, err := Run(context.Background(), Options{
		Client:  getter,
		Targets: []string{"/a", "/b", "/c"},
		Workers: 2,
		Silent:  true,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.Transactions() != 6 {
		t.Fatalf("Transactions = %d, want 6", report.Transactions())
	}
	if getter.maxSeen > 2 {
		t.Fatalf("max concurrent loads = %d, want <= 2", getter.maxSeen)
	}
}

func TestRun_SilentSuppressesStatusLines(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), Options{
		Client:  &slowGetter{},
		Targets: []string{"/"},
		Silent:  true,
		Out:     &out,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("silent run wrote %q", out.String())
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Client: &slowGetter{delay: time.Second}, Targets: []string{"/"}})
	if err == nil {
		t.Fatal("Run returned nil error for a cancelled context")
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	if _, err := Run(context.Background(), Options{Targets: []string{"/"}}); err == nil {
		t.Fatal("Run without client returned nil error")
	}
	if _, err := Run(context.Background(), Options{Client: &slowGetter{}}); err == nil {
		t.Fatal("Run without targets returned nil error")
	}
}

func TestStatusLine(t *testing.T) {
	if got := StatusLine(3, "http://x/", Response{Success: true, Time: 12}); got != "----> SUCCESS[3] http://x/ in 12ms" {
		t.Fatalf("StatusLine = %q", got)
	}
	if got := StatusLine(4, "/y", Response{Time: 5}); got != "----> FAIL[4] /y in 5ms" {
		t.Fatalf("StatusLine = %q", got)
	}
}

func TestReport_Stats(t *testing.T) {
	r := Report{
		Responses: []Response{{true, 100}, {true, 300}, {false, 50}, {true, 200}},
		Elapsed:   2 * time.Second,
	}
	if r.Average() != 200*time.Millisecond {
		t.Errorf("Average = %v, want 200ms", r.Average())
	}
	if r.Slowest() != 300*time.Millisecond || r.Fastest() != 100*time.Millisecond {
		t.Errorf("Slowest/Fastest = %v/%v", r.Slowest(), r.Fastest())
	}
	if r.Availability() != 75 {
		t.Errorf("Availability = %v, want 75", r.Availability())
	}
	if r.Rate() != 2 {
		t.Errorf("Rate = %v, want 2", r.Rate())
	}

	var out bytes.Buffer
	if _, err := r.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo returned error: %v", err)
	}
	for _, want := range []string{"Transactions:            4", "Failed transactions:     1", "Availability:            75.0 %"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("report missing %q:\n%s", want, out.String())
		}
	}

	var empty Report
	if empty.Average() != 0 || empty.Fastest() != 0 || empty.Availability() != 0 || empty.Rate() != 0 {
		t.Error("empty report should be all zeros")
	}
}
