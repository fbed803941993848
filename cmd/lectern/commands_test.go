package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, server, logLevel = "", "", ""
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.RequestURI() {
		case "/":
			_, _ = w.Write([]byte(`<ul id="content-list" data-total="2"><li><h3>First</h3></li></ul>`))
		case "/?p=2":
			_, _ = w.Write([]byte(`<li><h3>Second</h3></li>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckCommand(t *testing.T) {
	srv := newServer(t)
	cfg := filepath.Join(t.TempDir(), "missing.toml")

	out, err := runCmd(t, "check", "--config", cfg, "--server", srv.URL, "--workers", "2", "--cycles", "2", "/", "/nope")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"SUCCESS[", "FAIL[", "Transactions:", "Availability:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "---->"); got != 8 {
		t.Fatalf("status lines = %d, want 8", got)
	}
}

func TestCheckCommandRequiresURL(t *testing.T) {
	if _, err := runCmd(t, "check"); err == nil {
		t.Fatal("check without URLs succeeded")
	}
}

func TestPagesCommand(t *testing.T) {
	srv := newServer(t)
	cfg := filepath.Join(t.TempDir(), "missing.toml")

	out, err := runCmd(t, "pages", "--config", cfg, "--server", srv.URL, "--log-level", "error")
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	first := strings.Index(out, "First")
	second := strings.Index(out, "Second")
	if first < 0 || second < first || !strings.Contains(out, "-- end --") {
		t.Fatalf("output = %q", out)
	}
}
