package fallback

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/randomizedcoder/trader-wrapper/internal/logging"
)

var fixedNow = time.Date(2024, 3, 1, 12, 30, 45, 123456000, time.UTC)

type recordedRequest struct {
	route string
	code  int
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeRecorder) FallbackRequest(route string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{route, code})
}

func (f *fakeRecorder) all() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestServer(st State, logOut io.Writer, rec RequestRecorder) *Server {
	if logOut == nil {
		logOut = io.Discard
	}
	logger := logging.WithTag(logging.NewLoggerWithWriter(logOut, "text", "info"), logging.TagFallback)
	return New(Config{
		Addr:    "127.0.0.1:0",
		Port:    "10000",
		State:   st,
		Logger:  logger,
		Metrics: rec,
		Now:     func() time.Time { return fixedNow },
	})
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	s := newTestServer(State{Reason: "not_found"}, nil, nil)

	rr := serve(t, s.Handler(), http.MethodGet, "/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var got HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "fallback" {
		t.Errorf("status = %q, want fallback", got.Status)
	}
	if got.ExecutableFound {
		t.Error("executable_found = true, want false")
	}
	if got.Message == "" {
		t.Error("message is empty")
	}
	if got.Timestamp != "2024-03-01T12:30:45.123456Z" {
		t.Errorf("timestamp = %q", got.Timestamp)
	}
}

func TestHealth_RawKeys(t *testing.T) {
	s := newTestServer(State{}, nil, nil)

	rr := serve(t, s.Handler(), http.MethodGet, "/health")

	var raw map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"status", "message", "executable_found", "timestamp"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q in %s", key, rr.Body.String())
		}
	}
	if len(raw) != 4 {
		t.Errorf("got %d keys, want 4: %s", len(raw), rr.Body.String())
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name       string
		state      State
		executable string
	}{
		{"not_found", State{Reason: "not_found"}, ExecutableMissing},
		{"launch_failed", State{Located: true, Reason: "not_executable"}, ExecutableMissing},
		{"launch_other", State{Located: true, Reason: "other"}, ExecutableMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.state, nil, nil)

			rr := serve(t, s.Handler(), http.MethodGet, "/status")
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}

			var got StatusResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			want := StatusResponse{
				Service:    "forex-websocket-trader",
				Wrapper:    "python",
				Executable: tt.executable,
				Port:       "10000",
				Timestamp:  "2024-03-01T12:30:45.123456Z",
			}
			if got != want {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestHealth_MessageReflectsState(t *testing.T) {
	missing := newHealthResponse(State{Reason: "not_found"}, fixedNow)
	failed := newHealthResponse(State{Located: true, Reason: "not_executable"}, fixedNow)

	if missing.Message == failed.Message {
		t.Errorf("messages should differ, both %q", missing.Message)
	}
	if !strings.Contains(failed.Message, "not_executable") {
		t.Errorf("failed message should carry reason, got %q", failed.Message)
	}
	if missing.ExecutableFound || failed.ExecutableFound {
		t.Error("executable_found must be false for every fallback cause")
	}
	if missing.Status != failed.Status {
		t.Errorf("status should not depend on the cause: %q vs %q", missing.Status, failed.Status)
	}
}

func TestNotFound(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/foo"},
		{http.MethodGet, "/health/"},
		{http.MethodGet, "/healthz"},
		{http.MethodPost, "/health"},
		{http.MethodPut, "/status"},
		{http.MethodDelete, "/other"},
	}

	s := newTestServer(State{}, nil, nil)
	h := s.Handler()

	for _, tt := range tests {
		t.Run(tt.method+tt.path, func(t *testing.T) {
			rr := serve(t, h, tt.method, tt.path)
			if rr.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rr.Code)
			}
			if body := rr.Body.String(); body != "Not Found" {
				t.Errorf("body = %q, want %q", body, "Not Found")
			}
		})
	}
}

func TestRequestsAreLoggedAndRecorded(t *testing.T) {
	var logs bytes.Buffer
	rec := &fakeRecorder{}
	s := newTestServer(State{}, &logs, rec)
	h := s.Handler()

	serve(t, h, http.MethodGet, "/health")
	serve(t, h, http.MethodGet, "/status")
	serve(t, h, http.MethodGet, "/nope")

	out := logs.String()
	if got := strings.Count(out, "[FALLBACK] request"); got != 3 {
		t.Errorf("logged %d requests, want 3:\n%s", got, out)
	}
	if !strings.Contains(out, "path=/nope") || !strings.Contains(out, "status=404") {
		t.Errorf("missing 404 log entry:\n%s", out)
	}

	want := []recordedRequest{
		{"/health", 200},
		{"/status", 200},
		{"other", 404},
	}
	got := rec.all()
	if len(got) != len(want) {
		t.Fatalf("recorded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestListenAndServe(t *testing.T) {
	s := newTestServer(State{}, nil, nil)
	errCh := make(chan error, 1)

	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	go func() { errCh <- s.Serve() }()

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("Serve returned %v", err)
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(State{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe(ctx) }()

	// Give the listener a moment to come up before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ListenAndServe returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}

func TestListenAndServe_BindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	s := New(Config{
		Addr:   ln.Addr().String(),
		Port:   "10000",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	if err := s.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected bind error, got nil")
	}
}

func TestServe_WithoutListen(t *testing.T) {
	s := newTestServer(State{}, nil, nil)
	if err := s.Serve(); err == nil {
		t.Fatal("expected error when serving without a listener")
	}
}

func TestAddr(t *testing.T) {
	s := newTestServer(State{}, nil, nil)
	if got := s.Addr(); got != "127.0.0.1:0" {
		t.Errorf("Addr before Listen = %q", got)
	}
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer s.listener.Close()
	if got := s.Addr(); got == "127.0.0.1:0" {
		t.Errorf("Addr after Listen should carry the bound port, got %q", got)
	}
}
