package notify

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/harveywai/leadflow/pkg/dashboard"
)

type recorder struct {
	mu       sync.Mutex
	payloads []Payload
	auth     []string
	status   int
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var p Payload
	_ = json.NewDecoder(req.Body).Decode(&p)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, p)
	r.auth = append(r.auth, req.Header.Get("Authorization"))
	if r.status != 0 {
		w.WriteHeader(r.status)
	}
}

func (r *recorder) events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for _, p := range r.payloads {
		out = append(out, p.Event)
	}
	return out
}

func newNotifier(t *testing.T, rec *recorder, secret string) *Notifier {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	return New(srv.URL, secret, time.Second)
}

var started = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestFormatMessage(t *testing.T) {
	got := formatMessage("sync {{ generation }} had {{leads}} leads, {{unknown}}", map[string]string{
		"generation": "4",
		"leads":      "12",
	})
	want := "sync 4 had 12 leads, {{unknown}}"
	if got != want {
		t.Errorf("formatMessage = %q, want %q", got, want)
	}
}

func TestObserveTransitions(t *testing.T) {
	rec := &recorder{}
	n := newNotifier(t, rec, "")
	offline := errors.New("backend offline")

	outcomes := []dashboard.Outcome{
		{Generation: 1, StartedAt: started, LeadCount: 3, Live: true},
		{Generation: 2, StartedAt: started, LeadCount: 3, Live: true},
		{Generation: 3, StartedAt: started, Err: offline},
		{Generation: 4, StartedAt: started, Err: offline},
		{Generation: 5, StartedAt: started, Err: offline, Stale: true},
		{Generation: 6, StartedAt: started, LeadCount: 4, Live: true},
		{Generation: 7, StartedAt: started, LeadCount: 4, Live: false},
		{Generation: 8, StartedAt: started, LeadCount: 4, Live: false},
	}
	for _, o := range outcomes {
		n.Observe(o)
	}

	want := []string{EventBackendOffline, EventBackendRecovered, EventIntegrationChanged}
	if diff := cmp.Diff(want, rec.events()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if got := rec.payloads[0].Body; got != "LeadFlow cannot reach the lead backend (sync #3): backend offline" {
		t.Errorf("offline body = %q", got)
	}
	if got := rec.payloads[2].Body; got != "LeadFlow integration mode is now Local Dashboard Only" {
		t.Errorf("integration body = %q", got)
	}
	if got := rec.payloads[1].Time; got != "2026-03-01T12:00:00Z" {
		t.Errorf("time = %q", got)
	}
}

func TestObserveOfflineAtStartup(t *testing.T) {
	rec := &recorder{}
	n := newNotifier(t, rec, "")

	n.Observe(dashboard.Outcome{Generation: 1, StartedAt: started, Err: errors.New("connection refused")})

	if diff := cmp.Diff([]string{EventBackendOffline}, rec.events()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSendSecretAndStatus(t *testing.T) {
	rec := &recorder{}
	n := newNotifier(t, rec, "s3cret")

	if err := n.Send(EventBackendRecovered, map[string]string{"leads": "1", "generation": "2"}, started); err != nil {
		t.Fatalf("Send: %v", err)
	}
	rec.mu.Lock()
	if rec.auth[0] != "Bearer s3cret" {
		t.Errorf("Authorization = %q", rec.auth[0])
	}
	rec.status = http.StatusInternalServerError
	rec.mu.Unlock()

	if err := n.Send(EventBackendRecovered, nil, started); err == nil {
		t.Error("expected an error for a failing webhook")
	}
	if err := n.Send("unknown_event", nil, started); err == nil {
		t.Error("expected an error for an event without template")
	}
}
