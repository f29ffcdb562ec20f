package leadapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// newBackend serves the lead API from fixed bodies keyed by path.
func newBackend(t *testing.T, routes map[string]string, status map[string]int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code, ok := status[r.URL.Path]; ok {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"success":false}`))
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchOverview(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/api/leads": `{"success":true,"leads":[{"id":"a","name":"Acme","status":"TO DO","priority":"High"}],
			"config_status":{"clickup_connected":true,"list_id_set":true}}`,
		"/api/stats": `{"stats":{"total_leads":1,"by_status":{"TO DO":1}}}`,
	}, nil)

	client := NewClient(srv.URL+"/api/", 0)
	overview, err := client.FetchOverview(context.Background())
	if err != nil {
		t.Fatalf("FetchOverview: %v", err)
	}
	if len(overview.Leads) != 1 || overview.Leads[0].Name != "Acme" {
		t.Errorf("unexpected leads: %+v", overview.Leads)
	}
	if !overview.ConfigStatus.Live() {
		t.Error("expected live config status")
	}
	if overview.Stats.TotalLeads != 1 || overview.Stats.ByStatus["TO DO"] != 1 {
		t.Errorf("unexpected stats: %+v", overview.Stats)
	}
}

func TestFetchOverviewMissingLeadsDefaultsToEmpty(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/leads": `{"success":true}`,
		"/stats": `{"stats":{"total_leads":0,"by_status":{}}}`,
	}, nil)

	overview, err := NewClient(srv.URL, 0).FetchOverview(context.Background())
	if err != nil {
		t.Fatalf("FetchOverview: %v", err)
	}
	if overview.Leads == nil || len(overview.Leads) != 0 {
		t.Errorf("Leads = %#v, want empty non-nil slice", overview.Leads)
	}
	if overview.ConfigStatus.Live() {
		t.Error("nil config status must not be live")
	}
}

func TestFetchOverviewLeadsFailureIsBackendOffline(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/stats": `{"stats":{"total_leads":0,"by_status":{}}}`,
	}, map[string]int{"/leads": http.StatusInternalServerError})

	_, err := NewClient(srv.URL, 0).FetchOverview(context.Background())
	if !errors.Is(err, ErrBackendOffline) {
		t.Fatalf("err = %v, want ErrBackendOffline", err)
	}
}

func TestFetchOverviewLeadsFailureWinsOverStatsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/leads" {
			// Let the stats failure arrive first.
			time.Sleep(100 * time.Millisecond)
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, 0).FetchOverview(context.Background())
	if !errors.Is(err, ErrBackendOffline) {
		t.Fatalf("err = %v, want ErrBackendOffline", err)
	}
}

func TestFetchOverviewStatsFailureFailsWholeFetch(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/leads": `{"leads":[]}`,
	}, map[string]int{"/stats": http.StatusBadGateway})

	if _, err := NewClient(srv.URL, 0).FetchOverview(context.Background()); err == nil {
		t.Fatal("expected stats failure to fail the overview")
	}
}

func TestListLeadsMalformedBody(t *testing.T) {
	srv := newBackend(t, map[string]string{"/leads": `{"leads": [`}, nil)

	_, err := NewClient(srv.URL, 0).ListLeads(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestListLeadsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewClient(base, 0).ListLeads(context.Background())
	if !errors.Is(err, ErrBackendOffline) {
		t.Fatalf("err = %v, want ErrBackendOffline", err)
	}
}

func TestGetLead(t *testing.T) {
	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.EscapedPath())
		if r.Header.Get("Authorization") != "" {
			t.Error("client must not send credentials")
		}
		_, _ = w.Write([]byte(`{"success":true,"lead":{"id":"local 1","name":"Bob","url":"https://app.clickup.com/t/1"}}`))
	}))
	defer srv.Close()

	lead, err := NewClient(srv.URL, 0).GetLead(context.Background(), "local 1")
	if err != nil {
		t.Fatalf("GetLead: %v", err)
	}
	if lead.Name != "Bob" || lead.URL == "" {
		t.Errorf("unexpected lead: %+v", lead)
	}
	if p := gotPath.Load().(string); p != "/leads/local%201" {
		t.Errorf("request path = %q, want escaped id", p)
	}
}

func TestGetLeadNotFound(t *testing.T) {
	srv := newBackend(t, nil, map[string]int{"/leads/nope": http.StatusNotFound})

	_, err := NewClient(srv.URL, 0).GetLead(context.Background(), "nope")
	if !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("err = %v, want ErrLeadNotFound", err)
	}
}
