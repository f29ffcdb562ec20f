package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/harveywai/leadflow/pkg/dashboard"
	"github.com/harveywai/leadflow/pkg/leadapi"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func makeLeads(n int) []leadapi.Lead {
	statuses := []string{"TO DO", "IN PROGRESS", "COMPLETE"}
	leads := make([]leadapi.Lead, 0, n)
	for i := 0; i < n; i++ {
		leads = append(leads, leadapi.Lead{
			ID:        fmt.Sprintf("lead-%d", i),
			Name:      fmt.Sprintf("Lead %d", i),
			Status:    statuses[i%len(statuses)],
			Priority:  "Normal",
			CreatedAt: testNow.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
		})
	}
	return leads
}

func stateWith(t *testing.T, leads []leadapi.Lead) *dashboard.State {
	t.Helper()
	s := dashboard.NewState()
	s.Commit(s.BeginLoad(), &leadapi.Overview{Leads: leads}, testNow)
	return s
}

func TestRecentLeadsShowsFirstFiveIgnoringFilters(t *testing.T) {
	for _, n := range []int{1, 4, 5, 6, 12} {
		s := stateWith(t, makeLeads(n))
		s.ApplyFilters(dashboard.Filters{Status: "COMPLETE", Priority: "Urgent"})

		table := RecentLeads(s.Snapshot(), testNow)
		want := n
		if want > RecentLimit {
			want = RecentLimit
		}
		if len(table.Rows) != want || table.Message != nil {
			t.Fatalf("n=%d: rows=%d message=%v, want %d rows", n, len(table.Rows), table.Message, want)
		}
		for i, row := range table.Rows {
			if row.ID != fmt.Sprintf("lead-%d", i) {
				t.Errorf("n=%d: row %d is %s, want lead-%d", n, i, row.ID, i)
			}
			if row.Description != "" {
				t.Errorf("recent rows carry no description, got %q", row.Description)
			}
		}
	}
}

func TestRecentLeadsStates(t *testing.T) {
	loading := RecentLeads(dashboard.NewState().Snapshot(), testNow)
	if loading.Message == nil || loading.Message.Kind != MessageLoading {
		t.Errorf("before first load: %+v, want loading row", loading.Message)
	}

	empty := RecentLeads(stateWith(t, nil).Snapshot(), testNow)
	if empty.Message == nil || empty.Message.Text != NoLeadsText {
		t.Errorf("empty: %+v, want no-leads row", empty.Message)
	}
	if empty.Colspan() != 5 {
		t.Errorf("recent colspan = %d, want 5", empty.Colspan())
	}
}

func TestRecentLeadsErrorRowAfterFailedLoad(t *testing.T) {
	s := stateWith(t, makeLeads(3))
	s.Fail(s.BeginLoad(), errors.New("backend offline"))

	snap := s.Snapshot()
	table := RecentLeads(snap, testNow)
	if len(table.Rows) != 0 || table.Message == nil || table.Message.Kind != MessageError {
		t.Fatalf("table = %+v, want exactly one error row", table)
	}
	if !strings.Contains(table.Message.Text, "backend offline") || table.Message.Hint == "" {
		t.Errorf("error message = %+v", table.Message)
	}
	if len(snap.AllLeads) != 3 {
		t.Errorf("leads = %d, want previous 3 kept", len(snap.AllLeads))
	}

	if all := AllLeads(snap, testNow); len(all.Rows) != 3 {
		t.Errorf("all-leads table rows = %d, want 3", len(all.Rows))
	}
}

func TestAllLeadsNoMatch(t *testing.T) {
	leads := []leadapi.Lead{
		{ID: "a", Name: "A", Status: "COMPLETE", Priority: "High"},
		{ID: "b", Name: "B", Status: "COMPLETE", Priority: "Low"},
		{ID: "c", Name: "C", Status: "TO DO", Priority: "Urgent"},
	}
	s := stateWith(t, leads)
	if err := s.SwitchView(dashboard.ViewLeads); err != nil {
		t.Fatal(err)
	}
	s.ApplyFilters(dashboard.Filters{Status: "COMPLETE", Priority: "Urgent"})

	table := AllLeads(s.Snapshot(), testNow)
	if len(table.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(table.Rows))
	}
	if table.Message == nil || table.Message.Text != NoMatchText {
		t.Errorf("message = %+v, want %q", table.Message, NoMatchText)
	}
	if table.Colspan() != 6 {
		t.Errorf("colspan = %d, want 6", table.Colspan())
	}
}

func TestAllLeadsDescriptionIsStrippedAndTruncated(t *testing.T) {
	lead := leadapi.Lead{
		ID:          "x",
		Name:        "X",
		Description: "## Needs **500 units**\nof widgets delivered to the main warehouse before March",
	}
	table := AllLeads(stateWith(t, []leadapi.Lead{lead}).Snapshot(), testNow)

	got := table.Rows[0].Description
	want := "Needs 500 units of widgets delivered to the main w..."
	if got != want {
		t.Errorf("description = %q, want %q", got, want)
	}
}

func TestRowBadgesAndDates(t *testing.T) {
	lead := leadapi.Lead{ID: "x", Name: "X", Status: "WAITING", Priority: "Someday", CreatedAt: testNow.Add(-2 * time.Hour).Format(time.RFC3339)}
	row := RecentLeads(stateWith(t, []leadapi.Lead{lead}).Snapshot(), testNow).Rows[0]

	if row.Status.Class != "status-todo" || row.Status.Text != "WAITING" {
		t.Errorf("status badge = %+v", row.Status)
	}
	if row.Priority.Class != "priority-normal" {
		t.Errorf("priority badge = %+v", row.Priority)
	}
	if row.Created != "2 hours ago" {
		t.Errorf("created = %q", row.Created)
	}
}

func TestLeadDetail(t *testing.T) {
	modal := LeadDetail(leadapi.Lead{
		ID:          "1",
		Name:        "Acme",
		Description: "**Wants** a demo",
		Status:      "IN PROGRESS",
		Priority:    "High",
		URL:         "https://app.clickup.com/t/abc",
		Source:      "ClickUp",
	})
	d := modal.Detail
	if modal.Loading || modal.Error != "" || d == nil {
		t.Fatalf("modal = %+v", modal)
	}
	if d.Description != "Wants a demo" {
		t.Errorf("description = %q", d.Description)
	}
	if d.Created != "N/A" || d.Updated != "N/A" {
		t.Errorf("dates = %q / %q, want N/A", d.Created, d.Updated)
	}
	if d.Link != "https://app.clickup.com/t/abc" || d.LinkText == "" {
		t.Errorf("link = %q (%q)", d.Link, d.LinkText)
	}

	empty := LeadDetail(leadapi.Lead{ID: "2"}).Detail
	if empty.Description != NoDescriptionText || empty.Link != "" {
		t.Errorf("empty detail = %+v", empty)
	}
}

func TestDetailStates(t *testing.T) {
	if !DetailLoading().Loading {
		t.Error("DetailLoading is not loading")
	}
	if m := DetailError(); m.Error != DetailErrorText || m.Detail != nil {
		t.Errorf("DetailError = %+v", m)
	}
}

func TestSafeLink(t *testing.T) {
	tests := map[string]string{
		"https://app.clickup.com/t/1": "https://app.clickup.com/t/1",
		"http://example.com/a?b=c":    "http://example.com/a?b=c",
		"javascript:alert(1)":         "",
		"data:text/html,<script>":     "",
		"/relative/path":              "",
		"":                            "",
	}
	for in, want := range tests {
		if got := SafeLink(in); got != want {
			t.Errorf("SafeLink(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatCards(t *testing.T) {
	cards := StatCards(leadapi.Stats{
		TotalLeads: 1200,
		ByStatus:   map[string]int{"TO DO": 300, "IN PROGRESS": 100, "COMPLETE": 801},
	})
	want := map[string]string{
		"total-leads":     "1,200",
		"active-leads":    "400",
		"pending-leads":   "300",
		"conversion-rate": "67%",
	}
	for _, c := range cards {
		if want[c.Key] != c.Value {
			t.Errorf("%s = %q, want %q", c.Key, c.Value, want[c.Key])
		}
	}

	for _, c := range StatCards(leadapi.Stats{}) {
		if c.Key == "conversion-rate" && c.Value != "0%" {
			t.Errorf("conversion with no leads = %q", c.Value)
		}
	}
}

func TestBuildPageNavigationIsExclusive(t *testing.T) {
	s := stateWith(t, makeLeads(2))
	for _, v := range dashboard.Views {
		if err := s.SwitchView(v); err != nil {
			t.Fatal(err)
		}
		page := BuildPage(s.Snapshot(), nil, testNow)

		active := 0
		for _, item := range page.Nav {
			if item.Active {
				active++
				if item.View != v {
					t.Errorf("view %s: active nav item is %s", v, item.View)
				}
			}
		}
		if active != 1 {
			t.Errorf("view %s: %d active nav items", v, active)
		}
		if page.Header != dashboard.Headers(v) {
			t.Errorf("view %s: header %+v", v, page.Header)
		}
	}
}

func TestBuildPageFilterOptionsReflectSelection(t *testing.T) {
	s := stateWith(t, makeLeads(3))
	s.ApplyFilters(dashboard.Filters{Priority: "High"})
	page := BuildPage(s.Snapshot(), nil, testNow)

	for _, o := range page.PriorityOptions {
		if o.Selected != (o.Value == "High") {
			t.Errorf("priority option %q selected=%v", o.Value, o.Selected)
		}
	}
	if !page.StatusOptions[0].Selected || page.StatusOptions[0].Value != "" {
		t.Errorf("status dropdown should select the empty option: %+v", page.StatusOptions[0])
	}
	if page.RefreshSeconds != 30 {
		t.Errorf("refresh = %d", page.RefreshSeconds)
	}
}

func TestBuildPageBeforeFirstLoad(t *testing.T) {
	page := BuildPage(dashboard.NewState().Snapshot(), nil, testNow)
	if page.Status.Label != ConnectingText {
		t.Errorf("status label = %q", page.Status.Label)
	}
	if page.LastSync != "N/A" {
		t.Errorf("last sync = %q", page.LastSync)
	}
}

func TestBuildAnalytics(t *testing.T) {
	s := dashboard.NewState()
	s.Commit(s.BeginLoad(), &leadapi.Overview{
		Leads: []leadapi.Lead{{Priority: "High"}, {Priority: "High"}, {Priority: "Low"}, {Priority: "Later"}},
		Stats: leadapi.Stats{TotalLeads: 4, ByStatus: map[string]int{"TO DO": 3, "COMPLETE": 1}},
	}, testNow)

	syncs := []SyncEntry{
		{Generation: 2, StartedAt: testNow.Add(-time.Minute), Duration: 120 * time.Millisecond, LeadCount: 4},
		{Generation: 1, StartedAt: testNow.Add(-2 * time.Minute), Error: "backend offline"},
	}
	a := BuildAnalytics(s.Snapshot(), syncs, testNow)

	if a.ByStatus[0].Label != "TO DO" || a.ByStatus[0].Count != 3 || a.ByStatus[0].Percent != 75 {
		t.Errorf("status breakdown = %+v", a.ByStatus[0])
	}
	last := a.ByPriority[len(a.ByPriority)-1]
	if last.Label != "Later" || last.Count != 1 || last.Class != "priority-normal" {
		t.Errorf("unknown priority bar = %+v", last)
	}
	if a.ByPriority[1].Label != "High" || a.ByPriority[1].Count != 2 {
		t.Errorf("high priority bar = %+v", a.ByPriority[1])
	}

	if len(a.Syncs) != 2 || !a.Syncs[0].OK || a.Syncs[1].OK || a.Syncs[1].Result != "backend offline" {
		t.Errorf("syncs = %+v", a.Syncs)
	}
	if a.Syncs[0].When != "1 minute ago" {
		t.Errorf("sync time = %q", a.Syncs[0].When)
	}
}
