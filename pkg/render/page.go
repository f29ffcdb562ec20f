package render

import (
	"time"

	"github.com/harveywai/leadflow/pkg/dashboard"
	"github.com/harveywai/leadflow/pkg/format"
)

// ConnectingText labels the status indicator before the first load.
const ConnectingText = "Connecting..."

// NavItem is one sidebar entry. Exactly one item of a page is active.
type NavItem struct {
	View   dashboard.View `json:"view"`
	Label  string         `json:"label"`
	Path   string         `json:"path"`
	Active bool           `json:"active"`
}

// Option is one entry of a filter dropdown.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Page is the whole dashboard for the active view.
type Page struct {
	View            dashboard.View         `json:"view"`
	Header          dashboard.Header       `json:"header"`
	Nav             []NavItem              `json:"nav"`
	Status          dashboard.SystemStatus `json:"status"`
	Cards           []StatCard             `json:"cards"`
	Recent          Table                  `json:"recent"`
	All             Table                  `json:"all"`
	StatusOptions   []Option               `json:"status_options"`
	PriorityOptions []Option               `json:"priority_options"`
	Analytics       Analytics              `json:"analytics"`
	LastSync        string                 `json:"last_sync"`
	RefreshSeconds  int                    `json:"refresh_seconds"`
}

// ViewPath is the web route of v.
func ViewPath(v dashboard.View) string {
	if v == dashboard.ViewDashboard {
		return "/"
	}
	return "/" + string(v)
}

// BuildPage renders every part of the dashboard for snap.
func BuildPage(snap dashboard.Snapshot, syncs []SyncEntry, now time.Time) Page {
	status := snap.Status
	if status.Label == "" {
		status.Label = ConnectingText
		status.Accent = dashboard.AccentLocal
	}

	lastSync := format.NotAvailable
	if !snap.LastSync.IsZero() {
		lastSync = format.FormatDate(snap.LastSync.Format(time.RFC3339Nano), now)
	}

	return Page{
		View:            snap.View,
		Header:          dashboard.Headers(snap.View),
		Nav:             Navigation(snap.View),
		Status:          status,
		Cards:           StatCards(snap.Stats),
		Recent:          RecentLeads(snap, now),
		All:             AllLeads(snap, now),
		StatusOptions:   options("All Statuses", format.Statuses, snap.Filters.Status),
		PriorityOptions: options("All Priorities", format.Priorities, snap.Filters.Priority),
		Analytics:       BuildAnalytics(snap, syncs, now),
		LastSync:        lastSync,
		RefreshSeconds:  int(dashboard.RefreshInterval / time.Second),
	}
}

// Navigation marks active as the only active item.
func Navigation(active dashboard.View) []NavItem {
	items := make([]NavItem, 0, len(dashboard.Views))
	for _, v := range dashboard.Views {
		items = append(items, NavItem{
			View:   v,
			Label:  v.Label(),
			Path:   ViewPath(v),
			Active: v == active,
		})
	}
	return items
}

func options(allLabel string, values []string, selected string) []Option {
	out := []Option{{Value: "", Label: allLabel, Selected: selected == ""}}
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v, Selected: v == selected})
	}
	return out
}
