package render

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/harveywai/leadflow/pkg/dashboard"
	"github.com/harveywai/leadflow/pkg/format"
	"github.com/harveywai/leadflow/pkg/leadapi"
)

// StatCard is one summary number on the dashboard view.
type StatCard struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// StatCards renders total, active (TO DO + IN PROGRESS), pending (TO DO)
// and the share of completed leads.
func StatCards(stats leadapi.Stats) []StatCard {
	todo := stats.ByStatus[format.StatusToDo]
	inProgress := stats.ByStatus[format.StatusInProgress]
	complete := stats.ByStatus[format.StatusComplete]

	return []StatCard{
		{Key: "total-leads", Label: "Total Leads", Value: humanize.Comma(int64(stats.TotalLeads))},
		{Key: "active-leads", Label: "Active Leads", Value: humanize.Comma(int64(todo + inProgress))},
		{Key: "pending-leads", Label: "Pending", Value: humanize.Comma(int64(todo))},
		{Key: "conversion-rate", Label: "Conversion Rate", Value: fmt.Sprintf("%d%%", percent(complete, stats.TotalLeads))},
	}
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Breakdown is one bar of an analytics chart.
type Breakdown struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
	Class   string `json:"class"`
}

// SyncEntry is one recorded load cycle, as kept by the sync journal.
type SyncEntry struct {
	Generation uint64
	StartedAt  time.Time
	Duration   time.Duration
	LeadCount  int
	Error      string
	Stale      bool
}

// SyncRow is a rendered sync journal entry.
type SyncRow struct {
	Generation uint64 `json:"generation"`
	When       string `json:"when"`
	Duration   string `json:"duration"`
	Leads      int    `json:"leads"`
	Result     string `json:"result"`
	OK         bool   `json:"ok"`
}

// Analytics is the analytics view.
type Analytics struct {
	Total      int         `json:"total"`
	ByStatus   []Breakdown `json:"by_status"`
	ByPriority []Breakdown `json:"by_priority"`
	Syncs      []SyncRow   `json:"syncs"`
}

// BuildAnalytics renders the status and priority distribution and the sync
// history. Priority counts come from the stats when the backend sends them
// and are counted from the leads otherwise.
func BuildAnalytics(snap dashboard.Snapshot, syncs []SyncEntry, now time.Time) Analytics {
	total := snap.Stats.TotalLeads

	byPriority := snap.Stats.ByPriority
	if byPriority == nil {
		byPriority = make(map[string]int)
		for _, lead := range snap.AllLeads {
			byPriority[lead.Priority]++
		}
	}

	a := Analytics{
		Total:      total,
		ByStatus:   breakdown(snap.Stats.ByStatus, format.Statuses, total, format.StatusClass),
		ByPriority: breakdown(byPriority, format.Priorities, total, format.PriorityClass),
		Syncs:      make([]SyncRow, 0, len(syncs)),
	}
	for _, s := range syncs {
		a.Syncs = append(a.Syncs, syncRow(s, now))
	}
	return a
}

// breakdown lists the known labels first, in order, then any other label the
// backend reported, alphabetically.
func breakdown(counts map[string]int, known []string, total int, class func(string) string) []Breakdown {
	seen := make(map[string]bool, len(known))
	out := make([]Breakdown, 0, len(counts)+len(known))
	for _, label := range known {
		seen[label] = true
		n := counts[label]
		out = append(out, Breakdown{Label: label, Count: n, Percent: percent(n, total), Class: class(label)})
	}

	var extra []string
	for label := range counts {
		if !seen[label] {
			extra = append(extra, label)
		}
	}
	sort.Strings(extra)
	for _, label := range extra {
		n := counts[label]
		out = append(out, Breakdown{Label: label, Count: n, Percent: percent(n, total), Class: class(label)})
	}
	return out
}

func syncRow(s SyncEntry, now time.Time) SyncRow {
	row := SyncRow{
		Generation: s.Generation,
		When:       humanize.RelTime(s.StartedAt, now, "ago", "from now"),
		Duration:   s.Duration.Round(time.Millisecond).String(),
		Leads:      s.LeadCount,
	}
	switch {
	case s.Stale:
		row.Result = "discarded (stale)"
	case s.Error != "":
		row.Result = s.Error
	default:
		row.Result = "ok"
		row.OK = true
	}
	return row
}
