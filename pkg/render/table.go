// Package render turns a dashboard snapshot into view-models: plain structs
// of rows, badges and messages that the web and terminal front ends bind to
// their own widgets. Nothing here touches HTTP or the terminal.
package render

import (
	"time"

	"github.com/harveywai/leadflow/pkg/dashboard"
	"github.com/harveywai/leadflow/pkg/format"
	"github.com/harveywai/leadflow/pkg/leadapi"
)

// RecentLimit is how many leads the dashboard view lists.
const RecentLimit = 5

// DescriptionLimit is the description length shown in the leads table.
const DescriptionLimit = 50

// Message kinds for single-row table states.
const (
	MessageLoading = "loading"
	MessageEmpty   = "empty"
	MessageError   = "error"
)

// Messages shown in place of table rows.
const (
	LoadingText     = "Loading leads..."
	NoLeadsText     = "No leads found. Send a message to your Telegram bot to create a lead!"
	NoMatchText     = "No leads match your filters."
	BackendHintText = "Make sure the backend server is running and reachable."
)

// Badge is a colored status or priority label.
type Badge struct {
	Text  string `json:"text"`
	Class string `json:"class"`
}

// LeadRow is one lead in a table. Description is only filled for the full
// leads table.
type LeadRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      Badge  `json:"status"`
	Priority    Badge  `json:"priority"`
	Created     string `json:"created"`
}

// Message replaces all rows of a table with one row spanning every column.
type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	Hint string `json:"hint,omitempty"`
}

// Table is a rendered lead table.
type Table struct {
	Columns []string  `json:"columns"`
	Rows    []LeadRow `json:"rows"`
	Message *Message  `json:"message,omitempty"`
}

// Colspan is the column count a message row spans.
func (t Table) Colspan() int { return len(t.Columns) }

var (
	recentColumns = []string{"Name", "Status", "Priority", "Created", "Action"}
	allColumns    = []string{"Name", "Description", "Status", "Priority", "Created", "Action"}
)

// StatusBadge renders a lead status.
func StatusBadge(status string) Badge {
	return Badge{Text: status, Class: format.StatusClass(status)}
}

// PriorityBadge renders a lead priority.
func PriorityBadge(priority string) Badge {
	return Badge{Text: priority, Class: format.PriorityClass(priority)}
}

// RecentLeads renders the first RecentLimit leads of all leads. Filters
// never apply here. A failed last load replaces the rows with one error row.
func RecentLeads(snap dashboard.Snapshot, now time.Time) Table {
	table := Table{Columns: recentColumns, Rows: []LeadRow{}}

	switch {
	case snap.LoadError != "":
		table.Message = &Message{Kind: MessageError, Text: "Error: " + snap.LoadError, Hint: BackendHintText}
		return table
	case !snap.Loaded:
		table.Message = &Message{Kind: MessageLoading, Text: LoadingText}
		return table
	case len(snap.AllLeads) == 0:
		table.Message = &Message{Kind: MessageEmpty, Text: NoLeadsText}
		return table
	}

	leads := snap.AllLeads
	if len(leads) > RecentLimit {
		leads = leads[:RecentLimit]
	}
	for _, lead := range leads {
		table.Rows = append(table.Rows, leadRow(lead, now, false))
	}
	return table
}

// AllLeads renders every filtered lead in order.
func AllLeads(snap dashboard.Snapshot, now time.Time) Table {
	table := Table{Columns: allColumns, Rows: []LeadRow{}}
	if len(snap.FilteredLeads) == 0 {
		table.Message = &Message{Kind: MessageEmpty, Text: NoMatchText}
		return table
	}
	for _, lead := range snap.FilteredLeads {
		table.Rows = append(table.Rows, leadRow(lead, now, true))
	}
	return table
}

func leadRow(lead leadapi.Lead, now time.Time, withDescription bool) LeadRow {
	row := LeadRow{
		ID:       lead.ID,
		Name:     lead.Name,
		Status:   StatusBadge(lead.Status),
		Priority: PriorityBadge(lead.Priority),
		Created:  format.FormatDate(lead.CreatedAt, now),
	}
	if withDescription {
		row.Description = format.TruncateText(format.StripMarkdown(lead.Description), DescriptionLimit)
	}
	return row
}
