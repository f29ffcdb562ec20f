// Package tui is a terminal front end for the dashboard, built on
// bubbletea. It drives the same state, loader and view-models as the web
// server.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harveywai/leadflow/pkg/clock"
	"github.com/harveywai/leadflow/pkg/dashboard"
	"github.com/harveywai/leadflow/pkg/format"
	"github.com/harveywai/leadflow/pkg/leadapi"
	"github.com/harveywai/leadflow/pkg/render"
)

// SyncHistoryLimit is how many journal entries the analytics view lists.
const SyncHistoryLimit = 8

// LeadGetter fetches a single lead for the detail modal.
type LeadGetter interface {
	GetLead(ctx context.Context, id string) (*leadapi.Lead, error)
}

// SyncHistory lists recent load cycles, newest first.
type SyncHistory interface {
	Entries(limit int) []render.SyncEntry
}

// Options wires a Model. History, Clock and Keys are optional.
type Options struct {
	State   *dashboard.State
	Loader  dashboard.Reloader
	Leads   LeadGetter
	History SyncHistory
	Clock   clock.Clock
	Keys    *KeyMap
}

type (
	loadedMsg struct{ outcome dashboard.Outcome }
	tickMsg   time.Time
	detailMsg struct {
		id   string
		lead *leadapi.Lead
		err  error
	}
)

// Model is the bubbletea model of the terminal dashboard. Dashboard data
// lives in the shared State; the model only keeps what is local to the
// terminal: cursor, modal and layout.
type Model struct {
	state   *dashboard.State
	loader  dashboard.Reloader
	leads   LeadGetter
	history SyncHistory
	clock   clock.Clock
	keys    KeyMap
	theme   Theme

	spinner spinner.Model
	help    help.Model

	loading bool
	cursor  int

	// modal is non-nil while the detail overlay is open; modalID is the
	// lead it was opened for, so late responses for another lead are
	// dropped.
	modal   *render.Modal
	modalID string

	width  int
	height int
}

// NewModel builds a model from opts.
func NewModel(opts Options) Model {
	c := opts.Clock
	if c == nil {
		c = clock.Real()
	}
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	return Model{
		state:   opts.State,
		loader:  opts.Loader,
		leads:   opts.Leads,
		history: opts.History,
		clock:   c,
		keys:    keys,
		theme:   DefaultTheme,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		loading: true,
	}
}

// Init starts the first load and the refresh timer.
func (model Model) Init() tea.Cmd {
	return tea.Batch(model.spinner.Tick, model.loadCmd(), tickCmd())
}

// Update handles one message.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.help.Width = message.Width
		return model, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		model.spinner, cmd = model.spinner.Update(message)
		return model, cmd

	case loadedMsg:
		model.loading = false
		model.clampCursor()
		return model, nil

	case tickMsg:
		model.loading = true
		return model, tea.Batch(model.loadCmd(), tickCmd())

	case detailMsg:
		if model.modal == nil || message.id != model.modalID {
			return model, nil
		}
		modal := render.DetailError()
		if message.err == nil {
			modal = render.LeadDetail(*message.lead)
		}
		model.modal = &modal
		return model, nil

	case tea.KeyMsg:
		if model.modal != nil {
			return model.handleModalKey(message)
		}
		return model.handleKey(message)
	}
	return model, nil
}

func (model Model) handleModalKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Close):
		model.modal = nil
		model.modalID = ""
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.TabDashboard):
		model.switchView(dashboard.ViewDashboard)
	case key.Matches(message, model.keys.TabLeads):
		model.switchView(dashboard.ViewLeads)
	case key.Matches(message, model.keys.TabAnalytics):
		model.switchView(dashboard.ViewAnalytics)
	case key.Matches(message, model.keys.NextTab):
		model.switchView(nextView(model.state.View()))

	case key.Matches(message, model.keys.CycleStatus):
		model.updateFilters(func(f *dashboard.Filters) {
			f.Status = cycle(format.Statuses, f.Status)
		})
	case key.Matches(message, model.keys.CyclePriority):
		model.updateFilters(func(f *dashboard.Filters) {
			f.Priority = cycle(format.Priorities, f.Priority)
		})
	case key.Matches(message, model.keys.ClearFilters):
		model.updateFilters(func(f *dashboard.Filters) {
			*f = dashboard.Filters{}
		})

	case key.Matches(message, model.keys.Refresh):
		model.loading = true
		return model, model.loadCmd()

	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.rows())-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.Open):
		rows := model.rows()
		if model.cursor >= len(rows) {
			return model, nil
		}
		id := rows[model.cursor].ID
		modal := render.DetailLoading()
		model.modal = &modal
		model.modalID = id
		return model, model.detailCmd(id)
	}
	return model, nil
}

func (model *Model) switchView(v dashboard.View) {
	if err := model.state.SwitchView(v); err != nil {
		return
	}
	model.cursor = 0
}

// updateFilters edits the filters in place. Filters are a leads-view control
// and are ignored elsewhere.
func (model *Model) updateFilters(edit func(*dashboard.Filters)) {
	snap := model.state.Snapshot()
	if snap.View != dashboard.ViewLeads {
		return
	}
	f := snap.Filters
	edit(&f)
	model.state.ApplyFilters(f)
	model.cursor = 0
}

// rows returns the selectable rows of the active view.
func (model Model) rows() []render.LeadRow {
	snap := model.state.Snapshot()
	now := model.clock.Now()
	switch snap.View {
	case dashboard.ViewDashboard:
		return render.RecentLeads(snap, now).Rows
	case dashboard.ViewLeads:
		return render.AllLeads(snap, now).Rows
	}
	return nil
}

func (model *Model) clampCursor() {
	n := len(model.rows())
	if model.cursor >= n {
		model.cursor = n - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

func (model Model) syncs() []render.SyncEntry {
	if model.history == nil {
		return nil
	}
	return model.history.Entries(SyncHistoryLimit)
}

func (model Model) loadCmd() tea.Cmd {
	loader := model.loader
	return func() tea.Msg {
		return loadedMsg{outcome: loader.Load(context.Background())}
	}
}

func (model Model) detailCmd(id string) tea.Cmd {
	leads := model.leads
	return func() tea.Msg {
		lead, err := leads.GetLead(context.Background(), id)
		return detailMsg{id: id, lead: lead, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(dashboard.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func nextView(v dashboard.View) dashboard.View {
	for i, candidate := range dashboard.Views {
		if candidate == v {
			return dashboard.Views[(i+1)%len(dashboard.Views)]
		}
	}
	return dashboard.ViewDashboard
}

// cycle steps through "" (all) and then each value in order.
func cycle(values []string, current string) string {
	if current == "" {
		return values[0]
	}
	for i, v := range values {
		if v == current && i+1 < len(values) {
			return values[i+1]
		}
	}
	return ""
}
