// Package dashboard owns the dashboard state: the fetched leads, the
// filtered view of them, the active screen and the refresh cycle that keeps
// them current. Renderers read it through Snapshot.
package dashboard

import (
	"sync"
	"time"

	"github.com/harveywai/leadflow/pkg/leadapi"
)

// State is the mutable dashboard state for one front end. It is safe for
// concurrent use.
//
// filteredLeads is always allLeads narrowed by filters, except right after a
// successful load, which resets it to every lead while keeping the selected
// filter values.
type State struct {
	mu sync.RWMutex

	allLeads      []leadapi.Lead
	filteredLeads []leadapi.Lead
	view          View
	filters       Filters

	stats    leadapi.Stats
	status   SystemStatus
	loaded   bool
	loadErr  string
	lastSync time.Time

	// issued is the newest generation handed out by BeginLoad; applied is
	// the generation whose result the state currently reflects.
	issued  uint64
	applied uint64
}

// NewState returns an empty state showing the dashboard view.
func NewState() *State {
	return &State{
		allLeads:      []leadapi.Lead{},
		filteredLeads: []leadapi.Lead{},
		view:          ViewDashboard,
	}
}

// Snapshot is a point-in-time copy of State for rendering.
type Snapshot struct {
	AllLeads      []leadapi.Lead
	FilteredLeads []leadapi.Lead
	View          View
	Filters       Filters
	Stats         leadapi.Stats
	Status        SystemStatus
	Loaded        bool
	LoadError     string
	LastSync      time.Time
	Generation    uint64
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		AllLeads:      append([]leadapi.Lead{}, s.allLeads...),
		FilteredLeads: append([]leadapi.Lead{}, s.filteredLeads...),
		View:          s.view,
		Filters:       s.filters,
		Stats:         copyStats(s.stats),
		Status:        s.status,
		Loaded:        s.loaded,
		LoadError:     s.loadErr,
		LastSync:      s.lastSync,
		Generation:    s.applied,
	}
}

// View returns the active view.
func (s *State) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SwitchView makes v the only active view.
func (s *State) SwitchView(v View) error {
	if _, err := ParseView(string(v)); err != nil {
		return err
	}
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	return nil
}

// ApplyFilters stores f and recomputes the filtered leads from all leads.
func (s *State) ApplyFilters(f Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = f
	s.filteredLeads = f.Apply(s.allLeads)
}

// BeginLoad issues the generation token for a new load cycle.
func (s *State) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	return s.issued
}

// Commit applies a successful load. It returns false, leaving the state
// untouched, when gen is no longer the newest issued generation.
func (s *State) Commit(gen uint64, overview *leadapi.Overview, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.issued {
		return false
	}

	leads := overview.Leads
	if leads == nil {
		leads = []leadapi.Lead{}
	}
	s.allLeads = append([]leadapi.Lead{}, leads...)
	s.filteredLeads = append([]leadapi.Lead{}, leads...)
	s.status = StatusFor(overview.ConfigStatus)
	s.stats = copyStats(overview.Stats)
	s.loaded = true
	s.loadErr = ""
	s.lastSync = at
	s.applied = gen
	return true
}

// Fail records a failed load without touching the leads. It returns false
// when gen is stale.
func (s *State) Fail(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.issued {
		return false
	}
	s.loadErr = err.Error()
	return true
}

func copyStats(st leadapi.Stats) leadapi.Stats {
	out := st
	if st.ByStatus != nil {
		out.ByStatus = make(map[string]int, len(st.ByStatus))
		for k, v := range st.ByStatus {
			out.ByStatus[k] = v
		}
	}
	if st.ByPriority != nil {
		out.ByPriority = make(map[string]int, len(st.ByPriority))
		for k, v := range st.ByPriority {
			out.ByPriority[k] = v
		}
	}
	return out
}
