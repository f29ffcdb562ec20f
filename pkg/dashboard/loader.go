package dashboard

import (
	"context"
	"log"
	"time"

	"github.com/harveywai/leadflow/pkg/clock"
	"github.com/harveywai/leadflow/pkg/leadapi"
)

// Fetcher retrieves everything one load cycle needs.
type Fetcher interface {
	FetchOverview(ctx context.Context) (*leadapi.Overview, error)
}

// Outcome describes one finished load cycle.
type Outcome struct {
	Generation uint64
	StartedAt  time.Time
	Duration   time.Duration
	LeadCount  int
	Live       bool
	Err        error
	// Stale is set when a newer load was issued before this one finished;
	// its result was discarded.
	Stale bool
}

// OK reports whether the cycle succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Loader runs load cycles against a Fetcher and applies them to a State.
type Loader struct {
	fetcher   Fetcher
	state     *State
	clock     clock.Clock
	observers []func(Outcome)
}

// NewLoader builds a loader. A nil clock selects the real clock.
func NewLoader(fetcher Fetcher, state *State, c clock.Clock) *Loader {
	if c == nil {
		c = clock.Real()
	}
	return &Loader{fetcher: fetcher, state: state, clock: c}
}

// OnLoad registers fn to be called after every load cycle. Register
// observers before the first Load.
func (l *Loader) OnLoad(fn func(Outcome)) {
	l.observers = append(l.observers, fn)
}

// Load fetches leads and stats and applies them to the state. Failures are
// recorded on the state for the error row and logged; Load itself never
// fails.
func (l *Loader) Load(ctx context.Context) Outcome {
	gen := l.state.BeginLoad()
	started := l.clock.Now()
	log.Printf("synchronizing lead data (generation %d)", gen)

	overview, err := l.fetcher.FetchOverview(ctx)
	out := Outcome{
		Generation: gen,
		StartedAt:  started,
		Duration:   l.clock.Now().Sub(started),
		Err:        err,
	}

	if err != nil {
		log.Printf("sync error: %v", err)
		out.Stale = !l.state.Fail(gen, err)
	} else {
		out.LeadCount = len(overview.Leads)
		out.Live = overview.ConfigStatus.Live()
		out.Stale = !l.state.Commit(gen, overview, l.clock.Now())
		if !out.Stale && !out.Live {
			log.Println("warning: ClickUp API keys are likely invalid; leads are shown from the local cache only")
		}
	}

	if out.Stale {
		log.Printf("discarding stale load result (generation %d)", gen)
	}

	for _, fn := range l.observers {
		fn(out)
	}
	return out
}
