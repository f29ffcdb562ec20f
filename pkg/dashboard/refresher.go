package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/harveywai/leadflow/pkg/clock"
)

// RefreshInterval is the fixed auto-refresh period.
const RefreshInterval = 30 * time.Second

// Reloader is the part of Loader the refresher drives.
type Reloader interface {
	Load(ctx context.Context) Outcome
}

// Refresher reloads the dashboard every RefreshInterval. At most one
// refresh timer is active at a time. Manual refreshes are not coordinated
// with it.
type Refresher struct {
	loader Reloader
	clock  clock.Clock

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher builds a stopped refresher. A nil clock selects the real clock.
func NewRefresher(loader Reloader, c clock.Clock) *Refresher {
	if c == nil {
		c = clock.Real()
	}
	return &Refresher{loader: loader, clock: c}
}

// Start begins the periodic reload, replacing any running timer. The timer
// stops when ctx is cancelled or Stop is called.
func (r *Refresher) Start(ctx context.Context) {
	r.start(ctx, false)
}

// StartImmediate is Start with one load run right away on the refresher's
// goroutine, so Stop also waits for that first load.
func (r *Refresher) StartImmediate(ctx context.Context) {
	r.start(ctx, true)
}

func (r *Refresher) start(ctx context.Context, immediate bool) {
	r.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	ticker := r.clock.NewTicker(RefreshInterval)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go func() {
		defer close(done)
		defer ticker.Stop()
		if immediate {
			r.loader.Load(ctx)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Println("auto-refreshing data")
				r.loader.Load(ctx)
			}
		}
	}()
}

// Stop ends the periodic reload and waits for an in-flight tick to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a refresh timer is active.
func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}
