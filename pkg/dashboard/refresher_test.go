package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harveywai/leadflow/pkg/clock"
)

type countingReloader struct {
	loads chan struct{}
}

func (r *countingReloader) Load(ctx context.Context) Outcome {
	r.loads <- struct{}{}
	return Outcome{}
}

func waitLoad(t *testing.T, loads <-chan struct{}) {
	t.Helper()
	select {
	case <-loads:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a reload")
	}
}

func TestRefresherReloadsEveryInterval(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	reloader := &countingReloader{loads: make(chan struct{}, 4)}
	r := NewRefresher(reloader, fake)

	r.Start(context.Background())
	defer r.Stop()

	fake.Advance(RefreshInterval - time.Second)
	select {
	case <-reloader.loads:
		t.Fatal("reloaded before the interval elapsed")
	case <-time.After(50 * time.Millisecond):
	}

	fake.Advance(time.Second)
	waitLoad(t, reloader.loads)

	fake.Advance(RefreshInterval)
	waitLoad(t, reloader.loads)
}

func TestRefresherKeepsSingleTimer(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	r := NewRefresher(&countingReloader{loads: make(chan struct{}, 1)}, fake)

	r.Start(context.Background())
	r.Start(context.Background())
	if n := fake.ActiveTickers(); n != 1 {
		t.Errorf("active tickers = %d, want 1", n)
	}

	r.Stop()
	if r.Running() {
		t.Error("refresher still running after Stop")
	}
	if n := fake.ActiveTickers(); n != 0 {
		t.Errorf("active tickers after Stop = %d, want 0", n)
	}
}

func TestRefresherStopsWithContext(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	r := NewRefresher(&countingReloader{loads: make(chan struct{}, 1)}, fake)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for fake.ActiveTickers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("ticker not stopped after context cancellation")
		}
		time.Sleep(5 * time.Millisecond)
	}
	r.Stop()
}

func TestRefresherStartImmediateLoadsWithoutTick(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	reloader := &countingReloader{loads: make(chan struct{}, 2)}
	r := NewRefresher(reloader, fake)

	r.StartImmediate(context.Background())
	defer r.Stop()

	waitLoad(t, reloader.loads)
	fake.Advance(RefreshInterval)
	waitLoad(t, reloader.loads)
}

// slowReloader blocks each load until its context is cancelled.
type slowReloader struct {
	entered  chan struct{}
	finished atomic.Bool
}

func (r *slowReloader) Load(ctx context.Context) Outcome {
	close(r.entered)
	<-ctx.Done()
	r.finished.Store(true)
	return Outcome{Err: ctx.Err()}
}

func TestRefresherStopWaitsForInitialLoad(t *testing.T) {
	reloader := &slowReloader{entered: make(chan struct{})}
	r := NewRefresher(reloader, clock.Fake(time.Unix(0, 0)))

	r.StartImmediate(context.Background())
	select {
	case <-reloader.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("initial load never started")
	}

	r.Stop()
	if !reloader.finished.Load() {
		t.Error("Stop returned before the initial load finished")
	}
}
