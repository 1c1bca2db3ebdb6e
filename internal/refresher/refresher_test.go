package refresher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/teamsignal/burnout-engine/internal/models"
)

type stubEngine struct {
	mu       sync.Mutex
	calls    int
	failures int // fail this many leading calls
	ticks    chan struct{}
}

func newStubEngine(failures int) *stubEngine {
	return &stubEngine{failures: failures, ticks: make(chan struct{}, 16)}
}

func (s *stubEngine) Refresh(ctx context.Context) (*models.RefreshResult, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	fail := n <= s.failures
	s.mu.Unlock()

	select {
	case s.ticks <- struct{}{}:
	default:
	}

	if fail {
		return nil, errors.New("refresh blew up")
	}
	return &models.RefreshResult{
		Snapshot: models.Snapshot{ID: fmt.Sprintf("snap-%d", n), Rows: 10},
		Model:    models.ModelInfo{ID: fmt.Sprintf("model-%d", n)},
	}, nil
}

func (s *stubEngine) Snapshot() (models.Dataset, models.Snapshot, error) {
	return nil, models.Snapshot{}, nil
}

func (s *stubEngine) Model() (models.ModelInfo, error) { return models.ModelInfo{}, nil }

func (s *stubEngine) RestoreModel(ctx context.Context) (models.ModelInfo, error) {
	return models.ModelInfo{}, nil
}

func (s *stubEngine) Ping(ctx context.Context) error { return nil }
func (s *stubEngine) Close() error                   { return nil }

func (s *stubEngine) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func waitForTicks(t *testing.T, ticks <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for refresh %d of %d", i+1, n)
		}
	}
}

func TestRefresherTicks(t *testing.T) {
	eng := newStubEngine(0)
	r := NewRefresher(eng, 10*time.Millisecond)

	r.Start()
	waitForTicks(t, eng.ticks, 2)
	r.Stop()

	if got := eng.callCount(); got < 2 {
		t.Errorf("expected at least 2 refreshes, got %d", got)
	}
}

func TestRefresherStopHaltsTicks(t *testing.T) {
	eng := newStubEngine(0)
	r := NewRefresher(eng, 10*time.Millisecond)

	r.Start()
	waitForTicks(t, eng.ticks, 1)
	r.Stop()

	after := eng.callCount()
	time.Sleep(50 * time.Millisecond)
	if got := eng.callCount(); got != after {
		t.Errorf("refreshes continued after Stop: %d then %d", after, got)
	}
}

func TestRefresherContinuesAfterFailure(t *testing.T) {
	eng := newStubEngine(1)
	r := NewRefresher(eng, 10*time.Millisecond)

	r.Start()
	// First cycle fails; the worker must keep ticking anyway
	waitForTicks(t, eng.ticks, 3)
	r.Stop()

	if got := eng.callCount(); got < 3 {
		t.Errorf("expected the loop to survive a failed cycle, got %d calls", got)
	}
}

func TestRefresherDisabled(t *testing.T) {
	eng := newStubEngine(0)
	r := NewRefresher(eng, 0)

	r.Start()
	r.Stop() // must not block when disabled

	if got := eng.callCount(); got != 0 {
		t.Errorf("expected no refreshes when disabled, got %d", got)
	}
}

func TestRefresherStopTwice(t *testing.T) {
	eng := newStubEngine(0)
	r := NewRefresher(eng, 10*time.Millisecond)

	r.Start()
	r.Stop()
	r.Stop()
}
