package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type counter struct {
	n   atomic.Int32
	err error
}

func (c *counter) Refresh(ctx context.Context) error {
	c.n.Add(1)
	return c.err
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New("not a schedule", &counter{}, nil)
	if err := s.Start(); err == nil {
		t.Errorf("Start() error = nil, want an invalid schedule error")
	}
}

func TestScheduler_Refresh(t *testing.T) {
	c := &counter{err: errors.New("down")}
	s := New("@every 1h", c, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	// failures are logged, not propagated.
	s.refresh()
	s.refresh()
	if got := c.n.Load(); got != 2 {
		t.Errorf("Refresh called %d times, want 2", got)
	}
}
