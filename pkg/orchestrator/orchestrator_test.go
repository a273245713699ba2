// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/splintermate/splintermate/pkg/cycle"
	"github.com/splintermate/splintermate/pkg/game"
)

// stubRunner is a minimal Runner for supervision tests.
type stubRunner struct {
	account string
	run     func(ctx context.Context) error

	mu     sync.Mutex
	status cycle.Status
}

func newStubRunner(account string, run func(ctx context.Context) error) *stubRunner {
	return &stubRunner{
		account: account,
		run:     run,
		status:  cycle.Status{Account: account, State: cycle.StateIdle},
	}
}

func (s *stubRunner) Account() string { return s.account }

func (s *stubRunner) Run(ctx context.Context) error {
	s.setState(cycle.StateWaiting)
	defer s.setState(cycle.StateIdle)
	return s.run(ctx)
}

func (s *stubRunner) Status() cycle.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *stubRunner) setState(st cycle.State) {
	s.mu.Lock()
	s.status.State = st
	s.mu.Unlock()
}

// blockUntilCancelled is the healthy-runner behavior.
func blockUntilCancelled(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func TestFailingAccountDoesNotStopOthers(t *testing.T) {
	healthyBattles := make(chan struct{}, 16)
	healthy := newStubRunner("alice", func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Millisecond):
				select {
				case healthyBattles <- struct{}{}:
				default:
				}
			}
		}
	})
	failing := newStubRunner("mallory", func(ctx context.Context) error {
		return game.ErrAuthentication
	})

	o := New([]Runner{healthy, failing}, 0)
	o.Start(context.Background())
	defer o.Stop()

	// the healthy account keeps producing battles long after the
	// failing one has returned
	for i := 0; i < 3; i++ {
		select {
		case <-healthyBattles:
		case <-time.After(2 * time.Second):
			t.Fatal("healthy account stalled after peer failure")
		}
	}
}

func TestStopWaitsForAllRunners(t *testing.T) {
	var running atomic.Int32
	runners := make([]Runner, 0, 3)
	for _, name := range []string{"a", "b", "c"} {
		runners = append(runners, newStubRunner(name, func(ctx context.Context) error {
			running.Add(1)
			defer running.Add(-1)
			<-ctx.Done()
			return nil
		}))
	}

	o := New(runners, 0)
	o.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for running.Load() != 3 {
		select {
		case <-deadline:
			t.Fatalf("expected 3 running cycles, got %d", running.Load())
		case <-time.After(time.Millisecond):
		}
	}

	o.Stop()
	if n := running.Load(); n != 0 {
		t.Fatalf("expected all runners stopped, %d still running", n)
	}
}

func TestConcurrencyCap(t *testing.T) {
	var current, peak atomic.Int32
	runners := make([]Runner, 0, 5)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		runners = append(runners, newStubRunner(name, func(ctx context.Context) error {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			defer current.Add(-1)
			select {
			case <-ctx.Done():
			case <-time.After(20 * time.Millisecond):
			}
			return nil
		}))
	}

	o := New(runners, 2)
	o.Start(context.Background())
	o.Stop()

	if p := peak.Load(); p > 2 {
		t.Fatalf("expected at most 2 concurrent cycles, saw %d", p)
	}
}

func TestStatusSortedByAccount(t *testing.T) {
	runners := []Runner{
		newStubRunner("charlie", blockUntilCancelled),
		newStubRunner("alice", blockUntilCancelled),
		newStubRunner("bob", blockUntilCancelled),
	}

	o := New(runners, 0)
	statuses := o.Status()

	want := []string{"alice", "bob", "charlie"}
	if len(statuses) != len(want) {
		t.Fatalf("expected %d statuses, got %d", len(want), len(statuses))
	}
	for i, s := range statuses {
		if s.Account != want[i] {
			t.Errorf("status %d: expected account %q, got %q", i, want[i], s.Account)
		}
	}
}

func TestStartIsIdempotent(t *testing.T) {
	r := newStubRunner("alice", blockUntilCancelled)
	o := New([]Runner{r}, 0)

	o.Start(context.Background())
	o.Start(context.Background())
	o.Stop()
}
