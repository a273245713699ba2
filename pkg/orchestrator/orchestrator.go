// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package orchestrator supervises the account cycles: one goroutine per
// account, a shared concurrency cap, and full failure isolation so one
// misbehaving account never stops the others.
package orchestrator

import (
	"context"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/splintermate/splintermate/pkg/cycle"
)

// Runner is the per-account loop the orchestrator supervises.
type Runner interface {
	Account() string
	Run(ctx context.Context) error
	Status() cycle.Status
}

// Orchestrator runs a fleet of account cycles concurrently.
type Orchestrator struct {
	runners       []Runner
	maxConcurrent int

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates an orchestrator. maxConcurrent <= 0 means all accounts
// battle concurrently.
func New(runners []Runner, maxConcurrent int) *Orchestrator {
	if maxConcurrent <= 0 || maxConcurrent > len(runners) {
		maxConcurrent = len(runners)
	}

	return &Orchestrator{
		runners:       runners,
		maxConcurrent: maxConcurrent,
	}
}

// Start launches every account cycle and returns immediately. A cycle
// that returns an error (rejected credentials) stays stopped; the rest
// keep running.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return
	}
	o.started = true

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	sem := make(chan struct{}, o.maxConcurrent)
	log.Infof("orchestrator starting %d account(s), %d concurrent", len(o.runners), o.maxConcurrent)

	for _, r := range o.runners {
		o.wg.Add(1)
		go func(r Runner) {
			defer o.wg.Done()

			select {
			case sem <- struct{}{}:
			case <-runCtx.Done():
				return
			}
			defer func() { <-sem }()

			if err := r.Run(runCtx); err != nil {
				log.WithField("account", r.Account()).Errorf("account cycle stopped: %v", err)
			}
		}(r)
	}
}

// Stop cancels every cycle and blocks until they all return.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.wg.Wait()
}

// Status reports a snapshot per account, sorted by account name.
func (o *Orchestrator) Status() []cycle.Status {
	statuses := make([]cycle.Status, 0, len(o.runners))
	for _, r := range o.runners {
		statuses = append(statuses, r.Status())
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Account < statuses[j].Account
	})

	return statuses
}
