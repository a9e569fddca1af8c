// Package server runs the background sync loop next to the HTTP API.
package server

import (
	"sync"
	"time"
)

// State is the scheduler state.
type State int

const (
	StateIdle State = iota
	StateSyncRequested
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSyncRequested:
		return "sync_requested"
	default:
		return "unknown"
	}
}

// SyncStatus is a snapshot of the scheduler.
type SyncStatus struct {
	State    string      `json:"state"`
	Running  bool        `json:"running"`
	LastPass *PassReport `json:"last_pass,omitempty"`
}

// Scheduler coalesces sync triggers for a single consumer. Triggers only
// move Idle to SyncRequested; the consumer moves it back to Idle once the
// pass it started has finished, so triggers that arrive while a pass is
// pending or running are folded into it. The delayed export retry is the
// exception: it requests a new pass once the running one finishes.
type Scheduler struct {
	mu       sync.Mutex
	state    State
	running  bool
	last     *PassReport
	retry    *time.Timer
	retryDue bool // delayed trigger fired during a running pass
	wake     chan struct{}
}

// NewScheduler returns an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{wake: make(chan struct{}, 1)}
}

// Trigger requests a sync pass. It reports whether the request was new.
func (s *Scheduler) Trigger() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestLocked()
}

func (s *Scheduler) requestLocked() bool {
	if s.state != StateIdle {
		return false
	}
	s.state = StateSyncRequested
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return true
}

// TriggerAfter requests a sync pass once d has elapsed. A pending delayed
// trigger is replaced. If it fires while a pass is running, a new pass is
// requested when that pass finishes.
func (s *Scheduler) TriggerAfter(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retry != nil {
		s.retry.Stop()
	}
	s.retry = time.AfterFunc(d, s.fireRetry)
}

func (s *Scheduler) fireRetry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.retryDue = true
		return
	}
	s.requestLocked()
}

// Stop cancels a pending delayed trigger.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns a snapshot including the last finished pass.
func (s *Scheduler) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SyncStatus{State: s.state.String(), Running: s.running}
	if s.last != nil {
		last := *s.last
		st.LastPass = &last
	}
	return st
}

// requests is the consumer's wake channel.
func (s *Scheduler) requests() <-chan struct{} {
	return s.wake
}

func (s *Scheduler) begin() {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
}

func (s *Scheduler) finish(report PassReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.state = StateIdle
	s.last = &report
	if s.retryDue {
		s.retryDue = false
		s.requestLocked()
	}
}
