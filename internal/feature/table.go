package feature

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ViFerX/research-assistant/internal/logger"
	"github.com/ViFerX/research-assistant/internal/telemetry"
)

// Status is the lifecycle state of a feature's invocation slot.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Invocation is the observable state of one feature's result slot.
type Invocation struct {
	Status Status
	Seq    uint64 // invocation counter of the state shown
	Result any    // set when Status is succeeded
	Err    error  // set when Status is failed
}

// Table owns one invocation slot per feature. Slots are independent:
// invoking one feature never serializes with another, and re-invoking a
// pending feature is allowed. Each Invoke bumps the feature's counter and
// responses only land if their counter is still the latest, so a slow first
// response can never overwrite a newer invocation's state.
type Table struct {
	backend Backend
	metrics *telemetry.Metrics

	mu    sync.Mutex
	slots map[ID]*slot
}

type slot struct {
	status Status
	seq    uint64
	result any
	err    error
}

// NewTable creates a dispatch table over the given backend. metrics may be
// nil.
func NewTable(backend Backend, metrics *telemetry.Metrics) *Table {
	return &Table{
		backend: backend,
		metrics: metrics,
		slots:   make(map[ID]*slot),
	}
}

// Invoke validates and dispatches one submission for the feature. The slot
// transitions to pending before the request is issued, so a read
// immediately after Invoke returns never observes idle. Validation errors
// return synchronously and leave the slot untouched. The backend response
// resolves the slot asynchronously, gated by the invocation counter.
func (t *Table) Invoke(ctx context.Context, id ID, form Form) error {
	desc, ok := Lookup(id)
	if !ok {
		return fmt.Errorf("unknown feature %q", id)
	}

	payload, err := desc.Normalize(form)
	if err != nil {
		return err
	}

	t.mu.Lock()
	s := t.slots[id]
	if s == nil {
		s = &slot{status: StatusIdle}
		t.slots[id] = s
	}
	s.seq++
	seq := s.seq
	s.status = StatusPending
	s.result = nil
	s.err = nil
	t.mu.Unlock()

	ctx = logger.WithFeature(ctx, string(id))
	t.metrics.Started(ctx, string(id))
	slog.Debug("invocation dispatched", "feature", id, "seq", seq)

	start := time.Now()
	go func() {
		result, err := desc.Call(ctx, t.backend, payload)
		t.resolve(ctx, id, seq, result, err, time.Since(start))
	}()
	return nil
}

// resolve lands a response in the feature's slot unless a newer invocation
// has superseded it.
func (t *Table) resolve(ctx context.Context, id ID, seq uint64, result any, err error, took time.Duration) {
	t.mu.Lock()
	s := t.slots[id]
	if s == nil || s.seq != seq {
		t.mu.Unlock()
		t.metrics.Stale(ctx, string(id))
		slog.Debug("stale response discarded", "feature", id, "seq", seq)
		return
	}
	if err != nil {
		s.status = StatusFailed
		s.err = err
	} else {
		s.status = StatusSucceeded
		s.result = result
	}
	t.mu.Unlock()

	t.metrics.Resolved(ctx, string(id), err != nil, took.Seconds())
	slog.Debug("invocation resolved", "feature", id, "seq", seq, "failed", err != nil)
}

// State returns the current slot state for the feature. Features that have
// never been invoked report idle.
func (t *Table) State(id ID) Invocation {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.slots[id]
	if s == nil {
		return Invocation{Status: StatusIdle}
	}
	return Invocation{Status: s.status, Seq: s.seq, Result: s.result, Err: s.err}
}
