// Package simulation drives the fake progress of scans and deployments.
// A run advances by a random step per tick until it reaches 100, optionally
// lingers in a finishing phase for one tick, then calls its completion hook.
package simulation

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindScan   Kind = "SCAN"
	KindDeploy Kind = "DEPLOY"
)

const (
	PhaseCancelled = "CANCELLED"

	maxProgress = 100.0
	maxStep     = 15.0
)

var ErrStopped = errors.New("simulation tracker stopped")

// Plan names the phases a run passes through. Finishing may be empty.
type Plan struct {
	Running   string
	Finishing string
	Done      string
}

var (
	ScanPlan   = Plan{Running: "SCANNING", Finishing: "FIX_GENERATION", Done: "FIX_READY"}
	DeployPlan = Plan{Running: "DEPLOYING", Done: "DEPLOYED"}
)

type Snapshot struct {
	ID         int
	ProjectID  int
	Kind       Kind
	Phase      string
	Progress   float64
	StartedAt  time.Time
	FinishedAt *time.Time
}

// CompleteFunc runs once when a run reaches its Done phase.
type CompleteFunc func(ctx context.Context, snap Snapshot) error

type run struct {
	snap       Snapshot
	plan       Plan
	cancel     context.CancelFunc
	onComplete CompleteFunc
}

type Tracker struct {
	mu      sync.Mutex
	runs    map[int]*run
	nextID  int
	stopped bool

	tick time.Duration
	step func() float64
	now  func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Tracker)

// WithStep replaces the random progress increment.
func WithStep(step func() float64) Option {
	return func(t *Tracker) {
		t.step = step
	}
}

func NewTracker(tick time.Duration, opts ...Option) *Tracker {
	if tick <= 0 {
		tick = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &Tracker{
		runs:   make(map[int]*run),
		nextID: 1,
		tick:   tick,
		step:   func() float64 { return rand.Float64() * maxStep },
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *Tracker) Start(kind Kind, projectID int, plan Plan, onComplete CompleteFunc) (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return Snapshot{}, ErrStopped
	}

	ctx, cancel := context.WithCancel(t.ctx)
	r := &run{
		snap: Snapshot{
			ID:        t.nextID,
			ProjectID: projectID,
			Kind:      kind,
			Phase:     plan.Running,
			StartedAt: t.now(),
		},
		plan:       plan,
		cancel:     cancel,
		onComplete: onComplete,
	}
	t.nextID++
	t.runs[r.snap.ID] = r

	t.wg.Add(1)
	go t.loop(ctx, r)

	zap.L().Info("simulation started",
		zap.Int("run_id", r.snap.ID),
		zap.String("kind", string(kind)),
		zap.Int("project_id", projectID))

	return r.snap, nil
}

func (t *Tracker) Get(id int) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.runs[id]
	if !ok {
		return Snapshot{}, false
	}
	return r.snap, true
}

// Cancel stops a running run. It reports whether anything was stopped.
func (t *Tracker) Cancel(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.runs[id]
	if !ok || r.snap.FinishedAt != nil {
		return false
	}

	t.finishLocked(r, PhaseCancelled)
	r.cancel()
	return true
}

// Stop cancels every run and waits for their goroutines to return.
func (t *Tracker) Stop() {
	t.mu.Lock()
	t.stopped = true
	for _, r := range t.runs {
		if r.snap.FinishedAt == nil {
			t.finishLocked(r, PhaseCancelled)
		}
	}
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
}

func (t *Tracker) finishLocked(r *run, phase string) {
	now := t.now()
	r.snap.Phase = phase
	r.snap.FinishedAt = &now
}

type outcome int

const (
	keepRunning outcome = iota
	completed
	halted
)

func (t *Tracker) advance(r *run) (outcome, Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r.snap.FinishedAt != nil {
		return halted, r.snap
	}

	if r.snap.Progress >= maxProgress {
		t.finishLocked(r, r.plan.Done)
		return completed, r.snap
	}

	r.snap.Progress += t.step()
	if r.snap.Progress < maxProgress {
		return keepRunning, r.snap
	}

	r.snap.Progress = maxProgress
	if r.plan.Finishing != "" {
		r.snap.Phase = r.plan.Finishing
		return keepRunning, r.snap
	}

	t.finishLocked(r, r.plan.Done)
	return completed, r.snap
}

func (t *Tracker) loop(ctx context.Context, r *run) {
	defer t.wg.Done()
	defer r.cancel()

	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		state, snap := t.advance(r)
		switch state {
		case keepRunning:
			continue
		case halted:
			return
		}

		zap.L().Info("simulation completed",
			zap.Int("run_id", snap.ID),
			zap.String("kind", string(snap.Kind)),
			zap.Int("project_id", snap.ProjectID))

		if r.onComplete != nil {
			if err := r.onComplete(ctx, snap); err != nil {
				zap.L().Error("simulation completion hook failed",
					zap.Error(err),
					zap.Int("run_id", snap.ID),
					zap.String("type", "technical"))
			}
		}
		return
	}
}
