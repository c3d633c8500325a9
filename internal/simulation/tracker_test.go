package simulation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tick    = time.Millisecond
	waitFor = 2 * time.Second
)

func fixedStep(v float64) Option {
	return WithStep(func() float64 { return v })
}

func TestScanRunCompletes(t *testing.T) {
	tracker := NewTracker(tick, fixedStep(40))
	defer tracker.Stop()

	var calls atomic.Int32
	var completedID atomic.Int64
	snap, err := tracker.Start(KindScan, 7, ScanPlan, func(_ context.Context, s Snapshot) error {
		calls.Add(1)
		completedID.Store(int64(s.ID))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.ID)
	assert.Equal(t, "SCANNING", snap.Phase)
	assert.Equal(t, 7, snap.ProjectID)

	require.Eventually(t, func() bool { return calls.Load() == 1 }, waitFor, tick)

	final, ok := tracker.Get(snap.ID)
	require.True(t, ok)
	assert.Equal(t, "FIX_READY", final.Phase)
	assert.Equal(t, 100.0, final.Progress)
	assert.NotNil(t, final.FinishedAt)
	assert.Equal(t, int64(snap.ID), completedID.Load())

	// A finished run cannot be cancelled.
	assert.False(t, tracker.Cancel(snap.ID))
}

func TestAdvancePhases(t *testing.T) {
	tracker := NewTracker(time.Hour, fixedStep(60))
	defer tracker.Stop()

	r := &run{snap: Snapshot{ID: 1, Phase: ScanPlan.Running}, plan: ScanPlan}

	state, snap := tracker.advance(r)
	assert.Equal(t, keepRunning, state)
	assert.Equal(t, 60.0, snap.Progress)
	assert.Equal(t, "SCANNING", snap.Phase)

	state, snap = tracker.advance(r)
	assert.Equal(t, keepRunning, state)
	assert.Equal(t, 100.0, snap.Progress)
	assert.Equal(t, "FIX_GENERATION", snap.Phase)

	state, snap = tracker.advance(r)
	assert.Equal(t, completed, state)
	assert.Equal(t, "FIX_READY", snap.Phase)

	state, _ = tracker.advance(r)
	assert.Equal(t, halted, state)
}

func TestDeployPlanSkipsFinishingPhase(t *testing.T) {
	tracker := NewTracker(time.Hour, fixedStep(100))
	defer tracker.Stop()

	r := &run{snap: Snapshot{ID: 1, Phase: DeployPlan.Running}, plan: DeployPlan}

	state, snap := tracker.advance(r)
	assert.Equal(t, completed, state)
	assert.Equal(t, "DEPLOYED", snap.Phase)
}

func TestCancelStopsRun(t *testing.T) {
	tracker := NewTracker(time.Hour)
	defer tracker.Stop()

	var calls atomic.Int32
	snap, err := tracker.Start(KindScan, 1, ScanPlan, func(context.Context, Snapshot) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	assert.True(t, tracker.Cancel(snap.ID))
	assert.False(t, tracker.Cancel(snap.ID))
	assert.False(t, tracker.Cancel(999))

	got, ok := tracker.Get(snap.ID)
	require.True(t, ok)
	assert.Equal(t, PhaseCancelled, got.Phase)
	assert.NotNil(t, got.FinishedAt)
	assert.Equal(t, int32(0), calls.Load())
}

func TestStopCancelsEverything(t *testing.T) {
	tracker := NewTracker(time.Hour)

	first, err := tracker.Start(KindScan, 1, ScanPlan, nil)
	require.NoError(t, err)
	second, err := tracker.Start(KindDeploy, 2, DeployPlan, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)

	tracker.Stop()

	for _, id := range []int{first.ID, second.ID} {
		snap, ok := tracker.Get(id)
		require.True(t, ok)
		assert.Equal(t, PhaseCancelled, snap.Phase)
	}

	_, err = tracker.Start(KindScan, 1, ScanPlan, nil)
	assert.ErrorIs(t, err, ErrStopped)
}

func TestDefaultStepIsBounded(t *testing.T) {
	tracker := NewTracker(0)
	defer tracker.Stop()

	assert.Equal(t, time.Second, tracker.tick)
	for i := 0; i < 1000; i++ {
		v := tracker.step()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, maxStep)
	}
}
