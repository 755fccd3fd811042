package timekeeper

import (
	"testing"
	"time"

	"tomato/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newIdleKeeper returns a keeper whose background ticker never fires during a test.
func newIdleKeeper(t *testing.T) *TimeKeeper {
	t.Helper()
	keeper := New(model.DefaultTimeKeeperConfig(), Config{TickInterval: time.Hour})
	t.Cleanup(keeper.Close)
	return keeper
}

func tickN(keeper *TimeKeeper, count int) {
	for i := 0; i < count; i++ {
		keeper.Tick()
	}
}

// finishPhase runs the current phase to completion.
func finishPhase(keeper *TimeKeeper) {
	keeper.Start()
	tickN(keeper, keeper.Snapshot().Remaining)
}

func TestNew_InitialState(t *testing.T) {
	keeper := newIdleKeeper(t)

	snapshot := keeper.Snapshot()
	assert.Equal(t, PhaseWork, snapshot.Phase)
	assert.Equal(t, 1500, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 0, snapshot.CompletedCycles)
	assert.Equal(t, 0, snapshot.ActiveSlots())
	assert.Equal(t, "25:00", snapshot.Display())
	assert.Equal(t, 1, snapshot.CycleNumber())
}

func TestNew_NormalizesDurations(t *testing.T) {
	keeper := New(model.TimeKeeperConfig{Work: 0, ShortBreak: 2 * time.Minute, LongBreak: -time.Second}, Config{})
	defer keeper.Close()

	assert.Equal(t, 1500, keeper.Duration(PhaseWork))
	assert.Equal(t, 120, keeper.Duration(PhaseShortBreak))
	assert.Equal(t, 900, keeper.Duration(PhaseLongBreak))
}

func TestSwitchMode_SetsFullDuration(t *testing.T) {
	want := map[Phase]int{
		PhaseShortBreak: 300,
		PhaseLongBreak:  900,
		PhaseWork:       1500,
	}
	keeper := newIdleKeeper(t)

	for _, phase := range []Phase{PhaseShortBreak, PhaseLongBreak, PhaseWork} {
		keeper.SwitchMode(phase)
		snapshot := keeper.Snapshot()
		assert.Equal(t, phase, snapshot.Phase)
		assert.Equal(t, want[phase], snapshot.Remaining, "phase %s", phase)
		assert.False(t, snapshot.Running)
	}
}

func TestSwitchMode_StopsRunningTimer(t *testing.T) {
	keeper := newIdleKeeper(t)
	keeper.Start()
	tickN(keeper, 10)

	keeper.SwitchMode(PhaseLongBreak)

	snapshot := keeper.Snapshot()
	assert.False(t, snapshot.Running)
	assert.Equal(t, 900, snapshot.Remaining)
}

func TestSwitchMode_SamePhaseKeepsRemaining(t *testing.T) {
	keeper := newIdleKeeper(t)
	keeper.Start()
	tickN(keeper, 42)

	keeper.SwitchMode(PhaseWork)

	snapshot := keeper.Snapshot()
	assert.Equal(t, 1500-42, snapshot.Remaining)
	assert.True(t, snapshot.Running)
}

func TestSwitchMode_IgnoresUnknownPhase(t *testing.T) {
	keeper := newIdleKeeper(t)
	keeper.SwitchMode(Phase("coffee"))
	assert.Equal(t, PhaseWork, keeper.Snapshot().Phase)
}

func TestTick_FullPhaseCompletesOnce(t *testing.T) {
	keeper := newIdleKeeper(t)
	events := keeper.Subscribe(4096)

	keeper.SwitchMode(PhaseShortBreak)
	keeper.Start()
	tickN(keeper, keeper.Duration(PhaseShortBreak))

	snapshot := keeper.Snapshot()
	assert.Equal(t, PhaseWork, snapshot.Phase)
	assert.Equal(t, 1500, snapshot.Remaining)
	assert.False(t, snapshot.Running, "completion must not auto-start the next phase")

	// Idle ticks after completion are ignored.
	tickN(keeper, 5)
	assert.Equal(t, 1500, keeper.Snapshot().Remaining)

	keeper.Close()
	completions := 0
	for event := range events {
		if event.Type == EventPhaseComplete {
			completions++
			assert.Equal(t, PhaseShortBreak, event.Completed)
			assert.Equal(t, PhaseWork, event.Snapshot.Phase)
		}
	}
	assert.Equal(t, 1, completions)
}

func TestTick_DecrementsWhileRunning(t *testing.T) {
	keeper := newIdleKeeper(t)

	keeper.Tick()
	assert.Equal(t, 1500, keeper.Snapshot().Remaining, "idle tick must not count down")

	keeper.Start()
	tickN(keeper, 61)
	assert.Equal(t, "23:59", keeper.Snapshot().Display())
}

func TestWorkCompletion_NextPhaseSequence(t *testing.T) {
	keeper := newIdleKeeper(t)

	var next []Phase
	for cycle := 0; cycle < 8; cycle++ {
		finishPhase(keeper)
		next = append(next, keeper.Snapshot().Phase)
		finishPhase(keeper)
		require.Equal(t, PhaseWork, keeper.Snapshot().Phase)
	}

	assert.Equal(t, []Phase{
		PhaseShortBreak, PhaseShortBreak, PhaseShortBreak, PhaseLongBreak,
		PhaseShortBreak, PhaseShortBreak, PhaseShortBreak, PhaseLongBreak,
	}, next)
	assert.Equal(t, 8, keeper.Snapshot().CompletedCycles)
}

func TestWorkCompletion_IgnoringBreaks(t *testing.T) {
	keeper := newIdleKeeper(t)

	var next []Phase
	for cycle := 0; cycle < 4; cycle++ {
		keeper.SwitchMode(PhaseWork)
		finishPhase(keeper)
		next = append(next, keeper.Snapshot().Phase)
	}

	assert.Equal(t, []Phase{PhaseShortBreak, PhaseShortBreak, PhaseShortBreak, PhaseLongBreak}, next)
}

func TestIndicator_FillsAndWrapsWithLongBreak(t *testing.T) {
	keeper := newIdleKeeper(t)

	for group := 0; group < 3; group++ {
		for k := 1; k <= IndicatorSlots; k++ {
			keeper.SwitchMode(PhaseWork)
			finishPhase(keeper)
			snapshot := keeper.Snapshot()

			if k < IndicatorSlots {
				assert.Equal(t, k, snapshot.ActiveSlots(), "group %d cycle %d", group, k)
				for index, lit := range snapshot.Indicator {
					assert.Equal(t, index < k, lit, "slot %d", index)
				}
				assert.Equal(t, PhaseShortBreak, snapshot.Phase)
				continue
			}
			assert.Equal(t, 0, snapshot.ActiveSlots(), "indicator must wrap on cycle %d", snapshot.CompletedCycles)
			assert.Equal(t, PhaseLongBreak, snapshot.Phase, "long break must coincide with the wrap")
		}
	}
}

func TestIndicator_BreaksDoNotChangeIt(t *testing.T) {
	keeper := newIdleKeeper(t)
	finishPhase(keeper)
	require.Equal(t, 1, keeper.Snapshot().ActiveSlots())

	finishPhase(keeper)

	snapshot := keeper.Snapshot()
	assert.Equal(t, PhaseWork, snapshot.Phase)
	assert.Equal(t, 1, snapshot.ActiveSlots())
	assert.Equal(t, 1, snapshot.CompletedCycles)
	assert.Equal(t, 2, snapshot.CycleNumber())
}

func TestStart_SecondCallPauses(t *testing.T) {
	keeper := newIdleKeeper(t)

	keeper.Start()
	tickN(keeper, 3)
	keeper.Start()

	paused := keeper.Snapshot()
	assert.False(t, paused.Running)
	assert.Equal(t, 1497, paused.Remaining)

	tickN(keeper, 10)
	assert.Equal(t, paused, keeper.Snapshot())

	keeper.Start()
	keeper.Tick()
	assert.Equal(t, 1496, keeper.Snapshot().Remaining)
}

func TestStop_Idempotent(t *testing.T) {
	keeper := newIdleKeeper(t)

	assert.NotPanics(t, func() {
		keeper.Stop()
		keeper.Stop()
	})

	keeper.Start()
	tickN(keeper, 5)
	keeper.Stop()
	keeper.Stop()
	assert.Equal(t, 1495, keeper.Snapshot().Remaining, "stop keeps the remaining time")
}

func TestTickFrom_StaleHandleIsIgnored(t *testing.T) {
	keeper := newIdleKeeper(t)

	keeper.Start()
	keeper.mu.Lock()
	stale := keeper.ticker
	keeper.mu.Unlock()
	require.NotNil(t, stale)

	keeper.Stop()
	keeper.tickFrom(stale)
	assert.Equal(t, 1500, keeper.Snapshot().Remaining)

	keeper.Start()
	keeper.tickFrom(stale)
	assert.Equal(t, 1500, keeper.Snapshot().Remaining, "old ticker must not drive a new run")
}

func TestTickerHandle_NonNilIffRunning(t *testing.T) {
	keeper := newIdleKeeper(t)

	check := func() {
		keeper.mu.Lock()
		defer keeper.mu.Unlock()
		assert.Equal(t, keeper.ticker != nil, keeper.snapshotLocked().Running)
	}

	check()
	keeper.Start()
	check()
	keeper.SwitchMode(PhaseShortBreak)
	check()
	keeper.Start()
	keeper.Reset()
	check()
}

func TestReset_KeepsPhaseAndCycles(t *testing.T) {
	keeper := newIdleKeeper(t)
	finishPhase(keeper)
	keeper.Start()
	tickN(keeper, 30)

	keeper.Reset()

	snapshot := keeper.Snapshot()
	assert.Equal(t, PhaseShortBreak, snapshot.Phase)
	assert.Equal(t, 1, snapshot.CompletedCycles)
	assert.Equal(t, 300, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 1, snapshot.ActiveSlots())
}

func TestBackgroundTicker_CountsDownAndStopsSynchronously(t *testing.T) {
	keeper := New(model.DefaultTimeKeeperConfig(), Config{TickInterval: 5 * time.Millisecond})
	defer keeper.Close()

	keeper.Start()
	assert.Eventually(t, func() bool {
		return keeper.Snapshot().Remaining <= 1497
	}, time.Second, time.Millisecond)

	keeper.Stop()
	stopped := keeper.Snapshot().Remaining
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, keeper.Snapshot().Remaining)
}

func TestSubscribe_ReceivesStateChanges(t *testing.T) {
	keeper := newIdleKeeper(t)
	events := keeper.Subscribe(8)

	keeper.Start()
	keeper.Tick()
	keeper.Stop()

	first := <-events
	assert.Equal(t, EventStateChange, first.Type)
	assert.True(t, first.Snapshot.Running)

	progress := <-events
	assert.Equal(t, EventProgress, progress.Type)
	assert.Equal(t, 1499, progress.Snapshot.Remaining)

	last := <-events
	assert.Equal(t, EventStateChange, last.Type)
	assert.False(t, last.Snapshot.Running)
}

func TestClose_ClosesObservers(t *testing.T) {
	keeper := New(model.DefaultTimeKeeperConfig(), Config{TickInterval: time.Hour})
	events := keeper.Subscribe(1)

	keeper.Start()
	<-events
	keeper.Close()
	keeper.Close()

	_, open := <-events
	assert.False(t, open)
	assert.False(t, keeper.Snapshot().Running)

	late := keeper.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "25:00", FormatSeconds(1500))
	assert.Equal(t, "04:05", FormatSeconds(245))
	assert.Equal(t, "00:00", FormatSeconds(-3))
}
