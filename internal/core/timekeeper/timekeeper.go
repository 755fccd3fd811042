package timekeeper

import (
	"sync"
	"time"

	"tomato/internal/core/model"
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
}

// tickHandle owns one running ticker goroutine.
type tickHandle struct {
	stopCh chan struct{}
}

// TimeKeeper is the pomodoro phase state machine.
type TimeKeeper struct {
	mu        sync.Mutex
	options   Config
	durations map[Phase]int
	phase     Phase
	remaining int
	completed int
	indicator [IndicatorSlots]bool
	// ticker is non-nil iff the countdown is running.
	ticker *tickHandle
	events []chan Event
	closed bool
}

// New creates an idle TimeKeeper positioned at the start of a work phase.
func New(config model.TimeKeeperConfig, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	config = config.Normalized()

	keeper := &TimeKeeper{
		options: options,
		durations: map[Phase]int{
			PhaseWork:       seconds(config.Work),
			PhaseShortBreak: seconds(config.ShortBreak),
			PhaseLongBreak:  seconds(config.LongBreak),
		},
		phase: PhaseWork,
	}
	keeper.remaining = keeper.durations[PhaseWork]
	return keeper
}

// Duration returns the configured length of phase in seconds.
func (keeper *TimeKeeper) Duration(phase Phase) int {
	return keeper.durations[phase]
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Snapshot returns the current state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked()
}

// Start begins the countdown. Calling it while running pauses instead.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	if keeper.ticker != nil {
		keeper.stopLocked()
		keeper.emitStateLocked()
		keeper.mu.Unlock()
		return
	}
	handle := &tickHandle{stopCh: make(chan struct{})}
	keeper.ticker = handle
	keeper.emitStateLocked()
	keeper.mu.Unlock()

	go keeper.run(handle)
}

// Stop pauses the countdown without touching the remaining time.
// It is safe to call when the timer is already idle.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopLocked() {
		keeper.emitStateLocked()
	}
}

// Tick advances the countdown by one second. It does nothing while idle.
func (keeper *TimeKeeper) Tick() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.ticker == nil {
		return
	}
	keeper.tickLocked()
}

// SwitchMode moves to phase with its full duration, stopping the countdown first.
// Selecting the active phase keeps the remaining time.
func (keeper *TimeKeeper) SwitchMode(phase Phase) {
	if !phase.Valid() {
		return
	}
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if phase == keeper.phase {
		return
	}
	keeper.switchLocked(phase)
	keeper.emitStateLocked()
}

// Reset stops the countdown and refills the current phase.
func (keeper *TimeKeeper) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.stopLocked()
	keeper.remaining = keeper.durations[keeper.phase]
	keeper.emitStateLocked()
}

// Close stops the countdown and closes every observer channel.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.stopLocked()
	keeper.closed = true
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) run(handle *tickHandle) {
	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-handle.stopCh:
			return
		case <-ticker.C:
			keeper.tickFrom(handle)
		}
	}
}

// tickFrom applies a tick only if handle is still the live ticker.
func (keeper *TimeKeeper) tickFrom(handle *tickHandle) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.ticker != handle {
		return
	}
	keeper.tickLocked()
}

func (keeper *TimeKeeper) tickLocked() {
	if keeper.remaining > 0 {
		keeper.remaining--
	}
	keeper.emitLocked(Event{
		Type:     EventProgress,
		Snapshot: keeper.snapshotLocked(),
		At:       time.Now(),
	})
	if keeper.remaining > 0 {
		return
	}
	keeper.stopLocked()
	keeper.completePhaseLocked()
}

func (keeper *TimeKeeper) completePhaseLocked() {
	finished := keeper.phase
	next := PhaseWork
	if finished == PhaseWork {
		keeper.completed++
		keeper.updateIndicatorLocked()
		next = PhaseShortBreak
		if keeper.completed%IndicatorSlots == 0 {
			next = PhaseLongBreak
		}
	}
	keeper.switchLocked(next)

	keeper.emitLocked(Event{
		Type:      EventPhaseComplete,
		Snapshot:  keeper.snapshotLocked(),
		Completed: finished,
		At:        time.Now(),
	})
}

// updateIndicatorLocked lights one slot per cycle finished in the current group.
// The fourth completion wraps the group and clears every slot.
func (keeper *TimeKeeper) updateIndicatorLocked() {
	active := keeper.completed % IndicatorSlots
	for index := range keeper.indicator {
		keeper.indicator[index] = index < active
	}
}

func (keeper *TimeKeeper) switchLocked(phase Phase) {
	keeper.stopLocked()
	keeper.phase = phase
	keeper.remaining = keeper.durations[phase]
}

// stopLocked cancels the ticker and reports whether it was running.
func (keeper *TimeKeeper) stopLocked() bool {
	if keeper.ticker == nil {
		return false
	}
	close(keeper.ticker.stopCh)
	keeper.ticker = nil
	return true
}

func (keeper *TimeKeeper) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:           keeper.phase,
		Remaining:       keeper.remaining,
		Running:         keeper.ticker != nil,
		CompletedCycles: keeper.completed,
		Indicator:       keeper.indicator,
	}
}

func (keeper *TimeKeeper) emitStateLocked() {
	keeper.emitLocked(Event{
		Type:     EventStateChange,
		Snapshot: keeper.snapshotLocked(),
		At:       time.Now(),
	})
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func seconds(duration time.Duration) int {
	return int(duration / time.Second)
}
