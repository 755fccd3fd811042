package timekeeper

import (
	"fmt"
	"time"
)

// Phase identifies a timed segment of the pomodoro cycle.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseWork, PhaseShortBreak, PhaseLongBreak}

// Label returns a short human readable name.
func (phase Phase) Label() string {
	switch phase {
	case PhaseWork:
		return "Pomodoro"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return string(phase)
	}
}

// Valid reports whether phase is one of the known phases.
func (phase Phase) Valid() bool {
	return phase == PhaseWork || phase == PhaseShortBreak || phase == PhaseLongBreak
}

// IndicatorSlots is the number of work cycles in a group.
const IndicatorSlots = 4

// Snapshot is a read-only copy of the timer state.
type Snapshot struct {
	Phase           Phase
	Remaining       int
	Running         bool
	CompletedCycles int
	Indicator       [IndicatorSlots]bool
}

// Display formats the remaining time as mm:ss.
func (snapshot Snapshot) Display() string {
	return FormatSeconds(snapshot.Remaining)
}

// CycleNumber is the 1-based number of the work cycle in progress.
func (snapshot Snapshot) CycleNumber() int {
	return snapshot.CompletedCycles + 1
}

// ActiveSlots counts lit indicator slots.
func (snapshot Snapshot) ActiveSlots() int {
	active := 0
	for _, lit := range snapshot.Indicator {
		if lit {
			active++
		}
	}
	return active
}

// FormatSeconds renders seconds as a zero padded mm:ss string.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange   EventType = "state_change"
	EventProgress      EventType = "progress"
	EventPhaseComplete EventType = "phase_complete"
)

// Event represents a TimeKeeper update for observers.
// For EventPhaseComplete, Completed holds the phase that just finished
// and Snapshot already reflects the phase that follows it.
type Event struct {
	Type      EventType
	Snapshot  Snapshot
	Completed Phase
	At        time.Time
}
