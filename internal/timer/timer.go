// Package timer implements the rest countdown between sets. Each user has
// at most one timer (starting a new one replaces the old); remaining time
// is derived from a wall-clock deadline so that delayed or dropped ticks
// never accumulate drift.
package timer

import (
	"math"
	"sync"
	"time"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/timeutil"
)

// State is the lifecycle phase of a rest timer.
type State string

const (
	// Idle means no countdown is active.
	Idle State = "idle"
	// Running means the countdown is ticking toward zero.
	Running State = "running"
	// Completed means the countdown reached zero; the next tick returns
	// the timer to Idle.
	Completed State = "completed"
)

// Rest duration bounds: the configured duration is clamped to [MinRestSeconds,
// MaxRestSeconds] in RestStepSeconds increments.
const (
	MinRestSeconds     = 30
	MaxRestSeconds     = 300
	RestStepSeconds    = 15
	DefaultRestSeconds = 90
)

// ClampRestDuration snaps a configured rest duration into the allowed range
// and step. Non-positive input yields the default.
func ClampRestDuration(seconds int) int {
	if seconds <= 0 {
		return DefaultRestSeconds
	}
	if seconds < MinRestSeconds {
		return MinRestSeconds
	}
	if seconds > MaxRestSeconds {
		return MaxRestSeconds
	}
	return seconds - seconds%RestStepSeconds
}

// Snapshot is the read model handed to subscribers and HTTP handlers.
type Snapshot struct {
	State            State   `json:"state"`
	Active           bool    `json:"active"`
	InitialSeconds   int     `json:"initial_seconds"`
	RemainingSeconds int     `json:"remaining_seconds"`
	Progress         float64 `json:"progress"`
}

// Timer is a single countdown. All methods are safe for concurrent use;
// one goroutine drives Tick while any number of readers take snapshots.
type Timer struct {
	mu             sync.Mutex
	state          State
	initialSeconds int
	deadline       time.Time
	subs           map[int]chan Snapshot
	nextSubID      int
	completions    chan struct{}

	clock func() time.Time
}

// New creates an idle timer.
func New() *Timer {
	return &Timer{
		state:       Idle,
		subs:        make(map[int]chan Snapshot),
		completions: make(chan struct{}, 1),
		clock:       time.Now,
	}
}

// Start begins a countdown of durationSeconds. A timer that is already
// running is replaced; there is no stacking. Non-positive durations are
// a no-op.
func (t *Timer) Start(durationSeconds int) {
	if durationSeconds <= 0 {
		return
	}
	t.mu.Lock()
	// A signal from an earlier countdown must not be attributed to this one.
	select {
	case <-t.completions:
	default:
	}
	t.state = Running
	t.initialSeconds = durationSeconds
	t.deadline = t.clock().Add(time.Duration(durationSeconds) * time.Second)
	snap := t.snapshotLocked(t.clock())
	t.mu.Unlock()
	t.notify(snap)
}

// Tick advances the timer against the given wall-clock time. While Running
// it reconciles remaining time from the deadline (so a late tick catches up
// in one call) and completes when the deadline passes. A Completed timer
// returns to Idle on its next tick.
func (t *Timer) Tick(now time.Time) {
	t.mu.Lock()
	switch t.state {
	case Idle:
		t.mu.Unlock()
		return
	case Completed:
		t.state = Idle
		t.initialSeconds = 0
		snap := t.snapshotLocked(now)
		t.mu.Unlock()
		t.notify(snap)
		return
	}

	if t.remainingLocked(now) <= 0 {
		t.completeLocked()
	}
	snap := t.snapshotLocked(now)
	t.mu.Unlock()
	t.notify(snap)
}

// Skip forces immediate completion regardless of remaining time.
func (t *Timer) Skip() {
	t.mu.Lock()
	if t.state != Running {
		t.mu.Unlock()
		return
	}
	t.deadline = t.clock()
	t.completeLocked()
	snap := t.snapshotLocked(t.clock())
	t.mu.Unlock()
	t.notify(snap)
}

// AddTime moves the deadline by deltaSeconds (negative to subtract).
// Remaining time is floored at zero; reaching zero this way completes the
// timer immediately, same as a natural countdown.
func (t *Timer) AddTime(deltaSeconds int) {
	t.mu.Lock()
	if t.state != Running {
		t.mu.Unlock()
		return
	}
	now := t.clock()
	t.deadline = t.deadline.Add(time.Duration(deltaSeconds) * time.Second)
	if t.remainingLocked(now) <= 0 {
		t.deadline = now
		t.completeLocked()
	}
	snap := t.snapshotLocked(now)
	t.mu.Unlock()
	t.notify(snap)
}

// Snapshot returns the current read model, reconciled against the clock.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(t.clock())
}

// Completions delivers one signal per countdown that reaches zero, whether
// by ticking down, AddTime, or Skip. The channel holds one signal; an
// unread signal is replaced by a newer one rather than blocking the tick
// driver, and Start discards any signal left over from a previous
// countdown.
func (t *Timer) Completions() <-chan struct{} {
	return t.completions
}

// Subscribe registers a snapshot listener. The returned cancel func must be
// called when the listener goes away. Slow listeners miss intermediate
// snapshots instead of blocking the timer.
func (t *Timer) Subscribe() (<-chan Snapshot, func()) {
	t.mu.Lock()
	id := t.nextSubID
	t.nextSubID++
	ch := make(chan Snapshot, 4)
	t.subs[id] = ch
	t.mu.Unlock()

	cancel := func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
	return ch, cancel
}

// completeLocked transitions Running → Completed and fires the one-shot
// completion signal. Caller holds t.mu.
func (t *Timer) completeLocked() {
	t.state = Completed
	select {
	case <-t.completions:
	default:
	}
	t.completions <- struct{}{}
}

// remainingLocked derives remaining whole seconds from the deadline.
// Caller holds t.mu.
func (t *Timer) remainingLocked(now time.Time) int {
	secs := int(math.Ceil(t.deadline.Sub(now).Seconds()))
	if secs < 0 {
		return 0
	}
	return secs
}

func (t *Timer) snapshotLocked(now time.Time) Snapshot {
	remaining := 0
	if t.state == Running {
		remaining = t.remainingLocked(now)
	}
	return Snapshot{
		State:            t.state,
		Active:           t.state == Running,
		InitialSeconds:   t.initialSeconds,
		RemainingSeconds: remaining,
		Progress:         timeutil.Progress(t.initialSeconds, remaining),
	}
}

func (t *Timer) notify(snap Snapshot) {
	t.mu.Lock()
	for _, ch := range t.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	t.mu.Unlock()
}
