package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Keeper owns one Timer per user and drives all of them from a single
// ticker goroutine. Timers outlive any particular request so a resume
// banner can reattach to a countdown started elsewhere.
type Keeper struct {
	mu     sync.Mutex
	timers map[int]*Timer
	log    *slog.Logger
}

// NewKeeper creates an empty keeper.
func NewKeeper(log *slog.Logger) *Keeper {
	return &Keeper{
		timers: make(map[int]*Timer),
		log:    log,
	}
}

// Get returns the user's timer, creating an idle one on first use.
func (k *Keeper) Get(userID int) *Timer {
	k.mu.Lock()
	defer k.mu.Unlock()
	t, ok := k.timers[userID]
	if !ok {
		t = New()
		k.timers[userID] = t
	}
	return t
}

// Run drives one Tick per second across all timers until ctx is cancelled.
// The wall-clock time is passed down so timers reconcile against real
// elapsed time even when the ticker fires late.
func (k *Keeper) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			k.tickAll(now)
		}
	}
}

func (k *Keeper) tickAll(now time.Time) {
	k.mu.Lock()
	timers := make(map[int]*Timer, len(k.timers))
	for id, t := range k.timers {
		timers[id] = t
	}
	k.mu.Unlock()

	for userID, t := range timers {
		before := t.Snapshot().State
		t.Tick(now)
		after := t.Snapshot().State
		if before == Running && after == Completed {
			k.log.Info("rest timer completed", "user_id", userID)
		}
	}
}
