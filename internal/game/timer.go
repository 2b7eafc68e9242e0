package game

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// RoundTimer is the cancellable decision countdown for a round. It
// lives entirely outside the reducer: expiry is delivered to the caller
// as an ordinary callback, which the Controller turns into a normal
// CompleteRound intent. Because the reducer already rejects a second
// completion of the same round, a manual completion racing the expiry
// callback still appends exactly one round.
type RoundTimer struct {
	clock  quartz.Clock
	logger *log.Logger

	mu        sync.Mutex
	gen       int
	timer     *quartz.Timer
	remaining int
}

// NewRoundTimer returns a stopped timer reading time from clock.
func NewRoundTimer(clock quartz.Clock, logger *log.Logger) *RoundTimer {
	return &RoundTimer{clock: clock, logger: logger.WithPrefix("timer")}
}

// Start begins a countdown of the given number of seconds. onTick is
// called once per second with the seconds remaining; onExpire is called
// once when the countdown reaches zero. Any countdown already running
// is discarded first.
func (t *RoundTimer) Start(seconds int, onTick func(remaining int), onExpire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	if seconds <= 0 {
		return
	}
	t.gen++
	t.remaining = seconds
	t.logger.Debug("Countdown started", "seconds", seconds)
	t.schedule(t.gen, onTick, onExpire)
}

// Stop discards any running countdown. Ticks already in flight for a
// stopped countdown are ignored.
func (t *RoundTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Remaining returns the seconds left, 0 when stopped or expired.
func (t *RoundTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *RoundTimer) stopLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.remaining = 0
}

// schedule arms the next one-second tick. gen guards against callbacks
// from a countdown that has since been stopped or restarted.
func (t *RoundTimer) schedule(gen int, onTick func(int), onExpire func()) {
	t.timer = t.clock.AfterFunc(time.Second, func() {
		t.mu.Lock()
		if gen != t.gen {
			t.mu.Unlock()
			return
		}
		t.remaining--
		remaining := t.remaining
		if remaining > 0 {
			t.schedule(gen, onTick, onExpire)
			t.mu.Unlock()
			if onTick != nil {
				onTick(remaining)
			}
			return
		}
		t.timer = nil
		t.mu.Unlock()
		t.logger.Debug("Countdown expired")
		onExpire()
	})
}
