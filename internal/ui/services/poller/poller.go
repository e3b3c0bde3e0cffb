// Package poller re-fetches the user list while users are pending deletion.
package poller

import (
	"log"
	"sync"
	"time"
)

// DefaultInterval is the delay between background refreshes
const DefaultInterval = 3 * time.Second

// Timer is a scheduled callback that can be stopped
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Poller
type Option func(*Poller)

// WithScheduler replaces the wall-clock scheduler
func WithScheduler(s Scheduler) Option {
	return func(p *Poller) {
		p.sched = s
	}
}

// Poller holds at most one pending refresh. Arming replaces the pending
// refresh; a closed poller never fires again.
type Poller struct {
	mu       sync.Mutex
	interval time.Duration
	refresh  func()
	sched    Scheduler
	timer    Timer
	gen      uint64
	closed   bool
}

// New creates a poller that calls refresh interval after each Arm
func New(interval time.Duration, refresh func(), opts ...Option) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		interval: interval,
		refresh:  refresh,
		sched:    timeScheduler{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Arm schedules a refresh, cancelling the pending one. It returns false once closed.
func (p *Poller) Arm() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}
	p.stopLocked()

	gen := p.gen
	p.timer = p.sched.AfterFunc(p.interval, func() { p.fire(gen) })
	return true
}

// Cancel drops the pending refresh, if any
func (p *Poller) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Close cancels the pending refresh and refuses further arming
func (p *Poller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.closed = true
}

// Armed reports whether a refresh is pending
func (p *Poller) Armed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timer != nil
}

// Interval returns the delay between arming and refreshing
func (p *Poller) Interval() time.Duration {
	return p.interval
}

func (p *Poller) stopLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	// a callback that already started waiting for the lock must not run
	p.gen++
}

func (p *Poller) fire(gen uint64) {
	p.mu.Lock()
	if p.closed || gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.mu.Unlock()

	log.Printf("Poller: refreshing users pending deletion")
	p.refresh()
}
