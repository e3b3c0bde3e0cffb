package poller

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler collects scheduled callbacks and runs them on demand
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// live returns the timers that were not stopped
func (s *manualScheduler) live() []*manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*manualTimer
	for _, t := range s.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

func TestArmSchedulesOneRefresh(t *testing.T) {
	sched := &manualScheduler{}
	var calls int32
	p := New(0, func() { atomic.AddInt32(&calls, 1) }, WithScheduler(sched))

	require.True(t, p.Arm())
	require.True(t, p.Arm())
	require.True(t, p.Arm())

	live := sched.live()
	require.Len(t, live, 1, "re-arming must replace the pending timer")
	assert.Equal(t, DefaultInterval, live[0].d)
	assert.True(t, p.Armed())

	live[0].f()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, p.Armed())
}

func TestStaleCallbackDoesNotFire(t *testing.T) {
	sched := &manualScheduler{}
	var calls int32
	p := New(time.Second, func() { atomic.AddInt32(&calls, 1) }, WithScheduler(sched))

	p.Arm()
	stale := sched.timers[0]
	p.Arm()

	// the first timer already fired before Stop could catch it
	stale.f()
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.True(t, p.Armed())
}

func TestCancel(t *testing.T) {
	sched := &manualScheduler{}
	var calls int32
	p := New(time.Second, func() { atomic.AddInt32(&calls, 1) }, WithScheduler(sched))

	p.Arm()
	p.Cancel()
	assert.Empty(t, sched.live())
	assert.False(t, p.Armed())

	sched.timers[0].f()
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCloseRefusesArming(t *testing.T) {
	sched := &manualScheduler{}
	var calls int32
	p := New(time.Second, func() { atomic.AddInt32(&calls, 1) }, WithScheduler(sched))

	p.Arm()
	p.Close()
	assert.False(t, p.Arm())
	assert.Empty(t, sched.live())

	sched.timers[0].f()
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestRealTimerFires(t *testing.T) {
	done := make(chan struct{})
	p := New(10*time.Millisecond, func() { close(done) })
	p.Arm()
	defer p.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresh did not run")
	}
}
