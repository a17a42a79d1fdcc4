package schedule

import (
	"sync"
	"time"
)

// Real is a Scheduler backed by the runtime timers.
type Real struct{}

// NewReal returns the wall-clock scheduler.
func NewReal() Real { return Real{} }

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// After arms a time.AfterFunc.
func (Real) After(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

// Every starts a ticker goroutine that exits once the timer is stopped.
func (Real) Every(d time.Duration, fn func()) Timer {
	t := &realTicker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.loop(fn)
	return t
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() bool { return r.t.Stop() }

type realTicker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (r *realTicker) loop(fn func()) {
	defer r.ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-r.ticker.C:
			select {
			case <-r.done:
				return
			default:
			}
			fn()
		}
	}
}

func (r *realTicker) Stop() bool {
	stopped := false
	r.once.Do(func() {
		close(r.done)
		stopped = true
	})
	return stopped
}
