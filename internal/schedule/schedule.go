// Package schedule provides the arm/cancel timer abstraction used by the
// carousel autoplay, search debounce, and notice expiry. Components depend on
// the Scheduler interface so tests can drive time with a Fake.
package schedule

import "time"

// Timer is an armed callback. Stop is idempotent and reports whether the
// call prevented at least one future firing.
type Timer interface {
	Stop() bool
}

// Scheduler arms fire-once and repeating callbacks.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// After runs fn once, d from now.
	After(d time.Duration, fn func()) Timer
	// Every runs fn every d until the returned Timer is stopped.
	Every(d time.Duration, fn func()) Timer
}

// Slot holds at most one armed timer. Arming a slot stops whatever it held
// before. A Slot is not safe for concurrent use; callers guard it with the
// same mutex that guards the state its callbacks touch.
type Slot struct {
	timer Timer
}

// Arm replaces the slot's timer with t.
func (s *Slot) Arm(t Timer) {
	s.Cancel()
	s.timer = t
}

// Cancel stops and forgets the held timer.
func (s *Slot) Cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Clear forgets the held timer without stopping it. Fire-once callbacks call
// it once they have run.
func (s *Slot) Clear() {
	s.timer = nil
}

// Armed reports whether the slot holds a timer.
func (s *Slot) Armed() bool {
	return s.timer != nil
}
