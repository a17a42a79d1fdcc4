// Package carousel implements the autoplay slide controller: a rotating index
// over a fixed slide list, paused and resumed by hover, focus, touch, tab
// visibility, and keyboard input.
package carousel

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/input"
	"github.com/utafrali/storefront/internal/schedule"
)

const (
	DefaultInterval  = 3000 * time.Millisecond
	MinInterval      = 300 * time.Millisecond
	TouchResumeDelay = 300 * time.Millisecond
	SwipeThreshold   = 50.0
)

// Reason is why autoplay is paused.
type Reason string

const (
	ReasonHover     Reason = "hover"
	ReasonFocus     Reason = "focus"
	ReasonTouch     Reason = "touch"
	ReasonHiddenTab Reason = "hidden-tab"
	ReasonExplicit  Reason = "explicit"
)

var advances = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_carousel_advances_total",
		Help: "Total number of carousel index changes by cause",
	},
	[]string{"cause"},
)

// Config is the mount-time input of a controller. Changing any field through
// Configure restarts the autoplay timer from scratch.
type Config struct {
	Slides        []domain.Slide
	Interval      time.Duration
	ReducedMotion bool
}

// EffectiveInterval is the configured interval with the default applied and
// the lower bound enforced.
func (c Config) EffectiveInterval() time.Duration {
	d := c.Interval
	if d <= 0 {
		d = DefaultInterval
	}
	if d < MinInterval {
		d = MinInterval
	}
	return d
}

// Controller drives one mounted carousel. All methods are safe for concurrent
// use; state transitions are serialized as on a single event loop.
type Controller struct {
	mu    sync.Mutex
	sched schedule.Scheduler
	subs  input.Group

	cfg     Config
	index   int
	reasons map[Reason]bool
	mounted bool

	autoplay schedule.Slot
	resume   schedule.Slot
	// Generations fence callbacks of timers that were stopped after they
	// had already been dispatched.
	tickGen   uint64
	resumeGen uint64

	touching    bool
	touchStartX float64
	touchDelta  float64
}

// New mounts a controller: it subscribes to keyboard and visibility events on
// bus and starts autoplay when there is more than one slide and reduced motion
// is not requested.
func New(sched schedule.Scheduler, bus *input.Bus, cfg Config) *Controller {
	c := &Controller{
		sched:   sched,
		cfg:     cloneConfig(cfg),
		reasons: make(map[Reason]bool),
		mounted: true,
	}
	c.subs.Add(bus.Subscribe(input.KeyDown, c.onKey))
	c.subs.Add(bus.Subscribe(input.VisibilityChange, c.onVisibility))

	c.mu.Lock()
	c.startLocked()
	c.mu.Unlock()
	return c
}

func cloneConfig(cfg Config) Config {
	cfg.Slides = append([]domain.Slide(nil), cfg.Slides...)
	return cfg
}

// Close unmounts the controller. Pending autoplay and touch-resume timers are
// cancelled and listeners released; later calls are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	c.mounted = false
	c.tickGen++
	c.resumeGen++
	c.autoplay.Cancel()
	c.resume.Cancel()
	c.touching = false
	c.mu.Unlock()

	c.subs.Close()
}

// Configure replaces the slide list, interval, and reduced-motion flag. The
// autoplay and touch-resume timers are torn down and autoplay restarted when
// allowed. The current index is kept, reduced modulo the new slide count.
func (c *Controller) Configure(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.stopLocked()
	c.cancelResumeLocked()
	c.touching = false
	delete(c.reasons, ReasonTouch)
	c.cfg = cloneConfig(cfg)
	c.index = wrap(c.index, len(c.cfg.Slides))
	c.startLocked()
}

// Next advances to the following slide.
func (c *Controller) Next() { c.navigate("next", func(i, n int) int { return i + 1 }) }

// Prev moves to the preceding slide.
func (c *Controller) Prev() { c.navigate("prev", func(i, n int) int { return i - 1 }) }

// GoTo jumps to slide i. Any integer is accepted and wrapped into range.
func (c *Controller) GoTo(i int) { c.navigate("goto", func(int, int) int { return i }) }

// navigate applies an explicit navigation: the autoplay timer is cancelled and
// not restarted here; only a resume transition restarts it.
func (c *Controller) navigate(cause string, step func(i, n int) int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigateLocked(cause, step)
}

func (c *Controller) navigateLocked(cause string, step func(i, n int) int) {
	n := len(c.cfg.Slides)
	if !c.mounted || n <= 1 {
		return
	}
	c.stopLocked()
	c.index = wrap(step(c.index, n), n)
	advances.WithLabelValues(cause).Inc()
}

// Pause adds an explicit pause that only Play or a completed touch clears.
func (c *Controller) Pause() { c.pause(ReasonExplicit) }

// Play clears the explicit pause and resumes when nothing else holds it.
func (c *Controller) Play() { c.release(ReasonExplicit) }

// PointerEnter pauses while the pointer is over the carousel.
func (c *Controller) PointerEnter() { c.pause(ReasonHover) }

// PointerLeave clears the hover pause.
func (c *Controller) PointerLeave() { c.release(ReasonHover) }

// FocusIn pauses while focus is inside the carousel.
func (c *Controller) FocusIn() { c.pause(ReasonFocus) }

// FocusOut clears the focus pause.
func (c *Controller) FocusOut() { c.release(ReasonFocus) }

// TouchStart pauses and records the gesture origin.
func (c *Controller) TouchStart(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.cancelResumeLocked()
	c.touching = true
	c.touchStartX = x
	c.touchDelta = 0
	c.pauseLocked(ReasonTouch)
}

// TouchMove tracks the horizontal delta of the current gesture.
func (c *Controller) TouchMove(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted || !c.touching {
		return
	}
	c.touchDelta = x - c.touchStartX
}

// TouchEnd resolves the gesture: a delta beyond the swipe threshold moves one
// slide (right swipe to the previous, left swipe to the next). A resume is
// always scheduled TouchResumeDelay later, whether or not a swipe fired.
func (c *Controller) TouchEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	if c.touching {
		switch {
		case c.touchDelta > SwipeThreshold:
			c.navigateLocked("swipe", func(i, n int) int { return i - 1 })
		case c.touchDelta < -SwipeThreshold:
			c.navigateLocked("swipe", func(i, n int) int { return i + 1 })
		}
	}
	c.touching = false
	c.touchDelta = 0

	c.resumeGen++
	gen := c.resumeGen
	c.resume.Arm(c.sched.After(TouchResumeDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.mounted || gen != c.resumeGen {
			return
		}
		c.resume.Clear()
		c.afterTouchLocked()
	}))
}

// afterTouchLocked clears every user-held reason; the tab must still be
// visible to play.
func (c *Controller) afterTouchLocked() {
	delete(c.reasons, ReasonTouch)
	delete(c.reasons, ReasonHover)
	delete(c.reasons, ReasonFocus)
	delete(c.reasons, ReasonExplicit)
	c.startLocked()
}

func (c *Controller) onKey(ev input.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch ev.Key {
	case input.KeyArrowLeft:
		c.pauseLocked(ReasonExplicit)
		c.navigateLocked("key", func(i, n int) int { return i - 1 })
	case input.KeyArrowRight:
		c.pauseLocked(ReasonExplicit)
		c.navigateLocked("key", func(i, n int) int { return i + 1 })
	}
}

func (c *Controller) onVisibility(ev input.Event) {
	if ev.Hidden {
		c.pause(ReasonHiddenTab)
		return
	}
	c.release(ReasonHiddenTab)
}

func (c *Controller) pause(r Reason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked(r)
}

func (c *Controller) pauseLocked(r Reason) {
	if !c.mounted {
		return
	}
	c.reasons[r] = true
	c.stopLocked()
}

func (c *Controller) release(r Reason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	delete(c.reasons, r)
	c.startLocked()
}

// canPlayLocked reports whether autoplay may run: more than one slide,
// reduced motion off, and no pause reason held.
func (c *Controller) canPlayLocked() bool {
	return c.mounted && len(c.cfg.Slides) > 1 && !c.cfg.ReducedMotion && len(c.reasons) == 0
}

// startLocked arms the autoplay interval unless it is already running or not
// allowed. At most one interval is ever live.
func (c *Controller) startLocked() {
	if c.autoplay.Armed() || !c.canPlayLocked() {
		return
	}
	c.tickGen++
	gen := c.tickGen
	c.autoplay.Arm(c.sched.Every(c.cfg.EffectiveInterval(), func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.mounted || gen != c.tickGen {
			return
		}
		n := len(c.cfg.Slides)
		c.index = wrap(c.index+1, n)
		advances.WithLabelValues("autoplay").Inc()
	}))
}

func (c *Controller) stopLocked() {
	if c.autoplay.Armed() {
		c.tickGen++
		c.autoplay.Cancel()
	}
}

func (c *Controller) cancelResumeLocked() {
	c.resumeGen++
	c.resume.Cancel()
}

// wrap maps any integer into [0, n); n <= 0 yields 0.
func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
