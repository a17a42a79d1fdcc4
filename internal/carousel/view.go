package carousel

import (
	"fmt"
	"sort"

	"github.com/utafrali/storefront/internal/domain"
)

// View is a snapshot of the controller for rendering.
type View struct {
	Index        int           `json:"index"`
	Count        int           `json:"count"`
	Slide        *domain.Slide `json:"slide,omitempty"`
	Controls     bool          `json:"controls"`
	Autoplay     bool          `json:"autoplay"`
	Paused       bool          `json:"paused"`
	Reasons      []Reason      `json:"reasons"`
	IntervalMS   int64         `json:"interval_ms"`
	Announcement string        `json:"announcement"`
}

// View returns the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.cfg.Slides)
	v := View{
		Index:      c.index,
		Count:      n,
		Controls:   n > 1,
		Autoplay:   c.autoplay.Armed(),
		Paused:     len(c.reasons) > 0,
		Reasons:    make([]Reason, 0, len(c.reasons)),
		IntervalMS: c.cfg.EffectiveInterval().Milliseconds(),
	}
	for r := range c.reasons {
		v.Reasons = append(v.Reasons, r)
	}
	sort.Slice(v.Reasons, func(i, j int) bool { return v.Reasons[i] < v.Reasons[j] })

	if n > 0 {
		s := c.cfg.Slides[c.index]
		v.Slide = &s
		v.Announcement = announce(c.index, n, s.Title)
	}
	return v
}

// Index returns the current slide index.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// announce renders the screen-reader status line, e.g. "Slide 2 of 3: Eco Carrybags".
func announce(index, n int, title string) string {
	s := fmt.Sprintf("Slide %d of %d", index+1, n)
	if title != "" {
		s += ": " + title
	}
	return s
}
