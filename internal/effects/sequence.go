package effects

import (
	"time"

	"github.com/scheerer/wiz-lights/internal/lights"
)

type step struct {
	color lights.Color
	hold  time.Duration
}

// sequence plays queued whole-selection frames (strobes, strikes, pulses)
// one per iteration, each held for its own duration.
type sequence struct {
	steps  []step
	color  lights.Color
	active bool
}

func (q *sequence) push(color lights.Color, hold time.Duration) {
	q.steps = append(q.steps, step{color: color, hold: hold})
}

// extend lengthens the hold of the last queued step.
func (q *sequence) extend(d time.Duration) {
	if n := len(q.steps); n > 0 {
		q.steps[n-1].hold += d
	}
}

// next advances to the following step. It reports false once the queue is
// drained.
func (q *sequence) next(c *Context) bool {
	if len(q.steps) == 0 {
		q.active = false
		return false
	}
	s := q.steps[0]
	q.steps = q.steps[1:]
	q.color = s.color
	q.active = true
	c.Delay = s.hold
	return true
}

func (q *sequence) pending() bool {
	return len(q.steps) > 0
}
