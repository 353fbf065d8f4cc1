// Package runner drives at most one effect at a time against a selection of
// bulbs. Background effects run on their own goroutine and can be stopped
// with a bounded grace period; foreground effects run on the caller.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scheerer/wiz-lights/internal/effects"
	"github.com/scheerer/wiz-lights/internal/lights"
	"github.com/scheerer/wiz-lights/internal/logging"
)

var logger = logging.New("runner")

const DefaultStopGrace = 2 * time.Second

type State int

const (
	Idle State = iota
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrAlreadyRunning = errors.New("an effect is already running")
	ErrWrongKind      = errors.New("effect kind not supported here")
)

type Options struct {
	// Duration bounds the run when positive.
	Duration time.Duration
	// Seed for the effect's random source. Zero picks a random seed.
	Seed uint64
}

// Handle identifies one effect run.
type Handle struct {
	ID       uuid.UUID
	Effect   string
	Deadline time.Time

	cancel context.CancelFunc
	done   chan struct{}

	// released is set when Stop gives up on the run. No dispatch starts
	// after it is set; one already in flight may finish.
	released atomic.Bool
}

func newHandle(effect string) *Handle {
	return &Handle{
		ID:     uuid.New(),
		Effect: effect,
		done:   make(chan struct{}),
	}
}

func (h *Handle) release() {
	h.released.Store(true)
}

// Done is closed once the effect goroutine has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

type Runner struct {
	dispatcher lights.Dispatcher

	mu     sync.Mutex
	state  State
	active *Handle
}

func New(dispatcher lights.Dispatcher) *Runner {
	return &Runner{dispatcher: dispatcher}
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Active returns the current handle, or nil when idle.
func (r *Runner) Active() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Runner) claim(h *Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Idle {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, r.active.Effect)
	}
	r.state = Running
	r.active = h
	return nil
}

func (r *Runner) finish(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == h {
		r.active = nil
		r.state = Idle
	}
}

// Start launches a background effect on a copy of selection.
func (r *Runner) Start(selection lights.Selection, effect effects.Effect, params effects.Params, opts Options) (*Handle, error) {
	if effect.Kind != effects.Background {
		return nil, fmt.Errorf("%w: %s is %v", ErrWrongKind, effect.Name, effect.Kind)
	}

	h := newHandle(effect.Name)
	var ctx context.Context
	if opts.Duration > 0 {
		h.Deadline = time.Now().Add(opts.Duration)
		ctx, h.cancel = context.WithDeadline(context.Background(), h.Deadline)
	} else {
		ctx, h.cancel = context.WithCancel(context.Background())
	}
	if err := r.claim(h); err != nil {
		h.cancel()
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	sel := selection.Clone()
	ec := effects.NewContext(len(sel), params, seed)

	logger.With(zap.Stringer("handle", h.ID), zap.String("effect", effect.Name), zap.Int("devices", len(sel))).
		Info("Starting effect")

	go r.loop(ctx, h, sel, effect.Pattern, ec)
	return h, nil
}

func (r *Runner) loop(ctx context.Context, h *Handle, sel lights.Selection, p effects.Pattern, c *effects.Context) {
	defer close(h.done)
	defer r.finish(h)
	defer h.cancel()

	for {
		if ctx.Err() != nil {
			break
		}

		elapsed := time.Since(c.Started)
		c.Delay = 0
		if p.Begin != nil {
			p.Begin(elapsed, c)
		}
		cmds := make([]lights.Command, len(sel))
		for i := range sel {
			cmds[i] = p.Color(elapsed, i, c)
		}

		if !r.dispatch(ctx, h, sel, cmds) {
			break
		}
		c.Iteration++

		wait := p.Interval
		if c.Delay > 0 {
			wait = c.Delay
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		timer.Stop()
	}

	logger.With(zap.Stringer("handle", h.ID), zap.String("effect", h.Effect), zap.Int("iterations", c.Iteration)).
		Info("Effect finished")
}

func (r *Runner) dispatch(ctx context.Context, h *Handle, sel lights.Selection, cmds []lights.Command) bool {
	if h.released.Load() || ctx.Err() != nil {
		return false
	}
	r.dispatcher.SendEach(ctx, sel, cmds)
	return true
}

// Stop cancels the active effect and waits up to grace for it to exit. It
// reports false if the effect had to be abandoned. Stopping while idle is a
// no-op that reports true.
func (r *Runner) Stop(grace time.Duration) bool {
	r.mu.Lock()
	h := r.active
	if h == nil {
		r.mu.Unlock()
		return true
	}
	r.state = Stopping
	r.mu.Unlock()

	h.cancel()

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-h.done:
		h.release()
		return true
	case <-timer.C:
	}

	logger.With(zap.Stringer("handle", h.ID), zap.String("effect", h.Effect), zap.Duration("grace", grace)).
		Warn("Effect did not stop in time, abandoning it")
	h.release()
	r.finish(h)
	return false
}

// RunForeground runs a foreground effect on the calling goroutine until it
// returns, ctx is done or Stop is called.
func (r *Runner) RunForeground(ctx context.Context, selection lights.Selection, effect effects.Effect, params effects.Params, keys effects.KeyReader, out io.Writer) error {
	if effect.Kind != effects.Foreground {
		return fmt.Errorf("%w: %s is %v", ErrWrongKind, effect.Name, effect.Kind)
	}

	h := newHandle(effect.Name)
	ctx, h.cancel = context.WithCancel(ctx)
	defer h.cancel()
	if err := r.claim(h); err != nil {
		return err
	}
	defer close(h.done)
	defer r.finish(h)

	logger.With(zap.Stringer("handle", h.ID), zap.String("effect", effect.Name)).Info("Running foreground effect")

	return effect.Run(ctx, effects.Stage{
		Selection:  selection.Clone(),
		Dispatcher: r.dispatcher,
		Keys:       keys,
		Out:        out,
		Params:     params,
	})
}
