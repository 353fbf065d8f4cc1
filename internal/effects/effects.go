// Package effects holds the catalogue of light effects. Background effects
// are colour generators driven by the runner, one-shot effects produce a
// single command and foreground effects block on operator input.
package effects

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/scheerer/wiz-lights/internal/lights"
	"github.com/scheerer/wiz-lights/internal/util"
)

type Kind int

const (
	Background Kind = iota
	OneShot
	Foreground
)

func (k Kind) String() string {
	switch k {
	case Background:
		return "background"
	case OneShot:
		return "one-shot"
	case Foreground:
		return "foreground"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	ErrDuplicate     = errors.New("effect already registered")
	ErrInvalidEffect = errors.New("invalid effect")
)

// Params are operator supplied effect arguments, keyed by ParamSpec.Name.
type Params map[string]string

func (p Params) Int(key string, def int) int {
	return util.ParseStringAs(p[key], def)
}

// ParamSpec describes an integer argument the UI should ask for.
type ParamSpec struct {
	Name    string
	Prompt  string
	Default int
	Min     int
	Max     int
}

// Context carries all state of one effect run across generator calls. The
// runner owns it; generators must not keep state anywhere else.
type Context struct {
	Devices   int
	Iteration int
	Started   time.Time
	Params    Params
	Rand      *rand.Rand
	// Delay overrides Pattern.Interval for the current iteration when set.
	Delay time.Duration

	state any
}

func NewContext(devices int, params Params, seed uint64) *Context {
	if params == nil {
		params = Params{}
	}
	return &Context{
		Devices: devices,
		Started: time.Now(),
		Params:  params,
		Rand:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (c *Context) uniform(lo, hi float64) float64 {
	return lo + c.Rand.Float64()*(hi-lo)
}

// between returns an int in [lo, hi].
func (c *Context) between(lo, hi int) int {
	return lo + c.Rand.IntN(hi-lo+1)
}

func (c *Context) seconds(lo, hi float64) time.Duration {
	return time.Duration(c.uniform(lo, hi) * float64(time.Second))
}

// stateOf returns the effect state stored in c, creating it on first use.
func stateOf[T any](c *Context) *T {
	if s, ok := c.state.(*T); ok {
		return s
	}
	s := new(T)
	c.state = s
	return s
}

// Pattern is a background colour generator.
type Pattern struct {
	Interval time.Duration
	// Begin runs once per iteration before Color is asked for each device.
	Begin func(elapsed time.Duration, c *Context)
	Color func(elapsed time.Duration, index int, c *Context) lights.Command
}

// KeyReader yields single key presses. ReadKey returns ctx.Err() once ctx is
// done and io.EOF when input is closed.
type KeyReader interface {
	ReadKey(ctx context.Context) (rune, error)
}

// Stage is what a foreground effect gets to work with.
type Stage struct {
	Selection  lights.Selection
	Dispatcher lights.Dispatcher
	Keys       KeyReader
	Out        io.Writer
	Params     Params
}

type ForegroundFunc func(ctx context.Context, stage Stage) error

type Effect struct {
	Name        string
	Description string
	Category    string
	Kind        Kind
	Params      []ParamSpec

	Pattern Pattern                       // Background
	Once    func(p Params) lights.Command // OneShot
	Run     ForegroundFunc                // Foreground
}

func (e Effect) validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidEffect)
	}
	switch e.Kind {
	case Background:
		if e.Pattern.Color == nil || e.Pattern.Interval <= 0 {
			return fmt.Errorf("%w: %s needs a colour generator and an interval", ErrInvalidEffect, e.Name)
		}
	case OneShot:
		if e.Once == nil {
			return fmt.Errorf("%w: %s needs a command", ErrInvalidEffect, e.Name)
		}
	case Foreground:
		if e.Run == nil {
			return fmt.Errorf("%w: %s needs a run function", ErrInvalidEffect, e.Name)
		}
	default:
		return fmt.Errorf("%w: %s has unknown kind %v", ErrInvalidEffect, e.Name, e.Kind)
	}
	return nil
}

// Registry is an open catalogue of effects in registration order.
type Registry struct {
	mu      sync.RWMutex
	effects map[string]Effect
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{effects: make(map[string]Effect)}
}

func (r *Registry) Register(e Effect) error {
	if err := e.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.effects[e.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, e.Name)
	}
	r.effects[e.Name] = e
	r.order = append(r.order, e.Name)
	return nil
}

func (r *Registry) MustRegister(effects ...Effect) {
	for _, e := range effects {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Lookup(name string) (Effect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.effects[name]
	return e, ok
}

func (r *Registry) Catalogue() []Effect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Effect, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.effects[name])
	}
	return out
}
