// Package session runs the interactive control loop: discover or load
// devices, let the operator pick bulbs and effects, and keep at most one
// effect running until they quit.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/wiz-lights/internal/effects"
	"github.com/scheerer/wiz-lights/internal/lights"
	"github.com/scheerer/wiz-lights/internal/logging"
	"github.com/scheerer/wiz-lights/internal/runner"
	"github.com/scheerer/wiz-lights/internal/store"
	"github.com/scheerer/wiz-lights/internal/ui"
)

var logger = logging.New("session")

type Scanner interface {
	Scan(ctx context.Context, rng lights.AddressRange, perProbeTimeout time.Duration, concurrency int) (lights.DeviceTable, error)
}

type UI interface {
	SelectDevices(ctx context.Context, table lights.DeviceTable, current lights.Selection) (lights.Selection, error)
	NextRequest(ctx context.Context, catalogue []effects.Effect) (ui.Request, error)
	WaitContinue(ctx context.Context) (bool, error)
	KeyInput(ctx context.Context) (effects.KeyReader, func(), error)
	Notify(format string, args ...any)
	Out() io.Writer
}

type Settings struct {
	Range          lights.AddressRange
	ProbeTimeout   time.Duration
	Workers        int
	StopGrace      time.Duration
	EffectDuration time.Duration
}

type Session struct {
	scanner    Scanner
	cache      store.Cache
	ui         UI
	runner     *runner.Runner
	dispatcher lights.Dispatcher
	registry   *effects.Registry
	settings   Settings

	table     lights.DeviceTable
	selection lights.Selection
}

func New(scanner Scanner, cache store.Cache, term UI, r *runner.Runner, dispatcher lights.Dispatcher, registry *effects.Registry, settings Settings) *Session {
	if settings.StopGrace <= 0 {
		settings.StopGrace = runner.DefaultStopGrace
	}
	return &Session{
		scanner:    scanner,
		cache:      cache,
		ui:         term,
		runner:     r,
		dispatcher: dispatcher,
		registry:   registry,
		settings:   settings,
	}
}

func (s *Session) Table() lights.DeviceTable {
	return s.table
}

func (s *Session) Selection() lights.Selection {
	return s.selection
}

// Run blocks until the operator quits, input ends or ctx is done. Any
// running effect is stopped before it returns.
func (s *Session) Run(ctx context.Context) error {
	defer s.runner.Stop(s.settings.StopGrace)

	if err := s.startup(ctx); err != nil {
		return userExit(err)
	}

	sel, err := s.ui.SelectDevices(ctx, s.table, nil)
	if err != nil {
		return userExit(err)
	}
	if sel.Empty() {
		s.ui.Notify("No lights selected. Exiting.")
		return nil
	}
	s.selection = sel

	for {
		if ctx.Err() != nil {
			return nil
		}
		if !s.runner.Stop(s.settings.StopGrace) {
			s.ui.Notify("Previous effect did not stop in time.")
		}

		req, err := s.ui.NextRequest(ctx, s.registry.Catalogue())
		if err != nil {
			return userExit(err)
		}

		proceed, err := s.handle(ctx, req)
		if err != nil {
			return userExit(err)
		}
		if !proceed {
			return nil
		}
	}
}

func (s *Session) startup(ctx context.Context) error {
	table, ok, err := s.cache.Load()
	if err != nil {
		logger.With(zap.Error(err)).Warn("Could not load device cache")
	}
	if ok {
		s.table = table
		s.ui.Notify("Loaded %d bulb(s) from cache.", len(table))
		s.ui.Notify("Use 'rescan' option to refresh the bulb list.")
		return nil
	}

	s.ui.Notify("Scanning %s (no broadcast) for WiZ devices...", s.settings.Range)
	table, err = s.scan(ctx)
	if err != nil {
		return err
	}
	s.table = table
	if len(table) > 0 {
		s.ui.Notify("Found %d bulb(s). Cached for future use.", len(table))
	}
	return nil
}

// scan probes the configured range and caches a non-empty result.
func (s *Session) scan(ctx context.Context) (lights.DeviceTable, error) {
	table, err := s.scanner.Scan(ctx, s.settings.Range, s.settings.ProbeTimeout, s.settings.Workers)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.settings.Range, err)
	}
	if len(table) == 0 {
		s.ui.Notify("Found 0 devices.")
		return table, nil
	}
	if err := s.cache.Save(table); err != nil {
		logger.With(zap.Error(err)).Warn("Could not save device cache")
	}
	return table, nil
}

// handle executes one menu request. It reports false when the session
// should end.
func (s *Session) handle(ctx context.Context, req ui.Request) (bool, error) {
	switch req.Name {
	case ui.OptionQuit:
		return false, nil
	case ui.OptionRescan:
		return s.rescan(ctx)
	case ui.OptionChangeBulbs:
		return s.reselect(ctx)
	}

	effect, ok := s.registry.Lookup(req.Name)
	if !ok {
		s.ui.Notify("Unknown effect: '%s'.", req.Name)
		return true, nil
	}

	switch effect.Kind {
	case effects.OneShot:
		s.dispatcher.SetColor(ctx, s.selection, effect.Once(req.Params))
		return s.ui.WaitContinue(ctx)

	case effects.Background:
		_, err := s.runner.Start(s.selection, effect, req.Params, runner.Options{Duration: s.settings.EffectDuration})
		if err != nil {
			s.ui.Notify("Could not start %s: %v", effect.Name, err)
			return true, nil
		}
		s.ui.Notify("Running %s on %d bulb(s).", effect.Name, len(s.selection))
		return s.ui.WaitContinue(ctx)

	case effects.Foreground:
		keys, restore, err := s.ui.KeyInput(ctx)
		if err != nil {
			s.ui.Notify("Key input unavailable: %v", err)
			return true, nil
		}
		err = s.runner.RunForeground(ctx, s.selection, effect, req.Params, keys, s.ui.Out())
		restore()
		if err != nil {
			logger.With(zap.String("effect", effect.Name), zap.Error(err)).Warn("Foreground effect failed")
		}
		return true, nil
	}

	s.ui.Notify("Unknown effect: '%s'.", req.Name)
	return true, nil
}

func (s *Session) rescan(ctx context.Context) (bool, error) {
	s.ui.Notify("\nRescanning %s for WiZ devices...", s.settings.Range)
	table, err := s.scan(ctx)
	if err != nil {
		return false, err
	}
	s.table = table
	if len(table) > 0 {
		s.ui.Notify("Found %d bulb(s). Cache updated.", len(table))
	}

	s.selection = s.selection.Intersect(table)
	if !s.selection.Empty() {
		return true, nil
	}

	sel, err := s.ui.SelectDevices(ctx, table, nil)
	if err != nil {
		return false, err
	}
	if sel.Empty() {
		s.ui.Notify("No lights selected. Exiting.")
		return false, nil
	}
	s.selection = sel
	return true, nil
}

func (s *Session) reselect(ctx context.Context) (bool, error) {
	sel, err := s.ui.SelectDevices(ctx, s.table, s.selection)
	if err != nil {
		return false, err
	}
	if sel.Empty() {
		s.ui.Notify("No lights selected. Exiting.")
		return false, nil
	}
	s.selection = sel
	return true, nil
}

// userExit turns the end of input and cancellation into a clean exit.
func userExit(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
