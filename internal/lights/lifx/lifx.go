// Package lifx mirrors the lead colour of every WiZ dispatch onto a LIFX
// group, found by label through periodic LAN discovery.
package lifx

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pdf/golifx"
	"github.com/pdf/golifx/common"
	"github.com/pdf/golifx/protocol"
	"go.uber.org/zap"

	"github.com/scheerer/wiz-lights/internal/lights"
	"github.com/scheerer/wiz-lights/internal/logging"
)

var logger = logging.New("lifx")

const (
	defaultDiscoveryInterval = 15 * time.Second
	defaultDiscoveryTimeout  = 5 * time.Second
	lifxKelvin               = 3500
)

type Config struct {
	GroupName     string
	MaxBrightness float64
	MinBrightness float64

	DiscoveryInterval time.Duration
	DiscoveryTimeout  time.Duration
}

// group is the part of common.Group the mirror drives.
type group interface {
	GetLabel() string
	SetColor(color common.Color, duration time.Duration) error
}

type Mirror struct {
	config Config
	client *golifx.Client
	lookup func(label string) (group, error)

	mu     sync.RWMutex
	group  group
	cancel context.CancelFunc
	done   chan struct{}
}

var _ lights.Mirror = (*Mirror)(nil)

func New(config Config) (*Mirror, error) {
	client, err := golifx.NewClient(&protocol.V2{})
	if err != nil {
		return nil, err
	}

	m := newMirror(config)
	m.client = client
	m.lookup = func(label string) (group, error) {
		return client.GetGroupByLabel(label)
	}
	return m, nil
}

func newMirror(config Config) *Mirror {
	if config.DiscoveryInterval <= 0 {
		config.DiscoveryInterval = defaultDiscoveryInterval
	}
	if config.DiscoveryTimeout <= 0 {
		config.DiscoveryTimeout = defaultDiscoveryTimeout
	}
	if config.MaxBrightness <= 0 {
		config.MaxBrightness = 1
	}
	return &Mirror{config: config}
}

// Start runs group discovery in the background until ctx is done or Stop
// is called.
func (m *Mirror) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.done = make(chan struct{})
	client, done := m.client, m.done
	m.mu.Unlock()

	if client != nil {
		client.SetDiscoveryInterval(m.config.DiscoveryInterval)
	}
	go m.run(ctx, done)
}

func (m *Mirror) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.config.DiscoveryInterval)
	defer ticker.Stop()

	m.discover(ctx)
	for {
		select {
		case <-ticker.C:
			m.discover(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Mirror) discover(ctx context.Context) {
	logger.With(zap.String("group", m.config.GroupName)).Debug("LIFX discovery starting...")

	type result struct {
		g   group
		err error
	}
	completed := make(chan result, 1)
	go func() {
		g, err := m.lookup(m.config.GroupName)
		completed <- result{g, err}
	}()

	ctx, cancel := context.WithTimeout(ctx, m.config.DiscoveryTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		logger.With(zap.Error(ctx.Err())).Warn("LIFX discovery timed out.")
	case res := <-completed:
		if res.err != nil || res.g == nil {
			logger.With(zap.String("group", m.config.GroupName), zap.Error(res.err)).Warn("Couldn't discover LIFX group.")
			return
		}
		m.mu.Lock()
		known := m.group != nil
		m.group = res.g
		m.mu.Unlock()
		if !known {
			logger.With(zap.String("group", res.g.GetLabel())).Info("LIFX group found")
		}
	}
}

func (m *Mirror) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.group != nil
}

// Mirror sets the group to cmd's colour, scaled by its brightness.
func (m *Mirror) Mirror(_ context.Context, cmd lights.Command) {
	m.mu.RLock()
	g := m.group
	m.mu.RUnlock()
	if g == nil {
		return
	}

	color := adjustColor(newLifxColor(cmd), m.config)
	duration := time.Duration(cmd.Transition) * time.Millisecond
	if err := g.SetColor(color, duration); err != nil {
		logger.With(zap.Error(err)).Warn("Failed to set color for LIFX group")
	}
}

func (m *Mirror) Stop() {
	m.mu.Lock()
	cancel, done, client := m.cancel, m.done, m.client
	m.cancel, m.client = nil, nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	if client != nil {
		client.Close()
	}
}

func newLifxColor(cmd lights.Command) common.Color {
	hue, saturation, brightness := lights.RGBToHSB(cmd.Color.Red, cmd.Color.Green, cmd.Color.Blue)
	brightness = uint16(float64(brightness) * float64(cmd.Clamped().Brightness) / lights.MaxBrightness)

	return common.Color{
		Hue:        hue,
		Saturation: saturation,
		Brightness: brightness,
		Kelvin:     lifxKelvin,
	}
}

func adjustColor(color common.Color, config Config) common.Color {
	blackThreshold := 0.015 * 0xFFFF
	if color.Brightness <= uint16(blackThreshold) && color.Saturation <= uint16(blackThreshold) {
		// blackish, turn the light off
		return common.Color{Kelvin: lifxKelvin}
	}

	color.Brightness = uint16(math.Min(config.MaxBrightness*0xFFFF, math.Max(config.MinBrightness*0xFFFF, float64(color.Brightness))))

	return color
}
