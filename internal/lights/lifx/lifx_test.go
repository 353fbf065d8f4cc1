package lifx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pdf/golifx/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/wiz-lights/internal/lights"
)

type fakeGroup struct {
	mu        sync.Mutex
	colors    []common.Color
	durations []time.Duration
	err       error
}

func (g *fakeGroup) GetLabel() string { return "ARCADE" }

func (g *fakeGroup) SetColor(color common.Color, duration time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.colors = append(g.colors, color)
	g.durations = append(g.durations, duration)
	return g.err
}

func TestAdjustColor(t *testing.T) {
	config := Config{MinBrightness: 0.1, MaxBrightness: 0.5}

	black := adjustColor(common.Color{Hue: 100, Saturation: 10, Brightness: 10, Kelvin: 3500}, config)
	assert.Equal(t, common.Color{Kelvin: 3500}, black)

	bright := adjustColor(common.Color{Hue: 100, Saturation: 0xFFFF, Brightness: 0xFFFF, Kelvin: 3500}, config)
	assert.Equal(t, uint16(config.MaxBrightness*0xFFFF), bright.Brightness)
	assert.Equal(t, uint16(100), bright.Hue)

	dim := adjustColor(common.Color{Saturation: 0xFFFF, Brightness: 2000, Kelvin: 3500}, config)
	assert.Equal(t, uint16(config.MinBrightness*0xFFFF), dim.Brightness)
}

func TestNewLifxColorScalesByDimming(t *testing.T) {
	full := newLifxColor(lights.Set(lights.Color{Red: 255}))
	assert.Equal(t, uint16(0xFFFF), full.Brightness)
	assert.Equal(t, uint16(0xFFFF), full.Saturation)
	assert.Equal(t, uint16(lifxKelvin), full.Kelvin)

	half := newLifxColor(lights.NewCommand(255, 0, 0, 0, 50))
	assert.InDelta(t, 0xFFFF/2, int(half.Brightness), 1)
}

func TestMirrorFollowsDiscoveredGroup(t *testing.T) {
	g := &fakeGroup{}
	lookups := make(chan struct{}, 10)
	m := newMirror(Config{GroupName: "ARCADE", DiscoveryInterval: time.Hour})
	m.lookup = func(label string) (group, error) {
		lookups <- struct{}{}
		assert.Equal(t, "ARCADE", label)
		return g, nil
	}

	m.Mirror(context.Background(), lights.Set(lights.White))
	assert.Empty(t, g.colors)

	m.Start(context.Background())
	<-lookups
	require.Eventually(t, m.Ready, time.Second, time.Millisecond)

	cmd := lights.Set(lights.Color{Green: 255})
	cmd.Transition = 50
	m.Mirror(context.Background(), cmd)
	m.Stop()
	m.Stop()

	require.Len(t, g.colors, 1)
	assert.Equal(t, 50*time.Millisecond, g.durations[0])
	assert.Equal(t, uint16(0xFFFF), g.colors[0].Brightness)
}

func TestDiscoveryFailureLeavesMirrorIdle(t *testing.T) {
	m := newMirror(Config{GroupName: "NOPE", DiscoveryInterval: time.Hour, DiscoveryTimeout: 20 * time.Millisecond})

	m.lookup = func(string) (group, error) { return nil, errors.New("not found") }
	m.discover(context.Background())
	assert.False(t, m.Ready())

	block := make(chan struct{})
	defer close(block)
	m.lookup = func(string) (group, error) {
		<-block
		return &fakeGroup{}, nil
	}
	start := time.Now()
	m.discover(context.Background())
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, m.Ready())
}
