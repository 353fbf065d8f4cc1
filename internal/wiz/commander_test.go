package wiz

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scheerer/wiz-lights/internal/lights"
)

type recordingMirror struct {
	mu   sync.Mutex
	cmds []lights.Command
}

func (m *recordingMirror) Start(context.Context) {}
func (m *recordingMirror) Stop()                 {}
func (m *recordingMirror) Mirror(_ context.Context, cmd lights.Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmds = append(m.cmds, cmd)
}

func TestSetColorSurvivesFailingAddress(t *testing.T) {
	ft := newFakeTransport()
	ft.failSend["192.168.1.3"] = true
	addrs := []lights.Address{
		lights.MustParseAddress("192.168.1.2"),
		lights.MustParseAddress("192.168.1.3"),
		lights.MustParseAddress("192.168.1.4"),
	}

	NewCommander(ft, 0).SetColor(context.Background(), addrs, lights.Set(lights.Kelvin(2700)))

	want := EncodeCommand(lights.Set(lights.Kelvin(2700)))
	for _, a := range addrs {
		sent := ft.sentTo(a.String())
		if assert.Len(t, sent, 1, a.String()) {
			assert.Equal(t, want, sent[0])
		}
	}
}

func TestSendEachPairsCommandsAndFeedsMirrors(t *testing.T) {
	ft := newFakeTransport()
	mirror := &recordingMirror{}
	c := NewCommander(ft, 0, mirror)

	a := lights.MustParseAddress("192.168.1.2")
	b := lights.MustParseAddress("192.168.1.3")
	red := lights.Set(lights.Color{Red: 255})
	blue := lights.Set(lights.Color{Blue: 255})

	c.SendEach(context.Background(), []lights.Address{a, b}, []lights.Command{red, blue})
	c.SendEach(context.Background(), nil, nil)

	assert.Equal(t, [][]byte{EncodeCommand(red)}, ft.sentTo(a.String()))
	assert.Equal(t, [][]byte{EncodeCommand(blue)}, ft.sentTo(b.String()))
	assert.Equal(t, []lights.Command{red}, mirror.cmds)
}

func TestCommanderCheck(t *testing.T) {
	ft := newFakeTransport()
	ft.checkErr = ErrResourceExhausted
	assert.ErrorIs(t, NewCommander(ft, 0).Check(), ErrResourceExhausted)
}
