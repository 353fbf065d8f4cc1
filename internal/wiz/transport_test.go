package wiz

import (
	"context"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/wiz-lights/internal/lights"
)

// loopbackBulb answers every datagram with reply and records what it got.
func loopbackBulb(t *testing.T, reply string) (lights.Address, <-chan string) {
	t.Helper()
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	got := make(chan string, 16)
	go func() {
		buf := make([]byte, maxDatagram)
		for {
			n, from, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			got <- string(buf[:n])
			if reply != "" {
				_, _ = conn.WriteTo([]byte(reply), from)
			}
		}
	}()

	port := conn.LocalAddr().(*net.UDPAddr).Port
	return lights.Address{Host: netip.MustParseAddr("127.0.0.1"), Port: uint16(port)}, got
}

func TestUDPTransportProbe(t *testing.T) {
	addr, got := loopbackBulb(t, `{"result":{"moduleName":"loop"}}`)

	reply, err := UDPTransport{}.Probe(context.Background(), addr, EncodeQuery(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, `{"method":"getPilot","params":{}}`, <-got)

	p, ok := DecodeResponse(reply)
	require.True(t, ok)
	assert.Equal(t, "loop", p.Name())
}

func TestUDPTransportProbeTimesOut(t *testing.T) {
	addr, _ := loopbackBulb(t, "")

	start := time.Now()
	_, err := UDPTransport{}.Probe(context.Background(), addr, EncodeQuery(), 50*time.Millisecond)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestUDPTransportProbeCancelled(t *testing.T) {
	addr, _ := loopbackBulb(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	_, err := UDPTransport{}.Probe(ctx, addr, EncodeQuery(), 5*time.Second)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestUDPSendAndScanOverLoopback(t *testing.T) {
	addr, got := loopbackBulb(t, `{"result":{"deviceName":"desk"}}`)

	c := NewCommander(UDPTransport{}, 0)
	require.NoError(t, c.Check())
	c.Send(addr, lights.NewCommand(1, 2, 3, 0, 50))
	assert.Equal(t, `{"method":"setPilot","params":{"r":1,"g":2,"b":3,"transition":0,"dimming":50}}`, <-got)

	table, err := NewScanner(UDPTransport{}, WithPort(addr.Port)).Scan(context.Background(),
		lights.AddressRange{Prefix: "127.0.0", Start: 1, End: 1}, 500*time.Millisecond, 4)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "desk", table[addr].Name())
}
