package wiz

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/wiz-lights/internal/lights"
)

var testRange = lights.AddressRange{Prefix: "192.168.1", Start: 0, End: 255}

func TestScanReturnsExactlyTheResponders(t *testing.T) {
	ft := newFakeTransport()
	ft.replies["192.168.1.10"] = []byte(`{"result":{"moduleName":"A"}}`)
	ft.replies["192.168.1.77"] = []byte(`{"result":{"moduleName":"B"}}`)
	ft.replies["192.168.1.200"] = []byte(`not json`)
	ft.replies["192.168.1.201"] = []byte(`{}`)

	table, err := NewScanner(ft).Scan(context.Background(), testRange, 20*time.Millisecond, 256)
	require.NoError(t, err)

	got := make([]string, 0, len(table))
	for _, a := range table.Addresses() {
		got = append(got, a.String())
	}
	assert.Equal(t, []string{"192.168.1.10", "192.168.1.77", "192.168.1.200"}, got)
	assert.Equal(t, "A", table[lights.MustParseAddress("192.168.1.10")].Name())
	assert.True(t, table[lights.MustParseAddress("192.168.1.200")].IsRaw())
	assert.Equal(t, 256, ft.probes)
}

func TestScanIsParallel(t *testing.T) {
	ft := newFakeTransport()
	for i := 0; i < 256; i += 3 {
		ft.replies[fmt.Sprintf("192.168.1.%d", i)] = []byte(`{"result":{}}`)
	}
	ft.latency = 40 * time.Millisecond
	timeout := 100 * time.Millisecond

	start := time.Now()
	table, err := NewScanner(ft).Scan(context.Background(), testRange, timeout, 256)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, table, 86)
	// sequential probing would take 256 timeouts
	assert.Less(t, elapsed, timeout+time.Second)
}

func TestScanRespectsConcurrencyBound(t *testing.T) {
	ft := newFakeTransport()
	_, err := NewScanner(ft).Scan(context.Background(),
		lights.AddressRange{Prefix: "10.0.0", Start: 0, End: 63}, 5*time.Millisecond, 8)
	require.NoError(t, err)
	assert.LessOrEqual(t, ft.maxFlight, 8)
	assert.Equal(t, 64, ft.probes)
}

func TestScanAttemptsRetrySilentHosts(t *testing.T) {
	ft := newFakeTransport()
	_, err := NewScanner(ft, WithAttempts(3)).Scan(context.Background(),
		lights.AddressRange{Prefix: "10.0.0", Start: 1, End: 2}, time.Millisecond, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, ft.probes)
}

func TestScanFailures(t *testing.T) {
	ft := newFakeTransport()

	_, err := NewScanner(ft).Scan(context.Background(), testRange, time.Millisecond, 0)
	assert.ErrorIs(t, err, ErrPoolCreate)

	_, err = NewScanner(ft).Scan(context.Background(), lights.AddressRange{Prefix: "1.2", End: 3}, time.Millisecond, 4)
	assert.ErrorIs(t, err, lights.ErrInvalidAddress)

	ft.checkErr = fmt.Errorf("%w: too many open files", ErrResourceExhausted)
	_, err = NewScanner(ft).Scan(context.Background(), testRange, time.Millisecond, 4)
	assert.ErrorIs(t, err, ErrResourceExhausted)
	assert.Zero(t, ft.probes)
}

func TestScanCancelled(t *testing.T) {
	ft := newFakeTransport()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table, err := NewScanner(ft).Scan(ctx, testRange, time.Second, 4)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, table)
}
