package wiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scheerer/wiz-lights/internal/lights"
	"github.com/scheerer/wiz-lights/internal/logging"
)

var logger = logging.New("wiz")

const (
	DefaultProbeTimeout = 350 * time.Millisecond
	DefaultWorkers      = 80
)

var ErrPoolCreate = errors.New("cannot create scan worker pool")

type Scanner struct {
	transport Transport
	port      uint16
	attempts  int
}

type ScannerOption func(*Scanner)

// WithPort probes a port other than the WiZ default.
func WithPort(port uint16) ScannerOption {
	return func(s *Scanner) { s.port = port }
}

// WithAttempts sets how many probes a silent host gets within one scan.
// One is the normal single-shot behaviour.
func WithAttempts(n int) ScannerOption {
	return func(s *Scanner) { s.attempts = max(1, n) }
}

func NewScanner(transport Transport, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		transport: transport,
		port:      lights.DefaultPort,
		attempts:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan probes every address in rng with at most concurrency probes in
// flight. Hosts that stay silent are left out of the table. Only a pool or
// socket that cannot be created at all is reported as an error; a cancelled
// ctx returns whatever was collected so far together with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, rng lights.AddressRange, perProbeTimeout time.Duration, concurrency int) (lights.DeviceTable, error) {
	if concurrency < 1 {
		return nil, fmt.Errorf("%w: concurrency %d", ErrPoolCreate, concurrency)
	}
	addrs, err := rng.Addresses(s.port)
	if err != nil {
		return nil, err
	}
	if err := s.transport.Check(); err != nil {
		return nil, err
	}

	logger.With(
		zap.Stringer("range", rng),
		zap.Duration("probeTimeout", perProbeTimeout),
		zap.Int("workers", concurrency),
		zap.Int("attempts", s.attempts)).
		Info("Scanning for WiZ devices")

	var (
		mu    sync.Mutex
		table = make(lights.DeviceTable)
	)

	query := EncodeQuery()
	g := new(errgroup.Group)
	g.SetLimit(concurrency)

SUBMIT_LOOP:
	for _, addr := range addrs {
		select {
		case <-ctx.Done():
			break SUBMIT_LOOP
		default:
		}
		g.Go(func() error {
			payload, ok := s.probe(ctx, addr, query, perProbeTimeout)
			if !ok {
				return nil
			}
			mu.Lock()
			table[addr] = payload
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	logger.With(zap.Int("found", len(table))).Info("Scan complete")

	if err := ctx.Err(); err != nil {
		return table, err
	}
	return table, nil
}

func (s *Scanner) probe(ctx context.Context, addr lights.Address, query []byte, timeout time.Duration) (lights.Payload, bool) {
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if ctx.Err() != nil {
			return nil, false
		}
		reply, err := s.transport.Probe(ctx, addr, query, timeout)
		if err != nil {
			logger.With(zap.Stringer("address", addr), zap.Int("attempt", attempt), zap.Error(err)).
				Debug("No response")
			continue
		}
		payload, ok := DecodeResponse(reply)
		if !ok {
			continue
		}
		if payload.IsRaw() {
			logger.With(zap.Stringer("address", addr), zap.String("raw", payload.Raw())).
				Warn("Unparseable reply kept as raw text")
		} else {
			logger.With(zap.Stringer("address", addr), zap.String("name", payload.Name())).
				Info("Found WiZ device")
		}
		return payload, true
	}
	return nil, false
}
