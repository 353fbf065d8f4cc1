package wiz

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/scheerer/wiz-lights/internal/lights"
)

var errUnreachable = errors.New("unreachable")

// fakeTransport answers probes from a scripted set of responders.
type fakeTransport struct {
	mu        sync.Mutex
	replies   map[string][]byte
	latency   time.Duration
	failSend  map[string]bool
	checkErr  error
	probes    int
	inFlight  int
	maxFlight int
	sent      map[string][][]byte
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		replies:  make(map[string][]byte),
		failSend: make(map[string]bool),
		sent:     make(map[string][][]byte),
	}
}

func (f *fakeTransport) Probe(ctx context.Context, addr lights.Address, _ []byte, timeout time.Duration) ([]byte, error) {
	f.mu.Lock()
	f.probes++
	f.inFlight++
	f.maxFlight = max(f.maxFlight, f.inFlight)
	reply, ok := f.replies[addr.String()]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	wait := timeout
	if ok && f.latency < timeout {
		wait = f.latency
	}
	select {
	case <-time.After(wait):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if !ok {
		return nil, errors.New("i/o timeout")
	}
	return reply, nil
}

func (f *fakeTransport) Send(addr lights.Address, payload []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[addr.String()] = append(f.sent[addr.String()], payload)
	if f.failSend[addr.String()] {
		return errUnreachable
	}
	return nil
}

func (f *fakeTransport) Check() error {
	return f.checkErr
}

func (f *fakeTransport) sentTo(addr string) [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[addr]
}
