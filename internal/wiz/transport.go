package wiz

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/scheerer/wiz-lights/internal/lights"
)

const maxDatagram = 4096

var ErrResourceExhausted = errors.New("cannot open a datagram socket")

// Transport moves single datagrams to and from devices.
type Transport interface {
	// Probe sends payload and waits up to timeout for exactly one reply.
	Probe(ctx context.Context, addr lights.Address, payload []byte, timeout time.Duration) ([]byte, error)
	// Send transmits payload once without waiting for a reply.
	Send(addr lights.Address, payload []byte, timeout time.Duration) error
	// Check verifies that a socket can be opened at all.
	Check() error
}

// UDPTransport opens a fresh ephemeral socket per datagram.
type UDPTransport struct{}

var _ Transport = UDPTransport{}

func (UDPTransport) Probe(ctx context.Context, addr lights.Address, payload []byte, timeout time.Duration) ([]byte, error) {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	// unblock the read when the scan is cancelled
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.WriteTo(payload, addr.UDPAddr()); err != nil {
		return nil, err
	}

	buf := make([]byte, maxDatagram)
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (UDPTransport) Send(addr lights.Address, payload []byte, timeout time.Duration) error {
	conn, err := net.DialTimeout("udp4", addr.AddrPort().String(), timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	_, err = conn.Write(payload)
	return err
}

func (UDPTransport) Check() error {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResourceExhausted, err)
	}
	return conn.Close()
}
