package wiz

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/wiz-lights/internal/lights"
)

const DefaultSendTimeout = 500 * time.Millisecond

// Commander fires setPilot commands at devices. Nothing is acknowledged and
// send failures are only logged.
type Commander struct {
	transport Transport
	timeout   time.Duration
	mirrors   []lights.Mirror
}

var _ lights.Dispatcher = (*Commander)(nil)

func NewCommander(transport Transport, timeout time.Duration, mirrors ...lights.Mirror) *Commander {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Commander{
		transport: transport,
		timeout:   timeout,
		mirrors:   mirrors,
	}
}

// Check surfaces a transport that cannot open sockets at all.
func (c *Commander) Check() error {
	return c.transport.Check()
}

// Send transmits cmd to addr once.
func (c *Commander) Send(addr lights.Address, cmd lights.Command) {
	c.send(addr, EncodeCommand(cmd))
}

func (c *Commander) send(addr lights.Address, payload []byte) {
	if err := c.transport.Send(addr, payload, c.timeout); err != nil {
		logger.With(zap.Stringer("address", addr), zap.Error(err)).Debug("Dropped command")
	}
}

// SetColor sends the same command to every address in order.
func (c *Commander) SetColor(ctx context.Context, addrs []lights.Address, cmd lights.Command) {
	payload := EncodeCommand(cmd)
	for _, addr := range addrs {
		c.send(addr, payload)
	}
	c.mirror(ctx, cmd)
}

// SendEach sends cmds[i] to addrs[i]. Mirrors follow the first command.
func (c *Commander) SendEach(ctx context.Context, addrs []lights.Address, cmds []lights.Command) {
	n := min(len(addrs), len(cmds))
	for i := 0; i < n; i++ {
		c.Send(addrs[i], cmds[i])
	}
	if n > 0 {
		c.mirror(ctx, cmds[0])
	}
}

func (c *Commander) mirror(ctx context.Context, cmd lights.Command) {
	for _, m := range c.mirrors {
		m.Mirror(ctx, cmd)
	}
}
