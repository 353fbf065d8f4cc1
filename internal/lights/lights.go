package lights

import "context"

// Dispatcher delivers commands to bulbs. Implementations are best effort
// and never report per-device failures.
type Dispatcher interface {
	SetColor(ctx context.Context, addrs []Address, cmd Command)
	SendEach(ctx context.Context, addrs []Address, cmds []Command)
}

// Mirror follows the lead colour of every dispatch on another light system.
type Mirror interface {
	Start(ctx context.Context)
	Mirror(ctx context.Context, cmd Command)
	Stop()
}
