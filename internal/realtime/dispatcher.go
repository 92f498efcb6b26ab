package realtime

import (
	"context"

	"github.com/anonto42/socialpulse/backend/internal/presence"
	"go.uber.org/zap"
)

// Locator resolves live connections. *presence.Registry satisfies it.
type Locator interface {
	Lookup(userID uint) (presence.Conn, bool)
	Conns() []presence.Conn
}

// Relay forwards events for users bound to other processes.
type Relay interface {
	Publish(ctx context.Context, target uint, event string, payload any) error
}

// Dispatcher pushes ephemeral events to connected users. Delivery is at most once: an
// offline recipient drops the event and send failures are only logged.
type Dispatcher struct {
	presence Locator
	relay    Relay
	log      *zap.Logger
}

func NewDispatcher(p Locator, log *zap.Logger) *Dispatcher {
	return &Dispatcher{presence: p, log: log}
}

// UseRelay enables cross-process fan-out for targets not bound locally.
func (d *Dispatcher) UseRelay(r Relay) {
	d.relay = r
}

func (d *Dispatcher) Push(ctx context.Context, target uint, event string, payload any) {
	if d.DeliverLocal(target, event, payload) || d.relay == nil {
		return
	}
	if err := d.relay.Publish(ctx, target, event, payload); err != nil {
		d.log.Warn("relay publish failed",
			zap.Uint("target", target), zap.String("event", event), zap.Error(err))
	}
}

// DeliverLocal sends to target's connection on this process and reports whether one was
// bound. It never touches the relay.
func (d *Dispatcher) DeliverLocal(target uint, event string, payload any) bool {
	conn, ok := d.presence.Lookup(target)
	if !ok {
		d.log.Debug("recipient offline, event dropped",
			zap.Uint("target", target), zap.String("event", event))
		return false
	}
	if err := conn.Send(event, payload); err != nil {
		d.log.Debug("live delivery failed",
			zap.Uint("target", target), zap.String("event", event), zap.Error(err))
	}
	return true
}

// Broadcast sends the event to every connection bound on this process.
func (d *Dispatcher) Broadcast(event string, payload any) {
	for _, conn := range d.presence.Conns() {
		if err := conn.Send(event, payload); err != nil {
			d.log.Debug("broadcast delivery failed",
				zap.String("conn", conn.ID()), zap.String("event", event), zap.Error(err))
		}
	}
}
