// Package broker adapts inbound notification transports to a common
// delivery contract. The pipeline never sees broker-specific types.
package broker

import "context"

// Delivery is one inbound notification: the routing topic the broker
// supplied out-of-band and the raw payload bytes.
type Delivery struct {
	Topic string
	Body  []byte
}

// Source is an inbound message transport. Run blocks, invoking deliver
// once per message until the context is canceled or the transport
// fails. Sources acknowledge nothing beyond the transport defaults: a
// delivery that fails downstream is not redelivered.
type Source interface {
	Run(ctx context.Context, deliver func(Delivery)) error
}
