package broker

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSource subscribes to a topic exchange through an exclusive,
// server-named queue. The queue name changes across restarts, so
// messages published while disconnected are not received; give the
// deployment a durable queue if that matters.
type AMQPSource struct {
	url        string
	exchange   string
	bindingKey string
	log        *slog.Logger
}

func NewAMQPSource(url, exchange, bindingKey string, logger *slog.Logger) *AMQPSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPSource{url: url, exchange: exchange, bindingKey: bindingKey, log: logger}
}

// Run connects, binds and consumes with auto-ack until the context is
// canceled or the channel closes.
func (s *AMQPSource) Run(ctx context.Context, deliver func(Delivery)) error {
	s.log.Debug("connecting to broker", slog.String("url", s.url))
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, s.bindingKey, s.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consume: %w", err)
	}

	s.log.Info("waiting for messages",
		slog.String("exchange", s.exchange),
		slog.String("bindingKey", s.bindingKey),
		slog.String("queue", q.Name),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("broker channel closed")
			}
			deliver(Delivery{Topic: d.RoutingKey, Body: d.Body})
		}
	}
}
