package broker

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/segmentio/kafka-go"
)

// KafkaSource consumes one or more literal topics through a consumer
// group. Each topic gets its own reader; the topic string is forwarded
// verbatim as the delivery topic.
type KafkaSource struct {
	brokers []string
	groupID string
	topics  []string
	log     *slog.Logger
}

func NewKafkaSource(brokerURL, groupID string, topics []string, logger *slog.Logger) *KafkaSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaSource{
		brokers: brokersFromURL(brokerURL),
		groupID: groupID,
		topics:  topics,
		log:     logger,
	}
}

// brokersFromURL turns kafka://host1:9092,host2:9092 into a broker
// address list.
func brokersFromURL(raw string) []string {
	raw = strings.TrimPrefix(raw, "kafka://")
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(strings.TrimSuffix(p, "/")); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Run consumes all configured topics until the context is canceled.
func (s *KafkaSource) Run(ctx context.Context, deliver func(Delivery)) error {
	if len(s.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}

	var wg sync.WaitGroup
	for _, topic := range s.topics {
		wg.Add(1)
		go func(tp string) {
			defer wg.Done()
			s.consumeTopic(ctx, tp, deliver)
		}(topic)
	}
	wg.Wait()
	return nil
}

func (s *KafkaSource) consumeTopic(ctx context.Context, topic string, deliver func(Delivery)) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: s.brokers,
		GroupID: s.groupID,
		Topic:   topic,
	})
	defer reader.Close()

	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn("kafka read error", slog.String("topic", topic), slog.Any("error", err))
			continue
		}
		s.log.Debug("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
		)
		deliver(Delivery{Topic: m.Topic, Body: m.Value})
	}
}
