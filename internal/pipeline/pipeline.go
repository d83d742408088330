// Package pipeline turns broker deliveries into verified files on
// disk: validate the payload, resolve the content bytes, verify their
// integrity, write them under the output root. A failing message is
// classified, reported and dropped; it never stops the consumer.
package pipeline

import (
	"context"
	"log/slog"

	"wisbridge/internal/notification"
)

// Pipeline runs the per-message sequence. It holds no per-message
// state and is safe for concurrent use by multiple workers.
type Pipeline struct {
	validator *notification.Validator
	resolver  *Resolver
	writer    *Writer
	stats     *Stats
	log       *slog.Logger
}

func New(validator *notification.Validator, resolver *Resolver, writer *Writer, stats *Stats, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if stats == nil {
		stats = NewStats()
	}
	return &Pipeline{
		validator: validator,
		resolver:  resolver,
		writer:    writer,
		stats:     stats,
		log:       logger,
	}
}

// Stats exposes the outcome counters for the ops endpoint.
func (p *Pipeline) Stats() *Stats {
	return p.stats
}

// Process runs one delivery through validate, resolve, verify and
// write, short-circuiting on the first failure. The returned error is
// classified (see KindOf) and purely informational: processing of
// subsequent messages must continue regardless.
func (p *Pipeline) Process(ctx context.Context, topic string, payload []byte) error {
	p.stats.markReceived()
	p.log.Info("received message", slog.String("topic", topic))
	p.log.Debug("message payload", slog.String("topic", topic), slog.String("body", string(payload)))

	err := p.process(ctx, topic, payload)
	if err != nil {
		p.stats.markFailure(KindOf(err))
		p.log.Error("message processing failed",
			slog.String("topic", topic),
			slog.String("kind", string(KindOf(err))),
			slog.Any("error", err),
		)
	}
	return err
}

func (p *Pipeline) process(ctx context.Context, topic string, payload []byte) error {
	msg, err := p.validator.Validate(payload)
	if err != nil {
		return fail(KindSchemaViolation, "%v", err)
	}

	content, err := p.resolver.Resolve(ctx, msg)
	if err != nil {
		return err
	}

	match, err := Verify(msg, content)
	if err != nil {
		return err
	}
	if match == MatchHex {
		// Old-style producers declared sha512 but published hex
		// digests; the message is accepted, with a trace of it.
		p.stats.markDegraded()
		p.log.Warn("checksum matched via legacy hex encoding",
			slog.String("topic", topic),
			slog.String("relPath", msg.RelPath),
		)
	}

	dest, err := p.writer.Write(topic, msg, content)
	if err != nil {
		return err
	}

	p.stats.markWritten()
	p.log.Info("obtained and wrote file",
		slog.String("topic", topic),
		slog.String("path", dest),
		slog.Int("bytes", len(content)),
	)
	return nil
}
