package producer

import (
	"context"
	"time"

	"go-shiftly/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const drainBatchSize = 50

// ProcessOutboxEvents polls the outbox and relays staged events until the
// context is cancelled. A row that fails to publish is marked failed and
// picked up again after its backoff window; delivery is at-least-once, so
// every payload carries an id consumers can deduplicate on.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			sent, failed, err := drainOnce(ctx, repo, writer)
			if err != nil {
				log.Error("outbox poll failed", zap.Error(err))
				continue
			}
			if sent > 0 || failed > 0 {
				log.Info("outbox drained",
					zap.Int("sent", sent),
					zap.Int("failed", failed),
				)
			}
		}
	}
}

func drainOnce(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
) (sent, failed int, err error) {
	events, err := repo.ListPending(ctx, drainBatchSize)
	if err != nil {
		return 0, 0, err
	}

	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			failed++
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}
		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// The event went out but stayed pending; the next drain
			// republishes it, which at-least-once delivery tolerates.
			failed++
			continue
		}
		sent++
	}
	return sent, failed, nil
}
