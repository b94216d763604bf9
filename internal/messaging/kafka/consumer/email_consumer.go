package consumer

import (
	"context"
	"encoding/json"
	"go-shiftly/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmailDeliverer hands a decoded email request to whatever delivery backend
// is configured. Delivery is best-effort; a failed message is logged and
// committed so it never wedges the topic.
type EmailDeliverer interface {
	Deliver(ctx context.Context, event events.EmailRequestedEvent) error
}

func ConsumeEmailRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	deliverer EmailDeliverer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.email_requested")
	log.Info("email notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("email notification consumer stopped")
				return
			}
			log.Error("fetch email message failed", zap.Error(err))
			continue
		}

		var event events.EmailRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode email_requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := deliverer.Deliver(ctx, event); err != nil {
			log.Warn("email delivery failed, dropping",
				zap.String("kind", event.Kind),
				zap.String("recipient", event.RecipientEmail),
				zap.Error(err),
			)
		} else {
			log.Info("email delivered",
				zap.String("kind", event.Kind),
				zap.String("recipient", event.RecipientEmail),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit email message failed", zap.Error(err))
		}
	}
}

// LogEmailDeliverer writes the mail to the log instead of sending it. Used
// when no SMTP/provider credentials are configured.
type LogEmailDeliverer struct {
	Logger *zap.Logger
}

func (d LogEmailDeliverer) Deliver(_ context.Context, event events.EmailRequestedEvent) error {
	log := d.Logger
	if log == nil {
		log = zap.L()
	}
	log.Info("would send email",
		zap.String("kind", event.Kind),
		zap.String("to", event.RecipientEmail),
		zap.String("recipient_name", event.RecipientName),
		zap.String("shift_date", event.ShiftDate),
		zap.String("start_time", event.StartTime),
		zap.String("end_time", event.EndTime),
	)
	return nil
}
