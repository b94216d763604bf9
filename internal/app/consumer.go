package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-shiftly/internal/config"
	"go-shiftly/internal/events"
	"go-shiftly/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer delivers queued notification emails until interrupted.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          events.EmailRequestedTopic,
		GroupID:        cfg.KafkaGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	deliverer := consumer.LogEmailDeliverer{Logger: logger}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEmailRequested(ctx, reader, deliverer, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
