package connection

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConnectKafkaWithRetry verifies the broker is reachable, then hands back a
// writer. Messages set their topic per message, so the writer is shared by
// every outbox topic.
func ConnectKafkaWithRetry(broker string, maxRetries int) (*kafkago.Writer, error) {
	log := zap.L().Named("connection")

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		conn, err := kafkago.DialContext(context.Background(), "tcp", broker)
		if err == nil {
			conn.Close()
			log.Info("kafka connected", zap.String("broker", broker))
			return &kafkago.Writer{
				Addr:         kafkago.TCP(broker),
				Balancer:     &kafkago.LeastBytes{},
				RequiredAcks: kafkago.RequireOne,
			}, nil
		}
		lastErr = err

		log.Warn("kafka connect failed",
			zap.Int("attempt", i),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
		time.Sleep(retryBackoff)
	}

	return nil, fmt.Errorf("kafka connection to %s failed after %d retries: %w", broker, maxRetries, lastErr)
}
