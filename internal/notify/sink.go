package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CompanySink broadcasts a lifecycle event to every connected member of a
// company. Implementations are best-effort; callers log and swallow errors,
// a failed publish never fails the primary mutation.
type CompanySink interface {
	Publish(ctx context.Context, companyID, event string, payload any) error
}

type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type redisSink struct {
	rdb *redis.Client
}

// NewRedisSink publishes events on the company:<id> channel. The realtime
// gateway subscribes per company and relays to websocket clients.
func NewRedisSink(rdb *redis.Client) CompanySink {
	return &redisSink{rdb: rdb}
}

func (s *redisSink) Publish(ctx context.Context, companyID, event string, payload any) error {
	body, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, fmt.Sprintf("company:%s", companyID), body).Err()
}

type noopSink struct{}

func NewNoopSink() CompanySink { return noopSink{} }

func (noopSink) Publish(context.Context, string, string, any) error { return nil }
