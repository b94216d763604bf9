package notify

import (
	"context"
	"encoding/json"
	"time"

	"go-shiftly/internal/events"
	"go-shiftly/internal/messaging/kafka"
	"go-shiftly/internal/shared/contextutil"

	"github.com/google/uuid"
)

// ShiftMail is the data needed to notify one recipient about a shift.
type ShiftMail struct {
	CompanyID      string
	RecipientName  string
	RecipientEmail string
	ShiftDate      string
	StartTime      string
	EndTime        string
	Note           string
	OtherPartyName string
}

// Mailer enqueues transactional email. Enqueue failures are the caller's to
// log and drop; they must never surface to the API caller.
type Mailer interface {
	ShiftPublished(ctx context.Context, m ShiftMail) error
	CoverSwapApproved(ctx context.Context, m ShiftMail) error
}

type outboxMailer struct {
	outbox kafka.OutboxRepository
}

// NewOutboxMailer stages email events in the outbox table; the producer
// worker relays them to the notification topic and the consumer delivers.
func NewOutboxMailer(outbox kafka.OutboxRepository) Mailer {
	return &outboxMailer{outbox: outbox}
}

func (m *outboxMailer) ShiftPublished(ctx context.Context, mail ShiftMail) error {
	return m.enqueue(ctx, events.EmailShiftPublished, mail)
}

func (m *outboxMailer) CoverSwapApproved(ctx context.Context, mail ShiftMail) error {
	return m.enqueue(ctx, events.EmailCoverSwapApproved, mail)
}

func (m *outboxMailer) enqueue(ctx context.Context, kind string, mail ShiftMail) error {
	event := events.EmailRequestedEvent{
		EventType:      "email.requested",
		Kind:           kind,
		RecipientName:  mail.RecipientName,
		RecipientEmail: mail.RecipientEmail,
		ShiftDate:      mail.ShiftDate,
		StartTime:      mail.StartTime,
		EndTime:        mail.EndTime,
		Note:           mail.Note,
		OtherPartyName: mail.OtherPartyName,
		OccurredAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return m.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		CompanyID:     mail.CompanyID,
		AggregateType: "email",
		AggregateID:   uuid.New().String(),
		EventType:     event.EventType,
		Topic:         events.EmailRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

type noopMailer struct{}

func NewNoopMailer() Mailer { return noopMailer{} }

func (noopMailer) ShiftPublished(context.Context, ShiftMail) error    { return nil }
func (noopMailer) CoverSwapApproved(context.Context, ShiftMail) error { return nil }
