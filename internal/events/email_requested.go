package events

import "time"

const EmailRequestedTopic = "scheduling.notification.email.v1"

// Email kinds carried on the notification topic.
const (
	EmailShiftPublished    = "shift_published"
	EmailCoverSwapApproved = "cover_swap_approved"
)

// EmailRequestedEvent is the best-effort side channel for transactional mail.
// Delivery is handled by the consumer; producers never wait on it.
type EmailRequestedEvent struct {
	EventType      string    `json:"event_type"`
	Kind           string    `json:"kind"`
	RecipientName  string    `json:"recipient_name"`
	RecipientEmail string    `json:"recipient_email"`
	ShiftDate      string    `json:"shift_date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	Note           string    `json:"note,omitempty"`
	OtherPartyName string    `json:"other_party_name,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
