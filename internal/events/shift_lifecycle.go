package events

import "time"

const ShiftLifecycleTopic = "scheduling.shift.lifecycle.v1"

const (
	ShiftCreated   = "shift.created"
	ShiftUpdated   = "shift.updated"
	ShiftDeleted   = "shift.deleted"
	ShiftPublished = "shift.published"
)

type ShiftLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	ShiftID    string    `json:"shift_id"`
	CompanyID  string    `json:"company_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
