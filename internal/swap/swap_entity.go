package swap

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// SwapRequest is one negotiation over a shift. A nil RequestedUserID marks an
// open cover request (resolved through bids); otherwise it is a direct swap
// with the named partner.
type SwapRequest struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	ShiftID   uuid.UUID `gorm:"column:shift_id;type:uuid;not null;index"`

	RequesterID     uuid.UUID  `gorm:"column:requester_id;type:uuid;not null"`
	RequestedUserID *uuid.UUID `gorm:"column:requested_user_id;type:uuid"`
	Reason          string     `gorm:"column:reason;type:text"`

	Status string `gorm:"column:status;type:varchar(20);not null;default:'PENDING'"`
	// Set once when the named partner agrees; the manager approval step
	// requires it for direct swaps.
	RequestedUserApprovedAt *time.Time `gorm:"column:requested_user_approved_at"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (SwapRequest) TableName() string {
	return "shift_swap_requests"
}

// IsCover reports whether the request is an open cover request.
func (r *SwapRequest) IsCover() bool {
	return r.RequestedUserID == nil
}
