package coverbid

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

// CoverBid is one member's offer to take over the shift behind an open cover
// request. At most one bid per request ever reaches APPROVED.
type CoverBid struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	CoverRequestID uuid.UUID `gorm:"column:cover_request_id;type:uuid;not null;index"`
	BidderID       uuid.UUID `gorm:"column:bidder_id;type:uuid;not null"`

	Status string `gorm:"column:status;type:varchar(20);not null;default:'PENDING'"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (CoverBid) TableName() string {
	return "cover_bids"
}
