package availability

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FrequencyOnce   = ""
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// UnavailabilityRule marks when a user cannot be scheduled. Rules are input
// to shift planning only; the negotiation engine never reads them.
type UnavailabilityRule struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	StartDate time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate   *time.Time `gorm:"column:end_date;type:date"`

	AllDay    bool   `gorm:"column:all_day;not null;default:false"`
	StartTime string `gorm:"column:start_time;type:varchar(5)"`
	EndTime   string `gorm:"column:end_time;type:varchar(5)"`

	Frequency string `gorm:"column:frequency;type:varchar(10);not null;default:''"`
	Interval  int    `gorm:"column:interval;not null;default:1"`
	// 0 = Sunday .. 6 = Saturday, only meaningful for weekly rules.
	DaysOfWeek []int `gorm:"column:days_of_week;serializer:json;type:jsonb"`

	Note string `gorm:"column:note;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (UnavailabilityRule) TableName() string {
	return "unavailability_rules"
}
