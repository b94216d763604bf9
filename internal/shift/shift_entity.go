package shift

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

type Shift struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;index:idx_shifts_company_date"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	Title string    `gorm:"column:title;type:varchar(255)"`
	Date  time.Time `gorm:"column:date;type:date;not null;index:idx_shifts_company_date"`
	// Times are stored as HH:MM within the shift's date. End must be after
	// start; overnight shifts are rejected at validation.
	StartTime string `gorm:"column:start_time;type:varchar(5);not null"`
	EndTime   string `gorm:"column:end_time;type:varchar(5);not null"`
	Note      string `gorm:"column:note;type:text"`

	Status string `gorm:"column:status;type:varchar(20);not null;default:'DRAFT'"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Shift) TableName() string {
	return "scheduled_shifts"
}

// Assignee is the minimal slice of the users table the shift store needs for
// authorization and notification.
type Assignee struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	CompanyID uuid.UUID `gorm:"column:company_id"`
	UserName  string    `gorm:"column:user_name"`
	Email     string    `gorm:"column:email"`
}

func (Assignee) TableName() string {
	return "users"
}
