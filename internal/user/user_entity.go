package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	UserName  string    `gorm:"column:user_name;type:varchar(255);not null"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password  string    `gorm:"column:password;type:text;not null"`
	IsManager bool      `gorm:"column:is_manager;not null;default:false"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}
