package user

import (
	"context"

	"go-shiftly/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*User, error)
	ListByCompany(ctx context.Context, companyID string) ([]User, error)
	BelongsToCompany(ctx context.Context, companyID, id string) (bool, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return &u, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("user_name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) BelongsToCompany(ctx context.Context, companyID, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Scopes(tenant.Scope(companyID)).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateEmail(ctx context.Context, id, email string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("email", email).Error
}

func (r *repository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("password", hashedPassword).Error
}
