package availability

import (
	"context"

	"go-shiftly/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, r *UnavailabilityRule) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*UnavailabilityRule, error)
	ListByCompany(ctx context.Context, companyID, userID string) ([]UnavailabilityRule, error)
	Update(ctx context.Context, r *UnavailabilityRule) error
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rule *UnavailabilityRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*UnavailabilityRule, error) {
	var rule UnavailabilityRule
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&rule, "id = ?", id).Error
	return &rule, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID, userID string) ([]UnavailabilityRule, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date ASC")
	if userID != "" {
		db = db.Where("user_id = ?", userID)
	}

	var rules []UnavailabilityRule
	err := db.Find(&rules).Error
	return rules, err
}

func (r *repository) Update(ctx context.Context, rule *UnavailabilityRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&UnavailabilityRule{}, "id = ?", id).Error
}
