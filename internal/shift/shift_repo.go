package shift

import (
	"context"
	"database/sql"

	"go-shiftly/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Shift) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Shift, error)
	FindAllByCompany(ctx context.Context, companyID string, publishedOnly bool) ([]Shift, error)
	Update(ctx context.Context, s *Shift) error
	Delete(ctx context.Context, companyID, id string) error
	// PublishDraft flips one DRAFT shift to PUBLISHED and reports whether a
	// row actually changed. Non-DRAFT and missing ids affect zero rows.
	PublishDraft(ctx context.Context, companyID, id string) (int64, error)
	// Reassign is the single mutation path used by the swap/cover engines.
	// It is a guarded update so a concurrently deleted shift surfaces as
	// zero rows affected inside the caller's transaction.
	Reassign(ctx context.Context, id, userID, title string) (int64, error)
	FindAssignee(ctx context.Context, userID string) (*Assignee, error)
	AssigneeInCompany(ctx context.Context, companyID, userID string) (bool, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

func (r *repository) Create(ctx context.Context, s *Shift) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Shift, error) {
	var s Shift
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, publishedOnly bool) ([]Shift, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("date ASC, start_time ASC")
	if publishedOnly {
		db = db.Where("status = ?", StatusPublished)
	}

	var shifts []Shift
	err := db.Find(&shifts).Error
	return shifts, err
}

func (r *repository) Update(ctx context.Context, s *Shift) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Shift{}, "id = ?", id).Error
}

func (r *repository) PublishDraft(ctx context.Context, companyID, id string) (int64, error) {
	query := `
UPDATE scheduled_shifts
SET status = $3, updated_at = NOW()
WHERE id = $1
	AND company_id = $2
	AND status = $4
	AND deleted_at IS NULL
`
	res, err := r.execer().ExecContext(ctx, query, id, companyID, StatusPublished, StatusDraft)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) Reassign(ctx context.Context, id, userID, title string) (int64, error) {
	query := `
UPDATE scheduled_shifts
SET user_id = $2, title = $3, updated_at = NOW()
WHERE id = $1
	AND deleted_at IS NULL
`
	res, err := r.execer().ExecContext(ctx, query, id, userID, title)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) FindAssignee(ctx context.Context, userID string) (*Assignee, error) {
	var a Assignee
	err := r.db.WithContext(ctx).First(&a, "id = ?", userID).Error
	return &a, err
}

func (r *repository) AssigneeInCompany(ctx context.Context, companyID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Assignee{}).
		Where("id = ?", userID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
