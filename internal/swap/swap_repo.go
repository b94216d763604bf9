package swap

import (
	"context"
	"database/sql"

	"go-shiftly/internal/tenant"

	"gorm.io/gorm"
)

// ListFilter narrows ListByCompany. Zero value lists everything in the
// company.
type ListFilter struct {
	CoverOnly      bool
	SwapOnly       bool
	PendingOnly    bool
	Status         string
	InvolvedUserID string
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *SwapRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*SwapRequest, error)
	ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]SwapRequest, error)
	// HasPendingForShift runs against the current execer so the
	// one-pending-per-shift check participates in the creation transaction.
	HasPendingForShift(ctx context.Context, shiftID string) (bool, error)
	// LockPending locks the request row for the current transaction and
	// reports whether it is still PENDING, so dependent writes serialize
	// with a concurrent decision.
	LockPending(ctx context.Context, id string) (bool, error)
	// The Mark* statements are guarded status flips. Zero rows affected
	// means the guard no longer held and the caller must treat the target
	// as already decided.
	MarkPartnerAgreed(ctx context.Context, id string) (int64, error)
	MarkApproved(ctx context.Context, id string) (int64, error)
	MarkRejected(ctx context.Context, id string) (int64, error)
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

func (r *repository) Create(ctx context.Context, sr *SwapRequest) error {
	query := `
INSERT INTO shift_swap_requests
	(id, company_id, shift_id, requester_id, requested_user_id, reason, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
`
	var requestedUserID any
	if sr.RequestedUserID != nil {
		requestedUserID = sr.RequestedUserID.String()
	}
	_, err := r.execer().ExecContext(ctx, query,
		sr.ID.String(),
		sr.CompanyID.String(),
		sr.ShiftID.String(),
		sr.RequesterID.String(),
		requestedUserID,
		sr.Reason,
		sr.Status,
	)
	return err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*SwapRequest, error) {
	var sr SwapRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&sr, "id = ?", id).Error
	return &sr, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]SwapRequest, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC")

	if f.CoverOnly {
		db = db.Where("requested_user_id IS NULL")
	}
	if f.SwapOnly {
		db = db.Where("requested_user_id IS NOT NULL")
	}
	if f.PendingOnly {
		db = db.Where("status = ?", StatusPending)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.InvolvedUserID != "" {
		db = db.Where("requester_id = ? OR requested_user_id = ?", f.InvolvedUserID, f.InvolvedUserID)
	}

	var requests []SwapRequest
	err := db.Find(&requests).Error
	return requests, err
}

func (r *repository) HasPendingForShift(ctx context.Context, shiftID string) (bool, error) {
	query := `
SELECT EXISTS (
	SELECT 1 FROM shift_swap_requests
	WHERE shift_id = $1 AND status = $2 AND deleted_at IS NULL
)
`
	var exists bool
	err := r.execer().QueryRowContext(ctx, query, shiftID, StatusPending).Scan(&exists)
	return exists, err
}

func (r *repository) LockPending(ctx context.Context, id string) (bool, error) {
	query := `
SELECT status = $2 FROM shift_swap_requests
WHERE id = $1 AND deleted_at IS NULL
FOR UPDATE
`
	var pending bool
	err := r.execer().QueryRowContext(ctx, query, id, StatusPending).Scan(&pending)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return pending, err
}

func (r *repository) MarkPartnerAgreed(ctx context.Context, id string) (int64, error) {
	query := `
UPDATE shift_swap_requests
SET requested_user_approved_at = NOW(), updated_at = NOW()
WHERE id = $1
	AND status = $2
	AND requested_user_approved_at IS NULL
	AND deleted_at IS NULL
`
	res, err := r.execer().ExecContext(ctx, query, id, StatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) MarkApproved(ctx context.Context, id string) (int64, error) {
	query := `
UPDATE shift_swap_requests
SET status = $2, updated_at = NOW()
WHERE id = $1
	AND status = $3
	AND deleted_at IS NULL
`
	res, err := r.execer().ExecContext(ctx, query, id, StatusApproved, StatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) MarkRejected(ctx context.Context, id string) (int64, error) {
	query := `
UPDATE shift_swap_requests
SET status = $2, updated_at = NOW()
WHERE id = $1
	AND status = $3
	AND deleted_at IS NULL
`
	res, err := r.execer().ExecContext(ctx, query, id, StatusRejected, StatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
