package coverbid

import (
	"context"
	"database/sql"

	"go-shiftly/internal/tenant"

	"gorm.io/gorm"
)

type ListFilter struct {
	CoverRequestID string
	BidderID       string
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *CoverBid) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*CoverBid, error)
	ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]CoverBid, error)
	HasPendingBid(ctx context.Context, coverRequestID, bidderID string) (bool, error)
	// MarkApproved and MarkRejected are guarded on PENDING; zero rows
	// affected means the bid was already decided.
	MarkApproved(ctx context.Context, id string) (int64, error)
	MarkRejected(ctx context.Context, id string) (int64, error)
	// RejectSiblings rejects every other pending bid on the same request.
	// Rejecting zero siblings is normal.
	RejectSiblings(ctx context.Context, coverRequestID, exceptBidID string) (int64, error)
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

func (r *repository) Create(ctx context.Context, b *CoverBid) error {
	query := `
INSERT INTO cover_bids
	(id, company_id, cover_request_id, bidder_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
`
	_, err := r.execer().ExecContext(ctx, query,
		b.ID.String(),
		b.CompanyID.String(),
		b.CoverRequestID.String(),
		b.BidderID.String(),
		b.Status,
	)
	return err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*CoverBid, error) {
	var b CoverBid
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&b, "id = ?", id).Error
	return &b, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]CoverBid, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at ASC")

	if f.CoverRequestID != "" {
		db = db.Where("cover_request_id = ?", f.CoverRequestID)
	}
	if f.BidderID != "" {
		db = db.Where("bidder_id = ?", f.BidderID)
	}

	var bids []CoverBid
	err := db.Find(&bids).Error
	return bids, err
}

func (r *repository) HasPendingBid(ctx context.Context, coverRequestID, bidderID string) (bool, error) {
	query := `
SELECT EXISTS (
	SELECT 1 FROM cover_bids
	WHERE cover_request_id = $1 AND bidder_id = $2 AND status = $3 AND deleted_at IS NULL
)
`
	var exists bool
	err := r.execer().QueryRowContext(ctx, query, coverRequestID, bidderID, StatusPending).Scan(&exists)
	return exists, err
}

func (r *repository) MarkApproved(ctx context.Context, id string) (int64, error) {
	query := `
UPDATE cover_bids
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
UPDATE cover_bids
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

func (r *repository) RejectSiblings(ctx context.Context, coverRequestID, exceptBidID string) (int64, error) {
	query := `
UPDATE cover_bids
SET status = $3, updated_at = NOW()
WHERE cover_request_id = $1
	AND id <> $2
	AND status = $4
	AND deleted_at IS NULL
`
	res, err := r.execer().ExecContext(ctx, query, coverRequestID, exceptBidID, StatusRejected, StatusPending)
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
