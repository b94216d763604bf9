package coverbid_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-shiftly/internal/coverbid"
	"go-shiftly/internal/notify"
	"go-shiftly/internal/shift"
	"go-shiftly/internal/swap"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeBidRepository struct {
	withTxFn             func(tx *sql.Tx) coverbid.Repository
	createFn             func(ctx context.Context, b *coverbid.CoverBid) error
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*coverbid.CoverBid, error)
	listByCompanyFn      func(ctx context.Context, companyID string, f coverbid.ListFilter) ([]coverbid.CoverBid, error)
	hasPendingBidFn      func(ctx context.Context, coverRequestID, bidderID string) (bool, error)
	markApprovedFn       func(ctx context.Context, id string) (int64, error)
	markRejectedFn       func(ctx context.Context, id string) (int64, error)
	rejectSiblingsFn     func(ctx context.Context, coverRequestID, exceptBidID string) (int64, error)
}

func (f *fakeBidRepository) WithTx(tx *sql.Tx) coverbid.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBidRepository) Create(ctx context.Context, b *coverbid.CoverBid) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBidRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*coverbid.CoverBid, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBidRepository) ListByCompany(ctx context.Context, companyID string, filter coverbid.ListFilter) ([]coverbid.CoverBid, error) {
	if f.listByCompanyFn != nil {
		return f.listByCompanyFn(ctx, companyID, filter)
	}
	return nil, nil
}

func (f *fakeBidRepository) HasPendingBid(ctx context.Context, coverRequestID, bidderID string) (bool, error) {
	if f.hasPendingBidFn != nil {
		return f.hasPendingBidFn(ctx, coverRequestID, bidderID)
	}
	return false, nil
}

func (f *fakeBidRepository) MarkApproved(ctx context.Context, id string) (int64, error) {
	if f.markApprovedFn != nil {
		return f.markApprovedFn(ctx, id)
	}
	return 1, nil
}

func (f *fakeBidRepository) MarkRejected(ctx context.Context, id string) (int64, error) {
	if f.markRejectedFn != nil {
		return f.markRejectedFn(ctx, id)
	}
	return 1, nil
}

func (f *fakeBidRepository) RejectSiblings(ctx context.Context, coverRequestID, exceptBidID string) (int64, error) {
	if f.rejectSiblingsFn != nil {
		return f.rejectSiblingsFn(ctx, coverRequestID, exceptBidID)
	}
	return 0, nil
}

type fakeSwapRepository struct {
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*swap.SwapRequest, error)
	lockPendingFn        func(ctx context.Context, id string) (bool, error)
	markApprovedFn       func(ctx context.Context, id string) (int64, error)
}

func (f *fakeSwapRepository) WithTx(tx *sql.Tx) swap.Repository { return f }

func (f *fakeSwapRepository) Create(ctx context.Context, r *swap.SwapRequest) error { return nil }

func (f *fakeSwapRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*swap.SwapRequest, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSwapRepository) ListByCompany(ctx context.Context, companyID string, filter swap.ListFilter) ([]swap.SwapRequest, error) {
	return nil, nil
}

func (f *fakeSwapRepository) HasPendingForShift(ctx context.Context, shiftID string) (bool, error) {
	return false, nil
}

func (f *fakeSwapRepository) LockPending(ctx context.Context, id string) (bool, error) {
	if f.lockPendingFn != nil {
		return f.lockPendingFn(ctx, id)
	}
	return true, nil
}

func (f *fakeSwapRepository) MarkPartnerAgreed(ctx context.Context, id string) (int64, error) {
	return 1, nil
}

func (f *fakeSwapRepository) MarkApproved(ctx context.Context, id string) (int64, error) {
	if f.markApprovedFn != nil {
		return f.markApprovedFn(ctx, id)
	}
	return 1, nil
}

func (f *fakeSwapRepository) MarkRejected(ctx context.Context, id string) (int64, error) {
	return 1, nil
}

type fakeShiftRepository struct {
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*shift.Shift, error)
	reassignFn           func(ctx context.Context, id, userID, title string) (int64, error)
	findAssigneeFn       func(ctx context.Context, userID string) (*shift.Assignee, error)
}

func (f *fakeShiftRepository) WithTx(tx *sql.Tx) shift.Repository { return f }

func (f *fakeShiftRepository) Create(ctx context.Context, s *shift.Shift) error { return nil }

func (f *fakeShiftRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*shift.Shift, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return &shift.Shift{
		ID:        uuid.MustParse(id),
		CompanyID: uuid.MustParse(companyID),
		UserID:    uuid.New(),
		Date:      time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime: "08:00",
		EndTime:   "16:00",
		Status:    shift.StatusPublished,
	}, nil
}

func (f *fakeShiftRepository) FindAllByCompany(ctx context.Context, companyID string, publishedOnly bool) ([]shift.Shift, error) {
	return nil, nil
}

func (f *fakeShiftRepository) Update(ctx context.Context, s *shift.Shift) error { return nil }

func (f *fakeShiftRepository) Delete(ctx context.Context, companyID, id string) error { return nil }

func (f *fakeShiftRepository) PublishDraft(ctx context.Context, companyID, id string) (int64, error) {
	return 1, nil
}

func (f *fakeShiftRepository) Reassign(ctx context.Context, id, userID, title string) (int64, error) {
	if f.reassignFn != nil {
		return f.reassignFn(ctx, id, userID, title)
	}
	return 1, nil
}

func (f *fakeShiftRepository) FindAssignee(ctx context.Context, userID string) (*shift.Assignee, error) {
	if f.findAssigneeFn != nil {
		return f.findAssigneeFn(ctx, userID)
	}
	return &shift.Assignee{ID: uuid.MustParse(userID), UserName: "bidder", Email: "bidder@example.com"}, nil
}

func (f *fakeShiftRepository) AssigneeInCompany(ctx context.Context, companyID, userID string) (bool, error) {
	return true, nil
}

type recordingSink struct {
	events   []string
	payloads map[string]any
}

func (s *recordingSink) Publish(ctx context.Context, companyID, event string, payload any) error {
	s.events = append(s.events, event)
	if s.payloads == nil {
		s.payloads = map[string]any{}
	}
	s.payloads[event] = payload
	return nil
}

type bidServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service coverbid.Service
	repo    *fakeBidRepository
	swaps   *fakeSwapRepository
	shifts  *fakeShiftRepository
	sink    *recordingSink
}

func setupBidServiceTest(t *testing.T) *bidServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeBidRepository{}
	swaps := &fakeSwapRepository{}
	shifts := &fakeShiftRepository{}
	sink := &recordingSink{}
	svc := coverbid.NewService(db, repo, swaps, shifts, sink, notify.NewNoopMailer())

	return &bidServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		swaps:   swaps,
		shifts:  shifts,
		sink:    sink,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func pendingCover(companyID, shiftID, requesterID string) *swap.SwapRequest {
	return &swap.SwapRequest{
		ID:          uuid.New(),
		CompanyID:   uuid.MustParse(companyID),
		ShiftID:     uuid.MustParse(shiftID),
		RequesterID: uuid.MustParse(requesterID),
		Status:      swap.StatusPending,
	}
}

func TestCoverBidService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	requesterID := uuid.New().String()
	bidderID := uuid.New().String()
	shiftID := uuid.New().String()

	t.Run("success employee bid stays pending", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		parent := pendingCover(companyID, shiftID, requesterID)
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			return parent, nil
		}
		deps.repo.createFn = func(ctx context.Context, b *coverbid.CoverBid) error {
			assert.Equal(t, coverbid.StatusPending, b.Status)
			assert.Equal(t, parent.ID, b.CoverRequestID)
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, bidderID, false, coverbid.CreateBidRequest{
			CoverRequestID: parent.ID.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, coverbid.StatusPending, resp.Status)
		assert.Contains(t, deps.sink.events, "coverBid:created")
		assert.NotContains(t, deps.sink.events, "coverBid:approved")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success manager bid auto approves in one commit", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		parent := pendingCover(companyID, shiftID, requesterID)
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			return parent, nil
		}

		var reassignedTo string
		deps.shifts.reassignFn = func(ctx context.Context, id, userID, title string) (int64, error) {
			reassignedTo = userID
			assert.Equal(t, shiftID, id)
			assert.Equal(t, "bidder", title)
			return 1, nil
		}

		resp, err := deps.service.Create(ctx, companyID, bidderID, true, coverbid.CreateBidRequest{
			CoverRequestID: parent.ID.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, coverbid.StatusApproved, resp.Status)
		assert.Equal(t, bidderID, reassignedTo)
		assert.Contains(t, deps.sink.events, "coverBid:approved")
		assert.Contains(t, deps.sink.events, "swapRequest:approved")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative bidding on own request", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		parent := pendingCover(companyID, shiftID, requesterID)
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			return parent, nil
		}

		_, err := deps.service.Create(ctx, companyID, requesterID, false, coverbid.CreateBidRequest{
			CoverRequestID: parent.ID.String(),
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "your own cover request")
	})

	t.Run("negative duplicate pending bid", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		parent := pendingCover(companyID, shiftID, requesterID)
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			return parent, nil
		}
		deps.repo.hasPendingBidFn = func(ctx context.Context, rid, bid string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, companyID, bidderID, false, coverbid.CreateBidRequest{
			CoverRequestID: parent.ID.String(),
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "pending bid")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative direct swap is not biddable", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		parent := pendingCover(companyID, shiftID, requesterID)
		partner := uuid.New()
		parent.RequestedUserID = &partner
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			return parent, nil
		}

		_, err := deps.service.Create(ctx, companyID, bidderID, false, coverbid.CreateBidRequest{
			CoverRequestID: parent.ID.String(),
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "open cover requests")
	})

	t.Run("negative request already resolved", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		parent := pendingCover(companyID, shiftID, requesterID)
		parent.Status = swap.StatusApproved
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			return parent, nil
		}

		_, err := deps.service.Create(ctx, companyID, bidderID, false, coverbid.CreateBidRequest{
			CoverRequestID: parent.ID.String(),
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no longer pending")
	})

	t.Run("negative request resolved between read and insert", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		parent := pendingCover(companyID, shiftID, requesterID)
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			return parent, nil
		}
		// The row lock sees a concurrent approval that committed after the
		// initial read.
		deps.swaps.lockPendingFn = func(ctx context.Context, id string) (bool, error) {
			assert.Equal(t, parent.ID.String(), id)
			return false, nil
		}
		deps.repo.createFn = func(ctx context.Context, b *coverbid.CoverBid) error {
			t.Fatal("bid must not be inserted once the request is resolved")
			return nil
		}

		_, err := deps.service.Create(ctx, companyID, bidderID, false, coverbid.CreateBidRequest{
			CoverRequestID: parent.ID.String(),
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no longer pending")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestCoverBidService_Approve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	requesterID := uuid.New().String()
	bidderID := uuid.New().String()
	shiftID := uuid.New().String()
	managerID := uuid.New().String()

	pendingBid := func(requestID uuid.UUID) *coverbid.CoverBid {
		return &coverbid.CoverBid{
			ID:             uuid.New(),
			CompanyID:      uuid.MustParse(companyID),
			CoverRequestID: requestID,
			BidderID:       uuid.MustParse(bidderID),
			Status:         coverbid.StatusPending,
			CreatedAt:      time.Now().UTC(),
		}
	}

	t.Run("success runs all four steps", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		parent := pendingCover(companyID, shiftID, requesterID)
		bid := pendingBid(parent.ID)

		requestApproved := false
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*coverbid.CoverBid, error) {
			return bid, nil
		}
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			copied := *parent
			if requestApproved {
				copied.Status = swap.StatusApproved
			}
			return &copied, nil
		}

		var steps []string
		deps.repo.rejectSiblingsFn = func(ctx context.Context, rid, except string) (int64, error) {
			assert.Equal(t, parent.ID.String(), rid)
			assert.Equal(t, bid.ID.String(), except)
			steps = append(steps, "reject-siblings")
			return 2, nil
		}
		deps.repo.markApprovedFn = func(ctx context.Context, id string) (int64, error) {
			steps = append(steps, "approve-bid")
			return 1, nil
		}
		deps.swaps.markApprovedFn = func(ctx context.Context, id string) (int64, error) {
			steps = append(steps, "approve-request")
			requestApproved = true
			return 1, nil
		}
		deps.shifts.reassignFn = func(ctx context.Context, id, userID, title string) (int64, error) {
			steps = append(steps, "reassign-shift")
			assert.Equal(t, bidderID, userID)
			assert.Equal(t, "bidder", title)
			return 1, nil
		}

		resp, err := deps.service.Approve(ctx, companyID, managerID, true, bid.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, coverbid.StatusApproved, resp.Status)
		assert.Equal(t, []string{"reject-siblings", "approve-bid", "approve-request", "reassign-shift"}, steps)
		assert.Contains(t, deps.sink.events, "coverBid:approved")
		assert.Contains(t, deps.sink.events, "swapRequest:approved")
		assert.Contains(t, deps.sink.events, "shift:updated")

		// Both events carry the full updated record, not a trimmed summary.
		requestPayload, ok := deps.sink.payloads["swapRequest:approved"].(swap.SwapResponse)
		assert.True(t, ok)
		assert.Equal(t, parent.ID.String(), requestPayload.ID)
		assert.Equal(t, swap.StatusApproved, requestPayload.Status)
		assert.True(t, requestPayload.IsCover)
		shiftPayload, ok := deps.sink.payloads["shift:updated"].(shift.ShiftResponse)
		assert.True(t, ok)
		assert.Equal(t, shiftID, shiftPayload.ID)
		assert.NotEmpty(t, shiftPayload.Date)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative concurrent approval already won", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		parent := pendingCover(companyID, shiftID, requesterID)
		bid := pendingBid(parent.ID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*coverbid.CoverBid, error) {
			return bid, nil
		}
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			return parent, nil
		}
		deps.swaps.markApprovedFn = func(ctx context.Context, id string) (int64, error) {
			// the parent request was approved by a sibling approval in
			// between our read and our write
			return 0, nil
		}

		_, err := deps.service.Approve(ctx, companyID, managerID, true, bid.ID.String())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no longer pending")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative shift deleted concurrently", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		parent := pendingCover(companyID, shiftID, requesterID)
		bid := pendingBid(parent.ID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*coverbid.CoverBid, error) {
			return bid, nil
		}
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			return parent, nil
		}
		deps.shifts.reassignFn = func(ctx context.Context, id, userID, title string) (int64, error) {
			return 0, nil
		}

		_, err := deps.service.Approve(ctx, companyID, managerID, true, bid.ID.String())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "modified concurrently")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non manager", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Approve(ctx, companyID, bidderID, false, uuid.New().String())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only managers")
	})
}

func TestCoverBidService_Reject(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	managerID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		bid := &coverbid.CoverBid{
			ID:             uuid.New(),
			CompanyID:      uuid.MustParse(companyID),
			CoverRequestID: uuid.New(),
			BidderID:       uuid.New(),
			Status:         coverbid.StatusPending,
		}
		rejected := false
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*coverbid.CoverBid, error) {
			copied := *bid
			if rejected {
				copied.Status = coverbid.StatusRejected
			}
			return &copied, nil
		}
		deps.repo.markRejectedFn = func(ctx context.Context, id string) (int64, error) {
			rejected = true
			return 1, nil
		}

		resp, err := deps.service.Reject(ctx, companyID, managerID, true, bid.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, coverbid.StatusRejected, resp.Status)
		assert.Contains(t, deps.sink.events, "coverBid:rejected")
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*coverbid.CoverBid, error) {
			return &coverbid.CoverBid{
				ID:        uuid.MustParse(id),
				CompanyID: uuid.MustParse(companyID),
				Status:    coverbid.StatusApproved,
			}, nil
		}
		deps.repo.markRejectedFn = func(ctx context.Context, id string) (int64, error) {
			return 0, nil
		}

		_, err := deps.service.Reject(ctx, companyID, managerID, true, uuid.New().String())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no longer pending")
	})
}

func TestCoverBidService_List(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("employees see only their own bids", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		deps.repo.listByCompanyFn = func(ctx context.Context, cid string, f coverbid.ListFilter) ([]coverbid.CoverBid, error) {
			assert.Equal(t, employeeID, f.BidderID)
			return nil, nil
		}

		_, err := deps.service.List(ctx, companyID, employeeID, false, coverbid.ListBidsQuery{})
		assert.NoError(t, err)
	})

	t.Run("any member sees bids on a named request", func(t *testing.T) {
		deps := setupBidServiceTest(t)
		defer deps.db.Close()

		parent := pendingCover(companyID, uuid.New().String(), uuid.New().String())
		deps.swaps.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*swap.SwapRequest, error) {
			return parent, nil
		}
		deps.repo.listByCompanyFn = func(ctx context.Context, cid string, f coverbid.ListFilter) ([]coverbid.CoverBid, error) {
			assert.Equal(t, parent.ID.String(), f.CoverRequestID)
			assert.Empty(t, f.BidderID)
			return nil, nil
		}

		_, err := deps.service.List(ctx, companyID, employeeID, false, coverbid.ListBidsQuery{
			CoverRequestID: parent.ID.String(),
		})
		assert.NoError(t, err)
	})
}
