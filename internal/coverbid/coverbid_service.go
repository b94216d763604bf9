package coverbid

import (
	"context"
	"database/sql"
	"errors"
	"time"

	coverbiderrors "go-shiftly/internal/coverbid/errors"
	"go-shiftly/internal/notify"
	"go-shiftly/internal/shared/contextutil"
	"go-shiftly/internal/shift"
	"go-shiftly/internal/swap"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, companyID, actorID string, isManager bool, req CreateBidRequest) (BidResponse, error)
	List(ctx context.Context, companyID, actorID string, isManager bool, q ListBidsQuery) ([]BidResponse, error)
	GetByID(ctx context.Context, companyID string, id string) (BidResponse, error)
	Approve(ctx context.Context, companyID, actorID string, isManager bool, id string) (BidResponse, error)
	Reject(ctx context.Context, companyID, actorID string, isManager bool, id string) (BidResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	swaps  swap.Repository
	shifts shift.Repository
	sink   notify.CompanySink
	mailer notify.Mailer
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	swaps swap.Repository,
	shifts shift.Repository,
	sink notify.CompanySink,
	mailer notify.Mailer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("coverbid.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("coverbid.service")
	}
	return &service{db: db, repo: repo, swaps: swaps, shifts: shifts, sink: sink, mailer: mailer, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, isManager bool, req CreateBidRequest) (BidResponse, error) {
	s.logger.Debug("create bid requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("cover_request_id", req.CoverRequestID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return BidResponse{}, coverbiderrors.ErrInvalidBidID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return BidResponse{}, coverbiderrors.ErrInvalidBidID
	}
	requestUUID, err := uuid.Parse(req.CoverRequestID)
	if err != nil {
		return BidResponse{}, coverbiderrors.ErrInvalidRequestID
	}

	parent, err := s.findParent(ctx, companyID, req.CoverRequestID)
	if err != nil {
		return BidResponse{}, err
	}
	if !parent.IsCover() {
		return BidResponse{}, coverbiderrors.ErrNotCoverRequest
	}
	if parent.Status != swap.StatusPending {
		return BidResponse{}, coverbiderrors.ErrRequestNotOpen
	}
	if parent.RequesterID.String() == actorID {
		return BidResponse{}, coverbiderrors.ErrSelfBid
	}

	bidder, err := s.shifts.FindAssignee(ctx, actorID)
	if err != nil {
		s.logger.Error("create bid bidder lookup failed", zap.Error(err))
		return BidResponse{}, err
	}

	bid := &CoverBid{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		CoverRequestID: requestUUID,
		BidderID:       actorUUID,
		Status:         StatusPending,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create bid begin tx failed", zap.Error(err))
		return BidResponse{}, err
	}
	defer tx.Rollback()

	// Re-check the parent under a row lock so a bid racing a concurrent
	// approval cannot commit against an already resolved request.
	stillOpen, err := s.swaps.WithTx(tx).LockPending(ctx, req.CoverRequestID)
	if err != nil {
		s.logger.Error("create bid parent lock failed", zap.Error(err))
		return BidResponse{}, err
	}
	if !stillOpen {
		return BidResponse{}, coverbiderrors.ErrRequestNotOpen
	}

	qtx := s.repo.WithTx(tx)
	duplicate, err := qtx.HasPendingBid(ctx, req.CoverRequestID, actorID)
	if err != nil {
		s.logger.Error("create bid duplicate check failed", zap.Error(err))
		return BidResponse{}, err
	}
	if duplicate {
		return BidResponse{}, coverbiderrors.ErrDuplicateBid
	}
	if err := qtx.Create(ctx, bid); err != nil {
		s.logger.Error("create bid persist failed", zap.Error(err))
		return BidResponse{}, err
	}

	// A manager volunteering to cover is self-approving: the freshly
	// created bid goes through the reassignment transaction in the same
	// commit, so there is no window where a second approver can race it.
	approved := false
	if isManager {
		if err := s.runReassignment(ctx, tx, bid, parent, bidder.UserName); err != nil {
			return BidResponse{}, err
		}
		approved = true
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create bid commit failed", zap.Error(err))
		return BidResponse{}, err
	}

	bid.CreatedAt = time.Now().UTC()
	if approved {
		bid.Status = StatusApproved
	}
	resp := mapToResponse(*bid)
	s.emit(ctx, companyID, "coverBid:created", resp)
	if approved {
		s.announceApproval(ctx, companyID, bid, parent, bidder)
	}
	s.logger.Info("create bid success",
		zap.String("bid_id", bid.ID.String()),
		zap.Bool("auto_approved", approved),
	)
	return resp, nil
}

func (s *service) List(ctx context.Context, companyID, actorID string, isManager bool, q ListBidsQuery) ([]BidResponse, error) {
	var f ListFilter
	if q.CoverRequestID != "" {
		// Any member of the request's company may inspect its bids.
		if _, err := s.findParent(ctx, companyID, q.CoverRequestID); err != nil {
			return nil, err
		}
		f = ListFilter{CoverRequestID: q.CoverRequestID}
	} else if !isManager {
		f = ListFilter{BidderID: actorID}
	}

	bids, err := s.repo.ListByCompany(ctx, companyID, f)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(bids), nil
}

func (s *service) GetByID(ctx context.Context, companyID string, id string) (BidResponse, error) {
	bid, err := s.findBid(ctx, companyID, id)
	if err != nil {
		return BidResponse{}, err
	}
	return mapToResponse(*bid), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID string, isManager bool, id string) (BidResponse, error) {
	s.logger.Debug("approve bid requested",
		zap.String("bid_id", id),
		zap.String("actor_id", actorID),
	)

	if !isManager {
		return BidResponse{}, coverbiderrors.ErrManagerOnly
	}

	bid, err := s.findBid(ctx, companyID, id)
	if err != nil {
		return BidResponse{}, err
	}
	if bid.Status != StatusPending {
		return BidResponse{}, coverbiderrors.ErrBidAlreadyDecided
	}

	parent, err := s.findParent(ctx, companyID, bid.CoverRequestID.String())
	if err != nil {
		return BidResponse{}, err
	}
	if parent.Status != swap.StatusPending {
		return BidResponse{}, coverbiderrors.ErrRequestNotOpen
	}

	bidder, err := s.shifts.FindAssignee(ctx, bid.BidderID.String())
	if err != nil {
		s.logger.Error("approve bid bidder lookup failed", zap.Error(err))
		return BidResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve bid begin tx failed", zap.Error(err))
		return BidResponse{}, err
	}
	defer tx.Rollback()

	if err := s.runReassignment(ctx, tx, bid, parent, bidder.UserName); err != nil {
		return BidResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve bid commit failed", zap.Error(err))
		return BidResponse{}, err
	}

	bid.Status = StatusApproved
	resp := mapToResponse(*bid)
	s.announceApproval(ctx, companyID, bid, parent, bidder)
	s.logger.Info("approve bid success", zap.String("bid_id", id))
	return resp, nil
}

func (s *service) Reject(ctx context.Context, companyID, actorID string, isManager bool, id string) (BidResponse, error) {
	if !isManager {
		return BidResponse{}, coverbiderrors.ErrManagerOnly
	}

	if _, err := s.findBid(ctx, companyID, id); err != nil {
		return BidResponse{}, err
	}

	rows, err := s.repo.MarkRejected(ctx, id)
	if err != nil {
		s.logger.Error("reject bid persist failed", zap.Error(err))
		return BidResponse{}, err
	}
	if rows == 0 {
		return BidResponse{}, coverbiderrors.ErrBidAlreadyDecided
	}

	bid, err := s.findBid(ctx, companyID, id)
	if err != nil {
		return BidResponse{}, err
	}

	resp := mapToResponse(*bid)
	s.emit(ctx, companyID, "coverBid:rejected", resp)
	s.logger.Info("reject bid success", zap.String("bid_id", id))
	return resp, nil
}

// runReassignment is the four-step transaction that resolves a cover
// request: reject sibling bids, approve the winning bid, approve the parent
// request, and hand the shift to the bidder. Every step after the sibling
// sweep is guarded, so two approvals racing on the same request serialize
// into exactly one winner; the loser sees zero rows and rolls back.
func (s *service) runReassignment(ctx context.Context, tx *sql.Tx, bid *CoverBid, parent *swap.SwapRequest, bidderName string) error {
	bidID := bid.ID.String()
	requestID := bid.CoverRequestID.String()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.RejectSiblings(ctx, requestID, bidID); err != nil {
		s.logger.Error("reassignment reject siblings failed", zap.Error(err))
		return err
	}

	rows, err := qtx.MarkApproved(ctx, bidID)
	if err != nil {
		s.logger.Error("reassignment approve bid failed", zap.Error(err))
		return err
	}
	if rows == 0 {
		return coverbiderrors.ErrBidAlreadyDecided
	}

	rows, err = s.swaps.WithTx(tx).MarkApproved(ctx, requestID)
	if err != nil {
		s.logger.Error("reassignment approve request failed", zap.Error(err))
		return err
	}
	if rows == 0 {
		return coverbiderrors.ErrRequestNotOpen
	}

	rows, err = s.shifts.WithTx(tx).Reassign(ctx, parent.ShiftID.String(), bid.BidderID.String(), bidderName)
	if err != nil {
		s.logger.Error("reassignment shift update failed", zap.Error(err))
		return err
	}
	if rows == 0 {
		return coverbiderrors.ErrShiftConflict
	}
	return nil
}

// announceApproval publishes the post-commit fan-out for a won bid: the bid,
// the resolved request, the reassigned shift, and the email to the new
// assignee. Best-effort throughout.
func (s *service) announceApproval(ctx context.Context, companyID string, bid *CoverBid, parent *swap.SwapRequest, bidder *shift.Assignee) {
	s.emit(ctx, companyID, "coverBid:approved", mapToResponse(*bid))

	resolved, err := s.findParent(ctx, companyID, parent.ID.String())
	if err != nil {
		s.logger.Warn("fetch resolved request failed", zap.String("request_id", parent.ID.String()), zap.Error(err))
		return
	}
	s.emit(ctx, companyID, "swapRequest:approved", swap.NewResponse(*resolved))

	sh, err := s.shifts.FindByIDAndCompany(ctx, companyID, parent.ShiftID.String())
	if err != nil {
		s.logger.Warn("fetch reassigned shift failed", zap.String("shift_id", parent.ShiftID.String()), zap.Error(err))
		return
	}
	s.emit(ctx, companyID, "shift:updated", shift.NewResponse(*sh))

	if s.mailer == nil {
		return
	}
	requester, err := s.shifts.FindAssignee(ctx, parent.RequesterID.String())
	if err != nil {
		s.logger.Warn("lookup requester for mail failed", zap.Error(err))
		return
	}

	mail := notify.ShiftMail{
		CompanyID:      sh.CompanyID.String(),
		RecipientName:  bidder.UserName,
		RecipientEmail: bidder.Email,
		ShiftDate:      sh.Date.Format(time.DateOnly),
		StartTime:      sh.StartTime,
		EndTime:        sh.EndTime,
		Note:           sh.Note,
		OtherPartyName: requester.UserName,
	}
	if err := s.mailer.CoverSwapApproved(ctx, mail); err != nil {
		s.logger.Warn("enqueue bid approved mail failed", zap.String("bid_id", bid.ID.String()), zap.Error(err))
	}
}

func (s *service) findBid(ctx context.Context, companyID, id string) (*CoverBid, error) {
	bid, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coverbiderrors.ErrBidNotFound
		}
		return nil, err
	}
	return bid, nil
}

func (s *service) findParent(ctx context.Context, companyID, id string) (*swap.SwapRequest, error) {
	parent, err := s.swaps.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coverbiderrors.ErrRequestNotFound
		}
		return nil, err
	}
	return parent, nil
}

func (s *service) emit(ctx context.Context, companyID, event string, payload any) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, companyID, event, payload); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("company event publish failed",
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
