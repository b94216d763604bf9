package swap

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-shiftly/internal/notify"
	"go-shiftly/internal/shared/contextutil"
	"go-shiftly/internal/shift"
	swaperrors "go-shiftly/internal/swap/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, companyID, actorID string, isManager bool, req CreateSwapRequest) (SwapResponse, error)
	List(ctx context.Context, companyID, actorID string, isManager bool, q ListRequestsQuery) ([]SwapResponse, error)
	GetByID(ctx context.Context, companyID, actorID string, isManager bool, id string) (SwapResponse, error)
	AgreeAsPartner(ctx context.Context, companyID, actorID string, isManager bool, id string) (SwapResponse, error)
	DeclineAsPartner(ctx context.Context, companyID, actorID string, id string) (SwapResponse, error)
	Approve(ctx context.Context, companyID, actorID string, isManager bool, id string) (SwapResponse, error)
	Reject(ctx context.Context, companyID, actorID string, isManager bool, id string) (SwapResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	shifts shift.Repository
	sink   notify.CompanySink
	mailer notify.Mailer
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	shifts shift.Repository,
	sink notify.CompanySink,
	mailer notify.Mailer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("swap.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("swap.service")
	}
	return &service{db: db, repo: repo, shifts: shifts, sink: sink, mailer: mailer, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, isManager bool, req CreateSwapRequest) (SwapResponse, error) {
	s.logger.Debug("create swap request requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("shift_id", req.ShiftID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SwapResponse{}, swaperrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return SwapResponse{}, swaperrors.ErrInvalidActorID
	}
	shiftUUID, err := uuid.Parse(req.ShiftID)
	if err != nil {
		return SwapResponse{}, swaperrors.ErrInvalidShiftID
	}

	sh, err := s.shifts.FindByIDAndCompany(ctx, companyID, req.ShiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResponse{}, swaperrors.ErrShiftNotFound
		}
		return SwapResponse{}, err
	}

	// Only the current assignee can put their own shift up for negotiation,
	// managers included.
	if sh.UserID.String() != actorID {
		return SwapResponse{}, swaperrors.ErrNotShiftAssignee
	}

	var requestedUserUUID *uuid.UUID
	if req.RequestedUserID != nil {
		parsed, err := uuid.Parse(*req.RequestedUserID)
		if err != nil {
			return SwapResponse{}, swaperrors.ErrInvalidRequestedUserID
		}
		if *req.RequestedUserID == actorID {
			return SwapResponse{}, swaperrors.ErrSelfSwap
		}
		belongs, err := s.shifts.AssigneeInCompany(ctx, companyID, *req.RequestedUserID)
		if err != nil {
			s.logger.Error("create swap target check failed", zap.Error(err))
			return SwapResponse{}, err
		}
		if !belongs {
			return SwapResponse{}, swaperrors.ErrTargetNotInCompany
		}
		requestedUserUUID = &parsed
	}

	sr := &SwapRequest{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		ShiftID:         shiftUUID,
		RequesterID:     actorUUID,
		RequestedUserID: requestedUserUUID,
		Reason:          req.Reason,
		Status:          StatusPending,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create swap begin tx failed", zap.Error(err))
		return SwapResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	// The one-pending-per-shift check and the insert share the transaction
	// so concurrent creators cannot both pass the check.
	pending, err := qtx.HasPendingForShift(ctx, req.ShiftID)
	if err != nil {
		s.logger.Error("create swap pending check failed", zap.Error(err))
		return SwapResponse{}, err
	}
	if pending {
		return SwapResponse{}, swaperrors.ErrPendingRequestExists
	}
	if err := qtx.Create(ctx, sr); err != nil {
		s.logger.Error("create swap persist failed", zap.Error(err))
		return SwapResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create swap commit failed", zap.Error(err))
		return SwapResponse{}, err
	}

	sr.CreatedAt = time.Now().UTC()
	resp := mapToResponse(*sr)
	s.emit(ctx, companyID, "swapRequest:created", resp)
	s.logger.Info("create swap request success",
		zap.String("request_id", sr.ID.String()),
		zap.Bool("is_cover", sr.IsCover()),
	)
	return resp, nil
}

func (s *service) List(ctx context.Context, companyID, actorID string, isManager bool, q ListRequestsQuery) ([]SwapResponse, error) {
	var f ListFilter
	switch {
	case q.Type == "cover":
		// Public bidding board: every member sees pending cover requests.
		f = ListFilter{CoverOnly: true, PendingOnly: true}
	case isManager:
		f = ListFilter{SwapOnly: q.Type == "swap"}
	default:
		f = ListFilter{SwapOnly: q.Type == "swap", InvolvedUserID: actorID}
	}
	f.Status = q.Status

	requests, err := s.repo.ListByCompany(ctx, companyID, f)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, companyID, actorID string, isManager bool, id string) (SwapResponse, error) {
	sr, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return SwapResponse{}, err
	}

	if !isManager && !sr.IsCover() {
		involved := sr.RequesterID.String() == actorID ||
			(sr.RequestedUserID != nil && sr.RequestedUserID.String() == actorID)
		if !involved {
			return SwapResponse{}, swaperrors.ErrRequestNotFound
		}
	}

	return mapToResponse(*sr), nil
}

func (s *service) AgreeAsPartner(ctx context.Context, companyID, actorID string, isManager bool, id string) (SwapResponse, error) {
	s.logger.Debug("agree as partner requested",
		zap.String("request_id", id),
		zap.String("actor_id", actorID),
		zap.Bool("is_manager", isManager),
	)

	sr, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return SwapResponse{}, err
	}
	if sr.IsCover() {
		return SwapResponse{}, swaperrors.ErrCoverHasNoPartner
	}
	if sr.RequestedUserID.String() != actorID {
		return SwapResponse{}, swaperrors.ErrNotRequestedPartner
	}
	if sr.Status != StatusPending {
		return SwapResponse{}, swaperrors.ErrAlreadyDecided
	}
	if sr.RequestedUserApprovedAt != nil {
		return SwapResponse{}, swaperrors.ErrAlreadyAgreed
	}

	partner, err := s.shifts.FindAssignee(ctx, sr.RequestedUserID.String())
	if err != nil {
		s.logger.Error("agree as partner lookup failed", zap.Error(err))
		return SwapResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("agree as partner begin tx failed", zap.Error(err))
		return SwapResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rows, err := qtx.MarkPartnerAgreed(ctx, id)
	if err != nil {
		s.logger.Error("agree as partner persist failed", zap.Error(err))
		return SwapResponse{}, err
	}
	if rows == 0 {
		// The guard loses either to a concurrent agreement or to a
		// concurrent decision on the request. Re-read to report which.
		cur, ferr := s.findRequest(ctx, companyID, id)
		if ferr == nil && cur.Status != StatusPending {
			return SwapResponse{}, swaperrors.ErrAlreadyDecided
		}
		return SwapResponse{}, swaperrors.ErrAlreadyAgreed
	}

	// A manager's own agreement is self-authorizing: the approval and the
	// reassignment ride the same transaction as the agreement.
	approved := false
	if isManager {
		if err := s.runApproval(ctx, tx, sr, partner.UserName); err != nil {
			return SwapResponse{}, err
		}
		approved = true
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("agree as partner commit failed", zap.Error(err))
		return SwapResponse{}, err
	}

	updated, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return SwapResponse{}, err
	}

	resp := mapToResponse(*updated)
	s.emit(ctx, companyID, "swapRequest:partnerAgreed", resp)
	if approved {
		s.announceApproval(ctx, companyID, updated)
	}
	s.logger.Info("agree as partner success",
		zap.String("request_id", id),
		zap.Bool("auto_approved", approved),
	)
	return resp, nil
}

func (s *service) DeclineAsPartner(ctx context.Context, companyID, actorID string, id string) (SwapResponse, error) {
	sr, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return SwapResponse{}, err
	}
	if sr.IsCover() {
		return SwapResponse{}, swaperrors.ErrCoverHasNoPartner
	}
	if sr.RequestedUserID.String() != actorID {
		return SwapResponse{}, swaperrors.ErrNotRequestedPartner
	}

	rows, err := s.repo.MarkRejected(ctx, id)
	if err != nil {
		s.logger.Error("decline as partner persist failed", zap.Error(err))
		return SwapResponse{}, err
	}
	if rows == 0 {
		return SwapResponse{}, swaperrors.ErrAlreadyDecided
	}

	updated, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return SwapResponse{}, err
	}

	resp := mapToResponse(*updated)
	s.emit(ctx, companyID, "swapRequest:partnerDeclined", resp)
	s.logger.Info("decline as partner success", zap.String("request_id", id))
	return resp, nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID string, isManager bool, id string) (SwapResponse, error) {
	s.logger.Debug("approve swap requested",
		zap.String("request_id", id),
		zap.String("actor_id", actorID),
	)

	if !isManager {
		return SwapResponse{}, swaperrors.ErrManagerOnly
	}

	sr, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return SwapResponse{}, err
	}
	if sr.IsCover() {
		return SwapResponse{}, swaperrors.ErrNotDirectSwap
	}
	if sr.Status != StatusPending {
		return SwapResponse{}, swaperrors.ErrAlreadyDecided
	}
	if sr.RequestedUserApprovedAt == nil {
		return SwapResponse{}, swaperrors.ErrPartnerNotAgreed
	}

	partner, err := s.shifts.FindAssignee(ctx, sr.RequestedUserID.String())
	if err != nil {
		s.logger.Error("approve swap partner lookup failed", zap.Error(err))
		return SwapResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve swap begin tx failed", zap.Error(err))
		return SwapResponse{}, err
	}
	defer tx.Rollback()

	if err := s.runApproval(ctx, tx, sr, partner.UserName); err != nil {
		return SwapResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve swap commit failed", zap.Error(err))
		return SwapResponse{}, err
	}

	updated, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return SwapResponse{}, err
	}

	resp := mapToResponse(*updated)
	s.announceApproval(ctx, companyID, updated)
	s.logger.Info("approve swap success", zap.String("request_id", id))
	return resp, nil
}

func (s *service) Reject(ctx context.Context, companyID, actorID string, isManager bool, id string) (SwapResponse, error) {
	if !isManager {
		return SwapResponse{}, swaperrors.ErrManagerOnly
	}

	if _, err := s.findRequest(ctx, companyID, id); err != nil {
		return SwapResponse{}, err
	}

	rows, err := s.repo.MarkRejected(ctx, id)
	if err != nil {
		s.logger.Error("reject swap persist failed", zap.Error(err))
		return SwapResponse{}, err
	}
	if rows == 0 {
		return SwapResponse{}, swaperrors.ErrAlreadyDecided
	}

	updated, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return SwapResponse{}, err
	}

	resp := mapToResponse(*updated)
	s.emit(ctx, companyID, "swapRequest:rejected", resp)
	s.logger.Info("reject swap success", zap.String("request_id", id))
	return resp, nil
}

// runApproval flips the request to APPROVED and hands the shift to the
// partner inside the caller's transaction. Both statements are guarded;
// zero rows affected means another transaction got there first.
func (s *service) runApproval(ctx context.Context, tx *sql.Tx, sr *SwapRequest, partnerName string) error {
	rows, err := s.repo.WithTx(tx).MarkApproved(ctx, sr.ID.String())
	if err != nil {
		s.logger.Error("swap approval persist failed", zap.Error(err))
		return err
	}
	if rows == 0 {
		return swaperrors.ErrAlreadyDecided
	}

	rows, err = s.shifts.WithTx(tx).Reassign(ctx, sr.ShiftID.String(), sr.RequestedUserID.String(), partnerName)
	if err != nil {
		s.logger.Error("swap approval reassign failed", zap.Error(err))
		return err
	}
	if rows == 0 {
		return swaperrors.ErrShiftConflict
	}
	return nil
}

// announceApproval publishes the post-commit fan-out for an approved swap:
// the request and shift events on the company channel plus the email to the
// new assignee. Best-effort throughout.
func (s *service) announceApproval(ctx context.Context, companyID string, sr *SwapRequest) {
	s.emit(ctx, companyID, "swapRequest:approved", mapToResponse(*sr))

	sh, err := s.shifts.FindByIDAndCompany(ctx, companyID, sr.ShiftID.String())
	if err != nil {
		s.logger.Warn("fetch reassigned shift failed", zap.String("shift_id", sr.ShiftID.String()), zap.Error(err))
		return
	}
	s.emit(ctx, companyID, "shift:updated", shift.NewResponse(*sh))

	if s.mailer == nil {
		return
	}
	partner, err := s.shifts.FindAssignee(ctx, sr.RequestedUserID.String())
	if err != nil {
		s.logger.Warn("lookup partner for mail failed", zap.Error(err))
		return
	}
	requester, err := s.shifts.FindAssignee(ctx, sr.RequesterID.String())
	if err != nil {
		s.logger.Warn("lookup requester for mail failed", zap.Error(err))
		return
	}

	mail := notify.ShiftMail{
		CompanyID:      sh.CompanyID.String(),
		RecipientName:  partner.UserName,
		RecipientEmail: partner.Email,
		ShiftDate:      sh.Date.Format(time.DateOnly),
		StartTime:      sh.StartTime,
		EndTime:        sh.EndTime,
		Note:           sh.Note,
		OtherPartyName: requester.UserName,
	}
	if err := s.mailer.CoverSwapApproved(ctx, mail); err != nil {
		s.logger.Warn("enqueue swap approved mail failed", zap.String("request_id", sr.ID.String()), zap.Error(err))
	}
}

func (s *service) findRequest(ctx context.Context, companyID, id string) (*SwapRequest, error) {
	sr, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, swaperrors.ErrRequestNotFound
		}
		return nil, err
	}
	return sr, nil
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
