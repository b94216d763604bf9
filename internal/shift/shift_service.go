package shift

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-shiftly/internal/events"
	"go-shiftly/internal/messaging/kafka"
	"go-shiftly/internal/notify"
	"go-shiftly/internal/shared/contextutil"
	shifterrors "go-shiftly/internal/shift/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const clockLayout = "15:04"

type Service interface {
	Create(ctx context.Context, companyID, actorID string, isManager bool, req CreateShiftRequest) (ShiftResponse, error)
	GetAll(ctx context.Context, companyID string, isManager bool) ([]ShiftResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ShiftResponse, error)
	Update(ctx context.Context, companyID, actorID string, isManager bool, id string, req UpdateShiftRequest) (ShiftResponse, error)
	Delete(ctx context.Context, companyID, actorID string, isManager bool, id string) error
	Publish(ctx context.Context, companyID, actorID string, isManager bool, req PublishShiftsRequest) ([]ShiftResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	sink   notify.CompanySink
	mailer notify.Mailer
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	sink notify.CompanySink,
	mailer notify.Mailer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("shift.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shift.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, sink: sink, mailer: mailer, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, isManager bool, req CreateShiftRequest) (ShiftResponse, error) {
	s.logger.Debug("create shift requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("user_id", req.UserID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidActorID
	}
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidUserID
	}

	if !isManager && req.UserID != actorID {
		return ShiftResponse{}, shifterrors.ErrCreateForOtherUser
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return ShiftResponse{}, err
	}
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return ShiftResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	if status != StatusDraft && status != StatusPublished {
		return ShiftResponse{}, shifterrors.ErrInvalidStatus
	}

	belongs, err := s.repo.AssigneeInCompany(ctx, companyID, req.UserID)
	if err != nil {
		s.logger.Error("create shift assignee check failed", zap.Error(err))
		return ShiftResponse{}, err
	}
	if !belongs {
		return ShiftResponse{}, shifterrors.ErrAssigneeNotInCompany
	}

	sh := &Shift{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		UserID:    userUUID,
		Title:     req.Title,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Note:      req.Note,
		Status:    status,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create shift begin tx failed", zap.Error(err))
		return ShiftResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, sh); err != nil {
		s.logger.Error("create shift persist failed", zap.Error(err))
		return ShiftResponse{}, err
	}
	if err := s.stageLifecycleEvent(ctx, tx, events.ShiftCreated, sh); err != nil {
		s.logger.Error("create shift stage event failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create shift commit failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	resp := mapToResponse(*sh)
	s.emit(ctx, companyID, "shift:created", resp)
	s.logger.Info("create shift success",
		zap.String("shift_id", sh.ID.String()),
		zap.String("company_id", companyID),
	)
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID string, isManager bool) ([]ShiftResponse, error) {
	// Employees only see published shifts; drafts are a manager-side view.
	shifts, err := s.repo.FindAllByCompany(ctx, companyID, !isManager)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(shifts), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ShiftResponse, error) {
	sh, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResponse{}, shifterrors.ErrShiftNotFound
		}
		return ShiftResponse{}, err
	}
	return mapToResponse(*sh), nil
}

func (s *service) Update(ctx context.Context, companyID, actorID string, isManager bool, id string, req UpdateShiftRequest) (ShiftResponse, error) {
	s.logger.Debug("update shift requested",
		zap.String("shift_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
	)

	sh, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResponse{}, shifterrors.ErrShiftNotFound
		}
		return ShiftResponse{}, err
	}

	if err := authorizeMutation(sh, actorID, isManager); err != nil {
		return ShiftResponse{}, err
	}

	if req.UserID != nil && *req.UserID != sh.UserID.String() {
		if !isManager {
			return ShiftResponse{}, shifterrors.ErrReassignManagerOnly
		}
		belongs, err := s.repo.AssigneeInCompany(ctx, companyID, *req.UserID)
		if err != nil {
			return ShiftResponse{}, err
		}
		if !belongs {
			return ShiftResponse{}, shifterrors.ErrAssigneeNotInCompany
		}
		newUserUUID, err := uuid.Parse(*req.UserID)
		if err != nil {
			return ShiftResponse{}, shifterrors.ErrInvalidUserID
		}
		sh.UserID = newUserUUID
	}

	if req.Title != nil {
		sh.Title = *req.Title
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return ShiftResponse{}, err
		}
		sh.Date = date
	}
	if req.StartTime != nil {
		sh.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		sh.EndTime = *req.EndTime
	}
	if err := validateTimeRange(sh.StartTime, sh.EndTime); err != nil {
		return ShiftResponse{}, err
	}
	if req.Note != nil {
		sh.Note = *req.Note
	}
	if req.Status != nil {
		if *req.Status != StatusDraft && *req.Status != StatusPublished {
			return ShiftResponse{}, shifterrors.ErrInvalidStatus
		}
		sh.Status = *req.Status
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update shift begin tx failed", zap.Error(err))
		return ShiftResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, sh); err != nil {
		s.logger.Error("update shift persist failed", zap.String("shift_id", id), zap.Error(err))
		return ShiftResponse{}, err
	}
	if err := s.stageLifecycleEvent(ctx, tx, events.ShiftUpdated, sh); err != nil {
		return ShiftResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update shift commit failed", zap.String("shift_id", id), zap.Error(err))
		return ShiftResponse{}, err
	}

	resp := mapToResponse(*sh)
	s.emit(ctx, companyID, "shift:updated", resp)
	s.logger.Info("update shift success", zap.String("shift_id", id))
	return resp, nil
}

func (s *service) Delete(ctx context.Context, companyID, actorID string, isManager bool, id string) error {
	sh, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shifterrors.ErrShiftNotFound
		}
		return err
	}

	if err := authorizeMutation(sh, actorID, isManager); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete shift persist failed", zap.String("shift_id", id), zap.Error(err))
		return err
	}
	if err := s.stageLifecycleEvent(ctx, tx, events.ShiftDeleted, sh); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.emit(ctx, companyID, "shift:deleted", map[string]string{"id": id})
	s.logger.Info("delete shift success", zap.String("shift_id", id))
	return nil
}

func (s *service) Publish(ctx context.Context, companyID, actorID string, isManager bool, req PublishShiftsRequest) ([]ShiftResponse, error) {
	s.logger.Debug("publish shifts requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.Int("count", len(req.ShiftIDs)),
	)

	if !isManager {
		return nil, shifterrors.ErrPublishManagerOnly
	}
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, shifterrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("publish shifts begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	published := make([]string, 0, len(req.ShiftIDs))
	for _, id := range req.ShiftIDs {
		rows, err := qtx.PublishDraft(ctx, companyID, id)
		if err != nil {
			s.logger.Error("publish shift failed", zap.String("shift_id", id), zap.Error(err))
			return nil, err
		}
		// ids not found or not DRAFT are skipped, not an error
		if rows > 0 {
			published = append(published, id)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("publish shifts commit failed", zap.Error(err))
		return nil, err
	}

	resp := make([]ShiftResponse, 0, len(published))
	for _, id := range published {
		sh, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			s.logger.Warn("fetch published shift failed", zap.String("shift_id", id), zap.Error(err))
			continue
		}

		r := mapToResponse(*sh)
		resp = append(resp, r)
		s.emit(ctx, companyID, "shift:updated", r)
		s.notifyAssignee(ctx, sh)
	}

	s.logger.Info("publish shifts success",
		zap.String("company_id", companyID),
		zap.Int("published", len(published)),
		zap.Int("requested", len(req.ShiftIDs)),
	)
	return resp, nil
}

// notifyAssignee enqueues the shift-published email. Best-effort: failures
// are logged and never surface.
func (s *service) notifyAssignee(ctx context.Context, sh *Shift) {
	if s.mailer == nil {
		return
	}

	assignee, err := s.repo.FindAssignee(ctx, sh.UserID.String())
	if err != nil {
		s.logger.Warn("lookup assignee for mail failed", zap.String("shift_id", sh.ID.String()), zap.Error(err))
		return
	}

	mail := notify.ShiftMail{
		CompanyID:      sh.CompanyID.String(),
		RecipientName:  assignee.UserName,
		RecipientEmail: assignee.Email,
		ShiftDate:      sh.Date.Format(time.DateOnly),
		StartTime:      sh.StartTime,
		EndTime:        sh.EndTime,
		Note:           sh.Note,
	}
	if err := s.mailer.ShiftPublished(ctx, mail); err != nil {
		s.logger.Warn("enqueue shift published mail failed", zap.String("shift_id", sh.ID.String()), zap.Error(err))
	}
}

func (s *service) stageLifecycleEvent(ctx context.Context, tx *sql.Tx, eventType string, sh *Shift) error {
	if s.outbox == nil {
		return nil
	}

	event := events.ShiftLifecycleEvent{
		EventType:  eventType,
		ShiftID:    sh.ID.String(),
		CompanyID:  sh.CompanyID.String(),
		UserID:     sh.UserID.String(),
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		CompanyID:     sh.CompanyID.String(),
		AggregateType: "shift",
		AggregateID:   sh.ID.String(),
		EventType:     eventType,
		Topic:         events.ShiftLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
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

func authorizeMutation(sh *Shift, actorID string, isManager bool) error {
	if isManager {
		return nil
	}
	if sh.UserID.String() != actorID {
		return shifterrors.ErrNotShiftOwner
	}
	if sh.Status == StatusPublished {
		return shifterrors.ErrPublishedImmutable
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, shifterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func validateTimeRange(startTime, endTime string) error {
	start, err := time.Parse(clockLayout, startTime)
	if err != nil {
		return shifterrors.ErrInvalidTimeFormat
	}
	end, err := time.Parse(clockLayout, endTime)
	if err != nil {
		return shifterrors.ErrInvalidTimeFormat
	}
	// No overnight shifts: the range must close within the same date.
	if !end.After(start) {
		return shifterrors.ErrInvalidTimeRange
	}
	return nil
}
