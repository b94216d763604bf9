package shift_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-shiftly/internal/messaging/kafka"
	"go-shiftly/internal/notify"
	"go-shiftly/internal/shift"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeShiftRepository struct {
	withTxFn             func(tx *sql.Tx) shift.Repository
	createFn             func(ctx context.Context, s *shift.Shift) error
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*shift.Shift, error)
	findAllByCompanyFn   func(ctx context.Context, companyID string, publishedOnly bool) ([]shift.Shift, error)
	updateFn             func(ctx context.Context, s *shift.Shift) error
	deleteFn             func(ctx context.Context, companyID, id string) error
	publishDraftFn       func(ctx context.Context, companyID, id string) (int64, error)
	reassignFn           func(ctx context.Context, id, userID, title string) (int64, error)
	findAssigneeFn       func(ctx context.Context, userID string) (*shift.Assignee, error)
	assigneeInCompanyFn  func(ctx context.Context, companyID, userID string) (bool, error)
}

func (f *fakeShiftRepository) WithTx(tx *sql.Tx) shift.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeShiftRepository) Create(ctx context.Context, s *shift.Shift) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeShiftRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*shift.Shift, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeShiftRepository) FindAllByCompany(ctx context.Context, companyID string, publishedOnly bool) ([]shift.Shift, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID, publishedOnly)
	}
	return nil, nil
}

func (f *fakeShiftRepository) Update(ctx context.Context, s *shift.Shift) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, s)
	}
	return nil
}

func (f *fakeShiftRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func (f *fakeShiftRepository) PublishDraft(ctx context.Context, companyID, id string) (int64, error) {
	if f.publishDraftFn != nil {
		return f.publishDraftFn(ctx, companyID, id)
	}
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
	return &shift.Assignee{ID: uuid.MustParse(userID), UserName: "worker", Email: "worker@example.com"}, nil
}

func (f *fakeShiftRepository) AssigneeInCompany(ctx context.Context, companyID, userID string) (bool, error) {
	if f.assigneeInCompanyFn != nil {
		return f.assigneeInCompanyFn(ctx, companyID, userID)
	}
	return true, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
	created  []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id, reason string) error { return nil }

type recordingSink struct {
	events []string
}

func (s *recordingSink) Publish(ctx context.Context, companyID, event string, payload any) error {
	s.events = append(s.events, event)
	return nil
}

type shiftServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service shift.Service
	repo    *fakeShiftRepository
	outbox  *fakeOutboxRepository
	sink    *recordingSink
}

func setupShiftServiceTest(t *testing.T) *shiftServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeShiftRepository{}
	outbox := &fakeOutboxRepository{}
	sink := &recordingSink{}
	svc := shift.NewService(db, repo, outbox, sink, notify.NewNoopMailer())

	return &shiftServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
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

func TestShiftService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	managerID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success manager creates for employee", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := shift.CreateShiftRequest{
			UserID:    employeeID,
			Title:     "Morning shift",
			Date:      "2026-09-07",
			StartTime: "08:00",
			EndTime:   "16:00",
		}

		deps.repo.createFn = func(ctx context.Context, s *shift.Shift) error {
			assert.Equal(t, uuid.MustParse(companyID), s.CompanyID)
			assert.Equal(t, uuid.MustParse(employeeID), s.UserID)
			assert.Equal(t, shift.StatusDraft, s.Status)
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, managerID, true, req)

		assert.NoError(t, err)
		assert.Equal(t, employeeID, resp.UserID)
		assert.Equal(t, shift.StatusDraft, resp.Status)
		assert.False(t, resp.IsPublished)
		assert.Len(t, deps.outbox.created, 1)
		assert.Contains(t, deps.sink.events, "shift:created")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative employee creates for someone else", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		req := shift.CreateShiftRequest{
			UserID:    employeeID,
			Date:      "2026-09-07",
			StartTime: "08:00",
			EndTime:   "16:00",
		}

		_, err := deps.service.Create(ctx, companyID, uuid.New().String(), false, req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only managers")
	})

	t.Run("negative end time before start time", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		req := shift.CreateShiftRequest{
			UserID:    employeeID,
			Date:      "2026-09-07",
			StartTime: "22:00",
			EndTime:   "06:00",
		}

		_, err := deps.service.Create(ctx, companyID, employeeID, false, req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "end_time must be after start_time")
	})

	t.Run("negative assignee outside company", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		deps.repo.assigneeInCompanyFn = func(ctx context.Context, cid, uid string) (bool, error) {
			return false, nil
		}
		req := shift.CreateShiftRequest{
			UserID:    employeeID,
			Date:      "2026-09-07",
			StartTime: "08:00",
			EndTime:   "16:00",
		}

		_, err := deps.service.Create(ctx, companyID, managerID, true, req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong")
	})
}

func TestShiftService_GetAll(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("employees only see published", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string, publishedOnly bool) ([]shift.Shift, error) {
			assert.True(t, publishedOnly)
			return nil, nil
		}

		_, err := deps.service.GetAll(ctx, companyID, false)
		assert.NoError(t, err)
	})

	t.Run("managers see drafts too", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string, publishedOnly bool) ([]shift.Shift, error) {
			assert.False(t, publishedOnly)
			return []shift.Shift{{
				ID:        uuid.New(),
				CompanyID: uuid.MustParse(companyID),
				UserID:    uuid.New(),
				Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
				StartTime: "08:00",
				EndTime:   "16:00",
				Status:    shift.StatusDraft,
			}}, nil
		}

		resp, err := deps.service.GetAll(ctx, companyID, true)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.False(t, resp[0].IsPublished)
	})
}

func TestShiftService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	ownerID := uuid.New().String()
	shiftID := uuid.New().String()

	draftShift := func() *shift.Shift {
		return &shift.Shift{
			ID:        uuid.MustParse(shiftID),
			CompanyID: uuid.MustParse(companyID),
			UserID:    uuid.MustParse(ownerID),
			Title:     "Evening",
			Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
			StartTime: "16:00",
			EndTime:   "22:00",
			Status:    shift.StatusDraft,
		}
	}

	t.Run("success owner edits own draft", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*shift.Shift, error) {
			return draftShift(), nil
		}

		note := "bring keys"
		resp, err := deps.service.Update(ctx, companyID, ownerID, false, shiftID, shift.UpdateShiftRequest{Note: &note})

		assert.NoError(t, err)
		assert.Equal(t, "bring keys", resp.Note)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative owner edits published shift", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*shift.Shift, error) {
			s := draftShift()
			s.Status = shift.StatusPublished
			return s, nil
		}

		note := "nope"
		_, err := deps.service.Update(ctx, companyID, ownerID, false, shiftID, shift.UpdateShiftRequest{Note: &note})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "published shifts")
	})

	t.Run("negative employee reassigns", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*shift.Shift, error) {
			return draftShift(), nil
		}

		other := uuid.New().String()
		_, err := deps.service.Update(ctx, companyID, ownerID, false, shiftID, shift.UpdateShiftRequest{UserID: &other})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "reassign")
	})
}

func TestShiftService_Publish(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	managerID := uuid.New().String()

	t.Run("negative non manager", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Publish(ctx, companyID, uuid.New().String(), false, shift.PublishShiftsRequest{
			ShiftIDs: []string{uuid.New().String()},
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only managers can publish")
	})

	t.Run("skips shifts that are not drafts", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		draftID := uuid.New().String()
		publishedID := uuid.New().String()

		deps.repo.publishDraftFn = func(ctx context.Context, cid, id string) (int64, error) {
			if id == draftID {
				return 1, nil
			}
			return 0, nil
		}
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*shift.Shift, error) {
			return &shift.Shift{
				ID:        uuid.MustParse(id),
				CompanyID: uuid.MustParse(companyID),
				UserID:    uuid.New(),
				Date:      time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
				StartTime: "08:00",
				EndTime:   "16:00",
				Status:    shift.StatusPublished,
			}, nil
		}

		resp, err := deps.service.Publish(ctx, companyID, managerID, true, shift.PublishShiftsRequest{
			ShiftIDs: []string{draftID, publishedID},
		})

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, draftID, resp[0].ID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestShiftService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	ownerID := uuid.New().String()
	shiftID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*shift.Shift, error) {
			return &shift.Shift{
				ID:        uuid.MustParse(shiftID),
				CompanyID: uuid.MustParse(companyID),
				UserID:    uuid.MustParse(ownerID),
				Status:    shift.StatusDraft,
			}, nil
		}

		err := deps.service.Delete(ctx, companyID, ownerID, false, shiftID)

		assert.NoError(t, err)
		assert.Contains(t, deps.sink.events, "shift:deleted")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupShiftServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*shift.Shift, error) {
			return nil, errors.New("db error")
		}

		err := deps.service.Delete(ctx, companyID, ownerID, false, shiftID)
		assert.Error(t, err)
	})
}
