package user

import (
	"context"
	"errors"

	usererrors "go-shiftly/internal/user/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, companyID string) ([]UserResponse, error)
	Get(ctx context.Context, companyID, id string) (UserResponse, error)
	UpdateEmail(ctx context.Context, companyID, actorID string, req UpdateEmailRequest) (UserResponse, error)
	UpdatePassword(ctx context.Context, companyID, actorID string, req UpdatePasswordRequest) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) List(ctx context.Context, companyID string) ([]UserResponse, error) {
	users, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) Get(ctx context.Context, companyID, id string) (UserResponse, error) {
	u, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) UpdateEmail(ctx context.Context, companyID, actorID string, req UpdateEmailRequest) (UserResponse, error) {
	u, err := s.repo.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing.ID != u.ID {
		return UserResponse{}, usererrors.ErrEmailTaken
	}

	if err := s.repo.UpdateEmail(ctx, actorID, req.Email); err != nil {
		s.logger.Error("update email failed", zap.String("user_id", actorID), zap.Error(err))
		return UserResponse{}, err
	}

	u.Email = req.Email
	s.logger.Info("email updated", zap.String("user_id", actorID))
	return mapToResponse(*u), nil
}

func (s *service) UpdatePassword(ctx context.Context, companyID, actorID string, req UpdatePasswordRequest) error {
	u, err := s.repo.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, actorID, string(hashed)); err != nil {
		s.logger.Error("update password failed", zap.String("user_id", actorID), zap.Error(err))
		return err
	}

	s.logger.Info("password updated", zap.String("user_id", actorID))
	return nil
}
