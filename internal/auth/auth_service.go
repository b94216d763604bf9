package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "go-shiftly/internal/auth/errors"
	"go-shiftly/internal/company"
	"go-shiftly/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (accessToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
}

type service struct {
	userRepo    user.Repository
	companyRepo company.Repository
	logger      *zap.Logger
}

func NewService(userRepo user.Repository, companyRepo company.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{userRepo: userRepo, companyRepo: companyRepo, logger: l}
}

// Register creates a non-manager account inside an existing company.
// Managers are provisioned out of band.
func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	if _, err := s.companyRepo.FindByID(ctx, req.CompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrCompanyNotFound
		}
		return AuthResponse{}, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return AuthResponse{}, autherrors.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	u := &user.User{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(req.CompanyID),
		UserName:  req.UserName,
		Email:     req.Email,
		Password:  string(hashed),
		IsManager: false,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		s.logger.Error("register persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("company_id", req.CompanyID),
	)
	return mapToAuthResponse(*u), nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, AuthResponse, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := generateToken(u, 24*time.Hour)
	if err != nil {
		return "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID.String()))
	return token, mapToAuthResponse(*u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrInvalidToken
		}
		return AuthResponse{}, err
	}
	return mapToAuthResponse(*u), nil
}

func generateToken(u *user.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    u.ID.String(),
		"company_id": u.CompanyID.String(),
		"user_name":  u.UserName,
		"is_manager": u.IsManager,
		"exp":        time.Now().Add(ttl).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(u user.User) AuthResponse {
	return AuthResponse{
		ID:        u.ID.String(),
		CompanyID: u.CompanyID.String(),
		UserName:  u.UserName,
		Email:     u.Email,
		IsManager: u.IsManager,
	}
}
