package company

import (
	"context"
	"errors"
	"net/http"

	"go-shiftly/internal/shared/apperror"

	"gorm.io/gorm"
)

var ErrCompanyNotFound = apperror.New(
	apperror.CodeNotFound,
	"company not found",
	http.StatusNotFound,
)

type CompanyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Service interface {
	Get(ctx context.Context, id string) (CompanyResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, id string) (CompanyResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}
	return CompanyResponse{ID: c.ID.String(), Name: c.Name}, nil
}
