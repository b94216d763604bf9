package company

import (
	"net/http"

	"go-shiftly/internal/shared/apperror"
	"go-shiftly/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetMine returns the caller's own company.
func (h *Handler) GetMine(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.Get(c.Request.Context(), companyID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
