package swap

import (
	"net/http"

	"go-shiftly/internal/shared/apperror"
	"go-shiftly/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("swap.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("swap.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("swap request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	isManager := c.GetBool("is_manager")

	var req CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create swap validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), companyID, actorID, isManager, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	isManager := c.GetBool("is_manager")

	var q ListRequestsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.logger.Warn("http list swaps validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.List(c.Request.Context(), companyID, actorID, isManager, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	isManager := c.GetBool("is_manager")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, actorID, isManager, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Agree(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	isManager := c.GetBool("is_manager")

	resp, err := h.service.AgreeAsPartner(c.Request.Context(), companyID, actorID, isManager, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Decline(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")

	resp, err := h.service.DeclineAsPartner(c.Request.Context(), companyID, actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	isManager := c.GetBool("is_manager")

	resp, err := h.service.Approve(c.Request.Context(), companyID, actorID, isManager, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	isManager := c.GetBool("is_manager")

	resp, err := h.service.Reject(c.Request.Context(), companyID, actorID, isManager, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
