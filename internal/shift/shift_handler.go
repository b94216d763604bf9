package shift

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
	l := zap.L().Named("shift.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shift.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("shift request failed",
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

	var req CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create shift validation failed", zap.Error(err))
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
	isManager := c.GetBool("is_manager")

	resp, err := h.service.GetAll(c.Request.Context(), companyID, isManager)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	companyID := c.GetString("company_id")
	targetID := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	isManager := c.GetBool("is_manager")
	id := c.Param("id")

	var req UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update shift validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), companyID, actorID, isManager, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	isManager := c.GetBool("is_manager")
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), companyID, actorID, isManager, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Publish(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	isManager := c.GetBool("is_manager")

	var req PublishShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http publish shifts validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Publish(c.Request.Context(), companyID, actorID, isManager, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
