package integration

import (
	"net/http"

	"github.com/nateesoft/management-hrm-service/internal/shared/apperror"
	"github.com/nateesoft/management-hrm-service/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) SyncUsers(c *gin.Context) {
	result := h.service.SyncAllUsers(c.Request.Context())
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) UnlinkedUsers(c *gin.Context) {
	users, err := h.service.UnlinkedUsers(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, users, nil)
}

func (h *Handler) UserCreatedWebhook(c *gin.Context) {
	var payload UserWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	result, err := h.service.HandleUserCreated(c.Request.Context(), payload)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) UserUpdatedWebhook(c *gin.Context) {
	var payload UserWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	result, err := h.service.HandleUserUpdated(c.Request.Context(), payload)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}
