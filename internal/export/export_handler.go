package export

import (
	"fmt"
	"net/http"

	"go-rateb/internal/shared/apperror"
	"go-rateb/internal/shared/response"

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

func (h *Handler) Enqueue(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")

	var req EnqueueExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Enqueue(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, resp, nil)
}

func (h *Handler) Get(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.Get(c.Request.Context(), companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListForRun(c *gin.Context) {
	companyID := c.GetString("company_id")
	runID := c.Param("runId")

	resp, err := h.service.ListForRun(c.Request.Context(), companyID, runID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Retry(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	id := c.Param("id")

	resp, err := h.service.Retry(c.Request.Context(), companyID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, resp, nil)
}

func (h *Handler) Download(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	fileName, contentType, data, err := h.service.Download(c.Request.Context(), companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, contentType, data)
}
