package approval

import (
	"net/http"
	"strconv"

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

func (h *Handler) ConfigureMatrix(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req ConfigureMatrixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.ConfigureMatrix(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMatrix(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetMatrix(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	actorRole := c.GetString("role")
	runID := c.Param("runId")

	var req ApproveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.RecordApprove(c.Request.Context(), companyID, runID, actorID, actorRole, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Override(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	actorRole := c.GetString("role")
	runID := c.Param("runId")

	var req OverrideStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.RecordOverride(c.Request.Context(), companyID, runID, actorID, actorRole, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Rollback(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	actorRole := c.GetString("role")
	runID := c.Param("runId")

	var req RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.RecordRollback(c.Request.Context(), companyID, runID, actorID, actorRole, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) RunStatus(c *gin.Context) {
	companyID := c.GetString("company_id")
	runID := c.Param("runId")

	resp, err := h.service.RunStatus(c.Request.Context(), companyID, runID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GovernanceReport(c *gin.Context) {
	companyID := c.GetString("company_id")

	windowDays := 0
	if raw := c.Query("windowDays"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "windowDays must be between 1 and 365", nil)
			return
		}
		windowDays = parsed
	}

	resp, err := h.service.GovernanceReport(c.Request.Context(), companyID, windowDays)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
