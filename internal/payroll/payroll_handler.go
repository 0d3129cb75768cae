package payroll

import (
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

func (h *Handler) CreatePeriod(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.CreatePeriod(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListPeriods(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.ListPeriods(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Calculate(c *gin.Context) {
	companyID := c.GetString("company_id")
	periodID := c.Param("periodId")

	resp, err := h.service.Calculate(c.Request.Context(), companyID, periodID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	runID := c.Param("id")

	resp, err := h.service.Approve(c.Request.Context(), companyID, runID, actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Lock(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	runID := c.Param("id")

	resp, err := h.service.Lock(c.Request.Context(), companyID, runID, actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRun(c *gin.Context) {
	companyID := c.GetString("company_id")
	runID := c.Param("id")

	resp, err := h.service.GetRun(c.Request.Context(), companyID, runID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListRuns(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.ListRuns(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
