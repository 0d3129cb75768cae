package leave

import (
	"net/http"
	"time"

	leaveerrors "go-rateb/internal/leave/errors"
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

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetAll(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	h.transition(c, func(companyID, actorID, id string) (LeaveResponse, error) {
		return h.service.Submit(c.Request.Context(), companyID, actorID, id)
	})
}

func (h *Handler) Approve(c *gin.Context) {
	h.transition(c, func(companyID, actorID, id string) (LeaveResponse, error) {
		return h.service.Approve(c.Request.Context(), companyID, actorID, id)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, func(companyID, actorID, id string) (LeaveResponse, error) {
		return h.service.Cancel(c.Request.Context(), companyID, actorID, id)
	})
}

func (h *Handler) Reject(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	id := c.Param("id")

	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), companyID, actorID, id, req.RejectionReason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UnpaidDays(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.Param("employeeId")

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidDateFormat)
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidDateFormat)
		return
	}

	resp, err := h.service.UnpaidDaysInPeriod(c.Request.Context(), companyID, employeeID, from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) transition(c *gin.Context, fn func(companyID, actorID, id string) (LeaveResponse, error)) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")
	id := c.Param("id")

	resp, err := fn(companyID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
