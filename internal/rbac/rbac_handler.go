package rbac

import (
	"errors"
	"net/http"

	"go-rateb/internal/shared/apperror"
	"go-rateb/internal/shared/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AssignRoleRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	RoleID     string `json:"role_id" binding:"required,uuid"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListRoles(c *gin.Context) {
	companyID := c.GetString("company_id")

	roles, err := h.service.ListRoles(c.Request.Context(), companyID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, roles, nil)
}

func (h *Handler) AssignRole(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	if err := h.service.AssignRole(c.Request.Context(), companyID, req.EmployeeID, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, apperror.CodeNotFound, "role not found", nil)
			return
		}
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assigned": true}, nil)
}
