package payrollerrors

import (
	"net/http"

	"go-rateb/internal/shared/apperror"
)

var (
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll period not found",
		http.StatusNotFound,
	)
	ErrPeriodAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"payroll period already exists for this month",
		http.StatusConflict,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrInvalidRunID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll run id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeUnauthorized,
		"invalid actor identity",
		http.StatusUnauthorized,
	)
	ErrInvalidPeriodID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period id",
		http.StatusBadRequest,
	)
	ErrRunNotCalculable = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be calculated while DRAFT or CALCULATED",
		http.StatusConflict,
	)
	ErrRunNotApprovable = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be approved while CALCULATED",
		http.StatusConflict,
	)
	ErrRunNotLockable = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be locked while APPROVED",
		http.StatusConflict,
	)
	ErrGovernanceNotSatisfied = apperror.New(
		apperror.CodeInvalidState,
		"not all mandatory approval stages are satisfied for this run",
		http.StatusConflict,
	)
	ErrCalculationInProgress = apperror.New(
		apperror.CodeConflict,
		"a calculation for this run is already in progress",
		http.StatusConflict,
	)
	ErrCalculationConflict = apperror.New(
		apperror.CodeTransientConflict,
		"payroll calculation hit a concurrent update, please retry",
		http.StatusConflict,
	)
	ErrNoActiveEmployees = apperror.New(
		apperror.CodeInvalidState,
		"company has no active employees to calculate",
		http.StatusConflict,
	)
)
