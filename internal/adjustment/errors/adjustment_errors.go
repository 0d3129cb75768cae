package adjustmenterrors

import (
	"net/http"

	"go-rateb/internal/shared/apperror"
)

var (
	ErrAdjustmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"adjustment not found",
		http.StatusNotFound,
	)
	ErrInvalidAdjustmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid adjustment id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrPeriodLocked = apperror.New(
		apperror.CodeInvalidState,
		"adjustments for an approved or locked payroll run cannot be changed",
		http.StatusConflict,
	)
)
