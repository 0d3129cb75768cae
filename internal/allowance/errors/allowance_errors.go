package allowanceerrors

import (
	"net/http"

	"go-rateb/internal/shared/apperror"
)

var (
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"allowance policy not found",
		http.StatusNotFound,
	)
	ErrInvalidPolicyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid allowance policy id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveRange = apperror.New(
		apperror.CodeInvalidInput,
		"effective_to must be on or after effective_from",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrPolicyAlreadyEnded = apperror.New(
		apperror.CodeInvalidState,
		"allowance policy already has an end date",
		http.StatusConflict,
	)
)
