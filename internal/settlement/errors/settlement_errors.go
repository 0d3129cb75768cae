package settlementerrors

import (
	"net/http"

	"go-rateb/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidTerminationDate = apperror.New(
		apperror.CodeInvalidInput,
		"termination date must be a valid YYYY-MM-DD date",
		http.StatusBadRequest,
	)
	ErrNoTerminationDate = apperror.New(
		apperror.CodeInvalidInput,
		"employee has no termination date and none was provided",
		http.StatusBadRequest,
	)
)
