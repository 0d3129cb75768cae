package eoserrors

import (
	"net/http"

	"go-rateb/internal/shared/apperror"
)

var (
	ErrTerminationBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"termination date must not be before the employment start date",
		http.StatusBadRequest,
	)
	ErrNegativeBaseSalary = apperror.New(
		apperror.CodeInvalidInput,
		"base salary cannot be negative",
		http.StatusBadRequest,
	)
)
