package gosierrors

import (
	"net/http"

	"go-rateb/internal/shared/apperror"
)

var (
	ErrBasicWageNotPositive = apperror.New(
		apperror.CodeInvalidInput,
		"GOSI basic wage must be greater than 0 when employee is GOSI eligible",
		http.StatusBadRequest,
	)
	ErrHousingAllowanceNegative = apperror.New(
		apperror.CodeInvalidInput,
		"GOSI housing allowance cannot be negative",
		http.StatusBadRequest,
	)
	ErrUnknownNationality = apperror.New(
		apperror.CodeInvalidInput,
		"employee nationality must be SAUDI or NON_SAUDI for GOSI calculation",
		http.StatusBadRequest,
	)
	ErrInvalidRates = apperror.New(
		apperror.CodeInvalidInput,
		"GOSI contribution rates cannot be negative",
		http.StatusBadRequest,
	)
)
