package companyerrors

import (
	"net/http"

	"go-rateb/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)
	ErrSettingsNotConfigured = apperror.New(
		apperror.CodeInvalidState,
		"payroll settings are not configured for this company",
		http.StatusConflict,
	)
	ErrInvalidDecimalValue = apperror.New(
		apperror.CodeInvalidInput,
		"setting value must be a decimal number",
		http.StatusBadRequest,
	)
	ErrNegativeSettingValue = apperror.New(
		apperror.CodeInvalidInput,
		"setting value cannot be negative",
		http.StatusBadRequest,
	)
)
