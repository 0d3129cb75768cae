package exporterrors

import (
	"net/http"

	"go-rateb/internal/shared/apperror"
)

var (
	ErrArtifactNotFound = apperror.New(
		apperror.CodeNotFound,
		"export artifact not found",
		http.StatusNotFound,
	)
	ErrInvalidArtifactID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid export artifact id",
		http.StatusBadRequest,
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
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"unknown export kind",
		http.StatusBadRequest,
	)
	ErrRunNotExportable = apperror.New(
		apperror.CodeInvalidState,
		"WPS and GOSI exports require an APPROVED or LOCKED run",
		http.StatusConflict,
	)
	ErrRunNotCalculated = apperror.New(
		apperror.CodeInvalidState,
		"export requires a calculated payroll run",
		http.StatusConflict,
	)
	ErrRunHasNoLines = apperror.New(
		apperror.CodeInvalidState,
		"payroll run has no lines to export",
		http.StatusConflict,
	)
	ErrWpsValidationFailed = apperror.New(
		apperror.CodeInconsistent,
		"WPS export validation failed",
		http.StatusUnprocessableEntity,
	)
	ErrGosiValidationFailed = apperror.New(
		apperror.CodeInconsistent,
		"GOSI export validation failed",
		http.StatusUnprocessableEntity,
	)
	ErrArtifactNotRetryable = apperror.New(
		apperror.CodeInvalidState,
		"only FAILED export artifacts can be retried",
		http.StatusConflict,
	)
	ErrArtifactNotReady = apperror.New(
		apperror.CodeInvalidState,
		"export artifact has no file yet",
		http.StatusConflict,
	)
)
