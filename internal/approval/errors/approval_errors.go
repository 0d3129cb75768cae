package approvalerrors

import (
	"net/http"

	"go-rateb/internal/shared/apperror"
)

var (
	ErrMatrixNotConfigured = apperror.New(
		apperror.CodeInvalidState,
		"approval matrix is not configured for this company",
		http.StatusConflict,
	)
	ErrStageNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval stage not found",
		http.StatusNotFound,
	)
	ErrActionNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval action not found",
		http.StatusNotFound,
	)
	ErrInvalidStageID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approval stage id",
		http.StatusBadRequest,
	)
	ErrInvalidActionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approval action id",
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
	ErrRunNotActionable = apperror.New(
		apperror.CodeInvalidState,
		"approval actions are only accepted while the run is CALCULATED",
		http.StatusConflict,
	)
	ErrRoleMismatch = apperror.New(
		apperror.CodeForbidden,
		"actor role does not match the stage approver role",
		http.StatusForbidden,
	)
	ErrInvalidOverrideCategory = apperror.New(
		apperror.CodeInvalidInput,
		"unknown override category",
		http.StatusBadRequest,
	)
	ErrInvalidOverrideReference = apperror.New(
		apperror.CodeInvalidInput,
		"override reference must match OVR-NNNNNN-NNNN",
		http.StatusBadRequest,
	)
	ErrRollbackNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"this approval stage does not allow rollback",
		http.StatusConflict,
	)
	ErrActionAlreadyRolledBack = apperror.New(
		apperror.CodeConflict,
		"approval action is already rolled back",
		http.StatusConflict,
	)
	ErrRollbackTargetType = apperror.New(
		apperror.CodeInvalidState,
		"only APPROVE and OVERRIDE actions can be rolled back",
		http.StatusConflict,
	)
	ErrDuplicateStageOrder = apperror.New(
		apperror.CodeInvalidInput,
		"approval matrix stage orders must be unique",
		http.StatusBadRequest,
	)
)
