package loanerrors

import (
	"net/http"

	"go-rateb/internal/shared/apperror"
)

var (
	ErrLoanNotFound = apperror.New(
		apperror.CodeNotFound,
		"loan not found",
		http.StatusNotFound,
	)
	ErrInvalidLoanID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid loan id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidPrincipal = apperror.New(
		apperror.CodeInvalidInput,
		"loan principal must be greater than 0",
		http.StatusBadRequest,
	)
	ErrInvalidSchedule = apperror.New(
		apperror.CodeInvalidInput,
		"installment amount and total installments must be greater than 0",
		http.StatusBadRequest,
	)
	ErrScheduleTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"installment schedule does not cover the principal",
		http.StatusBadRequest,
	)
	ErrScheduleTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"installment schedule overshoots the principal by a full installment",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrLoanNotActive = apperror.New(
		apperror.CodeInvalidState,
		"loan is not active",
		http.StatusConflict,
	)
	ErrLoanInFlightRun = apperror.New(
		apperror.CodeInvalidState,
		"loan has an installment consumed by an in-flight payroll run",
		http.StatusConflict,
	)
	ErrInstallmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"installment not found",
		http.StatusNotFound,
	)
	ErrInstallmentNotPending = apperror.New(
		apperror.CodeInvalidState,
		"installment is not pending",
		http.StatusConflict,
	)
)
