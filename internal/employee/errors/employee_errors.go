package employeeerrors

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
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee with the same email already exists",
		http.StatusConflict,
	)
	ErrEmployeeNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee number already exists in this company",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTerminationDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid termination_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrTerminationBeforeHire = apperror.New(
		apperror.CodeInvalidInput,
		"termination date cannot be before hire date",
		http.StatusBadRequest,
	)
	ErrAlreadyTerminated = apperror.New(
		apperror.CodeInvalidState,
		"employee is already terminated",
		http.StatusConflict,
	)
	ErrGosiWageRequired = apperror.New(
		apperror.CodeInvalidInput,
		"gosi_basic_wage must be greater than 0 for a GOSI eligible employee",
		http.StatusBadRequest,
	)
)
