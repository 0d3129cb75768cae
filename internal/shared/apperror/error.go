package apperror

import "fmt"

type AppError struct {
	Code       string // stable machine-readable code (e.g. INVALID_INPUT)
	Message    string // user-facing message naming the violated invariant
	HTTPStatus int
	Details    any   // optional structured payload (e.g. list of offending fields)
	Err        error // wrapped original error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets sentinel AppErrors survive WithDetails copies: two AppErrors with the
// same code and message are considered the same error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// WithDetails returns a copy of the error carrying a structured payload, so the
// caller can fix every reported issue in one pass.
func (e *AppError) WithDetails(details any) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}
