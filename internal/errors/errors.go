// Package errors provides custom error types for the Osaifill API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Ledger lookup errors.
var (
	ErrDatasetNotFound  = &AppError{Code: "UNKNOWN_DATASET", Message: "Dataset not found", StatusCode: http.StatusNotFound}
	ErrBudgetNotFound   = &AppError{Code: "UNKNOWN_BUDGET", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrPurchaseNotFound = &AppError{Code: "UNKNOWN_PURCHASE", Message: "Purchase not found", StatusCode: http.StatusNotFound}
	ErrMemberNotFound   = &AppError{Code: "UNKNOWN_MEMBER", Message: "Member not found", StatusCode: http.StatusNotFound}
	ErrExpenseNotFound  = &AppError{Code: "UNKNOWN_EXPENSE", Message: "Actual expense not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrDuplicateBudgetID  = &AppError{Code: "VALIDATION_ERROR", Message: "A budget with this id already exists", StatusCode: http.StatusConflict}
	ErrInvalidMergeTarget = &AppError{Code: "INVALID_MERGE_TARGET", Message: "Budgets cannot be merged into themselves or across datasets", StatusCode: http.StatusBadRequest}
)

// Allocation errors.
var (
	ErrUnknownAllocationBudget = &AppError{Code: "UNKNOWN_BUDGET", Message: "Allocation references a budget outside this dataset", StatusCode: http.StatusBadRequest}
	ErrDuplicateAllocation     = &AppError{Code: "VALIDATION_ERROR", Message: "A purchase cannot allocate to the same budget twice", StatusCode: http.StatusBadRequest}
)

// Import/export errors.
var (
	ErrImportMappingNotFound = &AppError{Code: "IMPORT_MAPPING_NOT_FOUND", Message: "No import mapping saved for this scope", StatusCode: http.StatusBadRequest}
	ErrImportFormat          = &AppError{Code: "IMPORT_FORMAT_ERROR", Message: "Import file does not match the saved column mapping", StatusCode: http.StatusBadRequest}
)
