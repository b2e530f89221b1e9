package domain

// Error codes surfaced across the API boundary, paired with the name of the
// offending field where one exists.
const (
	ErrCodeValueTooLong                  = "ValueTooLong"
	ErrCodeNotSupportedCurrency          = "NotSupportedCurrency"
	ErrCodeInvalidAmount                 = "InvalidAmount"
	ErrCodeAccountInCurrencyDoesNotExist = "AccountInCurrencyDoesNotExist"
	ErrCodeWalletDoesNotExist            = "WalletDoesNotExist"
	ErrCodeWalletAlreadyExist            = "WalletAlreadyExist"
	ErrCodeNotEnoughBalance              = "NotEnoughBalance"
	ErrCodeValueCannotBeLessOrEqualZero  = "ValueCannotBeLessOrEqualZero"
)

// OperationError is a single validation failure: an error code plus the name
// of the field it applies to. Field is empty when the error concerns the
// operation as a whole rather than a specific input.
type OperationError struct {
	Code  string `json:"errorCode"`
	Field string `json:"propertyName"`
}

// NewOperationError creates an OperationError for the given code and field.
func NewOperationError(code, field string) OperationError {
	return OperationError{Code: code, Field: field}
}

// OperationResult is the outcome of a domain operation. Validation failures
// accumulate in Errors; they are never raised as Go errors so that a single
// call can report every failing input at once.
type OperationResult struct {
	Errors []OperationError `json:"errors"`
}

// Success returns a result with no errors.
func Success() OperationResult {
	return OperationResult{}
}

// Fail returns a result carrying the given errors.
func Fail(errs ...OperationError) OperationResult {
	return OperationResult{Errors: errs}
}

// IsSuccess reports whether the operation completed without validation errors.
func (r OperationResult) IsSuccess() bool {
	return len(r.Errors) == 0
}
