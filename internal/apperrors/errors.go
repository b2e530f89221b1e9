package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrRatesUnavailable indicates that no exchange rate table could be found
// within the lookback window. This is an operational-data failure, not a
// validation error, and callers surface it as service-unavailable.
var ErrRatesUnavailable = errors.New("exchange rates unavailable")
