package apperrors

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyQuestion    = errors.New("question is empty")
	ErrAskInFlight      = errors.New("an exchange is already in flight")
)
