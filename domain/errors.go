package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")
	// ErrUnauthorized will throw if the actor is not permitted to perform the action
	ErrUnauthorized = errors.New("Not permitted")
	// ErrInvalidState will throw if the operation is not valid for the entity's current status
	ErrInvalidState = errors.New("Operation not valid for current status")
	// ErrBidRejected is the target for all bid validation rejections
	ErrBidRejected = errors.New("Bid rejected")
	// ErrExternalExecution will throw if the on-chain executor failed
	ErrExternalExecution = errors.New("External execution failed")

	ErrInvalidAddress = errors.New("Invalid address")
)

// ValidationError names the violated rule of a create/purchase request. It
// unwraps to ErrBadParamInput so callers can classify it without matching
// rule strings.
type ValidationError struct {
	Rule string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return ErrBadParamInput
}

func Validation(rule string) error {
	return &ValidationError{Rule: rule}
}

// BidRejectedError carries the reason a bid was turned down. Unwraps to
// ErrBidRejected.
type BidRejectedError struct {
	Reason string
}

func (e *BidRejectedError) Error() string {
	return fmt.Sprintf("bid rejected: %s", e.Reason)
}

func (e *BidRejectedError) Unwrap() error {
	return ErrBidRejected
}

func BidRejected(reason string) error {
	return &BidRejectedError{Reason: reason}
}
