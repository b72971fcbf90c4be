package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the ledger. Mutating operations either succeed or
// return one of these with the ledger left untouched; the HTTP layer maps
// them to status codes in handlers.RespondDomainError.

type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	if e.ID != "" {
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// SeatsExhaustedError is returned when a seat hold loses the race for the
// last available seat. The seat count is left untouched.
type SeatsExhaustedError struct {
	RouteID string
}

func (e SeatsExhaustedError) Error() string {
	return fmt.Sprintf("route %s has no seats left", e.RouteID)
}

// NotBookableError is returned when a booking is attempted against a route
// that is full, cancelled or completed.
type NotBookableError struct {
	RouteID string
	Status  string
}

func (e NotBookableError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("route %s is not bookable (status %s)", e.RouteID, e.Status)
	}
	return fmt.Sprintf("route %s is not bookable", e.RouteID)
}

// AlreadyRequestedError rejects a duplicate seat claim from the same buddy
// while an earlier one is still active.
type AlreadyRequestedError struct {
	RouteID string
	BuddyID string
}

func (e AlreadyRequestedError) Error() string {
	return fmt.Sprintf("buddy %s already has an active booking on route %s", e.BuddyID, e.RouteID)
}

// ForbiddenError is returned when the acting user is not the rider/buddy
// authorized for the attempted transition.
type ForbiddenError struct {
	Action string
	UserID string
}

func (e ForbiddenError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("user %s may not %s", e.UserID, e.Action)
	}
	return fmt.Sprintf("user %s is not allowed", e.UserID)
}

// InvalidStateError is returned when a transition is attempted from a
// terminal or incompatible state.
type InvalidStateError struct {
	Resource string
	From     string
	To       string
}

func (e InvalidStateError) Error() string {
	if e.To != "" {
		return fmt.Sprintf("%s cannot move from %s to %s", e.Resource, e.From, e.To)
	}
	return fmt.Sprintf("%s is in state %s and cannot change", e.Resource, e.From)
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsSeatsExhausted(err error) bool {
	var target SeatsExhaustedError
	return errors.As(err, &target)
}

func IsNotBookable(err error) bool {
	var target NotBookableError
	return errors.As(err, &target)
}

func IsAlreadyRequested(err error) bool {
	var target AlreadyRequestedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
