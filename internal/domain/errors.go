package domain

import (
	"errors"
	"fmt"
)

// Stable machine-readable reasons surfaced on business-rule rejections.
const (
	ReasonRouteNotFound    = "route_not_found"
	ReasonRouteInactive    = "route_inactive"
	ReasonDayNotAvailable  = "day_not_available"
	ReasonDateClosed       = "date_closed"
	ReasonPromoInvalid     = "promo_invalid"
	ReasonPromoExpired     = "promo_expired"
	ReasonPromoExhausted   = "promo_exhausted"
	ReasonAlreadyProcessed = "booking_already_processed"
	ReasonNotConfirmed     = "booking_not_confirmed"
	ReasonTicketUsed       = "ticket_already_used"
	ReasonTicketExpired    = "ticket_expired"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
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

// BusinessError is a rule rejection: the input was well-formed but the
// operation is not permitted. Reason is one of the constants above and
// Detail optionally carries context for the client (e.g. allowed days).
type BusinessError struct {
	Reason string
	Msg    string
	Detail any
}

func (e BusinessError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Reason
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

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

func IsBusiness(err error) bool {
	var target BusinessError
	return errors.As(err, &target)
}

// BusinessReason extracts the machine-readable reason, or "" when the
// error is not a business rejection.
func BusinessReason(err error) string {
	var target BusinessError
	if errors.As(err, &target) {
		return target.Reason
	}
	return ""
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
