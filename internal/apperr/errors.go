// Package apperr defines the error taxonomy shared by every service.
// Services return these sentinels; handlers translate them to HTTP
// statuses with Status and never leak store internals to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound means a lookup returned no row where one was expected,
	// e.g. a join code that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired means an organization code is past its expiry window.
	ErrExpired = errors.New("organization code has expired")

	// ErrAlreadyCheckedOut means a check-out was attempted on a record
	// already in its terminal state for the day.
	ErrAlreadyCheckedOut = errors.New("already checked out")

	// ErrAlreadyCheckedIn means a second check-in was attempted for the
	// same employee and day.
	ErrAlreadyCheckedIn = errors.New("already checked in today")

	// ErrStore wraps any backend failure not otherwise classified.
	ErrStore = errors.New("storage error")
)

// Store classifies a backend failure under ErrStore while keeping the
// cause in the message for logging. Message hides it from clients.
func Store(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}

// Status maps an error to the HTTP status the handlers respond with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrExpired):
		return http.StatusGone
	case errors.Is(err, ErrAlreadyCheckedOut), errors.Is(err, ErrAlreadyCheckedIn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing text for an error. Store failures get
// a generic message; taxonomy errors are safe to show as-is.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "something went wrong, please try again"
	}
	return err.Error()
}
