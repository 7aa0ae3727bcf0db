// Package errors defines the domain errors raised by shelfstack. These are
// distinct from infrastructure errors, which are always propagated unchanged.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrUserDNE indicates that a process attempted to interact with a user
	// that does not exist.
	ErrUserDNE = errors.New("user dne")

	// ErrProductDNE indicates that a process attempted to interact with a
	// product that does not exist.
	ErrProductDNE = errors.New("product dne")

	// ErrUserProductDNE indicates that a process attempted to interact with a
	// user-product association that does not exist.
	ErrUserProductDNE = errors.New("user product dne")

	// ErrTodoDNE indicates that a process attempted to interact with a todo
	// that does not exist.
	ErrTodoDNE = errors.New("todo dne")

	// ErrEmailAlreadyInUse indicates that a client attempted to create a user
	// with an email address already being used.
	ErrEmailAlreadyInUse = errors.New("email already in-use")

	// ErrInvalidCredentials indicates a failed login or current-password check.
	// Unknown emails and wrong passwords deliberately surface the same error so
	// that responses do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AsEmailError checks to see if the passed error is of type EmailError.
func AsEmailError(err error) *EmailError {
	emailErr := new(EmailError)
	if errors.As(err, emailErr) {
		return emailErr
	}
	return nil
}

type EmailError string

func (e EmailError) Error() string {
	return fmt.Sprintf("email invalid; %s", string(e))
}

// AsPasswordError checks to see if the passed error is of type PasswordError.
func AsPasswordError(err error) *PasswordError {
	passwordErr := new(PasswordError)
	if errors.As(err, passwordErr) {
		return passwordErr
	}
	return nil
}

type PasswordError string

func (e PasswordError) Error() string {
	return fmt.Sprintf("password invalid; %s", string(e))
}

// AsValidationError checks to see if the passed error is of type
// ValidationError.
func AsValidationError(err error) *ValidationError {
	validationErr := new(ValidationError)
	if errors.As(err, validationErr) {
		return validationErr
	}
	return nil
}

// ValidationError reports a malformed input field other than email/password.
type ValidationError string

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid input; %s", string(e))
}
