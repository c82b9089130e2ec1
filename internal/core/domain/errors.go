package domain

import "errors"

var (
	// ErrCredentialInvalid covers both an unknown email and a wrong password
	// so the caller cannot tell which one failed.
	ErrCredentialInvalid = errors.New("invalid credentials")

	// ErrAuthorizationDenied is returned when a route policy or an ownership
	// check fails. For comments it also stands in for "not found".
	ErrAuthorizationDenied = errors.New("access forbidden")

	// ErrTooManyAttempts is returned while an email is locked out after
	// repeated failed logins.
	ErrTooManyAttempts = errors.New("too many failed login attempts")

	ErrAccountNotFound        = errors.New("account not found")
	ErrEmailExists            = errors.New("email already exists")
	ErrCommentNotFound        = errors.New("comment not found")
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrClassificationNotFound = errors.New("classification not found")
	ErrClassificationExists   = errors.New("classification already exists")

	// ErrUnknownRole marks a stored account whose account_type is not one
	// of the known roles. Such a row cannot sign in.
	ErrUnknownRole = errors.New("stored account has an unknown role")
)
