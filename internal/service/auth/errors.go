package auth

import "errors"

// Common authentication errors
var (
	// ErrInvalidCredentials indicates an unknown login name or a wrong password.
	// Callers must not reveal which of the two it was.
	ErrInvalidCredentials = errors.New("invalid login name or password")

	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid session token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("session token has expired")

	// ErrWrongTokenType indicates a validly signed token issued for another purpose
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("session token is missing")
)
