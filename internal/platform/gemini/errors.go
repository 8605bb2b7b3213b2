package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptySubject is returned when a request carries no subject digest.
	ErrEmptySubject = errors.New("request subject cannot be empty")

	// ErrUnknownCredential is returned when a request names a credential the
	// generator has no client for.
	ErrUnknownCredential = errors.New("no client for credential")
)
