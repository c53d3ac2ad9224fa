package domain

import "errors"

// Sentinel errors for the whole module. Repositories return the most
// specific one they can determine; the HTTP layer maps them to status
// codes with errors.Is.
var (
	// ErrValidation marks bad input shape or range. Maps to 400.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks an absent entity. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrIntegrity marks a data-consistency failure, such as an order
	// item referencing a missing product. Maps to 500.
	ErrIntegrity = errors.New("integrity error")

	// ErrExternalService marks an embedding or LLM provider failure.
	ErrExternalService = errors.New("external service error")
)
