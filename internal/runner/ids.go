package runner

import "github.com/google/uuid"

// IDGenerator produces run identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random (version 4) UUID run ids.
//
// Format: "550e8400-e29b-41d4-a716-446655440000" (36 characters).
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns a new random UUID as a hyphenated string.
// Panics if the system random source fails.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}
