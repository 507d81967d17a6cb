package util

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewULID returns a lexicographically sortable id for attempts and messages.
// ulid.Make draws from a process-wide monotonic entropy source and is safe
// for concurrent use.
func NewULID() string {
	return ulid.Make().String()
}

// IsValidULID reports whether s parses as a ULID.
func IsValidULID(s string) bool {
	if len(s) != ulid.EncodedSize {
		return false
	}
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// NewChunkID returns a random UUID for a content chunk.
func NewChunkID() string {
	return uuid.NewString()
}
