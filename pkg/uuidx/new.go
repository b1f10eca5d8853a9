package uuidx

import "github.com/google/uuid"

// New returns a freshly generated version 7 UUID. Version 7 identifiers are
// time-ordered, which keeps task identities roughly sortable by submission
// time. It panics if the underlying generator fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns a version 7 UUID rendered in its canonical string form.
func NewString() string {
	return New().String()
}
