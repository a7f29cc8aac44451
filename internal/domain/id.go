package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

// ParseID validates an identifier received from a client and returns its canonical form.
func ParseID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id.String(), nil
}
