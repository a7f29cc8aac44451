package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func requireText(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "is required")
	}
	return limitText(field, value, maxLen)
}

func limitText(field, value string, maxLen int) error {
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		return NewValidationError(field, fmt.Sprintf("must be at most %d characters", maxLen))
	}
	return nil
}

func requireRef(field, id string) error {
	if id == "" {
		return NewValidationError(field, "is required")
	}
	return nil
}
