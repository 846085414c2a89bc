package utils

import (
	"fmt"
	"net/mail"

	"github.com/google/uuid"
)

// ToString renders any value as a string
func ToString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// ToUUID parses a string into a UUID, returning uuid.Nil on failure
func ToUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// IsValidEmail reports whether s is a syntactically valid email address
func IsValidEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}
