// Package uuid generates the time-ordered identifiers attached to requests.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a UUIDv7. If the generator fails, a random UUIDv4 is returned
// instead.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid reports whether s is a well-formed UUID of any version.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
