// Package identity validates and generates task identifiers and builds the
// share links that carry them.
package identity

import (
	"regexp"

	"github.com/google/uuid"
)

var canonical = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValidID reports whether s is a canonical 8-4-4-4-12 hex identifier.
// uuid.Parse alone also accepts braced, urn: and unhyphenated forms, which
// must not reach the store.
func IsValidID(s string) bool {
	if !canonical.MatchString(s) {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// GenerateID returns a fresh random (version 4) identifier.
func GenerateID() string {
	return uuid.NewString()
}
