// Package identity generates and validates record identifiers.
//
// A canonical identifier has the shape xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
// (hexadecimal, case-insensitive, y in 8..b). Only canonical identifiers are
// accepted as primary keys by the remote store; locally any string works, so
// older records may still carry timestamp-derived ids.
package identity

import (
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/google/uuid"
)

var canonical = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// namespace scopes derived identifiers.
var namespace = uuid.MustParse("5b0f7c1e-6a43-4c8e-9d61-2f3a8e4b7c90")

// newRandom is the strong source; replaced in tests.
var newRandom = uuid.NewRandom

// Generate returns a new canonical identifier. It uses crypto/rand and falls
// back to a pseudo-random source when that fails; it never returns an error.
func Generate() string {
	u, err := newRandom()
	if err != nil {
		return fallback()
	}
	return u.String()
}

func fallback() string {
	var u uuid.UUID
	for i := 0; i < len(u); i += 8 {
		v := rand.Uint64()
		for j := 0; j < 8; j++ {
			u[i+j] = byte(v >> (8 * j))
		}
	}
	u[6] = (u[6] & 0x0f) | 0x40 // version 4
	u[8] = (u[8] & 0x3f) | 0x80 // variant 10xx
	return u.String()
}

// IsCanonical reports whether id has the canonical identifier shape.
func IsCanonical(id string) bool {
	return canonical.MatchString(id)
}

// Derive returns a canonical identifier that is a pure function of parent
// and index. Legacy gallery migration uses it so repeated reads yield the
// same item ids.
func Derive(parent string, index int) string {
	u := uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s/%d", parent, index)))
	u[6] = (u[6] & 0x0f) | 0x40
	return u.String()
}

// Ensure returns id when it is canonical and a fresh identifier from newID
// otherwise. A nil newID means Generate.
func Ensure(id string, newID func() string) string {
	if IsCanonical(id) {
		return id
	}
	if newID == nil {
		return Generate()
	}
	return newID()
}
