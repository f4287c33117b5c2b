// Package orgcode generates the 6-character join codes that identify an
// organization. Codes are drawn uniformly from [A-Z0-9]; uniqueness is
// enforced by the organization_codes.org_code UNIQUE constraint, with
// the caller retrying a bounded number of times on collision.
package orgcode

import (
	"math/rand"
	"strings"
	"time"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Length of a join code. 36^6 possible codes.
	Length = 6

	// Validity is how long a freshly drawn code accepts joins.
	Validity = 30 * 24 * time.Hour

	// MaxDraws bounds the retry loop on duplicate-key collisions.
	MaxDraws = 3
)

// Generate draws a random join code.
func Generate() string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return b.String()
}

// ExpiryFrom returns the expiry timestamp for a code issued at now.
func ExpiryFrom(now time.Time) time.Time {
	return now.Add(Validity)
}

// Normalize uppercases a user-supplied code for lookup.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether a string has the shape of a join code.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
