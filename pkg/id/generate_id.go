package id

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random (v4) UUID as exactly 32 lowercase hex characters.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether s looks like an ID produced by NewID32.
func Valid(s string) bool { return reHex32.MatchString(s) }
