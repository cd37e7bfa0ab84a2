package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/crypto/pbkdf2"
)

// passwordSalt is fixed so that the digest is deterministic: hashing is
// used both to store and to verify, and password changes compare digests
// directly.
var passwordSalt = []byte("bibliogo.v1")

const (
	pbkdf2Iterations = 4096
	pbkdf2KeyLen     = 32

	minPasswordLen = 8
	// punctuation accepted by ValidateStrength
	passwordSymbols = "@$!%*?&"
)

// HashPassword returns the deterministic one-way digest of a password.
// The same input always yields the same hex output.
func HashPassword(password string) string {
	key := pbkdf2.Key([]byte(password), passwordSalt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// ValidateStrength reports whether a password is at least eight
// characters long and contains a lowercase letter, an uppercase letter,
// a digit, and a symbol from a fixed punctuation set. Pure predicate.
func ValidateStrength(password string) bool {
	if len(password) < minPasswordLen {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
