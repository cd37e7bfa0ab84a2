package types

import "time"

// Loan records that a book is currently lent to a user.
// A book has at most one active loan.
type Loan struct {
	// ISBN of the loaned book.
	ISBN string `json:"isbn"`

	// UserID identifies the borrower.
	UserID string `json:"user_id"`

	// StartedAt is when the loan was created.
	StartedAt time.Time `json:"started_at"`
}

// RevokedToken marks a session token as invalidated before expiry.
type RevokedToken struct {
	// JTI is the opaque, unique identifier of the token.
	JTI string `json:"jti"`

	// RevokedAt is the UTC timestamp of the revocation.
	RevokedAt time.Time `json:"revoked_at"`
}
