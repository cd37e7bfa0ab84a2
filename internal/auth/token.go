package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL bounds the natural lifetime of a session token.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the parsed identity carried by a session token.
type Claims struct {
	// Subject is the user identifier embedded at issuance.
	Subject string

	// JTI is the opaque token identifier used for revocation.
	JTI string
}

// IssueToken signs an HS256 session token for the given subject. The
// token carries a fresh unique JTI so it can be revoked individually.
func IssueToken(subject string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies a session token and returns its claims.
func ParseToken(tokenString string, secret []byte) (Claims, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, errors.New("missing subject")
	}
	if strings.TrimSpace(claims.ID) == "" {
		return Claims{}, errors.New("missing token id")
	}
	return Claims{Subject: claims.Subject, JTI: claims.ID}, nil
}
