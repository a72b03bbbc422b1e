package auth

import "pageforge/internal/domain/models"

// JWTVerifier checks bearer tokens on the builder API. The middleware
// only sees this interface, so the JWKS-backed implementation can be
// swapped out in tests.
type JWTVerifier interface {
	// VerifyToken parses and validates a JWT and returns its claims.
	// Invalid, expired, or wrongly signed tokens return an error.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close stops background JWKS refreshes.
	Close() error
}
