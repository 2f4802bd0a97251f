package jwt

import "github.com/golang-jwt/jwt/v5"

// Verification failures from the underlying library, re-exported so callers can
// match them without importing it.
var (
	ErrTokenMalformed            = jwt.ErrTokenMalformed
	ErrTokenUnverifiable         = jwt.ErrTokenUnverifiable
	ErrTokenSignatureInvalid     = jwt.ErrTokenSignatureInvalid
	ErrTokenRequiredClaimMissing = jwt.ErrTokenRequiredClaimMissing
	ErrTokenInvalidClaims        = jwt.ErrTokenInvalidClaims
	ErrTokenExpired              = jwt.ErrTokenExpired
	ErrTokenNotValidYet          = jwt.ErrTokenNotValidYet
	ErrTokenUsedBeforeIssued     = jwt.ErrTokenUsedBeforeIssued
	ErrTokenInvalidIssuer        = jwt.ErrTokenInvalidIssuer
	ErrTokenInvalidAudience      = jwt.ErrTokenInvalidAudience
	ErrTokenInvalidSubject       = jwt.ErrTokenInvalidSubject
)
