package goToken

import (
	"errors"

	"github.com/MrEthical07/goToken/internal/wire"
	"github.com/MrEthical07/goToken/jwt"
)

// AuditErrorCode is the coarse failure class recorded in AuditEvent.Error.
// Raw error text is never audited.
type AuditErrorCode string

const (
	auditErrNotValidToken    AuditErrorCode = "not_valid_token"
	auditErrMalformed        AuditErrorCode = "malformed"
	auditErrExpired          AuditErrorCode = "expired"
	auditErrNotYetValid      AuditErrorCode = "not_yet_valid"
	auditErrSignatureInvalid AuditErrorCode = "signature_invalid"
	auditErrKeyMismatch      AuditErrorCode = "key_mismatch"
	auditErrMissingClaim     AuditErrorCode = "missing_claim"
	auditErrInvalidClaims    AuditErrorCode = "invalid_claims"
	auditErrUnsupportedValue AuditErrorCode = "unsupported_value"
	auditErrSigningFailed    AuditErrorCode = "signing_failed"
	auditErrInternal         AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	eventType string,
	success bool,
	keyID string,
	subject string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: e.clock.Now().UTC(),
		EventType: eventType,
		KeyID:     keyID,
		Subject:   subject,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrNotValidToken):
		return auditErrNotValidToken
	case errors.Is(err, jwt.ErrTokenMalformed):
		return auditErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return auditErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return auditErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return auditErrSignatureInvalid
	case errors.Is(err, jwt.ErrKeyIDMismatch):
		return auditErrKeyMismatch
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return auditErrMissingClaim
	case errors.Is(err, wire.ErrNonFinite),
		errors.Is(err, wire.ErrNilValue),
		errors.Is(err, wire.ErrUnsupportedWire),
		errors.Is(err, wire.ErrInvalidNumber):
		return auditErrUnsupportedValue
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return auditErrInvalidClaims
	case errors.Is(err, jwt.ErrNoSigningKey):
		return auditErrSigningFailed
	default:
		return auditErrInternal
	}
}
