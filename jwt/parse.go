package jwt

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// KeyFailure records why one verification key rejected a token.
type KeyFailure struct {
	Index int
	KeyID string
	Err   error
}

// Attempt describes the outcome of a Parse call. Index is -1 when no key accepted
// the token.
type Attempt struct {
	Index    int
	KeyID    string
	Failures []KeyFailure
}

// Fallback reports whether a key other than the first one accepted the token.
func (a Attempt) Fallback() bool {
	return a.Index > 0
}

// RotationError is returned when every verification key rejected the token. Its
// message is the last key's error; Failures keeps every key's reason in order.
type RotationError struct {
	Failures []KeyFailure
}

func (e *RotationError) Error() string {
	if len(e.Failures) == 0 {
		return "no verification keys"
	}
	return e.Failures[len(e.Failures)-1].Err.Error()
}

// Unwrap returns the last key's error.
func (e *RotationError) Unwrap() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[len(e.Failures)-1].Err
}

// Parse verifies token against each verification key in order and returns the
// claims accepted by the first key that passes signature and policy checks.
func (m *Manager) Parse(token string) (jwt.MapClaims, Attempt, error) {
	attempt := Attempt{Index: -1}
	if strings.TrimSpace(token) == "" {
		return nil, attempt, ErrEmptyToken
	}

	for i, key := range m.verify {
		claims, err := m.parseWithKey(token, key)
		if err == nil {
			attempt.Index = i
			attempt.KeyID = key.id
			return claims, attempt, nil
		}
		attempt.Failures = append(attempt.Failures, KeyFailure{Index: i, KeyID: key.id, Err: err})
	}

	return nil, attempt, &RotationError{Failures: attempt.Failures}
}

func (m *Manager) parseWithKey(tokenStr string, key verifier) (jwt.MapClaims, error) {
	token, err := m.parser.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		if key.id != "" {
			if kid, _ := t.Header["kid"].(string); kid != "" && kid != key.id {
				return nil, ErrKeyIDMismatch
			}
		}
		return key.key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if err := m.checkPolicy(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Manager) checkPolicy(claims jwt.MapClaims) error {
	for _, name := range m.required {
		if _, ok := claims[name]; !ok {
			return fmt.Errorf("%w: %w: %s", jwt.ErrTokenInvalidClaims, jwt.ErrTokenRequiredClaimMissing, name)
		}
	}

	iat, err := claims.GetIssuedAt()
	if err != nil {
		return fmt.Errorf("%w: %w", jwt.ErrTokenInvalidClaims, err)
	}
	if iat != nil && m.config.MaxFutureIAT > 0 {
		maxAllowed := m.config.Now().Add(m.config.MaxFutureIAT)
		if iat.Time.After(maxAllowed) {
			return fmt.Errorf("%w: %w", jwt.ErrTokenInvalidClaims, ErrIATTooFarInFuture)
		}
	}
	return nil
}
