package goToken

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidClaims is the message carried by every EncodeError.
	ErrInvalidClaims = errors.New("invalid claims")
	// ErrNotValidToken is reported when decode fails before any key was attempted.
	ErrNotValidToken = errors.New("not valid token")
	// ErrMissingClaim is matched by MissingClaimError.
	ErrMissingClaim = errors.New("missing claim")
	// ErrKindMismatch is returned by typed TokenData accessors.
	ErrKindMismatch = errors.New("claim kind mismatch")
	// ErrEngineNotReady is returned when a nil or unbuilt Engine is used.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrBuilderUsed is returned when Build is called twice on one Builder.
	ErrBuilderUsed = errors.New("builder already used")
)

// EncodeError is returned by Engine.Encode. Message is always "invalid claims";
// Err holds the conversion or signing failure.
type EncodeError struct {
	Message string
	Err     error
}

func (e *EncodeError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *EncodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidClaims}
	}
	return []error{ErrInvalidClaims, e.Err}
}

func newEncodeError(err error) *EncodeError {
	return &EncodeError{Message: ErrInvalidClaims.Error(), Err: err}
}

// KeyAttempt is one verification key's failure during Decode.
type KeyAttempt struct {
	Index  int
	KeyID  string
	Reason string
}

// DecodeError is returned by Engine.Decode. Message is the last attempted key's
// error text, or "not valid token" when no key was attempted. Attempts lists every
// key's failure in trial order.
type DecodeError struct {
	Message  string
	Err      error
	Attempts []KeyAttempt
}

func (e *DecodeError) Error() string {
	return e.Message
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MissingClaimError is returned by TokenData.Get for an absent claim.
type MissingClaimError struct {
	Name string
}

func (e *MissingClaimError) Error() string {
	return fmt.Sprintf("missing claim %q", e.Name)
}

func (e *MissingClaimError) Is(target error) bool {
	return target == ErrMissingClaim
}
