package goToken

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MrEthical07/goToken/internal/wire"
	"github.com/MrEthical07/goToken/jwt"
	"github.com/MrEthical07/goToken/value"
)

// Engine signs claim maps into compact tokens and verifies them against an
// ordered key ring.
//
// Engine instances are immutable after Build and safe for concurrent use.
type Engine struct {
	config     Config
	manager    *jwt.Manager
	clock      Clock
	timeClaims []string
	metrics    *Metrics
	audit      *auditDispatcher
	log        zerolog.Logger
}

// New builds an HS256 engine whose signing key and only verification key are
// secret. Tokens must carry every name in requiredClaims.
func New(secret string, requiredClaims ...string) (*Engine, error) {
	cfg := DefaultConfig()
	cfg.Signing.PrivateKey = []byte(secret)
	cfg.Validation.RequiredClaims = requiredClaims
	return NewBuilder().WithConfig(cfg).Build()
}

// Close stops the audit dispatcher after draining queued events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped on a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// KeyIDs returns the verification key ids in trial order.
func (e *Engine) KeyIDs() []string {
	if e == nil || e.manager == nil {
		return nil
	}
	return e.manager.KeyIDs()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Encode serializes claims and signs them with the engine's signing key.
// TimeDelta claims are resolved against the engine clock. Every failure is an
// *EncodeError whose message is "invalid claims".
func (e *Engine) Encode(claims map[string]value.Value) (string, error) {
	if e == nil || e.manager == nil {
		return "", ErrEngineNotReady
	}

	payload, err := wire.Encode(claims, e.clock.Now())
	if err != nil {
		return "", e.encodeFailed(err)
	}
	if e.config.Signing.StampTokenID {
		if _, ok := payload["jti"]; !ok {
			payload["jti"] = uuid.NewString()
		}
	}

	token, err := e.manager.Sign(payload)
	if err != nil {
		return "", e.encodeFailed(fmt.Errorf("sign: %w", err))
	}

	e.metricInc(MetricEncodeSuccess)
	e.emitAudit(AuditTokenEncoded, true, e.config.Signing.KeyID, subjectOf(payload), nil, nil)
	return token, nil
}

func (e *Engine) encodeFailed(err error) error {
	e.metricInc(MetricEncodeFailure)
	e.log.Warn().Err(err).Msg("claims rejected")
	e.emitAudit(AuditTokenEncodeFailed, false, e.config.Signing.KeyID, "", err, nil)
	return newEncodeError(err)
}

// Decode verifies token against each verification key in order and returns the
// claims accepted by the first key that passes. On failure the *DecodeError
// carries the last key's error.
func (e *Engine) Decode(token string) (*TokenData, error) {
	if e == nil || e.manager == nil {
		return nil, ErrEngineNotReady
	}

	var start time.Time
	if e.metrics.LatencyEnabled() {
		start = time.Now()
		defer func() {
			e.metrics.Observe(MetricDecodeLatency, time.Since(start))
		}()
	}

	raw, attempt, err := e.manager.Parse(token)
	e.logAttempts(attempt)
	if err != nil {
		return nil, e.decodeFailed(err, attempt)
	}

	claims, err := wire.Decode(raw, e.timeClaims)
	if err != nil {
		derr := &DecodeError{
			Message: ErrNotValidToken.Error() + ": " + err.Error(),
			Err:     err,
		}
		return nil, e.decodeRejected(derr, attempt)
	}

	e.metricInc(MetricDecodeSuccess)
	if attempt.Fallback() {
		e.metricInc(MetricDecodeKeyFallback)
		e.log.Info().Int("key_index", attempt.Index).Str("key_id", attempt.KeyID).Msg("token accepted by fallback key")
		e.emitAudit(AuditTokenKeyFallback, true, attempt.KeyID, subjectOf(raw), nil, func() map[string]string {
			return map[string]string{"key_index": fmt.Sprint(attempt.Index)}
		})
	}
	e.emitAudit(AuditTokenDecoded, true, attempt.KeyID, subjectOf(raw), nil, nil)

	return newTokenData(claims), nil
}

func (e *Engine) decodeFailed(err error, attempt jwt.Attempt) error {
	derr := &DecodeError{Message: err.Error(), Err: err}

	var rerr *jwt.RotationError
	switch {
	case errors.Is(err, jwt.ErrEmptyToken):
		derr.Message = ErrNotValidToken.Error()
		derr.Err = fmt.Errorf("%w: %w", ErrNotValidToken, err)
	case errors.As(err, &rerr) && len(rerr.Failures) == 0:
		derr.Message = ErrNotValidToken.Error()
		derr.Err = fmt.Errorf("%w: %w", ErrNotValidToken, err)
	}

	for _, f := range attempt.Failures {
		derr.Attempts = append(derr.Attempts, KeyAttempt{Index: f.Index, KeyID: f.KeyID, Reason: f.Err.Error()})
	}

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		e.metricInc(MetricDecodeExpired)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		e.metricInc(MetricDecodeSignatureInvalid)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		e.metricInc(MetricDecodeMissingClaim)
	}

	return e.decodeRejected(derr, attempt)
}

func (e *Engine) decodeRejected(derr *DecodeError, attempt jwt.Attempt) error {
	e.metricInc(MetricDecodeFailure)
	e.log.Debug().Int("keys_tried", len(attempt.Failures)).Err(derr).Msg("token rejected")
	e.emitAudit(AuditTokenDecodeFailed, false, attempt.KeyID, "", derr.Err, func() map[string]string {
		return map[string]string{"keys_tried": fmt.Sprint(len(attempt.Failures))}
	})
	return derr
}

func (e *Engine) logAttempts(attempt jwt.Attempt) {
	if e.log.GetLevel() > zerolog.DebugLevel {
		return
	}
	for _, f := range attempt.Failures {
		e.log.Debug().Int("key_index", f.Index).Str("key_id", f.KeyID).Err(f.Err).Msg("verification key rejected token")
	}
}

func subjectOf(payload map[string]any) string {
	sub, _ := payload["sub"].(string)
	return sub
}
