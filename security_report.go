package goToken

import "time"

// SecurityReport summarizes the effective signing and validation posture of an
// Engine. It never contains key material.
type SecurityReport struct {
	SigningAlgorithm  string
	Symmetric         bool
	CanSign           bool
	SigningKeyID      string
	SigningKeyBytes   int
	VerifyKeyIDs      []string
	RequiredClaims    []string
	TimeClaims        []string
	Leeway            time.Duration
	IssuerPinned      bool
	AudiencePinned    bool
	SubjectPinned     bool
	RequireIAT        bool
	MaxFutureIAT      time.Duration
	TokenIDStamping   bool
	AuditEnabled      bool
	MetricsEnabled    bool
	LatencyHistograms bool
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil || e.manager == nil {
		return SecurityReport{}
	}

	report := SecurityReport{
		SigningAlgorithm:  e.manager.Algorithm(),
		Symmetric:         e.config.Signing.Method.Symmetric(),
		CanSign:           e.manager.CanSign(),
		SigningKeyID:      e.config.Signing.KeyID,
		VerifyKeyIDs:      e.manager.KeyIDs(),
		RequiredClaims:    append([]string(nil), e.config.Validation.RequiredClaims...),
		TimeClaims:        append([]string(nil), e.timeClaims...),
		Leeway:            e.config.Validation.Leeway,
		IssuerPinned:      e.config.Validation.Issuer != "",
		AudiencePinned:    e.config.Validation.Audience != "",
		SubjectPinned:     e.config.Validation.Subject != "",
		RequireIAT:        e.config.Validation.RequireIAT,
		MaxFutureIAT:      e.config.Validation.MaxFutureIAT,
		TokenIDStamping:   e.config.Signing.StampTokenID,
		AuditEnabled:      e.config.Audit.Enabled,
		MetricsEnabled:    e.config.Metrics.Enabled,
		LatencyHistograms: e.config.Metrics.Enabled && e.config.Metrics.EnableLatencyHistograms,
	}
	if report.Symmetric {
		report.SigningKeyBytes = len(e.config.Signing.PrivateKey)
	}
	return report
}
