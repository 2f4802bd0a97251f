package goToken

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MrEthical07/goToken/jwt"
)

// LintSeverity ranks a LintWarning. Higher is worse.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("LintSeverity(%d)", int(s))
	}
}

// LintWarning is a configuration that is valid but probably not intended.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintWarnings is the result of Config.Lint.
type LintWarnings []LintWarning

// Codes returns the warning codes in order.
func (ws LintWarnings) Codes() []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Code
	}
	return out
}

// BySeverity returns warnings at or above min.
func (ws LintWarnings) BySeverity(min LintSeverity) LintWarnings {
	var out LintWarnings
	for _, w := range ws {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError joins warnings at or above min into one error, or returns nil.
func (ws LintWarnings) AsError(min LintSeverity) error {
	var errs []error
	for _, w := range ws.BySeverity(min) {
		errs = append(errs, fmt.Errorf("%s [%s]: %s", w.Code, w.Severity, w.Message))
	}
	return errors.Join(errs...)
}

const (
	minHMACKeyBytes = 16
	largeLeeway     = 30 * time.Second
)

// Lint reports settings that pass Validate but weaken verification.
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings
	add := func(code string, sev LintSeverity, msg string) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: msg})
	}

	if c.Signing.Method == jwt.MethodHS256 || c.Signing.Method == "" {
		add("signing_hs256", LintInfo, "HS256 is the weakest supported HMAC; prefer hs512 or ed25519")
	}
	if c.Signing.Method.Symmetric() {
		if n := len(c.Signing.PrivateKey); n > 0 {
			want := hmacKeyBytes(c.Signing.Method)
			switch {
			case n < minHMACKeyBytes:
				add("hmac_key_weak", LintHigh, fmt.Sprintf("HMAC key is %d bytes, below %d", n, minHMACKeyBytes))
			case n < want:
				add("hmac_key_short", LintWarn, fmt.Sprintf("HMAC key is %d bytes, shorter than the %d byte hash output", n, want))
			}
		}
	}

	if c.Validation.Leeway > largeLeeway {
		add("leeway_large", LintWarn, fmt.Sprintf("leeway %s accepts expired tokens for over %s", c.Validation.Leeway, largeLeeway))
	}
	if len(c.Validation.RequiredClaims) == 0 {
		add("no_required_claims", LintInfo, "no claims are required")
	}
	if !slices.Contains(c.Validation.RequiredClaims, "exp") {
		add("exp_not_required", LintWarn, "tokens without exp never expire")
	}
	if c.Validation.Issuer == "" {
		add("issuer_unpinned", LintInfo, "issuer is not checked")
	}

	if len(c.VerifyKeys) > 1 {
		for _, k := range c.VerifyKeys {
			if strings.TrimSpace(k.ID) == "" {
				add("verify_key_unnamed", LintWarn, "rotation ring has keys without ids; kid routing is not possible")
				break
			}
		}
	}
	if len(c.VerifyKeys) > 0 && strings.TrimSpace(c.Signing.KeyID) == "" && len(c.Signing.PrivateKey) > 0 {
		add("signing_key_not_in_ring", LintHigh, "VerifyKeys is set but Signing.KeyID is empty; issued tokens may not verify")
	}

	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo, "audit events are not emitted")
	}
	if !c.Metrics.Enabled {
		add("metrics_disabled", LintInfo, "metrics are not recorded")
	}

	return ws
}

func hmacKeyBytes(m jwt.SigningMethod) int {
	switch m {
	case jwt.MethodHS384:
		return 48
	case jwt.MethodHS512:
		return 64
	default:
		return 32
	}
}
