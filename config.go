package goToken

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goToken/internal/wire"
	"github.com/MrEthical07/goToken/jwt"
)

// Config defines the complete engine configuration.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Signing    SigningConfig
	VerifyKeys []jwt.VerifyKey
	Validation ValidationConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
	KeyStore   KeyStoreConfig
}

/*
====================================
SIGNING CONFIG
====================================
*/

// SigningConfig selects the algorithm and signing key.
//
// SigningConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningConfig struct {
	Method     jwt.SigningMethod // "hs256" (default), "hs384", "hs512", "ed25519"
	PrivateKey []byte
	PublicKey  []byte
	KeyID      string
	// StampTokenID adds a random "jti" claim when the caller did not supply one.
	StampTokenID bool
}

/*
====================================
VALIDATION CONFIG
====================================
*/

// ValidationConfig is the policy applied to every decoded token. Expiry and
// not-before are always checked when present.
//
// ValidationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ValidationConfig struct {
	RequiredClaims []string
	Leeway         time.Duration
	Issuer         string
	Audience       string
	Subject        string
	RequireIAT     bool
	// MaxFutureIAT bounds how far iat may lie ahead of the clock. Zero disables
	// the check.
	MaxFutureIAT time.Duration
	// TimeClaims are top-level claims decoded as DateTime.
	TimeClaims []string
}

/*
====================================
AUDIT / METRICS / KEYSTORE
====================================
*/

// AuditConfig controls asynchronous audit event dispatch. Encode and Decode never
// wait on the audit queue: when it is full the event is dropped and counted in
// Engine.AuditDropped.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// WarnOnDrop logs dropped events at warn level, throttled to powers of two.
	WarnOnDrop bool
}

// MetricsConfig controls in-process counters and the decode latency histogram.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// KeyStoreConfig controls how keys loaded from a KeyStore join the ring.
type KeyStoreConfig struct {
	// Prepend places store keys before VerifyKeys instead of after them.
	Prepend bool
	// Required fails Build when the store returns no keys.
	Required bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration: HS256, 60s leeway, no
// required claims, audit and metrics off. A signing key must still be supplied.
func DefaultConfig() Config {
	return Config{
		Signing: SigningConfig{
			Method: jwt.MethodHS256,
		},
		Validation: ValidationConfig{
			Leeway:       60 * time.Second,
			MaxFutureIAT: 10 * time.Minute,
			TimeClaims:   append([]string(nil), wire.DefaultTimeClaims...),
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			WarnOnDrop: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// HighSecurityConfig tightens DefaultConfig: HS512, short leeway, exp required,
// iat checked, audit and metrics on.
func HighSecurityConfig() Config {
	cfg := DefaultConfig()
	cfg.Signing.Method = jwt.MethodHS512
	cfg.Signing.StampTokenID = true
	cfg.Validation.Leeway = 5 * time.Second
	cfg.Validation.RequiredClaims = []string{"exp", "iat"}
	cfg.Validation.RequireIAT = true
	cfg.Validation.MaxFutureIAT = time.Minute
	cfg.Audit.Enabled = true
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Signing.PrivateKey = cloneBytes(cfg.Signing.PrivateKey)
	out.Signing.PublicKey = cloneBytes(cfg.Signing.PublicKey)
	out.VerifyKeys = cloneVerifyKeys(cfg.VerifyKeys)
	out.Validation.RequiredClaims = append([]string(nil), cfg.Validation.RequiredClaims...)
	out.Validation.TimeClaims = append([]string(nil), cfg.Validation.TimeClaims...)
	return out
}

func cloneVerifyKeys(keys []jwt.VerifyKey) []jwt.VerifyKey {
	if len(keys) == 0 {
		return nil
	}
	out := make([]jwt.VerifyKey, len(keys))
	for i, k := range keys {
		out[i] = jwt.VerifyKey{ID: k.ID, Material: cloneBytes(k.Material)}
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks structural consistency. Key material is parsed later by
// jwt.NewManager during Build.
func (c *Config) Validate() error {
	switch c.Signing.Method {
	case jwt.MethodHS256, jwt.MethodHS384, jwt.MethodHS512:
		if len(c.Signing.PrivateKey) == 0 {
			return errors.New("HMAC signing requires PrivateKey")
		}
	case jwt.MethodEd25519:
		if len(c.Signing.PrivateKey) == 0 && len(c.Signing.PublicKey) == 0 && len(c.VerifyKeys) == 0 {
			return errors.New("ed25519 requires PrivateKey, PublicKey or VerifyKeys")
		}
	default:
		return errors.New("unsupported signing method")
	}

	if c.Validation.Leeway < 0 || c.Validation.Leeway > 2*time.Minute {
		return errors.New("Validation Leeway must be between 0 and 2m")
	}
	if c.Validation.MaxFutureIAT < 0 || c.Validation.MaxFutureIAT > 24*time.Hour {
		return errors.New("Validation MaxFutureIAT must be between 0 and 24h")
	}
	if blankButSet(c.Validation.Issuer) || blankButSet(c.Validation.Audience) || blankButSet(c.Validation.Subject) {
		return errors.New("Validation Issuer, Audience and Subject must not be blank when set")
	}
	for _, name := range c.Validation.RequiredClaims {
		if strings.TrimSpace(name) == "" {
			return errors.New("Validation RequiredClaims contains an empty name")
		}
	}
	for _, name := range c.Validation.TimeClaims {
		if strings.TrimSpace(name) == "" {
			return errors.New("Validation TimeClaims contains an empty name")
		}
	}

	for _, k := range c.VerifyKeys {
		if len(k.Material) == 0 {
			return errors.New("VerifyKeys entry has empty material")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}

func (c *Config) jwtConfig(now func() time.Time) jwt.Config {
	return jwt.Config{
		SigningMethod:  c.Signing.Method,
		PrivateKey:     c.Signing.PrivateKey,
		PublicKey:      c.Signing.PublicKey,
		KeyID:          c.Signing.KeyID,
		VerifyKeys:     c.VerifyKeys,
		Leeway:         c.Validation.Leeway,
		RequiredClaims: c.Validation.RequiredClaims,
		Issuer:         c.Validation.Issuer,
		Audience:       c.Validation.Audience,
		Subject:        c.Validation.Subject,
		RequireIAT:     c.Validation.RequireIAT,
		MaxFutureIAT:   c.Validation.MaxFutureIAT,
		Now:            now,
	}
}

func blankButSet(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}
