package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the JWS algorithm used for signing and expected when verifying.
type SigningMethod string

const (
	// MethodHS256 signs with HMAC-SHA256. It is the default.
	MethodHS256 SigningMethod = "hs256"
	// MethodHS384 signs with HMAC-SHA384.
	MethodHS384 SigningMethod = "hs384"
	// MethodHS512 signs with HMAC-SHA512.
	MethodHS512 SigningMethod = "hs512"
	// MethodEd25519 signs with EdDSA over Ed25519.
	MethodEd25519 SigningMethod = "ed25519"
)

// Symmetric reports whether m is an HMAC method.
func (m SigningMethod) Symmetric() bool {
	switch m {
	case MethodHS256, MethodHS384, MethodHS512:
		return true
	default:
		return false
	}
}

// VerifyKey is one entry of the verification key ring. Material is the HMAC secret
// for symmetric methods or an Ed25519 public key (raw or PEM).
type VerifyKey struct {
	ID       string
	Material []byte
}

// Config defines the signing key, the verification ring and the validation policy.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	SigningMethod SigningMethod
	// PrivateKey is the HMAC secret or the Ed25519 private key. It may be empty for
	// Ed25519 managers that only verify.
	PrivateKey []byte
	// PublicKey is the Ed25519 public key paired with PrivateKey.
	PublicKey []byte
	// KeyID is stamped into the "kid" header of signed tokens when set.
	KeyID string
	// VerifyKeys is tried in order; newest key first by convention. When empty the
	// signing key's own verification material is used.
	VerifyKeys []VerifyKey

	Leeway         time.Duration
	RequiredClaims []string
	Issuer         string
	Audience       string
	Subject        string
	RequireIAT     bool
	// MaxFutureIAT bounds how far iat may lie ahead of Now. Zero disables the check.
	MaxFutureIAT time.Duration

	// Now is the verification clock. Defaults to time.Now.
	Now func() time.Time
}

var (
	// ErrEmptyToken is returned by Parse before any key is attempted.
	ErrEmptyToken = errors.New("empty token")
	// ErrNoSigningKey is returned by Sign on verify-only managers.
	ErrNoSigningKey = errors.New("no signing key configured")
	// ErrKeyIDMismatch is returned for a key whose id differs from the token's kid.
	ErrKeyIDMismatch = errors.New("token kid does not match key")
	// ErrIATTooFarInFuture is returned when iat exceeds now plus MaxFutureIAT.
	ErrIATTooFarInFuture = errors.New("token iat too far in the future")
)

type verifier struct {
	id  string
	key any
}

// Manager signs and verifies tokens for one configuration.
//
// Manager instances are immutable and safe for concurrent use.
type Manager struct {
	config   Config
	method   jwt.SigningMethod
	signKey  any
	verify   []verifier
	required []string
	parser   *jwt.Parser
}

// NewManager validates cfg and prepares keys and the parser.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.MaxFutureIAT < 0 || cfg.MaxFutureIAT > 24*time.Hour {
		return nil, errors.New("invalid MaxFutureIAT configuration")
	}
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodHS256
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)

	m := &Manager{config: cfg}

	switch cfg.SigningMethod {
	case MethodHS256, MethodHS384, MethodHS512:
		if len(cfg.PrivateKey) == 0 {
			return nil, fmt.Errorf("%s requires private key", cfg.SigningMethod)
		}
		m.signKey = cfg.PrivateKey
	case MethodEd25519:
		if len(cfg.PrivateKey) > 0 {
			priv, err := parseEdPrivateKey(cfg.PrivateKey)
			if err != nil {
				return nil, err
			}
			m.signKey = priv
			if len(cfg.PublicKey) == 0 {
				cfg.PublicKey = priv.Public().(ed25519.PublicKey)
			}
		}
		if len(cfg.PublicKey) > 0 {
			if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
				return nil, err
			}
		}
		if len(cfg.VerifyKeys) == 0 && len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key or verify key set")
		}
	default:
		return nil, errors.New("unsupported signing method")
	}
	m.method = methodFor(cfg.SigningMethod)

	keys := cfg.VerifyKeys
	if len(keys) == 0 {
		material := cfg.PrivateKey
		if cfg.SigningMethod == MethodEd25519 {
			material = cfg.PublicKey
		}
		keys = []VerifyKey{{ID: cfg.KeyID, Material: material}}
	}
	seen := make(map[string]struct{}, len(keys))
	for i, k := range keys {
		id := strings.TrimSpace(k.ID)
		if id != "" {
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("duplicate verify key id %q", id)
			}
			seen[id] = struct{}{}
		}
		key, err := m.verifyKeyFromBytes(k.Material)
		if err != nil {
			return nil, fmt.Errorf("invalid verify key %d (%q): %w", i, id, err)
		}
		m.verify = append(m.verify, verifier{id: id, key: key})
	}
	if cfg.KeyID != "" && len(cfg.VerifyKeys) > 0 {
		if _, ok := seen[cfg.KeyID]; !ok {
			return nil, errors.New("KeyID is not present in VerifyKeys")
		}
	}

	for _, name := range cfg.RequiredClaims {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New("required claim name is empty")
		}
		m.required = append(m.required, name)
	}

	m.config = cfg
	m.parser = jwt.NewParser(m.parserOptions()...)
	return m, nil
}

func (m *Manager) parserOptions() []jwt.ParserOption {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithJSONNumber(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(m.config.Now),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.RequireIAT {
		options = append(options, jwt.WithIssuedAt())
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}
	if m.config.Subject != "" {
		options = append(options, jwt.WithSubject(m.config.Subject))
	}
	return options
}

// SigningVerifyKey returns the verification entry matching cfg's own signing
// key: the HMAC secret, or the Ed25519 public key (derived from PrivateKey when
// PublicKey is unset).
func SigningVerifyKey(cfg Config) (VerifyKey, error) {
	id := strings.TrimSpace(cfg.KeyID)
	switch cfg.SigningMethod {
	case "", MethodHS256, MethodHS384, MethodHS512:
		if len(cfg.PrivateKey) == 0 {
			return VerifyKey{}, errors.New("hmac signing key is empty")
		}
		return VerifyKey{ID: id, Material: cfg.PrivateKey}, nil
	case MethodEd25519:
		if len(cfg.PublicKey) > 0 {
			return VerifyKey{ID: id, Material: cfg.PublicKey}, nil
		}
		if len(cfg.PrivateKey) == 0 {
			return VerifyKey{}, errors.New("ed25519 signing key is empty")
		}
		priv, err := parseEdPrivateKey(cfg.PrivateKey)
		if err != nil {
			return VerifyKey{}, err
		}
		return VerifyKey{ID: id, Material: priv.Public().(ed25519.PublicKey)}, nil
	default:
		return VerifyKey{}, errors.New("unsupported signing method")
	}
}

// Sign produces a compact token for payload with the configured method and key.
func (m *Manager) Sign(payload map[string]any) (string, error) {
	if m.signKey == nil {
		return "", ErrNoSigningKey
	}
	token := jwt.NewWithClaims(m.method, jwt.MapClaims(payload))
	if m.config.KeyID != "" {
		token.Header["kid"] = m.config.KeyID
	}
	return token.SignedString(m.signKey)
}

// Algorithm returns the JWS "alg" value used by this manager.
func (m *Manager) Algorithm() string {
	return m.method.Alg()
}

// Method returns the configured signing method.
func (m *Manager) Method() SigningMethod {
	return m.config.SigningMethod
}

// KeyIDs returns the verification key ids in trial order. Unnamed keys are "".
func (m *Manager) KeyIDs() []string {
	out := make([]string, len(m.verify))
	for i, v := range m.verify {
		out[i] = v.id
	}
	return out
}

// CanSign reports whether a signing key is configured.
func (m *Manager) CanSign() bool {
	return m.signKey != nil
}

func methodFor(method SigningMethod) jwt.SigningMethod {
	switch method {
	case MethodHS384:
		return jwt.SigningMethodHS384
	case MethodHS512:
		return jwt.SigningMethodHS512
	case MethodEd25519:
		return jwt.SigningMethodEdDSA
	default:
		return jwt.SigningMethodHS256
	}
}

func (m *Manager) verifyKeyFromBytes(key []byte) (any, error) {
	if m.config.SigningMethod.Symmetric() {
		if len(key) == 0 {
			return nil, errors.New("empty hmac key")
		}
		return key, nil
	}
	return parseEdPublicKey(key)
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
