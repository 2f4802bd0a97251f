package goToken

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/MrEthical07/goToken/jwt"
)

// KeyStore supplies shared verification keys at build time.
type KeyStore interface {
	VerifyKeys(ctx context.Context, method jwt.SigningMethod) ([]jwt.VerifyKey, error)
}

// Builder assembles an Engine. A Builder can be built once.
type Builder struct {
	config    Config
	clock     Clock
	log       zerolog.Logger
	auditSink AuditSink
	keyStore  KeyStore
	ring      []jwt.VerifyKey


	built bool
}

// NewBuilder returns a Builder seeded with DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{
		config: DefaultConfig(),
		clock:  SystemClock{},
		log:    zerolog.Nop(),
	}
}

// WithConfig replaces the configuration with a private copy of cfg. A ring set
// with WithVerifyKeys takes precedence over cfg.VerifyKeys in either call order.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithClock sets the clock used for TimeDelta resolution and temporal checks.
func (b *Builder) WithClock(c Clock) *Builder {
	if c != nil {
		b.clock = c
	}
	return b
}

// WithLogger sets the structured logger. The default discards everything.
func (b *Builder) WithLogger(l zerolog.Logger) *Builder {
	b.log = l
	return b
}

// WithAuditSink sets the sink that receives audit events when Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithVerifyKeys replaces the verification ring. Keys are tried in the given order.
func (b *Builder) WithVerifyKeys(keys ...jwt.VerifyKey) *Builder {
	b.ring = cloneVerifyKeys(keys)
	return b
}

// WithKeyStore loads additional verification keys from s during Build.
func (b *Builder) WithKeyStore(s KeyStore) *Builder {
	b.keyStore = s
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the decode latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build is BuildContext with a background context.
func (b *Builder) Build() (*Engine, error) {
	return b.BuildContext(context.Background())
}

// BuildContext validates the configuration, loads key store keys once and
// returns an immutable Engine. ctx only bounds the key store read.
func (b *Builder) BuildContext(ctx context.Context) (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if b.ring != nil {
		cfg.VerifyKeys = cloneVerifyKeys(b.ring)
	}
	if cfg.Signing.Method == "" {
		cfg.Signing.Method = jwt.MethodHS256
	}
	if len(cfg.Validation.TimeClaims) == 0 {
		cfg.Validation.TimeClaims = DefaultConfig().Validation.TimeClaims
	}

	if b.keyStore != nil {
		if err := b.mergeStoreKeys(ctx, &cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := b.clock
	jm, err := jwt.NewManager(cfg.jwtConfig(clock.Now))
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:     cfg,
		manager:    jm,
		clock:      clock,
		timeClaims: trimNames(cfg.Validation.TimeClaims),
		metrics:    NewMetrics(cfg.Metrics),
		audit:      newAuditDispatcher(cfg.Audit, b.auditSink, b.log),
		log:        b.log,
	}

	b.built = true

	return engine, nil
}

func (b *Builder) mergeStoreKeys(ctx context.Context, cfg *Config) error {
	stored, err := b.keyStore.VerifyKeys(ctx, cfg.Signing.Method)
	if err != nil {
		return fmt.Errorf("load verify keys: %w", err)
	}
	if len(stored) == 0 {
		if cfg.KeyStore.Required {
			return errors.New("key store returned no verify keys")
		}
		return nil
	}

	base := cfg.VerifyKeys
	if len(base) == 0 && cfg.Signing.hasOwnKey() {
		self, err := jwt.SigningVerifyKey(cfg.jwtConfig(nil))
		if err != nil {
			return err
		}
		base = []jwt.VerifyKey{self}
	}

	seen := make(map[string]struct{}, len(base))
	for _, k := range base {
		if id := strings.TrimSpace(k.ID); id != "" {
			seen[id] = struct{}{}
		}
	}
	var fresh []jwt.VerifyKey
	for _, k := range stored {
		id := strings.TrimSpace(k.ID)
		if _, dup := seen[id]; dup && id != "" {
			continue
		}
		seen[id] = struct{}{}
		fresh = append(fresh, jwt.VerifyKey{ID: id, Material: cloneBytes(k.Material)})
	}

	if cfg.KeyStore.Prepend {
		cfg.VerifyKeys = append(fresh, base...)
	} else {
		cfg.VerifyKeys = append(base, fresh...)
	}
	b.log.Info().Int("stored", len(stored)).Int("added", len(fresh)).Int("ring", len(cfg.VerifyKeys)).Msg("verify keys loaded from key store")
	return nil
}

func (s SigningConfig) hasOwnKey() bool {
	return len(s.PrivateKey) > 0 || (s.Method == jwt.MethodEd25519 && len(s.PublicKey) > 0)
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
