package goToken

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/MrEthical07/goToken/jwt"
)

// EnvPrefix prefixes environment overrides, e.g. GOTOKEN_SIGNING_PRIVATE_KEY.
const EnvPrefix = "GOTOKEN"

const base64Prefix = "base64:"

type fileVerifyKey struct {
	ID       string `mapstructure:"id"`
	Material string `mapstructure:"material"`
}

// LoadConfig reads a config file (type from its extension) on top of
// DefaultConfig, applies GOTOKEN_ environment overrides and validates the result.
// Key material may be raw text or "base64:"-prefixed.
func LoadConfig(pathFile string) (Config, error) {
	v := newConfigViper()

	filename := filepath.Base(pathFile)
	v.AddConfigPath(filepath.Dir(pathFile))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if ext := strings.TrimPrefix(filepath.Ext(filename), "."); ext != "" {
		v.SetConfigType(ext)
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", pathFile, err)
	}
	return configFromViper(v)
}

// LoadConfigFromBytes is LoadConfig for in-memory data. configType is a viper
// format such as "yaml", "json" or "toml".
func LoadConfigFromBytes(configType string, data []byte) (Config, error) {
	if strings.TrimSpace(configType) == "" {
		return Config{}, errors.New("config type is required")
	}

	v := newConfigViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return configFromViper(v)
}

func newConfigViper() *viper.Viper {
	def := DefaultConfig()
	v := viper.New()

	v.SetDefault("signing.method", string(def.Signing.Method))
	v.SetDefault("signing.private_key", "")
	v.SetDefault("signing.public_key", "")
	v.SetDefault("signing.key_id", "")
	v.SetDefault("signing.stamp_token_id", def.Signing.StampTokenID)

	v.SetDefault("validation.required_claims", []string{})
	v.SetDefault("validation.leeway", def.Validation.Leeway)
	v.SetDefault("validation.issuer", "")
	v.SetDefault("validation.audience", "")
	v.SetDefault("validation.subject", "")
	v.SetDefault("validation.require_iat", def.Validation.RequireIAT)
	v.SetDefault("validation.max_future_iat", def.Validation.MaxFutureIAT)
	v.SetDefault("validation.time_claims", def.Validation.TimeClaims)

	v.SetDefault("audit.enabled", def.Audit.Enabled)
	v.SetDefault("audit.buffer_size", def.Audit.BufferSize)
	v.SetDefault("audit.warn_on_drop", def.Audit.WarnOnDrop)

	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.latency_histograms", def.Metrics.EnableLatencyHistograms)

	v.SetDefault("keystore.prepend", def.KeyStore.Prepend)
	v.SetDefault("keystore.required", def.KeyStore.Required)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func configFromViper(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	cfg.Signing.Method = jwt.SigningMethod(strings.ToLower(strings.TrimSpace(v.GetString("signing.method"))))
	priv, err := decodeKeyMaterial(v.GetString("signing.private_key"))
	if err != nil {
		return Config{}, fmt.Errorf("signing.private_key: %w", err)
	}
	pub, err := decodeKeyMaterial(v.GetString("signing.public_key"))
	if err != nil {
		return Config{}, fmt.Errorf("signing.public_key: %w", err)
	}
	cfg.Signing.PrivateKey = priv
	cfg.Signing.PublicKey = pub
	cfg.Signing.KeyID = strings.TrimSpace(v.GetString("signing.key_id"))
	cfg.Signing.StampTokenID = v.GetBool("signing.stamp_token_id")

	var keys []fileVerifyKey
	if err := v.UnmarshalKey("verify_keys", &keys); err != nil {
		return Config{}, fmt.Errorf("verify_keys: %w", err)
	}
	for i, k := range keys {
		material, err := decodeKeyMaterial(k.Material)
		if err != nil {
			return Config{}, fmt.Errorf("verify_keys[%d]: %w", i, err)
		}
		cfg.VerifyKeys = append(cfg.VerifyKeys, jwt.VerifyKey{ID: strings.TrimSpace(k.ID), Material: material})
	}

	cfg.Validation.RequiredClaims = v.GetStringSlice("validation.required_claims")
	cfg.Validation.Leeway = v.GetDuration("validation.leeway")
	cfg.Validation.Issuer = v.GetString("validation.issuer")
	cfg.Validation.Audience = v.GetString("validation.audience")
	cfg.Validation.Subject = v.GetString("validation.subject")
	cfg.Validation.RequireIAT = v.GetBool("validation.require_iat")
	cfg.Validation.MaxFutureIAT = v.GetDuration("validation.max_future_iat")
	cfg.Validation.TimeClaims = v.GetStringSlice("validation.time_claims")

	cfg.Audit.Enabled = v.GetBool("audit.enabled")
	cfg.Audit.BufferSize = v.GetInt("audit.buffer_size")
	cfg.Audit.WarnOnDrop = v.GetBool("audit.warn_on_drop")

	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	cfg.Metrics.EnableLatencyHistograms = v.GetBool("metrics.latency_histograms")

	cfg.KeyStore.Prepend = v.GetBool("keystore.prepend")
	cfg.KeyStore.Required = v.GetBool("keystore.required")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeKeyMaterial returns raw secrets byte for byte. Only the "base64:" form
// is trimmed, since surrounding whitespace cannot be part of its encoding.
func decodeKeyMaterial(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if rest, ok := strings.CutPrefix(strings.TrimSpace(s), base64Prefix); ok {
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(rest))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 key material: %w", err)
		}
		return b, nil
	}
	return []byte(s), nil
}
