package goToken

import (
	"testing"
	"time"

	"github.com/MrEthical07/goToken/jwt"
	"github.com/MrEthical07/goToken/value"
)

func benchmarkClaims() map[string]value.Value {
	return map[string]value.Value{
		"sub":   value.String("user-1234"),
		"admin": value.Bool(false),
		"level": value.Int(7),
		"score": value.Float(0.93),
		"exp":   value.TimeDelta(time.Hour),
		"roles": value.List{value.String("read"), value.String("write")},
		"org":   value.Dict{"id": value.Int(42), "name": value.String("acme")},
	}
}

func newBenchmarkEngine(b *testing.B, mutate func(*Config)) *Engine {
	b.Helper()

	cfg := DefaultConfig()
	cfg.Signing.PrivateKey = []byte(testSecret)
	if mutate != nil {
		mutate(&cfg)
	}
	engine, err := NewBuilder().WithConfig(cfg).Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	b.Cleanup(engine.Close)
	return engine
}

func BenchmarkEncode(b *testing.B) {
	engine := newBenchmarkEngine(b, nil)
	claims := benchmarkClaims()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Encode(claims); err != nil {
			b.Fatalf("encode failed: %v", err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	engine := newBenchmarkEngine(b, nil)
	token, err := engine.Encode(benchmarkClaims())
	if err != nil {
		b.Fatalf("encode failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Decode(token); err != nil {
			b.Fatalf("decode failed: %v", err)
		}
	}
}

func BenchmarkDecodeLastOfFourKeys(b *testing.B) {
	issuer := newBenchmarkEngine(b, nil)
	token, err := issuer.Encode(benchmarkClaims())
	if err != nil {
		b.Fatalf("encode failed: %v", err)
	}

	verifier := newBenchmarkEngine(b, func(cfg *Config) {
		cfg.VerifyKeys = []jwt.VerifyKey{
			{Material: []byte("rotated-secret-number-three-xxxxx")},
			{Material: []byte("rotated-secret-number-two-xxxxxxx")},
			{Material: []byte("rotated-secret-number-one-xxxxxxx")},
			{Material: []byte(testSecret)},
		}
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := verifier.Decode(token); err != nil {
			b.Fatalf("decode failed: %v", err)
		}
	}
}

func BenchmarkDecodeParallelWithMetrics(b *testing.B) {
	engine := newBenchmarkEngine(b, func(cfg *Config) {
		cfg.Metrics.Enabled = true
		cfg.Metrics.EnableLatencyHistograms = true
	})
	token, err := engine.Encode(benchmarkClaims())
	if err != nil {
		b.Fatalf("encode failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := engine.Decode(token); err != nil {
				b.Errorf("decode failed: %v", err)
				return
			}
		}
	})
}
