package goToken

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goToken/jwt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestEngine(t *testing.T, mutate func(*Config)) *Engine {
	t.Helper()
	return newTestEngineWith(t, mutate, NewBuilder())
}

func newTestEngineWith(t *testing.T, mutate func(*Config), b *Builder) *Engine {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Signing.PrivateKey = []byte(testSecret)
	if mutate != nil {
		mutate(&cfg)
	}
	engine, err := b.WithConfig(cfg).WithClock(FixedClock(testNow)).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Contains(s string) bool {
	return strings.Contains(b.String(), s)
}

type staticKeyStore struct {
	keys []jwt.VerifyKey
	err  error
	seen jwt.SigningMethod
}

func (s *staticKeyStore) VerifyKeys(_ context.Context, method jwt.SigningMethod) ([]jwt.VerifyKey, error) {
	s.seen = method
	return s.keys, s.err
}
