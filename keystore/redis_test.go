package keystore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/jwt"
	"github.com/MrEthical07/goToken/value"
)

var base = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, NewRedisStore(rdb, "test")
}

func publish(t *testing.T, s *RedisStore, k Key) Key {
	t.Helper()
	out, err := s.Publish(context.Background(), k)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	return out
}

func TestPublishAndGet(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	k := publish(t, s, Key{ID: "k1", Method: jwt.MethodHS256, Material: []byte("secret"), CreatedAt: base})
	if !mr.Exists("test:key:k1") {
		t.Fatal("expected key hash under prefix")
	}

	got, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := cmp.Diff(k, got); diff != "" {
		t.Fatalf("stored key mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestPublishAssignsIDAndTime(t *testing.T) {
	_, s := newTestStore(t)
	s.now = func() time.Time { return base }

	k := publish(t, s, Key{Method: jwt.MethodHS512, Material: []byte("secret")})
	if k.ID == "" {
		t.Fatal("expected generated id")
	}
	if !k.CreatedAt.Equal(base) {
		t.Fatalf("expected store clock, got %v", k.CreatedAt)
	}
}

func TestPublishRejectsInvalidKeys(t *testing.T) {
	_, s := newTestStore(t)
	for _, k := range []Key{
		{Method: jwt.MethodHS256},
		{Method: "rs256", Material: []byte("x")},
	} {
		if _, err := s.Publish(context.Background(), k); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %+v, got %v", k, err)
		}
	}
}

func TestListNewestFirstAndRetire(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	publish(t, s, Key{ID: "old", Method: jwt.MethodHS256, Material: []byte("a"), CreatedAt: base})
	publish(t, s, Key{ID: "new", Method: jwt.MethodHS256, Material: []byte("b"), CreatedAt: base.Add(time.Hour)})
	publish(t, s, Key{ID: "mid", Method: jwt.MethodHS256, Material: []byte("c"), CreatedAt: base.Add(time.Minute)})

	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var ids []string
	for _, k := range keys {
		ids = append(ids, k.ID)
	}
	if diff := cmp.Diff([]string{"new", "mid", "old"}, ids); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	if err := s.Retire(ctx, "mid"); err != nil {
		t.Fatalf("Retire failed: %v", err)
	}
	if err := s.Retire(ctx, "mid"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound on second retire, got %v", err)
	}
	keys, _ = s.List(ctx)
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys after retire, got %d", len(keys))
	}
}

func TestVerifyKeysFiltersByMethod(t *testing.T) {
	_, s := newTestStore(t)

	publish(t, s, Key{ID: "h", Method: jwt.MethodHS256, Material: []byte("hmac"), CreatedAt: base})
	publish(t, s, Key{ID: "e", Method: jwt.MethodEd25519, Material: []byte("pub"), CreatedAt: base.Add(time.Second)})

	got, err := s.VerifyKeys(context.Background(), jwt.MethodHS256)
	if err != nil {
		t.Fatalf("VerifyKeys failed: %v", err)
	}
	want := []jwt.VerifyKey{{ID: "h", Material: []byte("hmac")}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected ring (-want +got):\n%s", diff)
	}
}

func TestExpiredKeysLeaveRing(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	publish(t, s, Key{ID: "short", Method: jwt.MethodHS256, Material: []byte("a"), ExpiresAt: time.Now().Add(time.Minute)})
	publish(t, s, Key{ID: "long", Method: jwt.MethodHS256, Material: []byte("b")})

	mr.FastForward(2 * time.Minute)

	ring, err := s.VerifyKeys(ctx, jwt.MethodHS256)
	if err != nil {
		t.Fatalf("VerifyKeys failed: %v", err)
	}
	if len(ring) != 1 || ring[0].ID != "long" {
		t.Fatalf("expected only the unexpired key, got %+v", ring)
	}

	publish(t, s, Key{ID: "next", Method: jwt.MethodHS256, Material: []byte("c")})
	members, err := mr.ZMembers("test:keys")
	if err != nil {
		t.Fatalf("ZMembers failed: %v", err)
	}
	for _, m := range members {
		if m == "short" {
			t.Fatal("expected stale index entry to be pruned")
		}
	}
}

func TestRedisUnavailable(t *testing.T) {
	mr, s := newTestStore(t)
	mr.Close()

	if _, err := s.List(context.Background()); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}

func TestStoreFeedsEngineRotation(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	oldSecret := []byte("old-secret-old-secret-old-secret")
	newSecret := []byte("new-secret-new-secret-new-secret")

	oldCfg := goToken.DefaultConfig()
	oldCfg.Signing.PrivateKey = oldSecret
	oldCfg.Signing.KeyID = "v1"
	issuer, err := goToken.NewBuilder().WithConfig(oldCfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer issuer.Close()
	legacy, err := issuer.Encode(map[string]value.Value{"sub": value.String("alice")})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	publish(t, s, Key{ID: "v1", Method: jwt.MethodHS256, Material: oldSecret, CreatedAt: base})

	cfg := goToken.DefaultConfig()
	cfg.Signing.PrivateKey = newSecret
	cfg.Signing.KeyID = "v2"
	cfg.KeyStore.Required = true
	engine, err := goToken.NewBuilder().WithConfig(cfg).WithKeyStore(s).BuildContext(ctx)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if diff := cmp.Diff([]string{"v2", "v1"}, engine.KeyIDs()); diff != "" {
		t.Fatalf("unexpected ring (-want +got):\n%s", diff)
	}
	data, err := engine.Decode(legacy)
	if err != nil {
		t.Fatalf("expected stored key to verify legacy token: %v", err)
	}
	if sub, _ := data.String("sub"); sub != "alice" {
		t.Fatalf("unexpected subject %q", sub)
	}
}
