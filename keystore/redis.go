package keystore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goToken/jwt"
)

var (
	// ErrKeyNotFound is returned by Get and Retire for an unknown id.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidKey is returned by Publish for a key without material or with an
	// unsupported method.
	ErrInvalidKey = errors.New("invalid key")
	// ErrRedisUnavailable wraps transport failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const (
	fieldMethod    = "method"
	fieldMaterial  = "material"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
)

const retireKeyScript = `
local existed = redis.call("DEL", KEYS[1])
redis.call("ZREM", KEYS[2], ARGV[1])
return existed
`

var retireKeyLua = redis.NewScript(retireKeyScript)

// Key is one stored verification key.
type Key struct {
	ID       string
	Method   jwt.SigningMethod
	Material []byte
	// CreatedAt orders the ring. Zero means the time of Publish.
	CreatedAt time.Time
	// ExpiresAt drops the key from Redis when set.
	ExpiresAt time.Time
}

// VerifyKey converts k into a ring entry.
func (k Key) VerifyKey() jwt.VerifyKey {
	material := make([]byte, len(k.Material))
	copy(material, k.Material)
	return jwt.VerifyKey{ID: k.ID, Material: material}
}

// RedisStore is a Redis-backed key ring.
//
// RedisStore is safe for concurrent use.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a store under the given key prefix. An empty prefix
// defaults to "gotoken".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "gotoken"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + ":key:" + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":keys"
}

// Publish stores k and returns it with its id and creation time filled in.
//
//	Performance: one pipelined round trip (HSET + ZADD, plus PEXPIREAT when ExpiresAt is set).
func (s *RedisStore) Publish(ctx context.Context, k Key) (Key, error) {
	if len(k.Material) == 0 {
		return Key{}, fmt.Errorf("%w: empty material", ErrInvalidKey)
	}
	switch k.Method {
	case jwt.MethodHS256, jwt.MethodHS384, jwt.MethodHS512, jwt.MethodEd25519:
	default:
		return Key{}, fmt.Errorf("%w: unsupported method %q", ErrInvalidKey, k.Method)
	}
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	if k.CreatedAt.IsZero() {
		k.CreatedAt = s.now()
	}
	k.CreatedAt = k.CreatedAt.UTC()

	fields := map[string]any{
		fieldMethod:    string(k.Method),
		fieldMaterial:  k.Material,
		fieldCreatedAt: strconv.FormatInt(k.CreatedAt.UnixNano(), 10),
	}
	if !k.ExpiresAt.IsZero() {
		k.ExpiresAt = k.ExpiresAt.UTC()
		fields[fieldExpiresAt] = strconv.FormatInt(k.ExpiresAt.UnixNano(), 10)
	}

	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, s.key(k.ID))
	pipe.HSet(ctx, s.key(k.ID), fields)
	if !k.ExpiresAt.IsZero() {
		pipe.PExpireAt(ctx, s.key(k.ID), k.ExpiresAt)
	}
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{
		Score:  float64(k.CreatedAt.UnixMilli()),
		Member: k.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return Key{}, fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}

	if err := s.prune(ctx); err != nil {
		return Key{}, err
	}
	return k, nil
}

// Get loads one key.
func (s *RedisStore) Get(ctx context.Context, id string) (Key, error) {
	fields, err := s.redis.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return Key{}, fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return Key{}, ErrKeyNotFound
	}
	return decodeKey(id, fields)
}

// Retire removes a key from the ring immediately.
func (s *RedisStore) Retire(ctx context.Context, id string) error {
	existed, err := retireKeyLua.Run(ctx, s.redis, []string{s.key(id), s.indexKey()}, id).Int64()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}
	if existed == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// List returns all live keys, newest first.
func (s *RedisStore) List(ctx context.Context) ([]Key, error) {
	ids, err := s.redis.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}

	keys := make([]Key, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		k, err := decodeKey(ids[i], fields)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// VerifyKeys returns the ring entries for method, newest first.
func (s *RedisStore) VerifyKeys(ctx context.Context, method jwt.SigningMethod) ([]jwt.VerifyKey, error) {
	keys, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]jwt.VerifyKey, 0, len(keys))
	for _, k := range keys {
		if k.Method != method {
			continue
		}
		out = append(out, k.VerifyKey())
	}
	return out, nil
}

// prune drops index entries whose hash has expired.
func (s *RedisStore) prune(ctx context.Context) error {
	ids, err := s.redis.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Exists(ctx, s.key(id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
		}
	}

	var stale []any
	for i, cmd := range cmds {
		if cmd.Val() == 0 {
			stale = append(stale, ids[i])
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := s.redis.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}
	return nil
}

func decodeKey(id string, fields map[string]string) (Key, error) {
	created, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("key %s: corrupt %s: %w", id, fieldCreatedAt, err)
	}
	k := Key{
		ID:        id,
		Method:    jwt.SigningMethod(fields[fieldMethod]),
		Material:  []byte(fields[fieldMaterial]),
		CreatedAt: time.Unix(0, created).UTC(),
	}
	if raw, ok := fields[fieldExpiresAt]; ok {
		expires, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Key{}, fmt.Errorf("key %s: corrupt %s: %w", id, fieldExpiresAt, err)
		}
		k.ExpiresAt = time.Unix(0, expires).UTC()
	}
	return k, nil
}
