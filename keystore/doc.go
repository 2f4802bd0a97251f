// Package keystore keeps verification keys in Redis so several engines can share
// one rotation ring.
//
// Keys are stored as hashes under "<prefix>:key:<id>" and indexed by creation
// time in the sorted set "<prefix>:keys". [RedisStore.VerifyKeys] returns the
// ring newest first, which is the order the engine tries keys in, and satisfies
// goToken.KeyStore for use with Builder.WithKeyStore.
//
// A key published with ExpiresAt disappears from the ring once Redis expires its
// hash. Stale index entries are skipped on read and pruned on the next Publish.
package keystore
