// Package jwt signs claim payloads into compact JWS tokens and verifies them
// against an ordered ring of verification keys using github.com/golang-jwt/jwt/v5.
//
// A [Manager] is built once from a [Config] and is immutable afterwards. [Manager.Parse]
// walks the verification keys in order and accepts the first key whose signature
// check and validation policy both pass; a key that fails for any reason,
// including an algorithm mismatch, simply hands over to the next one.
package jwt
