// Package goToken issues and verifies compact signed tokens carrying typed claims.
//
// Claims are a map from name to [value.Value], a closed set of eight variants
// (Bool, String, Int, Float, TimeDelta, DateTime, List, Dict). [Engine.Encode]
// converts them to a JSON payload and signs it; [Engine.Decode] verifies a token
// against an ordered ring of verification keys, enforces the validation policy and
// rebuilds the claims as a [TokenData].
//
// # Rotation
//
// Verification keys are tried in configured order, newest first by convention. The
// first key whose signature and policy checks pass wins. When all keys fail, the
// returned [DecodeError] carries the last key's error and lists every attempt.
//
// # Time claims
//
// TimeDelta values resolve to an absolute instant against the engine [Clock] at
// encode time, so decoding never yields a TimeDelta. Top-level exp, nbf and iat
// numbers decode as DateTime; every other number decodes as Int when integral and
// Float otherwise.
//
// # Concurrency
//
// An Engine is immutable after [Builder.Build] and safe for concurrent use. Only
// [Builder.BuildContext] performs I/O, when a [KeyStore] is configured.
package goToken
