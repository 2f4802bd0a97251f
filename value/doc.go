// Package value defines the closed set of claim value types carried by goToken
// tokens.
//
// A [Value] is exactly one of [Bool], [String], [Int], [Float], [TimeDelta],
// [DateTime], [List] or [Dict]. The set is closed: the interface carries an
// unexported marker method, so every consumer can switch exhaustively over the
// eight variants and report anything else as a programming error.
//
// # Time values
//
// [TimeDelta] is relative to the moment a token is encoded. The encoder turns it
// into an absolute epoch-seconds number, so the conversion is not invertible:
// decoding a token that carried TimeDelta(d) yields a [DateTime] close to
// encode-time + d, never a TimeDelta. Two encodes of the same TimeDelta at
// different instants therefore sign different payloads.
//
// # Numbers
//
// The wire format has a single number type. A decoded number becomes [Int] when
// it is integral and fits in int64, and [Float] otherwise, so Float(3) encodes
// and decodes as Int(3). This ambiguity is inherent to the wire format.
package value
