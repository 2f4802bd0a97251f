// Package wire converts claim values to and from the JSON-shaped payload that is
// signed into a token.
//
// Encode produces map[string]any trees made only of bool, string, int64, float64,
// []any and map[string]any, which encoding/json marshals deterministically.
// Decode accepts the trees produced by encoding/json (json.Number or float64 for
// numbers) and rebuilds typed values.
//
// Time values become epoch seconds. An instant on a whole second is written as an
// integer; anything else is written as a float rounded to the microsecond.
package wire
