package goToken

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/MrEthical07/goToken/value"
)

// Claim is one name/value pair of a TokenData.
type Claim struct {
	Name  string
	Value value.Value
}

// TokenData is the read-only claim set of a verified token. It owns its claims
// and keeps no reference to the Engine that produced it.
//
// Iteration follows sorted claim names; callers should not depend on any order.
type TokenData struct {
	claims map[string]value.Value
	names  []string
}

func newTokenData(claims map[string]value.Value) *TokenData {
	if claims == nil {
		claims = map[string]value.Value{}
	}
	return &TokenData{
		claims: claims,
		names:  slices.Sorted(maps.Keys(claims)),
	}
}

// Get returns the named claim or a *MissingClaimError.
func (d *TokenData) Get(name string) (value.Value, error) {
	v, ok := d.Lookup(name)
	if !ok {
		return nil, &MissingClaimError{Name: name}
	}
	return v, nil
}

// Lookup returns the named claim and whether it was present.
func (d *TokenData) Lookup(name string) (value.Value, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.claims[name]
	return v, ok
}

// Has reports whether the claim is present.
func (d *TokenData) Has(name string) bool {
	_, ok := d.Lookup(name)
	return ok
}

// Len returns the number of claims.
func (d *TokenData) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Keys returns the claim names.
func (d *TokenData) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.names)
}

// Values returns the claim values in Keys order.
func (d *TokenData) Values() []value.Value {
	if d == nil {
		return nil
	}
	out := make([]value.Value, len(d.names))
	for i, n := range d.names {
		out[i] = d.claims[n]
	}
	return out
}

// Items returns the claims as name/value pairs in Keys order.
func (d *TokenData) Items() []Claim {
	if d == nil {
		return nil
	}
	out := make([]Claim, len(d.names))
	for i, n := range d.names {
		out[i] = Claim{Name: n, Value: d.claims[n]}
	}
	return out
}

// All iterates name/value pairs. Each call starts a fresh iteration.
func (d *TokenData) All() iter.Seq2[string, value.Value] {
	return func(yield func(string, value.Value) bool) {
		if d == nil {
			return
		}
		for _, n := range d.names {
			if !yield(n, d.claims[n]) {
				return
			}
		}
	}
}

// Names iterates claim names. Each call starts a fresh iteration.
func (d *TokenData) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		if d == nil {
			return
		}
		for _, n := range d.names {
			if !yield(n) {
				return
			}
		}
	}
}

// Map returns a shallow copy of the claims. List and Dict values are shared
// with the TokenData and must not be modified.
func (d *TokenData) Map() map[string]value.Value {
	if d == nil {
		return map[string]value.Value{}
	}
	return maps.Clone(d.claims)
}

// String returns the named claim as a Go string.
func (d *TokenData) String(name string) (string, error) {
	v, err := d.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(value.String)
	if !ok {
		return "", kindMismatch(name, value.KindString, v)
	}
	return string(s), nil
}

// Int returns the named claim as an int64.
func (d *TokenData) Int(name string) (int64, error) {
	v, err := d.Get(name)
	if err != nil {
		return 0, err
	}
	i, ok := v.(value.Int)
	if !ok {
		return 0, kindMismatch(name, value.KindInt, v)
	}
	return int64(i), nil
}

// Time returns the named DateTime claim.
func (d *TokenData) Time(name string) (time.Time, error) {
	v, err := d.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	dt, ok := v.(value.DateTime)
	if !ok {
		return time.Time{}, kindMismatch(name, value.KindDateTime, v)
	}
	return dt.Time, nil
}

func kindMismatch(name string, want value.Kind, got value.Value) error {
	return fmt.Errorf("%w: %q is %s, not %s", ErrKindMismatch, name, value.KindOf(got), want)
}

// GoString renders the claims for debugging. The output is deterministic and
// not meant to be parsed.
func (d *TokenData) GoString() string {
	var b strings.Builder
	b.WriteString("TokenData")
	if d == nil {
		b.WriteString("{}")
		return b.String()
	}
	b.WriteString(value.FormatMap(d.claims))
	return b.String()
}

// Format implements fmt.Formatter so %v and %s print the debug rendering.
func (d *TokenData) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(d.GoString()))
}
