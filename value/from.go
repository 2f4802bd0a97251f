package value

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnsupportedType is returned by From for Go values outside the claim lattice.
var ErrUnsupportedType = errors.New("unsupported claim value type")

// From converts a native Go value into a Value. It accepts bool, string, every
// integer kind, float32/float64, time.Duration, time.Time, slices and string-keyed
// maps of those, and Values themselves. Unsigned integers above math.MaxInt64
// are rejected rather than wrapped.
func From(in any) (Value, error) {
	switch x := in.(type) {
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		return fromUint(x)
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case time.Duration:
		return TimeDelta(x), nil
	case time.Time:
		return DateTime{Time: x}, nil
	case []string:
		out := make(List, len(x))
		for i, s := range x {
			out[i] = String(s)
		}
		return out, nil
	case []any:
		out := make(List, len(x))
		for i, e := range x {
			v, err := From(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		out := make(Dict, len(x))
		for k, e := range x {
			v, err := From(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = v
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, in)
	}
}

// FromMap converts every entry of m with From.
func FromMap(m map[string]any) (map[string]Value, error) {
	out := make(map[string]Value, len(m))
	for k, e := range m {
		v, err := From(e)
		if err != nil {
			return nil, fmt.Errorf("claim %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedType, u)
	}
	return Int(int64(u)), nil
}
