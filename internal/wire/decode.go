package wire

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/MrEthical07/goToken/value"
)

// Decode rebuilds typed claims from a verified payload. Top-level claims named in
// timeClaims decode as DateTime when their wire value is a number.
func Decode(payload map[string]any, timeClaims []string) (map[string]value.Value, error) {
	out := make(map[string]value.Value, len(payload))
	for name, w := range payload {
		if isTimeClaim(name, timeClaims) {
			if t, ok, err := decodeTime(w); ok {
				if err != nil {
					return nil, &Error{Path: name, Err: err}
				}
				out[name] = value.At(t)
				continue
			}
		}
		v, err := decodeValue(w, name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func isTimeClaim(name string, timeClaims []string) bool {
	for _, c := range timeClaims {
		if c == name {
			return true
		}
	}
	return false
}

func decodeValue(w any, path string) (value.Value, error) {
	switch x := w.(type) {
	case bool:
		return value.Bool(x), nil
	case string:
		return value.String(x), nil
	case json.Number:
		v, err := decodeNumber(x)
		if err != nil {
			return nil, &Error{Path: path, Err: err}
		}
		return v, nil
	case float64:
		return numberFromFloat(x), nil
	case int64:
		return value.Int(x), nil
	case []any:
		out := make(value.List, len(x))
		for i, e := range x {
			v, err := decodeValue(e, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		out := make(value.Dict, len(x))
		for k, e := range x {
			v, err := decodeValue(e, path+"."+k)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case nil:
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: null", ErrUnsupportedWire)}
	default:
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: %T", ErrUnsupportedWire, w)}
	}
}

func decodeNumber(n json.Number) (value.Value, error) {
	if i, err := n.Int64(); err == nil {
		return value.Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, n.String())
	}
	return numberFromFloat(f), nil
}

// numberFromFloat applies the wire rule: integral and in int64 range is Int.
func numberFromFloat(f float64) value.Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return value.Int(int64(f))
	}
	return value.Float(f)
}

// decodeTime reports ok=false when w is not a number, leaving it to the generic path.
func decodeTime(w any) (time.Time, bool, error) {
	switch x := w.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return time.Unix(i, 0).UTC(), true, nil
		}
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, true, fmt.Errorf("%w: %q", ErrInvalidNumber, x.String())
		}
		return timeFromSeconds(f)
	case float64:
		return timeFromSeconds(x)
	case int64:
		return time.Unix(x, 0).UTC(), true, nil
	default:
		return time.Time{}, false, nil
	}
}

func timeFromSeconds(f float64) (time.Time, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return time.Time{}, true, fmt.Errorf("%w: %v", ErrInvalidNumber, f)
	}
	sec, frac := math.Modf(f)
	micros := int64(math.Round(frac * 1e6))
	return time.Unix(int64(sec), micros*1000).UTC(), true, nil
}
