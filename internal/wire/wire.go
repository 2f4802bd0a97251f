package wire

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/MrEthical07/goToken/value"
)

var (
	// ErrNonFinite is returned for NaN and infinite floats, which JSON cannot carry.
	ErrNonFinite = errors.New("non-finite number")
	// ErrNilValue is returned when a claim, list element or dict entry is nil.
	ErrNilValue = errors.New("nil value")
	// ErrUnsupportedWire is returned when a payload holds a JSON type outside the
	// claim lattice, such as null.
	ErrUnsupportedWire = errors.New("unsupported wire value")
	// ErrInvalidNumber is returned when a wire number cannot be parsed.
	ErrInvalidNumber = errors.New("invalid wire number")
)

// DefaultTimeClaims are the registered claims decoded as DateTime.
var DefaultTimeClaims = []string{"exp", "nbf", "iat"}

// Error locates a conversion failure inside the claim tree.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Encode converts claims into a fresh wire object. TimeDelta values are resolved
// against now.
func Encode(claims map[string]value.Value, now time.Time) (map[string]any, error) {
	out := make(map[string]any, len(claims))
	for name, v := range claims {
		w, err := encodeValue(v, now, name)
		if err != nil {
			return nil, err
		}
		out[name] = w
	}
	return out, nil
}

func encodeValue(v value.Value, now time.Time, path string) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, &Error{Path: path, Err: ErrNilValue}
	case value.Bool:
		return bool(x), nil
	case value.String:
		return string(x), nil
	case value.Int:
		return int64(x), nil
	case value.Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &Error{Path: path, Err: ErrNonFinite}
		}
		return f, nil
	case value.TimeDelta:
		return EpochSeconds(now.Add(time.Duration(x))), nil
	case value.DateTime:
		return EpochSeconds(x.Time), nil
	case value.List:
		out := make([]any, len(x))
		for i, e := range x {
			w, err := encodeValue(e, now, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out[i] = w
		}
		return out, nil
	case value.Dict:
		out := make(map[string]any, len(x))
		for k, e := range x {
			w, err := encodeValue(e, now, path+"."+k)
			if err != nil {
				return nil, err
			}
			out[k] = w
		}
		return out, nil
	default:
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: %s", ErrUnsupportedWire, v.Kind())}
	}
}

// EpochSeconds renders t as seconds since the epoch: int64 on a whole second,
// otherwise float64 rounded to the microsecond.
func EpochSeconds(t time.Time) any {
	sec := t.Unix()
	micros := (int64(t.Nanosecond()) + 500) / 1000
	if micros == 1_000_000 {
		sec++
		micros = 0
	}
	if micros == 0 {
		return sec
	}
	return float64(sec) + float64(micros)/1e6
}
