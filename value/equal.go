package value

// Equal reports whether a and b hold the same variant with structurally equal
// contents. Floats compare with ==, so NaN is never equal to itself. DateTimes
// compare as instants regardless of location. Dicts compare by key set.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case TimeDelta:
		y, ok := b.(TimeDelta)
		return ok && x == y
	case DateTime:
		y, ok := b.(DateTime)
		return ok && x.Time.Equal(y.Time)
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Dict:
		y, ok := b.(Dict)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, found := y[k]
			if !found || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// EqualMaps compares two claim mappings with Equal.
func EqualMaps(a, b map[string]Value) bool {
	return Equal(Dict(a), Dict(b))
}
