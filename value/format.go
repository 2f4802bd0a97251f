package value

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Format renders v deterministically for logs and tests. Dict keys are sorted.
// The output is not meant to be parsed back.
func Format(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		b.WriteString("<nil>")
	case Bool:
		b.WriteString("Bool(")
		b.WriteString(strconv.FormatBool(bool(x)))
		b.WriteByte(')')
	case String:
		b.WriteString("String(")
		b.WriteString(strconv.Quote(string(x)))
		b.WriteByte(')')
	case Int:
		b.WriteString("Int(")
		b.WriteString(strconv.FormatInt(int64(x), 10))
		b.WriteByte(')')
	case Float:
		b.WriteString("Float(")
		b.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 64))
		b.WriteByte(')')
	case TimeDelta:
		b.WriteString("TimeDelta(")
		b.WriteString(time.Duration(x).String())
		b.WriteByte(')')
	case DateTime:
		b.WriteString("DateTime(")
		b.WriteString(x.Time.UTC().Format(time.RFC3339Nano))
		b.WriteByte(')')
	case List:
		b.WriteString("List[")
		for i, e := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, e)
		}
		b.WriteByte(']')
	case Dict:
		b.WriteString("Dict{")
		writeEntries(b, x)
		b.WriteByte('}')
	default:
		b.WriteString("Unknown(")
		b.WriteString(v.Kind().String())
		b.WriteByte(')')
	}
}

// FormatMap renders a claim mapping as "{name: value, ...}" with sorted names.
func FormatMap(m map[string]Value) string {
	var b strings.Builder
	b.WriteByte('{')
	writeEntries(&b, m)
	b.WriteByte('}')
	return b.String()
}

func writeEntries(b *strings.Builder, m map[string]Value) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		writeValue(b, m[k])
	}
}
