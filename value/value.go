package value

import (
	"fmt"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindString
	KindInt
	KindFloat
	KindTimeDelta
	KindDateTime
	KindList
	KindDict
)

var kindNames = [...]string{
	KindInvalid:   "Invalid",
	KindBool:      "Bool",
	KindString:    "String",
	KindInt:       "Int",
	KindFloat:     "Float",
	KindTimeDelta: "TimeDelta",
	KindDateTime:  "DateTime",
	KindList:      "List",
	KindDict:      "Dict",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a single claim value. Implementations are limited to the variants
// declared in this package.
type Value interface {
	Kind() Kind
	fmt.Stringer
	isValue()
}

type (
	// Bool is a JSON boolean.
	Bool bool
	// String is a JSON string.
	String string
	// Int is a 64-bit signed integer.
	Int int64
	// Float is a 64-bit float. Only finite values can be encoded.
	Float float64
	// TimeDelta is a duration added to the encode-time clock.
	TimeDelta time.Duration
	// List is an ordered sequence of values.
	List []Value
	// Dict maps unique string keys to values. Key order is not preserved on the wire.
	Dict map[string]Value
)

// DateTime is an absolute instant, carried on the wire as seconds since the epoch.
type DateTime struct {
	time.Time
}

// At wraps t as a DateTime.
func At(t time.Time) DateTime { return DateTime{Time: t} }

// Unix returns the DateTime for the given epoch seconds and nanoseconds, in UTC.
func Unix(sec, nsec int64) DateTime { return DateTime{Time: time.Unix(sec, nsec).UTC()} }

func (Bool) Kind() Kind      { return KindBool }
func (String) Kind() Kind    { return KindString }
func (Int) Kind() Kind       { return KindInt }
func (Float) Kind() Kind     { return KindFloat }
func (TimeDelta) Kind() Kind { return KindTimeDelta }
func (DateTime) Kind() Kind  { return KindDateTime }
func (List) Kind() Kind      { return KindList }
func (Dict) Kind() Kind      { return KindDict }

func (Bool) isValue()      {}
func (String) isValue()    {}
func (Int) isValue()       {}
func (Float) isValue()     {}
func (TimeDelta) isValue() {}
func (DateTime) isValue()  {}
func (List) isValue()      {}
func (Dict) isValue()      {}

func (v Bool) String() string      { return Format(v) }
func (v String) String() string    { return Format(v) }
func (v Int) String() string       { return Format(v) }
func (v Float) String() string     { return Format(v) }
func (v TimeDelta) String() string { return Format(v) }
func (v DateTime) String() string  { return Format(v) }
func (v List) String() string      { return Format(v) }
func (v Dict) String() string      { return Format(v) }

// Duration returns d as a time.Duration.
func (d TimeDelta) Duration() time.Duration { return time.Duration(d) }

// KindOf reports the kind of v, or KindInvalid for a nil Value.
func KindOf(v Value) Kind {
	if v == nil {
		return KindInvalid
	}
	return v.Kind()
}
