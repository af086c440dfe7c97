// v0
// internal/coerce/coerce.go
package coerce

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies the native type a raw tabular field resolved to.
type Kind int

const (
	// Absent marks an empty field.
	Absent Kind = iota
	// Integer marks a field that parsed as a whole number.
	Integer
	// Real marks a field that parsed as a decimal number.
	Real
	// Boolean marks a field equal to "true" or "false" ignoring case.
	Boolean
	// Text marks a field that matched none of the other kinds.
	Text
)

var kindNames = map[Kind]string{
	Absent:  "absent",
	Integer: "integer",
	Real:    "real",
	Boolean: "boolean",
	Text:    "text",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Value is the tagged result of coercing one raw field. The zero value is
// Absent. Values marshal to JSON as their native type so downstream
// documents keep integers, decimals, booleans, and nulls distinct.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

// Coerce converts an untyped textual field into a typed Value. Rules are
// applied in order: empty input is Absent; input without a decimal point is
// tried as an integer; input with a decimal point is tried as a real number;
// a failed numeric parse falls through to the boolean check and finally to
// Text carrying the original string. Parse failures never surface as errors.
func Coerce(raw string) Value {
	if raw == "" {
		return Value{kind: Absent}
	}
	if !strings.Contains(raw, ".") {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Value{kind: Integer, i: n}
		}
	} else {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return Value{kind: Real, f: f}
		}
	}
	switch strings.ToLower(raw) {
	case "true":
		return Value{kind: Boolean, b: true}
	case "false":
		return Value{kind: Boolean, b: false}
	}
	return Value{kind: Text, s: raw}
}

// Kind reports which branch of the union the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether the original field was empty.
func (v Value) IsAbsent() bool {
	return v.kind == Absent
}

// Int returns the integer payload. It is zero for non-integer kinds.
func (v Value) Int() int64 {
	return v.i
}

// Float returns the numeric payload for Integer and Real kinds and zero
// otherwise.
func (v Value) Float() float64 {
	switch v.kind {
	case Integer:
		return float64(v.i)
	case Real:
		return v.f
	default:
		return 0
	}
}

// FloatOr returns the numeric payload when the value is Integer or Real and
// the supplied default for every other kind. Callers use it to apply the
// documented defaulting rules without inspecting the kind first.
func (v Value) FloatOr(def float64) float64 {
	switch v.kind {
	case Integer:
		return float64(v.i)
	case Real:
		return v.f
	default:
		return def
	}
}

// Bool returns the boolean payload. It is false for non-boolean kinds.
func (v Value) Bool() bool {
	return v.b
}

// Text returns the original string for Text kinds and the empty string
// otherwise.
func (v Value) Text() string {
	return v.s
}

// MarshalJSON renders the value as its native JSON type: null, an integer
// literal, a decimal literal, a boolean, or a quoted string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Absent:
		return []byte("null"), nil
	case Integer:
		return strconv.AppendInt(nil, v.i, 10), nil
	case Real:
		return strconv.AppendFloat(nil, v.f, 'g', -1, 64), nil
	case Boolean:
		return strconv.AppendBool(nil, v.b), nil
	default:
		return json.Marshal(v.s)
	}
}
