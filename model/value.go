// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package model

import (
	"strconv"
)

// Kind identifies the runtime type of an attribute value.
type Kind uint8

const (
	// KindInvalid is the zero Kind and marks an unset Value.
	KindInvalid Kind = iota
	// KindInt is a signed integer (counts, enums, versions).
	KindInt
	// KindFloat is a floating point number.
	KindFloat
	// KindString is text (names, file paths).
	KindString
	// KindFlags is an unsigned bit field.
	KindFlags
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindFlags:
		return "flags"
	default:
		return "invalid"
	}
}

// Integral reports whether values of this kind compare as integers.
func (k Kind) Integral() bool {
	return k == KindInt || k == KindFlags
}

// Value is a typed attribute value. The zero Value is invalid.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating point value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String returns a string value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Flags returns a bit field value.
func Flags(v uint64) Value { return Value{kind: KindFlags, i: int64(v)} }

// Kind returns the runtime type of v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Int returns v as a signed integer. Floats are truncated, strings yield 0.
func (v Value) Int() int64 {
	switch v.kind {
	case KindInt, KindFlags:
		return v.i
	case KindFloat:
		return int64(v.f)
	}
	return 0
}

// Uint returns the bit pattern of an integral value.
func (v Value) Uint() uint64 {
	return uint64(v.Int())
}

// Float returns v as a float64. Strings yield 0.
func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float64(v.i)
	case KindFlags:
		return float64(uint64(v.i))
	}
	return 0
}

// Str returns the string payload of a string value, or the formatted
// number for numeric kinds.
func (v Value) Str() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFlags:
		return "0x" + strconv.FormatUint(uint64(v.i), 16)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return ""
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}
	if v.kind == KindInvalid {
		return "<invalid>"
	}
	return v.Str()
}

// Parse converts text to a value of the requested kind. Integers accept
// Go literal syntax (0x, 0b, 0o prefixes and underscores), except that an
// unprefixed literal is always decimal: "010" is ten.
func Parse(kind Kind, text string) (Value, error) {
	switch kind {
	case KindInt:
		text = decimal(text)
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			// Bit patterns above MaxInt64 are still valid integers.
			u, uerr := strconv.ParseUint(text, 0, 64)
			if uerr != nil {
				return Value{}, err
			}
			n = int64(u)
		}
		return Int(n), nil
	case KindFlags:
		u, err := strconv.ParseUint(decimal(text), 0, 64)
		if err != nil {
			return Value{}, err
		}
		return Flags(u), nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case KindString:
		return String(text), nil
	}
	return Value{}, strconv.ErrSyntax
}

// Infer guesses the kind of an untyped text: integer literals become
// KindInt, or KindFlags when they only fit unsigned, other numbers
// KindFloat, everything else KindString.
func Infer(text string) Value {
	if !looksNumeric(text) {
		return String(text)
	}
	dec := decimal(text)
	if n, err := strconv.ParseInt(dec, 0, 64); err == nil {
		return Int(n)
	}
	if u, err := strconv.ParseUint(dec, 0, 64); err == nil {
		return Flags(u)
	}
	if v, err := Parse(KindFloat, text); err == nil {
		return v
	}
	return String(text)
}

// decimal drops the leading zeros of an unprefixed integer literal, which
// strconv would otherwise read as octal.
func decimal(text string) string {
	sign, body := "", text
	if body != "" && (body[0] == '-' || body[0] == '+') {
		sign, body = body[:1], body[1:]
	}
	trimmed := false
	for len(body) > 1 && body[0] == '0' && body[1] >= '0' && body[1] <= '9' {
		body = body[1:]
		trimmed = true
	}
	if !trimmed {
		return text
	}
	return sign + body
}

// looksNumeric rejects words such as "Inf" or "NaN" that strconv would
// otherwise accept as floats.
func looksNumeric(text string) bool {
	if text == "" {
		return false
	}
	c := text[0]
	if c == '-' || c == '+' {
		if len(text) == 1 {
			return false
		}
		c = text[1]
	}
	return (c >= '0' && c <= '9') || c == '.'
}
