// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package condition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gogpu/progsel/model"
)

// ParseExpr parses a single comparison such as `not Name == "Eye_L"`. The
// schema may be nil. Errors are *ParseError values with Column set.
func ParseExpr(text string, schema Schema) (Expr, error) {
	var e Expr
	s, col := text, 1
	for {
		trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
		col += len(s) - len(trimmed)
		s = trimmed
		if word, ok := cutWord(s, "not"); ok {
			e.negate = !e.negate
			col += len(s) - len(word)
			s = word
			continue
		}
		if strings.HasPrefix(s, "!") && !strings.HasPrefix(s, "!=") && !strings.HasPrefix(s, "!&") {
			e.negate = !e.negate
			s, col = s[1:], col+1
			continue
		}
		break
	}
	s = strings.TrimRightFunc(s, unicode.IsSpace)

	fail := func(c int, err error) (Expr, error) {
		return Expr{}, &ParseError{Text: text, Column: c, Err: err}
	}

	pos, op, width := findOp(s)
	if pos < 0 {
		if i := strings.IndexFunc(s, func(r rune) bool { return r < 0x80 && isOpChar(byte(r)) }); i >= 0 {
			return fail(col+i, ErrUnknownOperator)
		}
		if s == "" {
			return fail(col, errors.New("missing attribute path"))
		}
		e.path, e.op = s, OpExists
		return e, nil
	}

	e.path = strings.TrimSpace(s[:pos])
	if e.path == "" {
		return fail(col, errors.New("missing attribute path"))
	}
	if strings.HasPrefix(e.path, `"`) {
		unq, err := strconv.Unquote(e.path)
		if err != nil || unq == "" {
			return fail(col, fmt.Errorf("%w: bad quoted path %s", ErrBadLiteral, e.path))
		}
		e.path = unq
	} else if strings.Contains(e.path, `"`) {
		return fail(col, fmt.Errorf("%w: stray quote in path", ErrBadLiteral))
	}
	e.op = op

	rhs := s[pos+width:]
	litCol := col + pos + width + (len(rhs) - len(strings.TrimLeftFunc(rhs, unicode.IsSpace)))
	rhs = strings.TrimSpace(rhs)
	if rhs == "" {
		return fail(litCol, fmt.Errorf("%w: missing literal", ErrBadLiteral))
	}
	if isOpChar(rhs[0]) {
		return fail(litCol, ErrUnknownOperator)
	}

	lit, err := parseLiteral(rhs)
	if err != nil {
		return fail(litCol, err)
	}
	if schema != nil {
		if kind, ok := schema.KindOf(e.path); ok {
			lit, err = retype(lit, rhs, kind)
			if err != nil {
				return fail(litCol, err)
			}
		}
	}
	if err := checkPair(op, lit.Kind()); err != nil {
		return fail(col+pos, err)
	}
	e.literal, e.raw = lit, rhs
	return e, nil
}

// MustParseExpr is like ParseExpr but panics on error. It is intended for
// tests and statically known rules.
func MustParseExpr(text string) Expr {
	e, err := ParseExpr(text, nil)
	if err != nil {
		panic(err)
	}
	return e
}

// findOp locates the leftmost operator outside quotes, preferring the
// longest token at that position.
func findOp(s string) (pos int, op Op, width int) {
	quoted := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			quoted = !quoted
			continue
		}
		if quoted || !isOpChar(c) {
			continue
		}
		for _, t := range tokens {
			if strings.HasPrefix(s[i:], t.text) {
				return i, t.op, len(t.text)
			}
		}
		// A lone '=' or '!' is not an operator; report it via the caller.
		return -1, OpExists, 0
	}
	return -1, OpExists, 0
}

// cutWord strips a leading keyword followed by whitespace.
func cutWord(s, word string) (string, bool) {
	rest, ok := strings.CutPrefix(s, word)
	if !ok || rest == "" || !unicode.IsSpace(rune(rest[0])) {
		return s, false
	}
	return rest, true
}

func parseLiteral(text string) (model.Value, error) {
	if text[0] == '"' {
		unq, err := strconv.Unquote(text)
		if err != nil {
			return model.Value{}, fmt.Errorf("%w: bad string %s", ErrBadLiteral, text)
		}
		return model.String(unq), nil
	}
	if strings.ContainsAny(text, `"`) {
		return model.Value{}, fmt.Errorf("%w: stray quote", ErrBadLiteral)
	}
	return model.Infer(text), nil
}

// retype converts a literal to the kind the schema declares for its path.
func retype(lit model.Value, text string, kind model.Kind) (model.Value, error) {
	if lit.Kind() == kind {
		return lit, nil
	}
	switch {
	case kind == model.KindString:
		return model.String(lit.Str()), nil
	case lit.Kind() == model.KindString:
		// A quoted or non-numeric literal for a numeric attribute.
		return model.Value{}, fmt.Errorf("%w: %s is not %s", ErrBadLiteral, text, kindArticle(kind))
	}
	v, err := model.Parse(kind, text)
	if err != nil {
		return model.Value{}, fmt.Errorf("%w: %s is not %s", ErrBadLiteral, text, kindArticle(kind))
	}
	return v, nil
}

// checkPair rejects operator/kind combinations that can never evaluate.
func checkPair(op Op, kind model.Kind) error {
	switch {
	case kind == model.KindString && (op.Ordering() || op.Bitwise()):
		return fmt.Errorf("%w: %s on %s", ErrTypeMismatch, op, kind)
	case kind == model.KindFloat && op.Bitwise():
		return fmt.Errorf("%w: %s on %s", ErrTypeMismatch, op, kind)
	}
	return nil
}

func kindArticle(k model.Kind) string {
	if k == model.KindInt {
		return "an integer"
	}
	return "a " + k.String()
}
