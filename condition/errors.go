// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package condition

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by ParseError.
var (
	// ErrUnknownOperator is reported for text that looks like an operator
	// but is none of the supported ones.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrBadLiteral is reported for literals that cannot be parsed as the
	// attribute kind they are compared with.
	ErrBadLiteral = errors.New("unparsable literal")

	// ErrTypeMismatch is reported for operator/type pairs that cannot be
	// evaluated, such as ordering on strings or bit tests on floats.
	ErrTypeMismatch = errors.New("operator not supported for type")

	// ErrUnbalanced is reported for checkgroup markers that do not pair up.
	ErrUnbalanced = errors.New("unbalanced checkgroup")

	// ErrNotCondition is returned by Builder.Line for lines that are not
	// part of the condition language.
	ErrNotCondition = errors.New("not a condition line")
)

// ParseError describes a malformed condition line.
type ParseError struct {
	File   string // descriptor file, if known
	Line   int    // 1-based line number, 0 if unknown
	Column int    // 1-based column within the line, 0 if unknown
	Text   string // offending line
	Err    error  // one of the sentinel errors above, possibly wrapped
}

func (e *ParseError) Error() string {
	pos := e.File
	if e.Line > 0 {
		pos = fmt.Sprintf("%s:%d", pos, e.Line)
		if e.Column > 0 {
			pos = fmt.Sprintf("%s:%d", pos, e.Column)
		}
	}
	if pos != "" {
		return fmt.Sprintf("%s: %v in %q", pos, e.Err, e.Text)
	}
	return fmt.Sprintf("%v in %q", e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }
