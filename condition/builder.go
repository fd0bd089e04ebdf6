// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package condition

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Directive keywords of the condition block.
const (
	KeywordCheck      = "check"
	KeywordCheckGroup = "checkgroup"
)

// Builder assembles a Tree from condition lines fed one at a time. The
// top level combines under And; "checkgroup begin or|and" opens a nested
// group that "checkgroup end" closes.
type Builder struct {
	schema Schema
	stack  []*Tree
	opened []int // line numbers of open groups, parallel to stack[1:]
}

// NewBuilder returns a builder. The schema may be nil.
func NewBuilder(schema Schema) *Builder {
	return &Builder{schema: schema, stack: []*Tree{NewTree(And)}}
}

// Line feeds one line. lineNo is used for error positions only. Blank
// lines and # comments are ignored; lines with any other leading keyword
// return ErrNotCondition so callers can handle their own directives.
func (b *Builder) Line(lineNo int, line string) error {
	text := strings.TrimSpace(line)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil
	}
	keyword, rest := SplitKeyword(text)
	switch keyword {
	case KeywordCheck:
		e, err := ParseExpr(rest, b.schema)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = lineNo
				pe.Text = text
				if pe.Column > 0 {
					pe.Column += len(line) - len(strings.TrimLeft(line, " \t")) + len(text) - len(rest)
				}
			}
			return err
		}
		b.top().AddExpr(e)
		return nil
	case KeywordCheckGroup:
		return b.group(lineNo, text, rest)
	}
	return ErrNotCondition
}

func (b *Builder) group(lineNo int, text, rest string) error {
	fields := strings.Fields(rest)
	fail := func(err error) error {
		return &ParseError{Line: lineNo, Text: text, Err: err}
	}
	if len(fields) == 0 {
		return fail(errors.New("checkgroup needs begin or end"))
	}
	switch fields[0] {
	case "begin":
		c := And
		if len(fields) > 1 {
			switch strings.ToLower(fields[1]) {
			case "or":
				c = Or
			case "and":
			default:
				return fail(fmt.Errorf("unknown combinator %q", fields[1]))
			}
		}
		if len(fields) > 2 {
			return fail(errors.New("trailing text after combinator"))
		}
		sub := NewTree(c)
		b.top().AddTree(sub)
		b.stack = append(b.stack, sub)
		b.opened = append(b.opened, lineNo)
		return nil
	case "end":
		if len(b.stack) == 1 {
			return fail(ErrUnbalanced)
		}
		b.stack = b.stack[:len(b.stack)-1]
		b.opened = b.opened[:len(b.opened)-1]
		return nil
	}
	return fail(fmt.Errorf("unknown checkgroup action %q", fields[0]))
}

// SplitKeyword splits a trimmed line into its first word and the trimmed
// remainder.
func SplitKeyword(text string) (keyword, rest string) {
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}

func (b *Builder) top() *Tree { return b.stack[len(b.stack)-1] }

// Tree returns the assembled tree. It fails if a group is still open.
func (b *Builder) Tree() (*Tree, error) {
	if n := len(b.opened); n > 0 {
		return nil, &ParseError{Line: b.opened[n-1], Text: "checkgroup begin", Err: ErrUnbalanced}
	}
	return b.stack[0], nil
}

// Parse reads a whole condition block. Every malformed line is reported;
// the returned error joins them.
func Parse(r io.Reader, schema Schema) (*Tree, error) {
	b := NewBuilder(schema)
	sc := bufio.NewScanner(r)
	var errs []error
	for n := 1; sc.Scan(); n++ {
		if err := b.Line(n, sc.Text()); err != nil {
			if errors.Is(err, ErrNotCondition) {
				err = &ParseError{Line: n, Text: strings.TrimSpace(sc.Text()), Err: err}
			}
			errs = append(errs, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	t, err := b.Tree()
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// ParseString is Parse over a string.
func ParseString(s string, schema Schema) (*Tree, error) {
	return Parse(strings.NewReader(s), schema)
}
