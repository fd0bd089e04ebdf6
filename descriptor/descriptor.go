// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package descriptor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/gogpu/progsel/condition"
)

// Ext is the file extension of descriptor files.
const Ext = ".prog"

// Header directives.
const (
	KeywordShaders   = "shaders"
	KeywordTexCoords = "texcoords"
)

// Descriptor errors.
var (
	// ErrUnknownDirective is returned for a line that is neither a header
	// directive nor a condition.
	ErrUnknownDirective = errors.New("descriptor: unknown directive")

	// ErrBadTexCoord is returned for a malformed texcoords line.
	ErrBadTexCoord = errors.New("descriptor: malformed texcoords binding")

	// ErrNoStages is returned when a descriptor names no shader stage.
	ErrNoStages = errors.New("descriptor: no shader stages")
)

// Error reports a malformed header line.
type Error struct {
	File string
	Line int
	Text string
	Err  error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteByte(':')
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "%d:", e.Line)
	}
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteString(e.Err.Error())
	if e.Text != "" {
		fmt.Fprintf(&sb, " in %q", e.Text)
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// TexCoord binds a texture coordinate channel to a vertex stream semantic.
type TexCoord struct {
	Channel  int
	Semantic string
}

// Descriptor is the parsed content of one .prog file.
type Descriptor struct {
	// Name is the file base name without the extension.
	Name string
	// Stages lists shader unit names in declaration order.
	Stages []string
	// TexCoords lists the bindings in declaration order.
	TexCoords []TexCoord
	// Conditions is the applicability rule. It is never nil for a
	// successfully parsed descriptor.
	Conditions *condition.Tree
}

// NameOf returns the program name for a descriptor file path.
func NameOf(file string) string {
	return strings.TrimSuffix(path.Base(file), Ext)
}

// Parse reads a descriptor. The file name is used for the program name and
// in error positions. All malformed lines are reported, joined into one
// error; individual errors are *Error or *condition.ParseError.
func Parse(file string, r io.Reader, schema condition.Schema) (*Descriptor, error) {
	d := &Descriptor{Name: NameOf(file)}
	b := condition.NewBuilder(schema)

	var errs []error
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		err := d.header(lineNo, line)
		if errors.Is(err, ErrUnknownDirective) {
			err = b.Line(lineNo, line)
			if errors.Is(err, condition.ErrNotCondition) {
				err = &Error{Line: lineNo, Text: strings.TrimSpace(line), Err: ErrUnknownDirective}
			}
		}
		if err != nil {
			errs = append(errs, withFile(err, file))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("descriptor: read %s: %w", file, err)
	}

	tree, err := b.Tree()
	if err != nil {
		errs = append(errs, withFile(err, file))
	}
	if len(d.Stages) == 0 {
		errs = append(errs, &Error{File: file, Err: ErrNoStages})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	d.Conditions = tree
	return d, nil
}

// ParseFS reads the descriptor at name from fsys.
func ParseFS(fsys fs.FS, name string, schema condition.Schema) (*Descriptor, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(name, f, schema)
}

// header consumes a header directive. It returns ErrUnknownDirective
// (unwrapped) when line is not one.
func (d *Descriptor) header(lineNo int, line string) error {
	text := strings.TrimSpace(line)
	kw, rest := condition.SplitKeyword(text)
	switch kw {
	case KeywordShaders:
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return &Error{Line: lineNo, Text: text, Err: ErrNoStages}
		}
		d.Stages = append(d.Stages, fields...)
		return nil
	case KeywordTexCoords:
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return &Error{Line: lineNo, Text: text, Err: ErrBadTexCoord}
		}
		ch, err := strconv.Atoi(fields[0])
		if err != nil || ch < 0 {
			return &Error{Line: lineNo, Text: text, Err: ErrBadTexCoord}
		}
		d.TexCoords = append(d.TexCoords, TexCoord{Channel: ch, Semantic: fields[1]})
		return nil
	}
	return ErrUnknownDirective
}

func withFile(err error, file string) error {
	var pe *condition.ParseError
	if errors.As(err, &pe) && pe.File == "" {
		pe.File = file
		return err
	}
	var de *Error
	if errors.As(err, &de) && de.File == "" {
		de.File = file
	}
	return err
}

// String formats d in descriptor syntax.
func (d *Descriptor) String() string {
	var sb strings.Builder
	if len(d.Stages) > 0 {
		sb.WriteString(KeywordShaders)
		for _, s := range d.Stages {
			sb.WriteByte(' ')
			sb.WriteString(s)
		}
		sb.WriteByte('\n')
	}
	for _, tc := range d.TexCoords {
		fmt.Fprintf(&sb, "%s %d %s\n", KeywordTexCoords, tc.Channel, tc.Semantic)
	}
	sb.WriteString(d.Conditions.String())
	return sb.String()
}
