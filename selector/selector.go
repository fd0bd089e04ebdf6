// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package selector picks the catalog program that renders a shape.
//
// Selection is first match: an explicit hint naming a valid program wins
// outright, otherwise valid programs are tried in catalog load order and
// the first whose conditions hold is used. Descriptor order therefore
// encodes priority.
package selector

import (
	"iter"
	"reflect"
	"strconv"
	"strings"

	"github.com/gogpu/progsel/catalog"
	"github.com/gogpu/progsel/condition"
	"github.com/gogpu/progsel/internal/cache"
	"github.com/gogpu/progsel/model"
)

// Source is the catalog view selection needs. *catalog.Catalog
// implements it.
type Source interface {
	FindByName(name string) (*catalog.Program, bool)
	ValidEntries() iter.Seq[*catalog.Program]
	Generation() uint64
}

// Select returns the program for the shape described by env. A non-empty
// hint naming a valid program is returned without evaluating its
// conditions; an unknown or invalid hint falls through to rule matching.
func Select(env condition.Env, src Source, hint string) (*catalog.Program, bool) {
	if p, ok := byHint(src, hint); ok {
		return p, true
	}
	for p := range src.ValidEntries() {
		if p.Matches(env) {
			return p, true
		}
	}
	return nil, false
}

func byHint(src Source, hint string) (*catalog.Program, bool) {
	if hint == "" {
		return nil, false
	}
	p, ok := src.FindByName(hint)
	if !ok || !p.Valid() {
		slogger().Debug("selector: hint ignored", "hint", hint, "found", ok)
		return nil, false
	}
	return p, true
}

// Candidate is one program considered by Trace.
type Candidate struct {
	Program *catalog.Program
	Steps   []condition.Step
	Matched bool
}

// Trace evaluates every valid program against env in load order and
// reports the leaves each one evaluated. Unlike Select it does not stop at
// the first match.
func Trace(env condition.Env, src Source) []Candidate {
	var out []Candidate
	for p := range src.ValidEntries() {
		steps, ok := p.Conditions.Explain(env)
		out = append(out, Candidate{Program: p, Steps: steps, Matched: ok})
	}
	return out
}

// Option configures a Selector.
type Option func(*Selector)

// WithCache memoizes rule-based results for up to capacity shapes. Only
// views implementing model.Versioned are memoized, since the key must
// change whenever the scene does. The view is part of the key, so a view
// value that cannot be compared (a struct holding a slice or map, say) is
// evaluated every time instead.
func WithCache(capacity int) Option {
	return func(s *Selector) {
		if capacity > 0 {
			s.memo = cache.New[key, string](capacity)
		}
	}
}

// Selector is Select bound to one source, with optional memoization.
type Selector struct {
	src  Source
	memo *cache.Cache[key, string]
}

// key identifies one shape against one catalog and scene state.
type key struct {
	generation uint64
	revision   uint64
	view       model.View
	nodes      string
}

// New creates a selector over src.
func New(src Source, opts ...Option) *Selector {
	s := &Selector{src: src}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select is like the package-level Select.
func (s *Selector) Select(env condition.Env, hint string) (*catalog.Program, bool) {
	if p, ok := byHint(s.src, hint); ok {
		return p, true
	}
	k, cacheable := s.key(env)
	if !cacheable {
		return Select(env, s.src, "")
	}
	name := s.memo.GetOrCreate(k, func() string {
		if p, ok := Select(env, s.src, ""); ok {
			return p.Name
		}
		return ""
	})
	if name == "" {
		return nil, false
	}
	p, ok := s.src.FindByName(name)
	if !ok || !p.Valid() {
		return nil, false
	}
	return p, true
}

// Stats returns memo statistics. It is zero without WithCache.
func (s *Selector) Stats() cache.Stats {
	if s.memo == nil {
		return cache.Stats{}
	}
	return s.memo.Stats()
}

// Reset drops every memoized result.
func (s *Selector) Reset() {
	if s.memo != nil {
		s.memo.Clear()
	}
}

func (s *Selector) key(env condition.Env) (key, bool) {
	if s.memo == nil {
		return key{}, false
	}
	v, ok := env.View.(model.Versioned)
	if !ok || !reflect.ValueOf(env.View).Comparable() {
		return key{}, false
	}
	var sb strings.Builder
	for i, n := range env.Nodes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(n)))
	}
	return key{
		generation: s.src.Generation(),
		revision:   v.Revision(),
		view:       env.View,
		nodes:      sb.String(),
	}, true
}
