// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package condition implements the small rule language that decides whether
// a shader program applies to a shape.
//
// A rule is a tree of comparisons. Leaves ([Expr]) compare one scene-graph
// attribute against a literal:
//
//	BSLightingShaderProperty/Shader Flags 1 & 0x1
//	Name == "Eye_L"
//	not NiAlphaProperty
//	HEADER/Version >= 0x14020007
//
// Groups ([Tree]) combine children under AND or OR and nest freely. Rules
// are written one per line in program descriptors:
//
//	check HEADER/Version >= 0x14020007
//	checkgroup begin or
//	    check Name == "Eye_L"
//	    check Name == "Eye_R"
//	checkgroup end
//
// # Operators
//
// Comparison operators are ==, !=, <, <=, >, >=, & (some bit of the literal
// is set in the attribute) and !& (no bit is set). A path without an
// operator is true when it resolves. A leading "not" (or "!") inverts the
// result after evaluation.
//
// # Types
//
// Literals are typed when parsed: quoted text and bare words are strings,
// integer literals (including 0x hex) are integers, other numbers are
// floats. Strings only support == and !=; floats do not support the bitwise
// operators. Violations are reported as [*ParseError] before any rule is
// evaluated. A [Schema] can declare attribute kinds to tighten these checks.
//
// # Missing attributes
//
// A comparison whose path does not resolve on any node is false; negation
// is applied afterwards, so "not X == 1" holds when X is absent while
// "X != 1" does not.
package condition
