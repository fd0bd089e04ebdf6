// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package condition

// Op is a comparison operator.
type Op uint8

const (
	// OpExists holds when the path resolves; it has no literal.
	OpExists Op = iota
	OpEQ
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	// OpBitAnd holds when any bit of the literal is set in the attribute.
	OpBitAnd
	// OpNBitAnd holds when no bit of the literal is set in the attribute.
	OpNBitAnd
)

// tokens lists operator spellings longest first so that "<=" is never read
// as "<" followed by "=".
var tokens = []struct {
	text string
	op   Op
}{
	{"==", OpEQ},
	{"!=", OpNE},
	{"<=", OpLE},
	{">=", OpGE},
	{"!&", OpNBitAnd},
	{"<", OpLT},
	{">", OpGT},
	{"&", OpBitAnd},
}

// String returns the operator as written in descriptors.
func (op Op) String() string {
	for _, t := range tokens {
		if t.op == op {
			return t.text
		}
	}
	if op == OpExists {
		return "exists"
	}
	return "?"
}

// Ordering reports whether op needs an ordered type.
func (op Op) Ordering() bool {
	return op == OpLT || op == OpLE || op == OpGT || op == OpGE
}

// Bitwise reports whether op needs an integral type.
func (op Op) Bitwise() bool {
	return op == OpBitAnd || op == OpNBitAnd
}

// isOpChar reports whether c can start an operator token.
func isOpChar(c byte) bool {
	switch c {
	case '=', '!', '<', '>', '&':
		return true
	}
	return false
}
