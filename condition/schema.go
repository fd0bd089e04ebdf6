// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package condition

import "github.com/gogpu/progsel/model"

// Schema declares the kind of attribute paths so that parsing can reject
// comparisons the attribute cannot support, independent of how the literal
// is spelled.
type Schema interface {
	KindOf(path string) (model.Kind, bool)
}

// MapSchema is a Schema backed by a map from attribute path to kind. A path
// is looked up verbatim first and then by its last segment, so "Name"
// covers "NiTriShape/Name".
type MapSchema map[string]model.Kind

// KindOf implements Schema.
func (s MapSchema) KindOf(path string) (model.Kind, bool) {
	if k, ok := s[path]; ok {
		return k, true
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			k, ok := s[path[i+1:]]
			return k, ok
		}
	}
	return model.KindInvalid, false
}
