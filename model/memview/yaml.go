// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memview

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/progsel/model"
)

// TagFlags marks a YAML scalar as a bit field: `Flags: !flags 0x81`.
const TagFlags = "!flags"

// fixture is the on-disk layout of a YAML scene graph.
type fixture struct {
	Types  map[string]string    `yaml:"types"`
	Header map[string]yaml.Node `yaml:"header"`
	Nodes  []struct {
		Name  string               `yaml:"name"`
		Type  string               `yaml:"type"`
		Attrs map[string]yaml.Node `yaml:"attrs"`
		Links map[string]string    `yaml:"links"`
	} `yaml:"nodes"`
}

// Decode reads a YAML scene graph:
//
//	types:
//	  BSLightingShaderProperty: BSShaderProperty
//	header:
//	  Version: 0x14020007
//	nodes:
//	  - name: eye
//	    type: NiTriShape
//	    attrs:
//	      Name: Eye_L
//	      ShaderFlags1: !flags 0x1
//	    links:
//	      Shader: eyeShader
//
// Scalars keep their YAML type: ints become integers, floats floats and
// everything else strings, unless tagged with !flags.
func Decode(r io.Reader) (*Graph, error) {
	var fx fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("memview: decode: %w", err)
	}

	g := New()
	for typ, parent := range fx.Types {
		g.DefineType(typ, parent)
	}
	for k, n := range fx.Header {
		v, err := scalar(&n)
		if err != nil {
			return nil, fmt.Errorf("memview: header %q: %w", k, err)
		}
		g.SetHeader(k, v)
	}
	for i, fn := range fx.Nodes {
		attrs := make(map[string]model.Value, len(fn.Attrs))
		for k, n := range fn.Attrs {
			v, err := scalar(&n)
			if err != nil {
				return nil, fmt.Errorf("memview: node %d attribute %q: %w", i, k, err)
			}
			attrs[k] = v
		}
		g.Add(fn.Name, fn.Type, attrs)
	}
	for i, fn := range fx.Nodes {
		for link, target := range fn.Links {
			to, ok := g.Lookup(target)
			if !ok {
				return nil, fmt.Errorf("memview: node %d link %q: unknown node %q", i, link, target)
			}
			g.Link(model.Node(i), link, to)
		}
	}
	return g, nil
}

// DecodeString is Decode over a string.
func DecodeString(s string) (*Graph, error) {
	return Decode(strings.NewReader(s))
}

func scalar(n *yaml.Node) (model.Value, error) {
	if n.Kind != yaml.ScalarNode {
		return model.Value{}, fmt.Errorf("line %d: not a scalar", n.Line)
	}
	switch n.Tag {
	case "!!int":
		return model.Parse(model.KindInt, strings.ReplaceAll(n.Value, "_", ""))
	case "!!float":
		return model.Parse(model.KindFloat, n.Value)
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return model.Value{}, err
		}
		if b {
			return model.Int(1), nil
		}
		return model.Int(0), nil
	case TagFlags:
		return model.Parse(model.KindFlags, n.Value)
	default:
		return model.String(n.Value), nil
	}
}
