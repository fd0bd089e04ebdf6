// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		kind Kind
		text string
		want Value
	}{
		{KindInt, "42", Int(42)},
		{KindInt, "0x14020007", Int(0x14020007)},
		{KindInt, "-3", Int(-3)},
		{KindInt, "0xFFFFFFFFFFFFFFFF", Int(-1)},
		{KindInt, "010", Int(10)},
		{KindInt, "-08", Int(-8)},
		{KindInt, "0o10", Int(8)},
		{KindFlags, "0x81", Flags(0x81)},
		{KindFlags, "08", Flags(8)},
		{KindFloat, "0.5", Float(0.5)},
		{KindString, "Eye_L", String("Eye_L")},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Parse(tt.kind, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(KindInt, "1.5")
	assert.Error(t, err)
	_, err = Parse(KindFlags, "-1")
	assert.Error(t, err)
	_, err = Parse(KindFloat, "abc")
	assert.Error(t, err)
	_, err = Parse(KindInvalid, "1")
	assert.Error(t, err)
}

func TestInfer(t *testing.T) {
	assert.Equal(t, KindInt, Infer("7").Kind())
	assert.Equal(t, KindInt, Infer("0x1").Kind())
	assert.Equal(t, KindFloat, Infer("1.25").Kind())
	assert.Equal(t, KindFloat, Infer("-.5").Kind())
	assert.Equal(t, KindString, Infer("Inf").Kind())
	assert.Equal(t, KindString, Infer("NaN").Kind())
	assert.Equal(t, KindString, Infer("-").Kind())
	assert.Equal(t, KindString, Infer("").Kind())

	// Unprefixed literals are decimal, never octal.
	assert.Equal(t, Int(8), Infer("08"))
	assert.Equal(t, Int(10), Infer("010"))
	assert.Equal(t, Float(8.5), Infer("08.5"))

	// Bit patterns that only fit unsigned stay unsigned.
	assert.Equal(t, Flags(0xFFFFFFFFFFFFFFFF), Infer("0xFFFFFFFFFFFFFFFF"))
	assert.Equal(t, Int(-1), Infer("-1"))
}

func TestValueConversions(t *testing.T) {
	f := Flags(0x8000000000000001)
	assert.Equal(t, uint64(0x8000000000000001), f.Uint())
	assert.Equal(t, "0x8000000000000001", f.Str())
	assert.Equal(t, 2.0, Int(2).Float())
	assert.Equal(t, int64(2), Float(2.9).Int())
	assert.Equal(t, `"a"`, String("a").String())
	assert.False(t, Value{}.IsValid())
	assert.True(t, KindFlags.Integral())
	assert.False(t, KindFloat.Integral())
}

func TestSplitPath(t *testing.T) {
	head, rest := SplitPath("BSLightingShaderProperty/Shader Flags 1")
	assert.Equal(t, "BSLightingShaderProperty", head)
	assert.Equal(t, "Shader Flags 1", rest)

	head, rest = SplitPath("Name")
	assert.Equal(t, "Name", head)
	assert.Empty(t, rest)
}
