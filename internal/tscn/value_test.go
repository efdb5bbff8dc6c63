package tscn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"simple string", `"hello"`, StringValue("hello")},
		{"empty string", `""`, StringValue("")},
		{"escaped quote", `"say \"hi\""`, StringValue(`say "hi"`)},
		{"escaped newline", `"a\nb"`, StringValue("a\nb")},
		{"string name prefix", `&"group_name"`, StringValue("group_name")},
		{"node path prefix", `^"Path/To/Node"`, StringValue("Path/To/Node")},
		{"integer", `42`, NumberValue(42)},
		{"negative", `-17`, NumberValue(-17)},
		{"float", `3.5`, NumberValue(3.5)},
		{"leading dot", `.25`, NumberValue(0.25)},
		{"exponent", `1e3`, NumberValue(1000)},
		{"signed exponent", `2.5e-2`, NumberValue(0.025)},
		{"true", `true`, BoolValue(true)},
		{"false", `false`, BoolValue(false)},
		{"null", `null`, NullValue()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValue_Arrays(t *testing.T) {
	got, err := ParseValue(`[1, "two", true, [3, 4]]`)
	require.NoError(t, err)

	require.Equal(t, KindArray, got.Kind)
	require.Len(t, got.Items, 4)
	assert.Equal(t, NumberValue(1), got.Items[0])
	assert.Equal(t, StringValue("two"), got.Items[1])
	assert.Equal(t, BoolValue(true), got.Items[2])

	nested := got.Items[3]
	require.Equal(t, KindArray, nested.Kind)
	require.Len(t, nested.Items, 2)
	assert.Equal(t, NumberValue(3), nested.Items[0])
	assert.Equal(t, NumberValue(4), nested.Items[1])
}

func TestParseValue_EmptyArray(t *testing.T) {
	got, err := ParseValue(`[]`)
	require.NoError(t, err)
	assert.Equal(t, KindArray, got.Kind)
	assert.Empty(t, got.Items)
}

func TestParseValue_Record(t *testing.T) {
	got, err := ParseValue(`{"deadzone": 0.5, "events": [], custom_flag: true}`)
	require.NoError(t, err)

	require.Equal(t, KindRecord, got.Kind)
	// Unknown keys are preserved verbatim, in declaration order.
	assert.Equal(t, []string{"deadzone", "events", "custom_flag"}, got.Record.Keys())

	dz, ok := got.Record.Get("deadzone")
	require.True(t, ok)
	assert.Equal(t, NumberValue(0.5), dz)

	flag, ok := got.Record.Get("custom_flag")
	require.True(t, ok)
	assert.Equal(t, BoolValue(true), flag)
}

func TestParseValue_Constructors(t *testing.T) {
	got, err := ParseValue(`Vector2(1, 2)`)
	require.NoError(t, err)
	require.Equal(t, KindConstructor, got.Kind)
	assert.Equal(t, "Vector2", got.Ctor)
	require.Len(t, got.Items, 2)
	assert.Equal(t, NumberValue(1), got.Items[0])
	assert.Equal(t, NumberValue(2), got.Items[1])

	got, err = ParseValue(`Color(0.2, 0.3, 0.4, 1)`)
	require.NoError(t, err)
	require.Equal(t, KindConstructor, got.Kind)
	assert.Equal(t, "Color", got.Ctor)
	assert.Len(t, got.Items, 4)

	got, err = ParseValue(`NodePath("Player/Sprite")`)
	require.NoError(t, err)
	require.Equal(t, KindConstructor, got.Kind)
	require.Len(t, got.Items, 1)
	assert.Equal(t, StringValue("Player/Sprite"), got.Items[0])
}

func TestParseValue_ResourceRefs(t *testing.T) {
	// Resource references get their own variants, not generic constructors.
	got, err := ParseValue(`ExtResource("1_abc")`)
	require.NoError(t, err)
	assert.Equal(t, Value{Kind: KindExtRef, Ref: "1_abc"}, got)

	got, err = ParseValue(`SubResource("RectangleShape2D_1")`)
	require.NoError(t, err)
	assert.Equal(t, Value{Kind: KindSubRef, Ref: "RectangleShape2D_1"}, got)
}

func TestParseValue_ResourceRefBadArgs(t *testing.T) {
	_, err := ParseValue(`ExtResource(1)`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseValue_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ``},
		{"whitespace only", `   `},
		{"unterminated string", `"abc`},
		{"unterminated array", `[1, 2`},
		{"unterminated constructor", `Vector2(1,`},
		{"unbalanced record", `{"a": 1`},
		{"record missing colon", `{"a" 1}`},
		{"trailing input", `1 2`},
		{"unknown bareword", `frobnicate`},
		{"bad leading token", `@foo`},
		{"bad number", `1.2.3`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseValue(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
			assert.Contains(t, err.Error(), "Parse error")
		})
	}
}

func TestParseValue_MultilineWhitespace(t *testing.T) {
	// Logical lines joined by the scanner keep their newlines; the value
	// parser must treat them as ordinary whitespace.
	got, err := ParseValue("[\n  1,\n  2\n]")
	require.NoError(t, err)
	require.Equal(t, KindArray, got.Kind)
	assert.Len(t, got.Items, 2)
}
