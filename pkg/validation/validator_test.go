package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPort struct {
	Name string `validate:"required,portname"`
}

type testKind struct {
	Name   string     `validate:"required,kindname"`
	Title  string     `validate:"max=10"`
	Inputs []testPort `validate:"dive"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name        string
		value       any
		expectError bool
		errorText   string
	}{
		{
			name:  "valid kind",
			value: testKind{Name: "math.add", Inputs: []testPort{{Name: "a"}, {Name: "b-2"}}},
		},
		{
			name:        "missing name",
			value:       testKind{},
			expectError: true,
			errorText:   "Name: field is required",
		},
		{
			name:        "upper-case kind",
			value:       testKind{Name: "Math.Add"},
			expectError: true,
			errorText:   "not a valid kind name",
		},
		{
			name:        "bad port nested",
			value:       testKind{Name: "add", Inputs: []testPort{{Name: "9lives"}}},
			expectError: true,
			errorText:   "Inputs[0].Name",
		},
		{
			name:        "title too long",
			value:       testKind{Name: "add", Title: strings.Repeat("x", 11)},
			expectError: true,
			errorText:   "Title: must not exceed 10",
		},
		{
			name:        "nil",
			value:       nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.value)
			if !tt.expectError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorText)
		})
	}
}

func TestValidateNames(t *testing.T) {
	assert.NoError(t, ValidateKindName("constant"))
	assert.NoError(t, ValidateKindName("math.clamp_01"))
	assert.Error(t, ValidateKindName(""))
	assert.Error(t, ValidateKindName("math..add"))
	assert.Error(t, ValidateKindName(strings.Repeat("a", MaxNameLength+1)))

	assert.NoError(t, ValidatePortName("in"))
	assert.NoError(t, ValidatePortName("out-2"))
	assert.Error(t, ValidatePortName("has space"))
	assert.Error(t, ValidatePortName(""))
}

func TestValidatePayloadKey(t *testing.T) {
	tests := []struct {
		key         string
		expectError bool
	}{
		{"value", false},
		{"_hidden", false},
		{"min2", false},
		{"", true},
		{"2fast", true},
		{"with-dash", true},
		{strings.Repeat("k", MaxPayloadKeyLength+1), true},
	}
	for _, tt := range tests {
		err := ValidatePayloadKey(tt.key)
		if tt.expectError {
			assert.Error(t, err, "key %q", tt.key)
		} else {
			assert.NoError(t, err, "key %q", tt.key)
		}
	}
}
