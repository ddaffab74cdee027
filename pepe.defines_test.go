package pepe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefinition(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		wantName string
		wantVal  any
	}{
		{"name only", "DEBUG", "DEBUG", nil},
		{"decimal", "LEVEL=3", "LEVEL", 3},
		{"hex", "FOOBAR=0x40", "FOOBAR", 64},
		{"hex uppercase", "MASK=0XFF", "MASK", 255},
		{"octal", "PERM=040", "PERM", 32},
		{"zero", "N=0", "N", 0},
		{"float", "PI=3.14", "PI", 3.14},
		{"bool true", "ON=true", "ON", true},
		{"bool mixed case", "ON=True", "ON", true},
		{"bool false", "OFF=FALSE", "OFF", false},
		{"string", "NAME=release", "NAME", "release"},
		{"string with equals", "EXPR=a=b", "EXPR", "a=b"},
		{"empty value", "EMPTY=", "EMPTY", ""},
		{"name whitespace stripped", "  DEBUG  ", "DEBUG", nil},
		{"value keeps whitespace", "MSG= hello ", "MSG", " hello "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, value, err := ParseDefinition(tt.expr)

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantVal, value)
		})
	}
}

func TestParseDefinition_EmptyName(t *testing.T) {
	for _, expr := range []string{"", "   ", "=1", "  =x"} {
		_, _, err := ParseDefinition(expr)
		assert.Error(t, err, "expression %q", expr)
	}
}

func TestParseDefinitions(t *testing.T) {
	defines, err := ParseDefinitions([]string{"DEBUG", "LEVEL=2", "NAME=beta"})

	require.NoError(t, err)
	assert.Len(t, defines, 3)
	assert.Nil(t, defines["DEBUG"])
	assert.Equal(t, 2, defines["LEVEL"])
	assert.Equal(t, "beta", defines["NAME"])

	_, err = ParseDefinitions([]string{"OK=1", "=bad"})
	assert.Error(t, err)
}

func TestParseValueToken(t *testing.T) {
	tests := []struct {
		token string
		want  any
	}{
		{"42", 42},
		{"0x10", 16},
		{"010", 8},
		{"1.5", 1.5},
		{"true", true},
		{"False", false},
		{"hello", "hello"},
		{"0x", "0x"},   // no hex digits, falls through to string
		{"08", "08"},   // invalid octal, falls through to string
		{"1.2.3", "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValueToken(tt.token))
		})
	}
}

func TestDefines_GetCloneNames(t *testing.T) {
	d := Defines{"B": 2, "A": 1, "C": nil}

	v, ok := d.Get("A")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = d.Get("MISSING")
	assert.False(t, ok)

	// A nil value is still a defined name.
	v, ok = d.Get("C")
	assert.True(t, ok)
	assert.Nil(t, v)

	assert.Equal(t, []string{"A", "B", "C"}, d.Names())

	clone := d.Clone()
	clone["A"] = 99
	assert.Equal(t, 1, d["A"])
}
