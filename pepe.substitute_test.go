package pepe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		defines  Defines
		expected string
	}{
		{
			"single variable",
			"version = VERSION\n",
			Defines{"VERSION": 3},
			"version = 3\n",
		},
		{
			"longer name wins over embedded shorter name",
			"VERSION_NAME\n",
			Defines{"VERSION": 3, "VERSION_NAME": "trixie"},
			"trixie\n",
		},
		{
			"multiple occurrences",
			"X + X = 2X\n",
			Defines{"X": 5},
			"5 + 5 = 25\n",
		},
		{
			"nil value substitutes empty",
			"flag:DEBUG!\n",
			Defines{"DEBUG": nil},
			"flag:!\n",
		},
		{
			"bool and float values",
			"ON PI\n",
			Defines{"ON": true, "PI": 2.5},
			"true 2.5\n",
		},
		{
			"no matches",
			"untouched\n",
			Defines{"VERSION": 3},
			"untouched\n",
		},
		{
			"empty table",
			"untouched\n",
			Defines{},
			"untouched\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Substitute(tt.line, tt.defines))
		})
	}
}
