package internal

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashMatchers(t *testing.T) []*StatementMatcher {
	t.Helper()
	matchers, err := CompileMatchers([]CommentPair{{Prefix: "#", Suffix: ""}})
	require.NoError(t, err)
	return matchers
}

func TestMatchDirective_Conditionals(t *testing.T) {
	matchers := hashMatchers(t)

	tests := []struct {
		name string
		line string
		op   DirectiveOp
		expr string
	}{
		{"if", "# #if DEBUG\n", OpIf, "DEBUG"},
		{"if with expression", "# #if VERSION >= 2 and not LEGACY\n", OpIf, "VERSION >= 2 and not LEGACY"},
		{"elif", "# #elif LEVEL == 1\n", OpElif, "LEVEL == 1"},
		{"ifdef", "# #ifdef DEBUG\n", OpIfdef, "DEBUG"},
		{"ifndef", "# #ifndef DEBUG\n", OpIfndef, "DEBUG"},
		{"space after hash", "#  # if DEBUG\n", OpIf, "DEBUG"},
		{"leading whitespace", "   # #if DEBUG\n", OpIf, "DEBUG"},
		{"no trailing newline", "# #if DEBUG", OpIf, "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := MatchDirective(matchers, tt.line)

			require.True(t, ok)
			assert.Equal(t, tt.op, d.Op)
			assert.Equal(t, tt.expr, d.Expr)
		})
	}
}

func TestMatchDirective_ElseEndif(t *testing.T) {
	matchers := hashMatchers(t)

	d, ok := MatchDirective(matchers, "# #else\n")
	require.True(t, ok)
	assert.Equal(t, OpElse, d.Op)

	d, ok = MatchDirective(matchers, "# #endif\n")
	require.True(t, ok)
	assert.Equal(t, OpEndif, d.Op)
}

func TestMatchDirective_Define(t *testing.T) {
	matchers := hashMatchers(t)

	tests := []struct {
		name     string
		line     string
		varName  string
		value    string
		hasValue bool
	}{
		{"name only", "# #define DEBUG\n", "DEBUG", "", false},
		{"with value", "# #define LEVEL 3\n", "LEVEL", "3", true},
		{"hex value", "# #define MASK 0x40\n", "MASK", "0x40", true},
		{"string value", "# #define NAME release build\n", "NAME", "release build", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := MatchDirective(matchers, tt.line)

			require.True(t, ok)
			assert.Equal(t, OpDefine, d.Op)
			assert.Equal(t, tt.varName, d.Name)
			assert.Equal(t, tt.value, d.Value)
			assert.Equal(t, tt.hasValue, d.HasValue)
		})
	}
}

func TestMatchDirective_Undef(t *testing.T) {
	matchers := hashMatchers(t)

	d, ok := MatchDirective(matchers, "# #undef DEBUG\n")
	require.True(t, ok)
	assert.Equal(t, OpUndef, d.Op)
	assert.Equal(t, "DEBUG", d.Name)
}

func TestMatchDirective_Error(t *testing.T) {
	matchers := hashMatchers(t)

	d, ok := MatchDirective(matchers, "# #error this build is broken\n")
	require.True(t, ok)
	assert.Equal(t, OpError, d.Op)
	assert.Equal(t, "this build is broken", d.Message)
}

func TestMatchDirective_Include(t *testing.T) {
	matchers := hashMatchers(t)

	d, ok := MatchDirective(matchers, "# #include \"common.txt\"\n")
	require.True(t, ok)
	assert.Equal(t, OpInclude, d.Op)
	assert.Equal(t, "common.txt", d.Path)
	assert.True(t, d.PathIsLiteral)

	// The unquoted form names a variable holding the path.
	d, ok = MatchDirective(matchers, "# #include COMMON\n")
	require.True(t, ok)
	assert.Equal(t, OpInclude, d.Op)
	assert.Equal(t, "COMMON", d.Name)
	assert.False(t, d.PathIsLiteral)
}

func TestMatchDirective_PlainLines(t *testing.T) {
	matchers := hashMatchers(t)

	lines := []string{
		"plain text\n",
		"# just a comment\n",
		"# include without hash prefix\n",
		"x = 1  # #if DEBUG\n", // directive not at line start
		"\n",
	}

	for _, line := range lines {
		_, ok := MatchDirective(matchers, line)
		assert.False(t, ok, "line %q should not match", line)
	}
}

func TestMatchDirective_SuffixedComments(t *testing.T) {
	matchers, err := CompileMatchers([]CommentPair{{Prefix: "<!--", Suffix: "-->"}})
	require.NoError(t, err)

	d, ok := MatchDirective(matchers, "<!-- #if DEBUG -->\n")
	require.True(t, ok)
	assert.Equal(t, OpIf, d.Op)
	assert.Equal(t, "DEBUG", d.Expr)

	// Missing suffix means the line is not a directive.
	_, ok = MatchDirective(matchers, "<!-- #if DEBUG\n")
	assert.False(t, ok)
}

func TestMatchDirective_MultiplePairsInGroup(t *testing.T) {
	matchers, err := CompileMatchers([]CommentPair{
		{Prefix: "/*", Suffix: "*/"},
		{Prefix: "//", Suffix: ""},
	})
	require.NoError(t, err)

	d, ok := MatchDirective(matchers, "/* #if DEBUG */\n")
	require.True(t, ok)
	assert.Equal(t, OpIf, d.Op)

	d, ok = MatchDirective(matchers, "// #if DEBUG\n")
	require.True(t, ok)
	assert.Equal(t, OpIf, d.Op)
}

func TestMatchDirective_RegexPrefix(t *testing.T) {
	// Fortran-style: any line starting with a letter, * or $ is a comment.
	prefix := regexp.MustCompile(`^[a-zA-Z*$]\s*`)
	matchers, err := CompileMatchers([]CommentPair{
		{PrefixPattern: prefix},
		{Prefix: "!", Suffix: ""},
	})
	require.NoError(t, err)

	d, ok := MatchDirective(matchers, "C #if DEBUG\n")
	require.True(t, ok)
	assert.Equal(t, OpIf, d.Op)
	assert.Equal(t, "DEBUG", d.Expr)

	d, ok = MatchDirective(matchers, "! #endif\n")
	require.True(t, ok)
	assert.Equal(t, OpEndif, d.Op)
}
