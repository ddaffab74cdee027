package pepe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessorError_Rendering(t *testing.T) {
	tests := []struct {
		name     string
		err      *PreprocessorError
		expected string
	}{
		{
			"full position",
			NewPreprocessorError(ErrKindUserError, "boom", "app.py", 12),
			"app.py:12: boom",
		},
		{
			"file only",
			NewPreprocessorError(ErrKindUserError, "boom", "app.py", 0),
			"app.py: boom",
		},
		{
			"line only",
			NewPreprocessorError(ErrKindUserError, "boom", "", 12),
			"12: boom",
		},
		{
			"message only",
			NewPreprocessorError(ErrKindUserError, "boom", "", 0),
			"boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestPreprocessorError_Constructors(t *testing.T) {
	err := NewUserError("unsupported platform", "build.sh", 7)
	assert.Equal(t, ErrKindUserError, err.Kind)
	assert.Equal(t, "build.sh:7: #error: unsupported platform", err.Error())

	err = NewContentTypeUndeterminedError("data.bin")
	assert.Equal(t, ErrKindContentTypeUndetermined, err.Kind)
	assert.Contains(t, err.Error(), `"data.bin"`)

	err = NewNoCommentGroupError("Binary", "data.bin")
	assert.Equal(t, ErrKindNoCommentGroup, err.Kind)
	assert.Contains(t, err.Error(), `"Binary"`)

	err = NewIncludeNotFoundError("missing.txt", []string{"include"}, "main.c", 3)
	assert.Equal(t, ErrKindIncludeNotFound, err.Kind)
	assert.Contains(t, err.Error(), "main.c:3:")
	assert.Contains(t, err.Error(), `"missing.txt"`)

	err = NewRecursiveIncludeError("loop.txt")
	assert.Equal(t, ErrKindRecursiveInclude, err.Kind)
	assert.Contains(t, err.Error(), `"loop.txt"`)
}

func TestPreprocessorError_Unwrap(t *testing.T) {
	cause := errors.New("name 'DEBUG' is not defined")

	err := NewUnboundVariableError("if", cause, "main.c", 5)

	require.Equal(t, ErrKindUnboundVariable, err.Kind)
	assert.Equal(t, "main.c:5: use of undefined variable in #if stmt: name 'DEBUG' is not defined", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestPreprocessorError_As(t *testing.T) {
	var err error = NewExpressionSyntaxError("elif", errors.New("unexpected token"), "a.py", 2)

	var perr *PreprocessorError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrKindSyntax, perr.Kind)
	assert.Equal(t, "a.py", perr.Filename)
	assert.Equal(t, 2, perr.Line)
}
