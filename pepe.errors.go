package pepe

import (
	"fmt"
	"strconv"
	"strings"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	ErrMsgIllegalElifAfterElse = "illegal #elif after #else in same #if block"
	ErrMsgElifWithoutIf        = "#elif stmt without leading #if stmt"
	ErrMsgIllegalElseAfterElse = "illegal #else after #else in same #if block"
	ErrMsgElseWithoutIf        = "#else stmt without leading #if stmt"
	ErrMsgEndifWithoutIf       = "#endif stmt without leading #if stmt"
	ErrMsgUnterminatedBlock    = "unterminated #if block"
	ErrMsgSuperfluousEndif     = "superfluous #endif on or before this line"
	ErrMsgInvalidDefineTarget  = "invalid #define target"
	ErrMsgInvalidUndefTarget   = "invalid #undef target"

	// Formats for messages that embed a subject
	FmtMsgContentTypeUndetermined = "could not determine content type of %q"
	FmtMsgNoCommentGroup          = "no comment group registered for content type %q"
	FmtMsgRecursiveInclude        = "detected recursive #include of %q"
	FmtMsgIncludeNotFound         = "could not find #include'd file %q on include path: %v"
	FmtMsgUserError               = "#error: %s"
	FmtMsgBadExpression           = "use of invalid expression in #%s stmt: %v"
	FmtMsgUnboundVariable         = "use of undefined variable in #%s stmt: %v"
)

// ErrorKind categorizes every fatal preprocessor error.
type ErrorKind string

// Error kind constants
const (
	ErrKindContentTypeUndetermined ErrorKind = "CONTENT_TYPE_UNDETERMINED"
	ErrKindNoCommentGroup          ErrorKind = "NO_COMMENT_GROUP"
	ErrKindUnboundVariable         ErrorKind = "UNBOUND_VARIABLE"
	ErrKindSyntax                  ErrorKind = "SYNTAX_ERROR"
	ErrKindIllegalElifAfterElse    ErrorKind = "ILLEGAL_ELIF_AFTER_ELSE"
	ErrKindElifWithoutIf           ErrorKind = "ELIF_WITHOUT_IF"
	ErrKindIllegalElseAfterElse    ErrorKind = "ILLEGAL_ELSE_AFTER_ELSE"
	ErrKindElseWithoutIf           ErrorKind = "ELSE_WITHOUT_IF"
	ErrKindEndifWithoutIf          ErrorKind = "ENDIF_WITHOUT_IF"
	ErrKindUnterminatedBlock       ErrorKind = "UNTERMINATED_CONDITIONAL_BLOCK"
	ErrKindSuperfluousEndif        ErrorKind = "SUPERFLUOUS_ENDIF"
	ErrKindUserError               ErrorKind = "USER_ERROR"
	ErrKindIncludeNotFound         ErrorKind = "INCLUDE_NOT_FOUND"
	ErrKindRecursiveInclude        ErrorKind = "RECURSIVE_INCLUDE"
)

// PreprocessorError is the single error taxonomy for a preprocessing run.
// Every instance is fatal to the entire run; there is no local recovery.
type PreprocessorError struct {
	Kind     ErrorKind
	Message  string
	Filename string
	Line     int
	cause    error
}

// NewPreprocessorError creates a preprocessor error with position context.
// A zero Line or empty Filename is omitted from the rendered message.
func NewPreprocessorError(kind ErrorKind, message, filename string, line int) *PreprocessorError {
	return &PreprocessorError{
		Kind:     kind,
		Message:  message,
		Filename: filename,
		Line:     line,
	}
}

// WithCause attaches an underlying error for unwrapping.
func (e *PreprocessorError) WithCause(cause error) *PreprocessorError {
	e.cause = cause
	return e
}

// Error renders "<filename>:<lineNumber>: <message>", gracefully omitting
// whichever position fields are absent.
func (e *PreprocessorError) Error() string {
	var parts []string
	if e.Filename != "" {
		parts = append(parts, e.Filename)
	}
	if e.Line > 0 {
		parts = append(parts, strconv.Itoa(e.Line))
	}
	prefix := strings.Join(parts, ":")
	if prefix != "" {
		return prefix + ": " + e.Message
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *PreprocessorError) Unwrap() error {
	return e.cause
}

// NewContentTypeUndeterminedError reports a path no resolution rule matched.
func NewContentTypeUndeterminedError(path string) *PreprocessorError {
	return NewPreprocessorError(ErrKindContentTypeUndetermined, fmt.Sprintf(FmtMsgContentTypeUndetermined, path), "", 0)
}

// NewNoCommentGroupError reports a resolved content type that has no
// registered comment delimiters.
func NewNoCommentGroupError(contentType, path string) *PreprocessorError {
	return NewPreprocessorError(ErrKindNoCommentGroup, fmt.Sprintf(FmtMsgNoCommentGroup, contentType), path, 0)
}

// NewUnboundVariableError reports a reference to an undefined variable
// inside a directive expression.
func NewUnboundVariableError(op string, cause error, filename string, line int) *PreprocessorError {
	return NewPreprocessorError(ErrKindUnboundVariable, fmt.Sprintf(FmtMsgUnboundVariable, op, cause), filename, line).WithCause(cause)
}

// NewExpressionSyntaxError reports a malformed directive expression.
func NewExpressionSyntaxError(op string, cause error, filename string, line int) *PreprocessorError {
	return NewPreprocessorError(ErrKindSyntax, fmt.Sprintf(FmtMsgBadExpression, op, cause), filename, line).WithCause(cause)
}

// NewUserError reports an #error directive reached in an emitting branch.
func NewUserError(message, filename string, line int) *PreprocessorError {
	return NewPreprocessorError(ErrKindUserError, fmt.Sprintf(FmtMsgUserError, message), filename, line)
}

// NewIncludeNotFoundError reports an #include target missing from every
// searched directory.
func NewIncludeNotFoundError(target string, searched []string, filename string, line int) *PreprocessorError {
	return NewPreprocessorError(ErrKindIncludeNotFound, fmt.Sprintf(FmtMsgIncludeNotFound, target, searched), filename, line)
}

// NewRecursiveIncludeError reports a file already being processed in the
// active include chain.
func NewRecursiveIncludeError(path string) *PreprocessorError {
	return NewPreprocessorError(ErrKindRecursiveInclude, fmt.Sprintf(FmtMsgRecursiveInclude, path), "", 0)
}
