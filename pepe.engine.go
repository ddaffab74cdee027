package pepe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/itsatony/go-cuserr"
	"go.uber.org/zap"

	"github.com/itsatony/go-pepe/internal"
)

// Output publishing error constants
const (
	ErrCodeOutput = "PEPE_OUTPUT"

	ErrMsgOutputExists      = "output file exists - cannot overwrite (use force to overwrite)"
	ErrMsgOutputWriteFailed = "writing output file failed"
)

// Engine is the main entry point for the preprocessor. It resolves a file's
// comment syntax, streams its lines through the conditional state machine,
// and recursively inlines #include targets.
type Engine struct {
	config       *engineConfig
	contentTypes *ContentTypesDatabase
	logger       *zap.Logger
}

// includeSet tracks the canonical absolute paths being processed in the
// active call chain, for inclusion cycle detection. Entries accumulate for
// the remainder of a top-level run.
type includeSet map[string]struct{}

// New creates a new preprocessor Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	contentTypes := config.contentTypes
	if contentTypes == nil {
		db, err := NewContentTypesDatabase()
		if err != nil {
			return nil, err
		}
		contentTypes = db
	}
	for _, path := range config.configFiles {
		if err := contentTypes.AddConfigFile(path); err != nil {
			return nil, err
		}
	}

	return &Engine{
		config:       config,
		contentTypes: contentTypes,
		logger:       logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// ContentTypes returns the engine's content-types database.
func (e *Engine) ContentTypes() *ContentTypesDatabase {
	return e.contentTypes
}

// Preprocess runs the engine over inputPath and writes the result to out.
// The whole run is buffered: out receives bytes only when the run succeeds,
// so a failed run never publishes partial output.
//
// The given defines table seeds the run; the returned table is the table as
// of end of input, including every #define and #undef applied along the way
// (nested includes included). A nil defines is treated as empty.
func (e *Engine) Preprocess(inputPath string, out io.Writer, defines Defines) (Defines, error) {
	if defines == nil {
		defines = make(Defines)
	}

	var buf bytes.Buffer
	seen := make(includeSet)

	defines, err := e.process(inputPath, &buf, defines, seen, 0)
	if err != nil {
		return nil, err
	}

	if _, err := out.Write(buf.Bytes()); err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeOutput, ErrMsgOutputWriteFailed)
	}
	return defines, nil
}

// PreprocessFile runs the engine over inputPath and publishes the result to
// outputPath through a temporary file, renaming only on success. An existing
// output file is refused unless force is set.
func (e *Engine) PreprocessFile(inputPath, outputPath string, defines Defines, force bool) (Defines, error) {
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return nil, cuserr.NewValidationError(ErrCodeOutput, ErrMsgOutputExists).
				WithMetadata(MetaKeyPath, outputPath)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), filepath.Base(outputPath)+".tmp-*")
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeOutput, ErrMsgOutputWriteFailed).
			WithMetadata(MetaKeyPath, outputPath)
	}
	tmpPath := tmp.Name()

	defines, runErr := e.Preprocess(inputPath, tmp, defines)
	closeErr := tmp.Close()
	if runErr != nil {
		os.Remove(tmpPath)
		return nil, runErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return nil, cuserr.WrapStdError(closeErr, ErrCodeOutput, ErrMsgOutputWriteFailed).
			WithMetadata(MetaKeyPath, outputPath)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return nil, cuserr.WrapStdError(err, ErrCodeOutput, ErrMsgOutputWriteFailed).
			WithMetadata(MetaKeyPath, outputPath)
	}
	return defines, nil
}

// process runs the full pipeline over one file: content-type resolution,
// grammar compilation, then the line loop. It is invoked recursively for
// #include targets; defines and seen thread through the whole call chain
// while the conditional stack is scoped to this file alone.
func (e *Engine) process(path string, buf *bytes.Buffer, defines Defines, seen includeSet, depth int) (Defines, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if _, processing := seen[abs]; processing {
		return nil, NewRecursiveIncludeError(path)
	}
	seen[abs] = struct{}{}

	pairs, err := e.contentTypes.CommentGroupForPath(path, e.config.defaultContentType)
	if err != nil {
		return nil, err
	}

	matchers, err := internal.CompileMatchers(pairs)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewPreprocessorError(ErrKindIncludeNotFound, err.Error(), path, 0).WithCause(err)
	}

	e.logger.Debug("processing file",
		zap.String("path", path),
		zap.Int("depth", depth),
	)

	stack := internal.NewCondStack()
	builtins := e.builtins(&defines)

	for lineNumber, line := range splitLinesKeepEnds(data) {
		n := lineNumber + 1
		defines[VarFile] = path
		defines[VarLine] = n

		directive, ok := internal.MatchDirective(matchers, line)
		if !ok {
			// Plain content line.
			if !stack.Skipping() {
				if e.config.substitute {
					line = Substitute(line, defines)
				}
				buf.WriteString(line)
			} else if e.config.keepLines {
				buf.WriteString("\n")
			}
			continue
		}

		e.logger.Debug("directive",
			zap.String("op", string(directive.Op)),
			zap.String("file", path),
			zap.Int("line", n),
			zap.Int("condDepth", stack.Depth()),
		)

		if err := e.applyDirective(directive, path, n, buf, &defines, stack, seen, depth, builtins); err != nil {
			return nil, err
		}

		if e.config.keepLines {
			buf.WriteString("\n")
		}
	}

	if stack.Depth() > 1 {
		return nil, NewPreprocessorError(ErrKindUnterminatedBlock, ErrMsgUnterminatedBlock, path, lastLineNumber(defines))
	}
	if stack.Depth() < 1 {
		return nil, NewPreprocessorError(ErrKindSuperfluousEndif, ErrMsgSuperfluousEndif, path, lastLineNumber(defines))
	}

	return defines, nil
}

// applyDirective performs one state machine transition.
func (e *Engine) applyDirective(d *internal.Directive, path string, line int, buf *bytes.Buffer, defines *Defines, stack *internal.CondStack, seen includeSet, depth int, builtins map[string]internal.BuiltinFunc) error {
	switch d.Op {
	case internal.OpIf, internal.OpIfdef, internal.OpIfndef:
		// Nested inside a skipped section: push a skip frame without
		// evaluating the condition at all.
		if stack.Skipping() {
			stack.Push(internal.Frame{Mode: internal.ModeSkip})
			return nil
		}
		truth, err := e.evaluate(normalizeConditional(d), string(d.Op), *defines, builtins, path, line)
		if err != nil {
			return err
		}
		if truth {
			stack.Push(internal.Frame{Mode: internal.ModeEmit, HasEmitted: true})
		} else {
			stack.Push(internal.Frame{Mode: internal.ModeSkip})
		}

	case internal.OpElif:
		if stack.AtRoot() {
			return NewPreprocessorError(ErrKindElifWithoutIf, ErrMsgElifWithoutIf, path, line)
		}
		top := stack.Top()
		switch {
		case top.HasElse:
			return NewPreprocessorError(ErrKindIllegalElifAfterElse, ErrMsgIllegalElifAfterElse, path, line)
		case top.HasEmitted:
			// An earlier branch already emitted; this one is skipped
			// regardless of its own truth.
			*top = internal.Frame{Mode: internal.ModeSkip, HasEmitted: true}
		case stack.ParentSkipping():
			*top = internal.Frame{Mode: internal.ModeSkip}
		default:
			truth, err := e.evaluate(d.Expr, string(d.Op), *defines, builtins, path, line)
			if err != nil {
				return err
			}
			if truth {
				*top = internal.Frame{Mode: internal.ModeEmit, HasEmitted: true}
			} else {
				*top = internal.Frame{Mode: internal.ModeSkip}
			}
		}

	case internal.OpElse:
		if stack.AtRoot() {
			return NewPreprocessorError(ErrKindElseWithoutIf, ErrMsgElseWithoutIf, path, line)
		}
		top := stack.Top()
		switch {
		case top.HasElse:
			return NewPreprocessorError(ErrKindIllegalElseAfterElse, ErrMsgIllegalElseAfterElse, path, line)
		case top.HasEmitted:
			*top = internal.Frame{Mode: internal.ModeSkip, HasEmitted: true, HasElse: true}
		case stack.ParentSkipping():
			*top = internal.Frame{Mode: internal.ModeSkip, HasElse: true}
		default:
			*top = internal.Frame{Mode: internal.ModeEmit, HasEmitted: true, HasElse: true}
		}

	case internal.OpEndif:
		if !stack.Pop() {
			return NewPreprocessorError(ErrKindEndifWithoutIf, ErrMsgEndifWithoutIf, path, line)
		}

	case internal.OpDefine:
		if stack.Skipping() {
			return nil
		}
		if d.Name == "" {
			return NewPreprocessorError(ErrKindSyntax, ErrMsgInvalidDefineTarget, path, line)
		}
		if d.HasValue {
			(*defines)[d.Name] = ParseValueToken(d.Value)
		} else {
			(*defines)[d.Name] = nil
		}

	case internal.OpUndef:
		if stack.Skipping() {
			return nil
		}
		if d.Name == "" {
			return NewPreprocessorError(ErrKindSyntax, ErrMsgInvalidUndefTarget, path, line)
		}
		// Removing an absent name is not an error.
		delete(*defines, d.Name)

	case internal.OpError:
		if stack.Skipping() {
			return nil
		}
		return NewUserError(d.Message, path, line)

	case internal.OpInclude:
		if stack.Skipping() {
			return nil
		}
		return e.include(d, path, line, buf, defines, seen, depth)
	}

	return nil
}

// include resolves an #include target against the search path and processes
// it as a nested invocation of the full pipeline. The updated defines table
// becomes the table the including file continues with.
func (e *Engine) include(d *internal.Directive, path string, line int, buf *bytes.Buffer, defines *Defines, seen includeSet, depth int) error {
	target := d.Path
	if !d.PathIsLiteral {
		value, ok := (*defines)[d.Name]
		if !ok {
			cause := internal.NewUnboundVariableError(d.Name)
			return NewUnboundVariableError(string(internal.OpInclude), cause, path, line)
		}
		target = formatValue(value)
	}

	searched := append([]string{filepath.Dir(path)}, e.config.includePaths...)
	resolved := ""
	if target != "" {
		for _, dir := range searched {
			candidate := filepath.Clean(filepath.Join(dir, target))
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				resolved = candidate
				break
			}
		}
	}
	if resolved == "" {
		return NewIncludeNotFoundError(target, searched, path, line)
	}

	e.logger.Debug("include",
		zap.String("target", target),
		zap.String("resolved", resolved),
		zap.String("from", path),
		zap.Int("line", line),
	)

	updated, err := e.process(resolved, buf, *defines, seen, depth+1)
	if err != nil {
		return err
	}
	*defines = updated
	return nil
}

// evaluate runs a conditional expression against the current defines table.
// Unbound variable references and malformed expressions become positioned
// preprocessor errors.
func (e *Engine) evaluate(expr, op string, defines Defines, builtins map[string]internal.BuiltinFunc, path string, line int) (bool, error) {
	truth, err := internal.EvaluateExpressionBool(expr, defines, builtins)
	if err != nil {
		var unbound *internal.UnboundVariableError
		if errors.As(err, &unbound) {
			return false, NewUnboundVariableError(op, err, path, line)
		}
		return false, NewExpressionSyntaxError(op, err, path, line)
	}

	e.logger.Debug("evaluate",
		zap.String("expr", expr),
		zap.Bool("result", truth),
	)
	return truth, nil
}

// builtins returns the builtin set exposed to expressions: just the defined
// predicate, closed over the current table pointer so include merges stay
// visible.
func (e *Engine) builtins(defines *Defines) map[string]internal.BuiltinFunc {
	return map[string]internal.BuiltinFunc{
		internal.BuiltinNameDefined: func(args []any) (any, error) {
			if len(args) != 1 {
				return nil, internal.NewExprEvalError(internal.ErrMsgExprTypeMismatch, fmt.Sprintf("%s expects exactly one argument", internal.BuiltinNameDefined))
			}
			name, ok := args[0].(string)
			if !ok {
				return false, nil
			}
			_, present := (*defines)[name]
			return present, nil
		},
	}
}

// normalizeConditional rewrites ifdef/ifndef into their defined() expression
// form; #if expressions pass through unchanged.
func normalizeConditional(d *internal.Directive) string {
	switch d.Op {
	case internal.OpIfdef:
		return fmt.Sprintf(fmtExprDefined, d.Expr)
	case internal.OpIfndef:
		return fmt.Sprintf(fmtExprNotDefined, d.Expr)
	default:
		return d.Expr
	}
}

// splitLinesKeepEnds splits file contents into lines, each keeping its
// terminator. Output equality with input for directive-free files depends on
// this preserving every byte.
func splitLinesKeepEnds(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i+1]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}

// lastLineNumber reads the current __LINE__ for end-of-file error context.
func lastLineNumber(defines Defines) int {
	if n, ok := defines[VarLine].(int); ok {
		return n
	}
	return 0
}
