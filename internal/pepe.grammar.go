package internal

import (
	"fmt"
	"regexp"
)

// DirectiveOp identifies a preprocessor directive form
type DirectiveOp string

// Directive operation constants
const (
	OpIf      DirectiveOp = "if"
	OpElif    DirectiveOp = "elif"
	OpIfdef   DirectiveOp = "ifdef"
	OpIfndef  DirectiveOp = "ifndef"
	OpElse    DirectiveOp = "else"
	OpEndif   DirectiveOp = "endif"
	OpError   DirectiveOp = "error"
	OpDefine  DirectiveOp = "define"
	OpUndef   DirectiveOp = "undef"
	OpInclude DirectiveOp = "include"
)

// CommentPair is one (prefix, suffix) comment delimiter pair. Either side is
// a literal string or, when the corresponding pattern field is set, a
// regular expression that replaces the literal in the compiled matcher.
type CommentPair struct {
	Prefix        string
	Suffix        string
	PrefixPattern *regexp.Regexp
	SuffixPattern *regexp.Regexp
}

// Directive is a matched preprocessor statement with its captured payload.
// Which fields are populated depends on Op:
//
//	if/elif/ifdef/ifndef  Expr (for ifdef/ifndef it holds the bare name)
//	error                 Message
//	define                Name, Value, HasValue
//	undef                 Name
//	include               Path+PathIsLiteral for the quoted form, Name for
//	                      the variable form
type Directive struct {
	Op            DirectiveOp
	Expr          string
	Message       string
	Name          string
	Value         string
	HasValue      bool
	Path          string
	PathIsLiteral bool
}

// statementForm identifies which of the fixed directive patterns a matcher
// was compiled from.
type statementForm int

const (
	formConditional statementForm = iota
	formElseEndif
	formError
	formDefine
	formUndef
	formIncludeQuoted
	formIncludeVariable
)

// statementPatterns are the directive body patterns, in matching priority
// order. The quoted include form precedes the variable form so a line that
// could match either always resolves to the quoted path.
var statementPatterns = []struct {
	form    statementForm
	pattern string
}{
	{formConditional, `#\s*(?P<op>if|elif|ifdef|ifndef)\s+(?P<expr>.*?)`},
	{formElseEndif, `#\s*(?P<op>else|endif)`},
	{formError, `#\s*(?P<op>error)\s+(?P<error>.*?)`},
	{formDefine, `#\s*(?P<op>define)\s+(?P<var>[^\s]*?)(\s+(?P<val>.+?))?`},
	{formUndef, `#\s*(?P<op>undef)\s+(?P<var>[^\s]*?)`},
	{formIncludeQuoted, `#\s*(?P<op>include)\s+"(?P<fname>.*?)"`},
	{formIncludeVariable, `#\s*(?P<op>include)\s+(?P<var>[^\s]+?)`},
}

// StatementMatcher recognizes one directive form wrapped in one comment pair.
type StatementMatcher struct {
	form   statementForm
	re     *regexp.Regexp
	groups map[string]int
}

// CompileMatchers compiles the full matcher family for a comment group: one
// matcher per (directive form x comment pair), in directive-form-major order
// so that matcher priority follows statement priority, not delimiter order.
func CompileMatchers(pairs []CommentPair) ([]*StatementMatcher, error) {
	var matchers []*StatementMatcher

	for _, stmt := range statementPatterns {
		for _, pair := range pairs {
			pattern := prefixPattern(pair) + stmt.pattern + suffixPattern(pair)
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("compiling statement matcher %q: %w", pattern, err)
			}

			groups := make(map[string]int)
			for i, name := range re.SubexpNames() {
				if name != "" {
					groups[name] = i
				}
			}

			matchers = append(matchers, &StatementMatcher{
				form:   stmt.form,
				re:     re,
				groups: groups,
			})
		}
	}

	return matchers, nil
}

func prefixPattern(pair CommentPair) string {
	if pair.PrefixPattern != nil {
		return pair.PrefixPattern.String()
	}
	return `^\s*` + regexp.QuoteMeta(pair.Prefix) + `\s*`
}

func suffixPattern(pair CommentPair) string {
	if pair.SuffixPattern != nil {
		return pair.SuffixPattern.String()
	}
	return `\s*` + regexp.QuoteMeta(pair.Suffix) + `\s*$`
}

// Match attempts to recognize the line as this matcher's directive form.
func (m *StatementMatcher) Match(line string) (*Directive, bool) {
	sub := m.re.FindStringSubmatch(line)
	if sub == nil {
		return nil, false
	}

	group := func(name string) string {
		idx, ok := m.groups[name]
		if !ok || idx >= len(sub) {
			return ""
		}
		return sub[idx]
	}

	d := &Directive{Op: DirectiveOp(group("op"))}

	switch m.form {
	case formConditional:
		d.Expr = group("expr")
	case formElseEndif:
		// no payload
	case formError:
		d.Message = group("error")
	case formDefine:
		d.Name = group("var")
		if val := group("val"); val != "" {
			d.Value = val
			d.HasValue = true
		}
	case formUndef:
		d.Name = group("var")
	case formIncludeQuoted:
		d.Path = group("fname")
		d.PathIsLiteral = true
	case formIncludeVariable:
		d.Name = group("var")
	}

	return d, true
}

// MatchDirective tries each matcher in priority order and returns the first
// match. A line matching no matcher is a plain content line.
func MatchDirective(matchers []*StatementMatcher, line string) (*Directive, bool) {
	for _, m := range matchers {
		if d, ok := m.Match(line); ok {
			return d, true
		}
	}
	return nil, false
}
