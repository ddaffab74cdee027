package pepe

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/itsatony/go-cuserr"
	"gopkg.in/yaml.v3"

	"github.com/itsatony/go-pepe/internal"
)

//go:embed content-types.yaml
var defaultContentTypesConfig []byte

// Configuration error constants
const (
	ErrCodeConfig = "PEPE_CONFIG"

	ErrMsgConfigParseFailed   = "content-types config parsing failed"
	ErrMsgConfigReadFailed    = "content-types config file read failed"
	ErrMsgConfigBadPair       = "comment group pair must be a [prefix, suffix] list"
	ErrMsgConfigBadRegex      = "invalid regular expression pattern"
	ErrMsgConfigBadTypesEntry = "content-types entry must map a label to a list of patterns"

	MetaKeyPath        = "path"
	MetaKeyContentType = "content_type"
	MetaKeyPattern     = "pattern"
)

// contentTypesDocument is the wire shape of a content-types configuration
// document. The content-types section is kept as a raw node so regex rules
// register in document order.
type contentTypesDocument struct {
	CommentGroups map[string][][]string `yaml:"comment-groups"`
	ContentTypes  yaml.Node             `yaml:"content-types"`
}

// regexRule is one basename regular expression rule, kept in registration
// order.
type regexRule struct {
	re          *regexp.Regexp
	contentType string
}

// ContentTypesDatabase determines the content type of a path and the comment
// delimiter pairs valid for that type. Resolution is a pure function of the
// loaded configuration plus a single file read for XML sniffing.
type ContentTypesDatabase struct {
	filenames       map[string]string
	extensions      map[string]string
	regexes         []regexRule
	groups          map[string][]internal.CommentPair
	caseInsensitive bool
}

// NewContentTypesDatabase creates a database preloaded with the embedded
// default configuration.
func NewContentTypesDatabase() (*ContentTypesDatabase, error) {
	db := newEmptyContentTypesDatabase()
	if err := db.AddConfig(defaultContentTypesConfig); err != nil {
		return nil, err
	}
	return db, nil
}

// newEmptyContentTypesDatabase creates a database with no rules loaded.
// Extension rules are case-insensitive on platforms with case-insensitive
// filesystems.
func newEmptyContentTypesDatabase() *ContentTypesDatabase {
	return &ContentTypesDatabase{
		filenames:       make(map[string]string),
		extensions:      make(map[string]string),
		groups:          make(map[string][]internal.CommentPair),
		caseInsensitive: runtime.GOOS == "windows",
	}
}

// AddConfig merges a content-types configuration document into the database.
// Later documents override earlier filename/extension rules for the same
// pattern; regex rules append in document order.
func (db *ContentTypesDatabase) AddConfig(doc []byte) error {
	var parsed contentTypesDocument
	if err := yaml.Unmarshal(doc, &parsed); err != nil {
		return cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgConfigParseFailed)
	}

	for contentType, pairs := range parsed.CommentGroups {
		for _, pair := range pairs {
			if len(pair) != 2 {
				return cuserr.NewValidationError(ErrCodeConfig, ErrMsgConfigBadPair).
					WithMetadata(MetaKeyContentType, contentType)
			}
			compiled, err := compileCommentPair(pair[0], pair[1])
			if err != nil {
				return cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgConfigBadRegex).
					WithMetadata(MetaKeyContentType, contentType)
			}
			db.groups[contentType] = append(db.groups[contentType], compiled)
		}
	}

	return db.addContentTypeRules(&parsed.ContentTypes)
}

// AddConfigFile reads and merges a configuration document from disk.
func (db *ContentTypesDatabase) AddConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgConfigReadFailed).
			WithMetadata(MetaKeyPath, path)
	}
	return db.AddConfig(data)
}

// addContentTypeRules walks the content-types mapping in document order so
// regex rule precedence is deterministic.
func (db *ContentTypesDatabase) addContentTypeRules(node *yaml.Node) error {
	if node == nil || node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return cuserr.NewValidationError(ErrCodeConfig, ErrMsgConfigBadTypesEntry)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		label := node.Content[i].Value
		patternsNode := node.Content[i+1]

		var patterns []string
		if err := patternsNode.Decode(&patterns); err != nil {
			return cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgConfigBadTypesEntry).
				WithMetadata(MetaKeyContentType, label)
		}

		for _, pattern := range patterns {
			if err := db.addPattern(label, pattern); err != nil {
				return err
			}
		}
	}
	return nil
}

// addPattern registers a single content-type pattern rule.
func (db *ContentTypesDatabase) addPattern(contentType, pattern string) error {
	switch {
	case strings.HasPrefix(pattern, extensionRulePrefix):
		ext := pattern
		if db.caseInsensitive {
			ext = strings.ToLower(ext)
		}
		db.extensions[ext] = contentType
	case isRegexPattern(pattern):
		re, err := regexp.Compile(trimRegexDelimiters(pattern))
		if err != nil {
			return cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgConfigBadRegex).
				WithMetadata(MetaKeyContentType, contentType).
				WithMetadata(MetaKeyPattern, pattern)
		}
		db.regexes = append(db.regexes, regexRule{re: re, contentType: contentType})
	default:
		db.filenames[pattern] = contentType
	}
	return nil
}

// ContentType resolves the content type for a path. Resolution order, first
// match wins: exact basename, extension, basename regex in registration
// order. The XML content sniff always runs afterwards and overrides any
// name-based result. When nothing matches, defaultType is used if non-empty;
// otherwise resolution fails.
func (db *ContentTypesDatabase) ContentType(path, defaultType string) (string, error) {
	basename := filepath.Base(path)
	contentType := ""

	if ct, ok := db.filenames[basename]; ok {
		contentType = ct
	}

	if contentType == "" {
		if idx := strings.LastIndex(basename, "."); idx >= 0 {
			ext := basename[idx:]
			if db.caseInsensitive {
				ext = strings.ToLower(ext)
			}
			if ct, ok := db.extensions[ext]; ok {
				contentType = ct
			}
		}
	}

	if contentType == "" {
		for _, rule := range db.regexes {
			if rule.re.MatchString(basename) {
				contentType = rule.contentType
				break
			}
		}
	}

	// Content wins over name for XML: an XML declaration forces the XML
	// label no matter what the filename said.
	if sniffXML(path) {
		contentType = ContentTypeXML
	}

	if contentType == "" {
		contentType = defaultType
	}
	if contentType == "" {
		return "", NewContentTypeUndeterminedError(path)
	}
	return contentType, nil
}

// CommentGroup returns the comment delimiter pairs registered for a content
// type.
func (db *ContentTypesDatabase) CommentGroup(contentType string) ([]internal.CommentPair, error) {
	pairs, ok := db.groups[contentType]
	if !ok || len(pairs) == 0 {
		return nil, NewNoCommentGroupError(contentType, "")
	}
	return pairs, nil
}

// CommentGroupForPath resolves a path's content type and returns that type's
// comment group in one step.
func (db *ContentTypesDatabase) CommentGroupForPath(path, defaultType string) ([]internal.CommentPair, error) {
	contentType, err := db.ContentType(path, defaultType)
	if err != nil {
		return nil, err
	}
	pairs, ok := db.groups[contentType]
	if !ok || len(pairs) == 0 {
		return nil, NewNoCommentGroupError(contentType, path)
	}
	return pairs, nil
}

// ContentTypes returns all labels with registered comment groups, sorted.
func (db *ContentTypesDatabase) ContentTypes() []string {
	labels := make([]string, 0, len(db.groups))
	for label := range db.groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// String renders the registered content types and their comment delimiters,
// one per line, for diagnostic display.
func (db *ContentTypesDatabase) String() string {
	var sb strings.Builder
	for _, label := range db.ContentTypes() {
		sb.WriteString(label)
		for _, pair := range db.groups[label] {
			prefix := pair.Prefix
			if pair.PrefixPattern != nil {
				prefix = regexRuleDelimiter + pair.PrefixPattern.String() + regexRuleDelimiter
			}
			suffix := pair.Suffix
			if pair.SuffixPattern != nil {
				suffix = regexRuleDelimiter + pair.SuffixPattern.String() + regexRuleDelimiter
			}
			sb.WriteString(fmt.Sprintf("\t[%s ... %s]", prefix, suffix))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// compileCommentPair builds a CommentPair, compiling any /.../ side into a
// regular expression.
func compileCommentPair(prefix, suffix string) (internal.CommentPair, error) {
	pair := internal.CommentPair{Prefix: prefix, Suffix: suffix}

	if isRegexPattern(prefix) {
		re, err := regexp.Compile(trimRegexDelimiters(prefix))
		if err != nil {
			return internal.CommentPair{}, err
		}
		pair.PrefixPattern = re
	}
	if isRegexPattern(suffix) {
		re, err := regexp.Compile(trimRegexDelimiters(suffix))
		if err != nil {
			return internal.CommentPair{}, err
		}
		pair.SuffixPattern = re
	}
	return pair, nil
}

// isRegexPattern reports whether a config pattern is wrapped in /.../.
func isRegexPattern(pattern string) bool {
	return len(pattern) > 1 && strings.HasPrefix(pattern, regexRuleDelimiter) && strings.HasSuffix(pattern, regexRuleDelimiter)
}

func trimRegexDelimiters(pattern string) string {
	return pattern[1 : len(pattern)-1]
}

// sniffXML reports whether the file's first bytes are an XML declaration.
// Unreadable files simply don't sniff.
func sniffXML(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, len(xmlSniffPrefix))
	n, err := f.Read(buf)
	if err != nil || n < len(xmlSniffPrefix) {
		return false
	}
	return string(buf) == xmlSniffPrefix
}
