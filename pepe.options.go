package pepe

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	includePaths       []string
	keepLines          bool
	substitute         bool
	defaultContentType string
	contentTypes       *ContentTypesDatabase
	configFiles        []string
	logger             *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		includePaths: []string{DefaultIncludePath},
		logger:       nil,
	}
}

// DefaultIncludePath is the implicit #include search directory.
const DefaultIncludePath = "."

// WithIncludePaths sets the directories searched for #include targets after
// the including file's own directory.
// Default: the current directory.
func WithIncludePaths(dirs ...string) Option {
	return func(c *engineConfig) {
		if len(dirs) > 0 {
			c.includePaths = dirs
		}
	}
}

// WithKeepLines makes the engine emit a blank line for every directive line
// and every suppressed content line, so output line numbers match the input.
// Default: suppressed lines are dropped.
func WithKeepLines(keep bool) Option {
	return func(c *engineConfig) {
		c.keepLines = keep
	}
}

// WithSubstitution enables substituting defined variables into emitted
// lines. This is literal text replacement, not token-aware; see Substitute.
// Default: disabled.
func WithSubstitution(substitute bool) Option {
	return func(c *engineConfig) {
		c.substitute = substitute
	}
}

// WithDefaultContentType sets the content type used when no resolution rule
// matches the input path.
// Default: unresolvable paths are an error.
func WithDefaultContentType(contentType string) Option {
	return func(c *engineConfig) {
		c.defaultContentType = contentType
	}
}

// WithContentTypes replaces the engine's content-types database.
// Default: a database loaded with the embedded configuration.
func WithContentTypes(db *ContentTypesDatabase) Option {
	return func(c *engineConfig) {
		c.contentTypes = db
	}
}

// WithContentTypesConfig merges an additional content-types configuration
// file into the engine's database at construction time. Repeatable.
func WithContentTypesConfig(path string) Option {
	return func(c *engineConfig) {
		c.configFiles = append(c.configFiles, path)
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
