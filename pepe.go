// Package pepe provides a language-agnostic line preprocessor.
//
// Pepe scans a text file line by line and recognizes preprocessor directives
// written inside the file's own comment syntax, so source files stay valid
// for their native tooling:
//
//	# #if DEBUG          (shell, Python, Makefile, ...)
//	// #if DEBUG         (C++, Java, JavaScript, ...)
//	<!-- #if DEBUG -->   (XML, HTML)
//
// Directive lines never appear in the output. Content lines are emitted or
// suppressed according to the #if/#elif/#else/#endif structure around them,
// evaluated against a variable table.
//
// # Basic Usage
//
// Create an engine and preprocess a file:
//
//	engine := pepe.MustNew()
//	defines, _ := pepe.ParseDefinitions([]string{"DEBUG=1"})
//	_, err := engine.Preprocess("app.js", os.Stdout, defines)
//
// # Directives
//
// Conditionals:
//
//	#if EXPR / #elif EXPR / #else / #endif
//	#ifdef NAME / #ifndef NAME
//
// Variable table manipulation, applied mid-stream:
//
//	#define NAME [VALUE]
//	#undef NAME
//
// Diagnostics and composition:
//
//	#error MESSAGE
//	#include "FILE"
//	#include VARIABLE
//
// Includes are resolved against the including file's directory first, then
// the configured include path, and are processed recursively with cycle
// detection. #define and #undef inside an included file remain in effect in
// the including file.
//
// # Expressions
//
// Conditional expressions support comparison (==, !=, <, <=, >, >=), boolean
// logic (and/&&, or/||, not/!), arithmetic (+, -, *, /, %), substring
// containment (in), string, numeric (including 0x hex) and boolean literals,
// and the defined('NAME') predicate. Referencing an undefined variable is an
// error, not false. The reserved variables __FILE__ and __LINE__ track the
// current position.
//
// # Content Types
//
// Which comment delimiters are recognized for a file is decided by its
// content type, resolved from the filename (exact name, extension, or
// pattern) with an XML declaration sniff override. The built-in table covers
// the common languages; WithContentTypesConfig merges custom YAML rules.
package pepe
