package pepe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *ContentTypesDatabase {
	t.Helper()
	db, err := NewContentTypesDatabase()
	require.NoError(t, err)
	return db
}

func TestContentType_DefaultRules(t *testing.T) {
	db := newTestDatabase(t)

	tests := []struct {
		path     string
		expected string
	}{
		{"script.py", "Python"},
		{"lib.pm", "Perl"},
		{"run.sh", "Shell"},
		{"index.html", "HTML"},
		{"app.js", "JavaScript"},
		{"style.css", "CSS"},
		{"main.c", "C"},
		{"main.cpp", "C++"},
		{"Main.java", "Java"},
		{"paper.tex", "TeX"},
		{"notes.txt", "Text"},
		{"prog.f90", "Fortran"},
		{"Makefile", "Makefile"},
		{"makefile.debug", "Makefile"},
		{"config.mk", "Makefile"},
		{"/some/dir/script.py", "Python"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ct, err := db.ContentType(tt.path, "")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, ct)
		})
	}
}

func TestContentType_Unresolvable(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.ContentType("mystery.bin", "")

	require.Error(t, err)
	var perr *PreprocessorError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrKindContentTypeUndetermined, perr.Kind)
}

func TestContentType_DefaultFallback(t *testing.T) {
	db := newTestDatabase(t)

	ct, err := db.ContentType("mystery.bin", "Text")

	require.NoError(t, err)
	assert.Equal(t, "Text", ct)
}

func TestContentType_FilenameBeatsExtension(t *testing.T) {
	db := newTestDatabase(t)
	require.NoError(t, db.AddConfig([]byte(`
comment-groups:
  Special:
    - ["#", ""]
content-types:
  Special: ["build.py"]
`)))

	ct, err := db.ContentType("build.py", "")
	require.NoError(t, err)
	assert.Equal(t, "Special", ct)

	// Other .py files still resolve through the extension rule.
	ct, err = db.ContentType("other.py", "")
	require.NoError(t, err)
	assert.Equal(t, "Python", ct)
}

func TestContentType_XMLSniffOverride(t *testing.T) {
	db := newTestDatabase(t)
	dir := t.TempDir()

	// A .txt file whose content starts with an XML declaration is XML.
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte(`<?xml version="1.0"?>`+"\n<root/>\n"), 0o644))

	ct, err := db.ContentType(path, "")
	require.NoError(t, err)
	assert.Equal(t, "XML", ct)

	// Without the declaration the name rules decide.
	plain := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte("just text\n"), 0o644))

	ct, err = db.ContentType(plain, "")
	require.NoError(t, err)
	assert.Equal(t, "Text", ct)
}

func TestCommentGroup(t *testing.T) {
	db := newTestDatabase(t)

	pairs, err := db.CommentGroup("Python")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "#", pairs[0].Prefix)
	assert.Equal(t, "", pairs[0].Suffix)

	pairs, err = db.CommentGroup("XML")
	require.NoError(t, err)
	assert.Len(t, pairs, 3)

	_, err = db.CommentGroup("Unknown")
	require.Error(t, err)
	var perr *PreprocessorError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrKindNoCommentGroup, perr.Kind)
}

func TestCommentGroupForPath(t *testing.T) {
	db := newTestDatabase(t)

	pairs, err := db.CommentGroupForPath("run.sh", "")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "#", pairs[0].Prefix)

	// Resolvable type without a comment group.
	require.NoError(t, db.AddConfig([]byte(`
content-types:
  Binary: [".bin"]
`)))
	_, err = db.CommentGroupForPath("data.bin", "")
	require.Error(t, err)
	var perr *PreprocessorError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrKindNoCommentGroup, perr.Kind)
}

func TestAddConfig_MergeAndOverride(t *testing.T) {
	db := newTestDatabase(t)
	require.NoError(t, db.AddConfig([]byte(`
comment-groups:
  Nim:
    - ["#", ""]
content-types:
  Nim: [".nim"]
  Text: [".log"]
`)))

	ct, err := db.ContentType("app.nim", "")
	require.NoError(t, err)
	assert.Equal(t, "Nim", ct)

	// Later documents can claim extensions for another type.
	ct, err = db.ContentType("out.log", "")
	require.NoError(t, err)
	assert.Equal(t, "Text", ct)
}

func TestAddConfig_Invalid(t *testing.T) {
	db := newTestDatabase(t)

	assert.Error(t, db.AddConfig([]byte("comment-groups: [not, a, map]")))
	assert.Error(t, db.AddConfig([]byte(`
comment-groups:
  Broken:
    - ["#"]
`)))
	assert.Error(t, db.AddConfig([]byte(`
content-types:
  Broken: ["/(unclosed/"]
`)))
}

func TestAddConfigFile(t *testing.T) {
	db := newTestDatabase(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
comment-groups:
  Zig:
    - ["//", ""]
content-types:
  Zig: [".zig"]
`), 0o644))

	require.NoError(t, db.AddConfigFile(path))

	ct, err := db.ContentType("main.zig", "")
	require.NoError(t, err)
	assert.Equal(t, "Zig", ct)

	assert.Error(t, db.AddConfigFile(filepath.Join(dir, "missing.yaml")))
}

func TestContentTypesString(t *testing.T) {
	db := newTestDatabase(t)

	out := db.String()

	assert.Contains(t, out, "Python")
	assert.Contains(t, out, "[# ... ]")
	assert.Contains(t, out, "[<!-- ... -->]")

	labels := db.ContentTypes()
	assert.Contains(t, labels, "Fortran")
	assert.Contains(t, labels, "C++")
}
