package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCLI_PreprocessToStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "input.txt", ""+
		"# #if DEBUG\n"+
		"debug\n"+
		"# #else\n"+
		"release\n"+
		"# #endif\n")

	out, err := runCLI(t, "-D", "DEBUG=1", path)
	require.NoError(t, err)
	assert.Equal(t, "debug\n", out)

	out, err = runCLI(t, "-D", "DEBUG=0", path)
	require.NoError(t, err)
	assert.Equal(t, "release\n", out)
}

func TestCLI_OutputFile(t *testing.T) {
	dir := t.TempDir()
	inPath := writeFile(t, dir, "input.txt", "content\n")
	outPath := filepath.Join(dir, "out.txt")

	_, err := runCLI(t, "-o", outPath, inPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(data))

	// A second run refuses to overwrite without --force.
	_, err = runCLI(t, "-o", outPath, inPath)
	require.Error(t, err)

	_, err = runCLI(t, "-o", outPath, "--force", inPath)
	require.NoError(t, err)
}

func TestCLI_KeepLinesAndSubstitute(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "input.txt", ""+
		"# #define NAME pepe\n"+
		"hello NAME\n")

	out, err := runCLI(t, "-k", "-s", path)
	require.NoError(t, err)
	assert.Equal(t, "\nhello pepe\n", out)
}

func TestCLI_IncludePath(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "lib")
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	writeFile(t, libDir, "part.txt", "the part\n")
	path := writeFile(t, dir, "input.txt", "# #include \"part.txt\"\n")

	out, err := runCLI(t, "-I", libDir, path)
	require.NoError(t, err)
	assert.Equal(t, "the part\n", out)
}

func TestCLI_PrintContentTypes(t *testing.T) {
	out, err := runCLI(t, "--print-content-types")

	require.NoError(t, err)
	assert.Contains(t, out, "Python")
	assert.Contains(t, out, "JavaScript")
}

func TestCLI_DefaultContentType(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.weird", "content\n")

	_, err := runCLI(t, path)
	require.Error(t, err)

	out, err := runCLI(t, "--default-content-type", "Text", path)
	require.NoError(t, err)
	assert.Equal(t, "content\n", out)
}

func TestCLI_ContentTypesConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "types.yaml", ""+
		"comment-groups:\n"+
		"  Custom:\n"+
		"    - [\";\", \"\"]\n"+
		"content-types:\n"+
		"  Custom: [\".cst\"]\n")
	path := writeFile(t, dir, "input.cst", ""+
		"; #if 1\n"+
		"kept\n"+
		"; #endif\n")

	out, err := runCLI(t, "-c", configPath, path)
	require.NoError(t, err)
	assert.Equal(t, "kept\n", out)
}

func TestCLI_MissingInput(t *testing.T) {
	_, err := runCLI(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgInputRequired)
}

func TestCLI_BadDefine(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "input.txt", "content\n")

	_, err := runCLI(t, "-D", "=oops", path)
	assert.Error(t, err)
}
