package dotconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeConfigFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// ── parse ─────────────────────────────────────────────────────────────────────

// TestFormatParse_YAML verifies YAML decoding into a generic nested map.
func TestFormatParse_YAML(t *testing.T) {
	parsed, err := FormatYAML.parse([]byte("log: info\nsettings:\n  timeout: 30\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"log":      "info",
		"settings": map[string]any{"timeout": 30},
	}, parsed)
}

// TestFormatParse_JSON verifies JSON decoding; numbers come back as float64.
func TestFormatParse_JSON(t *testing.T) {
	parsed, err := FormatJSON.parse([]byte(`{"log":"info","port":8080}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"log": "info", "port": float64(8080)}, parsed)
}

// TestFormatParse_EmptyDocument verifies that an empty document parses to an
// empty map, not nil.
func TestFormatParse_EmptyDocument(t *testing.T) {
	parsed, err := FormatYAML.parse(nil)
	require.NoError(t, err)
	assert.NotNil(t, parsed)
	assert.Empty(t, parsed)
}

// TestFormatParse_Malformed verifies decode errors surface.
func TestFormatParse_Malformed(t *testing.T) {
	_, err := FormatYAML.parse([]byte("list: [unclosed\n"))
	assert.Error(t, err)

	_, err = FormatJSON.parse([]byte("{"))
	assert.Error(t, err)
}

// ── findFile ──────────────────────────────────────────────────────────────────

// TestFindFile_SearchOrder verifies that directories are searched in order
// and the first existing file wins.
func TestFindFile_SearchOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeConfigFile(t, second, "config.yml", "a: 1\n")
	want := writeConfigFile(t, first, "config.yaml", "a: 2\n")

	path, err := findFile([]string{first, second}, "config", FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

// TestFindFile_ExtensionOrder verifies that .yml is preferred over .yaml
// within one directory.
func TestFindFile_ExtensionOrder(t *testing.T) {
	dir := t.TempDir()
	want := writeConfigFile(t, dir, "config.yml", "a: 1\n")
	writeConfigFile(t, dir, "config.yaml", "a: 2\n")

	path, err := findFile([]string{dir}, "config", FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

// TestFindFile_NotFound verifies ErrFileNotFound on an exhausted or empty
// search list.
func TestFindFile_NotFound(t *testing.T) {
	_, err := findFile([]string{t.TempDir()}, "config", FormatYAML)
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = findFile(nil, "config", FormatYAML)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

// TestLoadFile_WrapsParseFailure verifies that a found-but-malformed file
// reports ErrFileParse with the path in the message.
func TestLoadFile_WrapsParseFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, "config.yml", "list: [unclosed\n")

	_, err := loadFile(path, FormatYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileParse)
	assert.ErrorContains(t, err, path)
}
