package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONFile_Missing(t *testing.T) {
	v := map[string]int{"keep": 1}
	found, err := readJSONFile(filepath.Join(t.TempDir(), "nope.json"), &v)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, map[string]int{"keep": 1}, v)
}

func TestReadJSONFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	var v map[string]int
	_, err := readJSONFile(path, &v)
	assert.ErrorContains(t, err, "decode")
}

func TestWriteJSONFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")
	require.NoError(t, writeJSONFile(path, map[string]int{"x": 2}))

	var v map[string]int
	found, err := readJSONFile(path, &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, v["x"])
}
