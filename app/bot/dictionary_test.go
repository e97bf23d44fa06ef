package bot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDictionary_BuiltIn(t *testing.T) {
	words, src, err := loadDictionary("")
	require.NoError(t, err)
	assert.Equal(t, "built-in list", src)
	assert.NotEmpty(t, words)
	assert.Contains(t, words, "classic")
	assert.Contains(t, words, "bass")
	for _, w := range words {
		assert.False(t, strings.HasPrefix(w, "#"), "comment line %q leaked in", w)
		assert.Equal(t, strings.TrimSpace(w), w)
		assert.NotEmpty(t, w)
	}
}

func TestLoadDictionary_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dict.txt")
	data := "# header comment\n\nclassic\n  bass  \n\n# trailing comment\nдокумент\n"
	require.NoError(t, os.WriteFile(file, []byte(data), 0o600))

	words, src, err := loadDictionary(file)
	require.NoError(t, err)
	assert.Equal(t, file, src)
	assert.Equal(t, []string{"classic", "bass", "документ"}, words)
}

func TestLoadDictionary_MissingFile(t *testing.T) {
	_, _, err := loadDictionary(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
