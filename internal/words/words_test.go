package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sensible_words.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDropsBlankLinesAndFoldsCase(t *testing.T) {
	t.Parallel()

	path := writeList(t, "word1\nWORD2\n\n  word3  \n")
	set := Load(path, nil)
	require.Len(t, set, 3)
	require.Equal(t, []string{"word1", "word2", "word3"}, set.Words())
}

func TestLoadMissingFileReturnsEmptySet(t *testing.T) {
	t.Parallel()

	set := Load(filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.Empty(t, set)
}

func TestContainsAnyIsCaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()

	set := Load(writeList(t, "knife\n"), nil)
	require.True(t, set.ContainsAny("he pulled a KNIFE out"))
	require.True(t, set.ContainsAny("jackknifed"))
	require.False(t, set.ContainsAny("nothing here"))
}

func TestContainsAnyEmptySetMatchesNothing(t *testing.T) {
	t.Parallel()

	require.False(t, Set{}.ContainsAny("knife gun drugs"))
}

func TestAddAndRemoveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "sensible_words.txt")
	require.NoError(t, Add(path, "  Knife "))
	require.NoError(t, Add(path, "gun"))

	set := Load(path, nil)
	require.Equal(t, []string{"gun", "knife"}, set.Words())

	require.NoError(t, Remove(path, "KNIFE"))
	set = Load(path, nil)
	require.Equal(t, []string{"gun"}, set.Words())
}

func TestAddRejectsDuplicatesAndEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, Add(path, "knife"))
	require.Error(t, Add(path, "Knife"))
	require.Error(t, Add(path, "   "))
}

func TestRemoveUnknownWordFails(t *testing.T) {
	t.Parallel()

	path := writeList(t, "knife\n")
	require.Error(t, Remove(path, "gun"))
}
