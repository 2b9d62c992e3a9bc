package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runWordsCmd(t *testing.T, app *appState, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	cmd := newWordsCmd(app)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWordsAddListRemove(t *testing.T) {
	t.Parallel()

	app := &appState{wordsPath: filepath.Join(t.TempDir(), "sensible_words.txt")}

	_, err := runWordsCmd(t, app, "add", "knife")
	require.NoError(t, err)
	_, err = runWordsCmd(t, app, "add", "Gun")
	require.NoError(t, err)

	out, err := runWordsCmd(t, app, "list")
	require.NoError(t, err)
	require.Equal(t, "gun\nknife\n", out)

	_, err = runWordsCmd(t, app, "remove", "gun")
	require.NoError(t, err)

	out, err = runWordsCmd(t, app, "list")
	require.NoError(t, err)
	require.Equal(t, "knife\n", out)
}

func TestWordsListEmpty(t *testing.T) {
	t.Parallel()

	app := &appState{wordsPath: filepath.Join(t.TempDir(), "missing.txt")}
	out, err := runWordsCmd(t, app, "list")
	require.NoError(t, err)
	require.Equal(t, "The word list is empty.\n", out)
}

func TestWordsFileIsPlainSortedLines(t *testing.T) {
	t.Parallel()

	app := &appState{wordsPath: filepath.Join(t.TempDir(), "list.txt")}
	_, err := runWordsCmd(t, app, "add", "zulu")
	require.NoError(t, err)
	_, err = runWordsCmd(t, app, "add", "alpha")
	require.NoError(t, err)

	content, err := os.ReadFile(app.wordsPath)
	require.NoError(t, err)
	require.Equal(t, "alpha\nzulu\n", string(content))
}
