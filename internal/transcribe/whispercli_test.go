package transcribe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSegmentLine(t *testing.T) {
	t.Parallel()

	seg, ok := parseSegmentLine("[00:00:00.000 --> 00:00:04.280]  So this is the beginning.")
	require.True(t, ok)
	require.InDelta(t, 0.0, seg.Start, 1e-9)
	require.InDelta(t, 4.28, seg.End, 1e-9)
	require.Equal(t, "So this is the beginning.", seg.Text)

	seg, ok = parseSegmentLine("[01:02:03.500 --> 01:02:10.000] later on")
	require.True(t, ok)
	require.InDelta(t, 3723.5, seg.Start, 1e-9)
	require.InDelta(t, 3730.0, seg.End, 1e-9)
}

func TestParseSegmentLineRejectsNoise(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"",
		"whisper_init_from_file_with_params_no_state: loading model",
		"system_info: n_threads = 4",
		"[BLANK_AUDIO]",
	} {
		_, ok := parseSegmentLine(line)
		require.False(t, ok, "line %q should not parse", line)
	}
}

func TestSegmentReaderCloseReapsAbandonedProcess(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the engine binary")
	}

	script := filepath.Join(t.TempDir(), "fake-whisper")
	require.NoError(t, os.WriteFile(script, []byte(
		"#!/bin/sh\nwhile true; do echo '[00:00:00.000 --> 00:00:01.000] endless output'; sleep 1; done\n",
	), 0o755))

	engine := &CLIEngine{Executable: script}
	reader, _, err := engine.Transcribe(context.Background(), Request{AudioPath: "audio.mp3", ModelDir: t.TempDir()})
	require.NoError(t, err)

	seg, err := reader.Next()
	require.NoError(t, err)
	require.Equal(t, "endless output", seg.Text)

	cliReader, ok := reader.(*cliSegmentReader)
	require.True(t, ok)
	require.Nil(t, cliReader.cmd.ProcessState)

	require.NoError(t, reader.Close())
	require.NotNil(t, cliReader.cmd.ProcessState, "child must be reaped, not abandoned")
	require.NoError(t, reader.Close())
}

func TestEnsureExecutableRejectsDirectory(t *testing.T) {
	t.Parallel()

	require.Error(t, ensureExecutable(t.TempDir()))
}
