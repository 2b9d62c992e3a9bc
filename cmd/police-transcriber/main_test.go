package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreipa/police-transcriber/internal/cli"
)

func TestShouldPrintUsageHint(t *testing.T) {
	t.Parallel()

	require.True(t, shouldPrintUsageHint(errors.New("unknown command \"bad\" for \"police-transcriber\"")))
	require.True(t, shouldPrintUsageHint(errors.New("unknown flag: --oops")))
	require.True(t, shouldPrintUsageHint(errors.New("accepts 1 arg(s), received 0")))
	require.False(t, shouldPrintUsageHint(errors.New("provision model \"large-v2\": context deadline exceeded")))
	require.False(t, shouldPrintUsageHint(nil))
}

func TestHelpHintTarget(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCmd()
	require.Equal(t, "police-transcriber", helpHintTarget(root, []string{"--badflag"}))
	require.Equal(t, "police-transcriber", helpHintTarget(root, []string{"badcmd"}))
	require.Equal(t, "police-transcriber transcribe", helpHintTarget(root, []string{"transcribe"}))
	require.Equal(t, "police-transcriber setup", helpHintTarget(root, []string{"setup", "--model"}))
}
