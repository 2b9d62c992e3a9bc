package transcribe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	t.Parallel()

	require.Equal(t, "00:00:00", FormatTime(0))
	require.Equal(t, "00:00:45", FormatTime(45))
	require.Equal(t, "01:01:01", FormatTime(3661))
	require.Equal(t, "02:00:00", FormatTime(7200))
	require.Equal(t, "00:00:01", FormatTime(1.999))
	require.Equal(t, "25:00:00", FormatTime(90000))
}
