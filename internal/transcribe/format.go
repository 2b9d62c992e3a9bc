package transcribe

import "fmt"

// FormatTime renders a duration in seconds as zero-padded HH:MM:SS.
// Fractional seconds are truncated; hours are unbounded (values past 24h
// are not wrapped).
func FormatTime(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	remainder := total % 3600
	return fmt.Sprintf("%02d:%02d:%02d", hours, remainder/60, remainder%60)
}
