package cli

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// percentBar renders the core's 0-100 progress callbacks. A nil or
// disabled bar swallows updates, so callers never branch on terminal
// state.
type percentBar struct {
	bar *progressbar.ProgressBar
}

func newPercentBar(enabled bool, description string) *percentBar {
	if !enabled {
		return &percentBar{}
	}

	return &percentBar{
		bar: progressbar.NewOptions(
			100,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWidth(20),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (b *percentBar) Set(pct int) {
	if b == nil || b.bar == nil {
		return
	}
	_ = b.bar.Set(pct)
}

func (b *percentBar) Finish() {
	if b == nil || b.bar == nil {
		return
	}
	_ = b.bar.Finish()
}
