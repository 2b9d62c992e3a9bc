package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreipa/police-transcriber/internal/update"
	"github.com/andreipa/police-transcriber/internal/version"
)

func newUpdateCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check whether a newer release is published",
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, err := app.latestRelease(cmd.Context())
			if err != nil {
				return fmt.Errorf("check latest release: %w", err)
			}

			current := version.Version
			if update.IsNewer(release.Version, current) {
				fmt.Fprintf(cmd.OutOrStdout(), "New version v%s available (you have v%s): %s\n", release.Version, current, release.URL)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "You are up to date (v%s)\n", current)
			return nil
		},
	}
}

// notifyIfUpdateAvailable is the opt-in startup check before a
// transcription run. Failures are logged and otherwise ignored.
func (a *appState) notifyIfUpdateAvailable(ctx context.Context, w io.Writer) {
	if !a.cfg.CheckForUpdates {
		return
	}

	release, err := a.latestRelease(ctx)
	if err != nil {
		a.log().Debug("update check failed", zap.Error(err))
		return
	}

	if update.IsNewer(release.Version, version.Version) {
		fmt.Fprintf(w, "New version v%s available: %s\n", release.Version, release.URL)
	}
}

func (a *appState) latestRelease(ctx context.Context) (update.Release, error) {
	if a.latestFn != nil {
		return a.latestFn(ctx)
	}
	return update.NewChecker().Latest(ctx)
}
