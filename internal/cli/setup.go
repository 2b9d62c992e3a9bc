package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreipa/police-transcriber/internal/model"
)

func newSetupCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Download and verify the selected model's asset files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := app.spec()
			if err != nil {
				return err
			}

			provisioner := model.NewProvisioner(app.log())
			if provisioner.IsFullyProvisioned(spec, app.modelDir()) {
				app.log().Info("model already present", zap.String("model", spec.Name))
				fmt.Fprintf(cmd.OutOrStdout(), "Model %s already present at %s\n", spec.Name, app.modelDir())
				return nil
			}

			bar := newPercentBar(app.progressEnabled(), fmt.Sprintf("downloading %s", spec.Name))
			defer bar.Finish()

			err = provisioner.Provision(cmd.Context(), spec, app.modelDir(), model.Callbacks{
				OnProgress: bar.Set,
				OnStatus:   app.printStatus,
			})
			if err != nil {
				return fmt.Errorf("download model %s: %w", spec.Name, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Model %s installed at %s\n", spec.Name, app.modelDir())
			return nil
		},
	}
}
