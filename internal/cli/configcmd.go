package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andreipa/police-transcriber/internal/config"
	"github.com/andreipa/police-transcriber/internal/model"
)

// newConfigCmd shows and edits the persisted settings file.
func newConfigCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persisted settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.cfg
			fmt.Fprintf(cmd.OutOrStdout(), "model:             %s\n", cfg.SelectedModel)
			fmt.Fprintf(cmd.OutOrStdout(), "logging_level:     %s\n", cfg.LoggingLevel)
			fmt.Fprintf(cmd.OutOrStdout(), "verbose:           %t\n", cfg.Verbose)
			fmt.Fprintf(cmd.OutOrStdout(), "output_folder:     %s\n", cfg.OutputFolder)
			fmt.Fprintf(cmd.OutOrStdout(), "check_for_updates: %t\n", cfg.CheckForUpdates)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (model, logging-level, verbose, output-folder, check-updates)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			if err := applySetting(&cfg, args[0], args[1]); err != nil {
				return err
			}

			if err := config.NewStore(app.cfgPath).Save(cfg); err != nil {
				return err
			}
			app.cfg = cfg
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func applySetting(cfg *config.Config, key, value string) error {
	switch key {
	case "model":
		if _, ok := model.Lookup(value); !ok {
			return fmt.Errorf("unknown model %q (known models: %v)", value, model.Names())
		}
		cfg.SelectedModel = value
	case "logging-level":
		if value != "DEBUG" && value != "ERROR" {
			return fmt.Errorf("logging-level must be DEBUG or ERROR")
		}
		cfg.LoggingLevel = value
	case "verbose":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be true or false")
		}
		cfg.Verbose = parsed
	case "output-folder":
		if value == "" {
			return fmt.Errorf("output-folder must not be empty")
		}
		cfg.OutputFolder = value
	case "check-updates":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("check-updates must be true or false")
		}
		cfg.CheckForUpdates = parsed
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
