package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andreipa/police-transcriber/internal/words"
)

// newWordsCmd manages the sensitive-word list. Edits apply to the next
// transcription run; the pipeline rereads the file every time.
func newWordsCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Manage the sensitive-word list",
	}

	cmd.PersistentFlags().StringVar(&app.wordsPath, "words-file", app.wordsPath, "Path to the sensitive-word list")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every sensitive word",
		RunE: func(cmd *cobra.Command, _ []string) error {
			set := words.Load(app.wordsPath, app.log())
			if len(set) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The word list is empty.")
				return nil
			}
			for _, word := range set.Words() {
				fmt.Fprintln(cmd.OutOrStdout(), word)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <word>",
		Short: "Add a word to the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := words.Add(app.wordsPath, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <word>",
		Short: "Remove a word from the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := words.Remove(app.wordsPath, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", args[0])
			return nil
		},
	})

	return cmd
}
