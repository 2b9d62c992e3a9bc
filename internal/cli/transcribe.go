package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreipa/police-transcriber/internal/model"
	"github.com/andreipa/police-transcriber/internal/queue"
	"github.com/andreipa/police-transcriber/internal/transcribe"
)

func newTranscribeCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <audio.mp3> [more.mp3 ...]",
		Short: "Transcribe MP3 files, keeping only segments with sensitive words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcribeFn := app.transcribeFn
			if transcribeFn == nil {
				transcribeFn = app.transcribeQueue
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app.notifyIfUpdateAvailable(ctx, cmd.ErrOrStderr())

			jobs, err := transcribeFn(ctx, args)
			if err != nil {
				return err
			}

			failed := 0
			for _, job := range jobs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", job.Path, job.Outcome)
				if job.Outcome == transcribe.Failed {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(jobs))
			}
			return nil
		},
	}

	bindTranscribeFlags(cmd, app)
	return cmd
}

// transcribeQueue provisions the selected model, then hands the files to a
// single sequential worker. Ctrl-C flips the worker's cancellation flag;
// the in-flight file stops at its next segment and partial output stays on
// disk.
func (a *appState) transcribeQueue(ctx context.Context, paths []string) ([]queue.Job, error) {
	spec, err := a.spec()
	if err != nil {
		return nil, err
	}

	downloadBar := newPercentBar(a.progressEnabled(), fmt.Sprintf("downloading %s", spec.Name))
	if err := a.ensureModelAvailable(ctx, model.Callbacks{
		OnProgress: downloadBar.Set,
		OnStatus:   a.printStatus,
	}); err != nil {
		downloadBar.Finish()
		return nil, fmt.Errorf("provision model %q: %w", spec.Name, err)
	}
	downloadBar.Finish()

	engine, err := a.buildEngine()
	if err != nil {
		return nil, err
	}

	pipeline := a.newPipeline(engine, spec)
	worker := queue.NewWorker(pipeline, a.log())

	var fileBar *percentBar
	worker.OnJobStart = func(job queue.Job) {
		fileBar = newPercentBar(a.progressEnabled(), filepath.Base(job.Path))
	}
	worker.OnJobDone = func(job queue.Job) {
		fileBar.Finish()
		a.log().Info("file processed", zap.String("file", job.Path), zap.Stringer("outcome", job.Outcome))
	}

	go func() {
		<-ctx.Done()
		worker.Cancel()
	}()

	jobs := worker.Run(ctx, paths, transcribe.Callbacks{
		OnProgress: func(pct int) { fileBar.Set(pct) },
		OnStatus:   a.printStatus,
	})
	return jobs, nil
}

// printStatus is the user-facing status channel; diagnostic detail goes to
// the logger instead.
func (a *appState) printStatus(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}
