package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreipa/police-transcriber/internal/transcribe"
)

type fakePipeline struct {
	transcribeFn func(ctx context.Context, filePath string, cb transcribe.Callbacks) transcribe.Outcome
	calls        []string
}

func (f *fakePipeline) Transcribe(ctx context.Context, filePath string, cb transcribe.Callbacks) transcribe.Outcome {
	f.calls = append(f.calls, filePath)
	if f.transcribeFn != nil {
		return f.transcribeFn(ctx, filePath, cb)
	}
	return transcribe.Success
}

func TestRunProcessesFilesSequentiallyInOrder(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}
	worker := NewWorker(pipeline, nil)

	jobs := worker.Run(context.Background(), []string{"a.mp3", "b.mp3", "c.mp3"}, transcribe.Callbacks{})
	require.Len(t, jobs, 3)
	require.Equal(t, []string{"a.mp3", "b.mp3", "c.mp3"}, pipeline.calls)

	seen := map[string]bool{}
	for i, job := range jobs {
		require.Equal(t, pipeline.calls[i], job.Path)
		require.Equal(t, transcribe.Success, job.Outcome)
		require.NotEmpty(t, job.ID)
		require.False(t, seen[job.ID], "job IDs must be unique")
		seen[job.ID] = true
	}
}

func TestCancelStopsQueueAfterInFlightFile(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}
	worker := NewWorker(pipeline, nil)
	pipeline.transcribeFn = func(_ context.Context, _ string, cb transcribe.Callbacks) transcribe.Outcome {
		worker.Cancel()
		if cb.ShouldCancel() {
			return transcribe.Cancelled
		}
		return transcribe.Success
	}

	jobs := worker.Run(context.Background(), []string{"first.mp3", "second.mp3"}, transcribe.Callbacks{})
	require.Len(t, jobs, 2)
	require.Equal(t, []string{"first.mp3"}, pipeline.calls, "second file must not reach the pipeline")
	require.Equal(t, transcribe.Cancelled, jobs[0].Outcome)
	require.Equal(t, transcribe.Cancelled, jobs[1].Outcome)
}

func TestContextCancellationPropagatesToShouldCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pipeline := &fakePipeline{}
	worker := NewWorker(pipeline, nil)

	jobs := worker.Run(ctx, []string{"a.mp3"}, transcribe.Callbacks{})
	require.Len(t, jobs, 1)
	require.Empty(t, pipeline.calls)
	require.Equal(t, transcribe.Cancelled, jobs[0].Outcome)
}

func TestCallerShouldCancelIsStillConsulted(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}
	worker := NewWorker(pipeline, nil)

	jobs := worker.Run(context.Background(), []string{"a.mp3"}, transcribe.Callbacks{
		ShouldCancel: func() bool { return true },
	})
	require.Equal(t, transcribe.Cancelled, jobs[0].Outcome)
	require.Empty(t, pipeline.calls)
}

func TestJobHooksFireAroundEachFile(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}
	worker := NewWorker(pipeline, nil)

	var started, finished []string
	worker.OnJobStart = func(job Job) { started = append(started, job.Path) }
	worker.OnJobDone = func(job Job) { finished = append(finished, job.Path) }

	worker.Run(context.Background(), []string{"a.mp3", "b.mp3"}, transcribe.Callbacks{})
	require.Equal(t, []string{"a.mp3", "b.mp3"}, started)
	require.Equal(t, []string{"a.mp3", "b.mp3"}, finished)
}

func TestFailedFileDoesNotStopQueue(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}
	worker := NewWorker(pipeline, nil)
	pipeline.transcribeFn = func(_ context.Context, filePath string, _ transcribe.Callbacks) transcribe.Outcome {
		if filePath == "bad.mp3" {
			return transcribe.Failed
		}
		return transcribe.Success
	}

	jobs := worker.Run(context.Background(), []string{"bad.mp3", "good.mp3"}, transcribe.Callbacks{})
	require.Equal(t, transcribe.Failed, jobs[0].Outcome)
	require.Equal(t, transcribe.Success, jobs[1].Outcome)
}
