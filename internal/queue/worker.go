// Package queue runs transcription jobs strictly sequentially: one file,
// one engine instance at a time, in caller-supplied order. The controller
// cancels by flipping a shared atomic flag; the pipeline observes it
// between segments only.
package queue

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andreipa/police-transcriber/internal/transcribe"
)

// Job is one queued audio file and, after processing, its outcome.
type Job struct {
	ID      string
	Path    string
	Outcome transcribe.Outcome
}

// Transcriber is the per-file operation the worker drives.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string, cb transcribe.Callbacks) transcribe.Outcome
}

type Worker struct {
	// OnJobStart and OnJobDone, when set, are invoked from the worker
	// goroutine around each job.
	OnJobStart func(Job)
	OnJobDone  func(Job)

	pipeline  Transcriber
	logger    *zap.Logger
	cancelled atomic.Bool
}

func NewWorker(pipeline Transcriber, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{pipeline: pipeline, logger: logger}
}

// Cancel requests cooperative cancellation. Safe to call from any
// goroutine; the in-flight file stops at its next segment boundary and
// remaining files are not started.
func (w *Worker) Cancel() {
	w.cancelled.Store(true)
}

// Run processes the queue to completion and returns one Job per input, in
// order. It is meant to be called on a dedicated goroutine; callbacks fire
// synchronously from that goroutine.
func (w *Worker) Run(ctx context.Context, paths []string, cb transcribe.Callbacks) []Job {
	shouldCancel := func() bool {
		if w.cancelled.Load() || ctx.Err() != nil {
			return true
		}
		return cb.ShouldCancel != nil && cb.ShouldCancel()
	}

	jobCallbacks := transcribe.Callbacks{
		OnProgress:   cb.OnProgress,
		OnStatus:     cb.OnStatus,
		ShouldCancel: shouldCancel,
	}

	jobs := make([]Job, 0, len(paths))
	for _, path := range paths {
		job := Job{ID: uuid.NewString(), Path: path}

		if shouldCancel() {
			job.Outcome = transcribe.Cancelled
			w.logger.Warn("skipping queued file after cancellation", zap.String("file", path))
			jobs = append(jobs, job)
			continue
		}

		if w.OnJobStart != nil {
			w.OnJobStart(job)
		}

		w.logger.Info("processing queued file", zap.String("job", job.ID), zap.String("file", path))
		job.Outcome = w.pipeline.Transcribe(ctx, path, jobCallbacks)
		w.logger.Info("queued file finished", zap.String("job", job.ID), zap.Stringer("outcome", job.Outcome))

		if w.OnJobDone != nil {
			w.OnJobDone(job)
		}

		jobs = append(jobs, job)
	}

	return jobs
}
