package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/andreipa/police-transcriber/internal/model"
	"github.com/andreipa/police-transcriber/internal/words"
)

// Outcome is the tri-state result of transcribing one file. Every code
// path through Pipeline.Transcribe terminates in one of these; errors are
// logged and reported via status but never escape.
type Outcome int

const (
	Success Outcome = iota
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Callbacks carries the controller's hooks into one transcription run. All
// are optional and invoked synchronously from the worker goroutine; the
// controller marshals them onward as it sees fit.
type Callbacks struct {
	OnProgress   func(int)
	OnStatus     func(string)
	ShouldCancel func() bool
}

func (c Callbacks) progress(pct int) {
	if c.OnProgress != nil {
		c.OnProgress(pct)
	}
}

func (c Callbacks) status(msg string) {
	if c.OnStatus != nil {
		c.OnStatus(msg)
	}
}

func (c Callbacks) cancelled() bool {
	return c.ShouldCancel != nil && c.ShouldCancel()
}

const noMatchesSentinel = "No sensitive words found."

// Pipeline turns one audio file into a filtered transcript: only segments
// containing a sensitive word are written out.
type Pipeline struct {
	Engine    Engine
	Spec      model.Spec
	ModelDir  string
	WordsPath string
	OutputDir string
	Language  string
	Logger    *zap.Logger
	Now       func() time.Time
}

// OutputPath derives the transcript location for an input file: the input
// base name plus the date the transcription runs, so a same-day rerun
// overwrites and a later rerun produces a sibling file.
func (p *Pipeline) OutputPath(filePath string) string {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	date := p.now()().Format("02-01-2006")
	return filepath.Join(p.OutputDir, fmt.Sprintf("%s-%s.txt", base, date))
}

// Transcribe runs the full per-file workflow: precondition checks, a fresh
// word-list load, engine invocation, and incremental filtered writes with
// per-segment cancellation polling and progress reporting.
func (p *Pipeline) Transcribe(ctx context.Context, filePath string, cb Callbacks) Outcome {
	logger := p.logger()
	logger.Info("starting transcription", zap.String("file", filePath))

	if _, err := os.Stat(filePath); err != nil {
		logger.Error("input file does not exist", zap.String("file", filePath), zap.Error(err))
		cb.status(fmt.Sprintf("File not found: %s", filePath))
		return Failed
	}
	if !strings.EqualFold(filepath.Ext(filePath), ".mp3") {
		logger.Error("invalid file format, expected MP3", zap.String("file", filePath))
		cb.status("Invalid file format. Use MP3.")
		return Failed
	}
	for _, name := range p.Spec.Files {
		assetPath := filepath.Join(p.ModelDir, name)
		if _, err := os.Stat(assetPath); err != nil {
			logger.Error("model file missing", zap.String("file", assetPath), zap.Error(err))
			cb.status(fmt.Sprintf("Model file missing: %s", assetPath))
			return Failed
		}
	}

	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		logger.Error("failed to create output directory", zap.String("dir", p.OutputDir), zap.Error(err))
		cb.status("Error during transcription")
		return Failed
	}

	// Reloaded every run so word-list edits apply to the next file.
	wordSet := words.Load(p.WordsPath, logger)
	logger.Debug("sensitive words loaded", zap.Int("count", len(wordSet)))

	cb.status("Loading model...")
	reader, info, err := p.Engine.Transcribe(ctx, Request{
		AudioPath: filePath,
		ModelDir:  p.ModelDir,
		Language:  p.Language,
	})
	if err != nil {
		logger.Error("engine initialization failed", zap.String("file", filePath), zap.Error(err))
		cb.status("Error during transcription")
		return Failed
	}
	defer reader.Close()

	totalDuration := info.Duration
	if totalDuration <= 0 {
		// Progress will read 100 after the first segment; better than a
		// zero denominator.
		totalDuration = 1.0
	}

	outPath := p.OutputPath(filePath)
	out, err := os.Create(outPath)
	if err != nil {
		logger.Error("failed to create output file", zap.String("path", outPath), zap.Error(err))
		cb.status("Error during transcription")
		return Failed
	}
	defer out.Close()

	matches := 0
	for {
		if cb.cancelled() {
			logger.Warn("transcription cancelled by user", zap.String("file", filePath))
			cb.status("Transcription cancelled by user")
			return Cancelled
		}

		seg, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Error("segment decoding failed", zap.String("file", filePath), zap.Error(err))
			cb.status("Error during transcription")
			return Failed
		}

		text := strings.TrimSpace(seg.Text)
		if wordSet.ContainsAny(text) {
			line := fmt.Sprintf("[%s - %s] %s\n", FormatTime(seg.Start), FormatTime(seg.End), text)
			if err := writeDurable(out, line); err != nil {
				logger.Error("failed to write transcript line", zap.String("path", outPath), zap.Error(err))
				cb.status("Error during transcription")
				return Failed
			}
			matches++
			logger.Debug("wrote sensitive segment", zap.Float64("start", seg.Start), zap.Float64("end", seg.End))
		}

		cb.progress(min(100, int(seg.End/totalDuration*100)))
	}

	if matches == 0 {
		if err := writeDurable(out, noMatchesSentinel); err != nil {
			logger.Error("failed to write sentinel line", zap.String("path", outPath), zap.Error(err))
			cb.status("Error during transcription")
			return Failed
		}
	}

	cb.status("Transcription completed successfully")
	logger.Info("transcription completed",
		zap.String("file", filePath),
		zap.String("output", outPath),
		zap.Int("sensitive_segments", matches))
	return Success
}

// writeDurable appends and syncs so the line survives an interruption
// before the next segment.
func writeDurable(out *os.File, s string) error {
	if _, err := out.WriteString(s); err != nil {
		return err
	}
	return out.Sync()
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Pipeline) now() func() time.Time {
	if p.Now == nil {
		return time.Now
	}
	return p.Now
}
