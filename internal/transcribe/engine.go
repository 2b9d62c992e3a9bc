package transcribe

import (
	"context"
	"io"
)

// Segment is one contiguous span of recognized speech as yielded by an
// engine. The pipeline only inspects it; it never constructs or mutates
// segments of its own.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Info is per-file metadata reported by an engine alongside the segment
// stream. Duration is the progress denominator; zero means unknown.
type Info struct {
	Duration float64
	Language string
}

// SegmentReader is a lazy, forward-only stream of segments in chronological
// order. Next returns io.EOF after the final segment. Callers must Close
// the reader even when abandoning the stream early; whatever backs it (a
// child process, a network response) is released there.
type SegmentReader interface {
	Next() (Segment, error)
	Close() error
}

type Request struct {
	AudioPath string
	ModelDir  string
	Language  string
}

// Engine is the speech-recognition collaborator. Implementations decode
// audio however they like; the pipeline treats them as opaque.
type Engine interface {
	Transcribe(ctx context.Context, req Request) (SegmentReader, Info, error)
}

// beamSize is a fixed quality/speed tradeoff, not user-configurable.
const beamSize = 5

type sliceReader struct {
	segments []Segment
	next     int
}

func newSliceReader(segments []Segment) *sliceReader {
	return &sliceReader{segments: segments}
}

func (r *sliceReader) Next() (Segment, error) {
	if r.next >= len(r.segments) {
		return Segment{}, io.EOF
	}
	seg := r.segments[r.next]
	r.next++
	return seg, nil
}

func (r *sliceReader) Close() error { return nil }
