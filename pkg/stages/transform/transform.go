// Package transform implements the per-frame transform stage.
package transform

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/user/framefx/pkg/effects"
	"github.com/user/framefx/pkg/pipeline"
	"github.com/user/framefx/pkg/pixbuf"
	"github.com/user/framefx/pkg/ports"
)

// ErrNoPixelData is returned for a decoded frame that carries neither raw
// samples nor an image.
var ErrNoPixelData = errors.New("frame has no pixel data")

// Stage applies one operation to every decoded frame.
type Stage struct {
	sink       ports.DebugSink
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new transform stage. numWorkers <= 0 uses one worker
// per CPU.
func NewStage(sink ports.DebugSink, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		sink:       sink,
		logger:     logger.WithComponent("transform"),
		numWorkers: numWorkers,
	}
}

// Execute transforms all frames. The operation code is checked before any
// frame is touched. Output slot i always holds the transform of input frame
// i; on any failure no frames are returned.
func (s *Stage) Execute(ctx context.Context, input pipeline.TransformInput) (pipeline.TransformResult, error) {
	op, err := effects.ParseOperation(input.Operation)
	if err != nil {
		return pipeline.TransformResult{}, err
	}

	if len(input.Frames) == 0 {
		return pipeline.TransformResult{Frames: []pipeline.TransformedFrame{}}, nil
	}

	workers := s.numWorkers
	if workers > len(input.Frames) {
		workers = len(input.Frames)
	}
	s.logger.Debug("Transforming %d frames (%s) with %d workers", len(input.Frames), op, workers)

	result, err := s.executeParallel(ctx, input, op, workers)
	if err != nil {
		return pipeline.TransformResult{}, err
	}

	s.logger.Debug("Transform completed")
	return result, nil
}

// executeParallel maps frames over a worker pool. Each job carries its frame
// index and each worker writes only to that slot of the arena, so results
// need no reordering.
func (s *Stage) executeParallel(ctx context.Context, input pipeline.TransformInput, op effects.Operation, workers int) (pipeline.TransformResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	numFrames := len(input.Frames)
	arena := make([]pipeline.TransformedFrame, numFrames)

	var sources []*pixbuf.Buffer
	if s.sink.Enabled() {
		sources = make([]*pixbuf.Buffer, numFrames)
	}

	jobs := make(chan int, numFrames)
	for i := 0; i < numFrames; i++ {
		jobs <- i
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}

				src, err := extract(input.Frames[idx], input.Stream)
				if err != nil {
					fail(fmt.Errorf("%w: frame %d: %w", pipeline.ErrFrameExtraction, idx, err))
					return
				}
				if sources != nil {
					sources[idx] = src.Clone()
				}

				out, err := op.Apply(src, uint64(idx))
				if err != nil {
					fail(fmt.Errorf("frame %d: %w", idx, err))
					return
				}

				arena[idx] = pipeline.TransformedFrame{
					Index:       idx,
					TimestampMs: input.Frames[idx].TimestampMs,
					Buffer:      out,
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return pipeline.TransformResult{}, firstErr
	}
	// The parent context may have been cancelled while jobs were left.
	if err := ctx.Err(); err != nil {
		return pipeline.TransformResult{}, err
	}

	if sources != nil {
		s.saveDebug(arena, sources)
	}

	return pipeline.TransformResult{Frames: arena}, nil
}

func (s *Stage) saveDebug(frames []pipeline.TransformedFrame, sources []*pixbuf.Buffer) {
	for i, f := range frames {
		if err := s.sink.SaveSourceFrame(i, sources[i].Image()); err != nil {
			s.logger.Warn("Failed to save debug frame %d: %v", i, err)
			continue
		}
		if err := s.sink.SaveTransformedFrame(i, f.Buffer.Image()); err != nil {
			s.logger.Warn("Failed to save debug frame %d: %v", i, err)
			continue
		}
		if err := s.sink.SaveComparison(i, sources[i].Image(), f.Buffer.Image()); err != nil {
			s.logger.Warn("Failed to save debug frame %d: %v", i, err)
		}
	}
}

// extract copies a decoded frame into a fresh buffer and checks it against the
// geometry the stream declared.
func extract(frame ports.VideoFrame, stream ports.StreamInfo) (*pixbuf.Buffer, error) {
	var (
		buf *pixbuf.Buffer
		err error
	)
	switch {
	case frame.Pix != nil:
		w, h := frame.Width, frame.Height
		if w == 0 && h == 0 {
			w, h = stream.Width, stream.Height
		}
		buf, err = pixbuf.FromRGBA(w, h, frame.Pix)
	case frame.Image != nil:
		buf, err = pixbuf.FromImage(frame.Image)
	default:
		return nil, ErrNoPixelData
	}
	if err != nil {
		return nil, err
	}

	if buf.Width() != stream.Width || buf.Height() != stream.Height {
		return nil, fmt.Errorf("frame is %dx%d, stream declares %dx%d",
			buf.Width(), buf.Height(), stream.Width, stream.Height)
	}
	return buf, nil
}
