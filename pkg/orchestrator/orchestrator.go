// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/user/framefx/pkg/effects"
	"github.com/user/framefx/pkg/pipeline"
	"github.com/user/framefx/pkg/ports"
	"github.com/user/framefx/pkg/publicrecord"
	"github.com/user/framefx/pkg/summarizer"
)

// Config contains all configuration for one run.
type Config struct {
	// Run identity; a random UUID is generated when empty.
	RunID string

	// Input
	Input     string // base64 text of the input container
	Operation uint8

	// Outputs. Empty paths are skipped.
	RecordPath  string
	VideoPath   string
	SummaryPath string

	// Transform
	Workers int // 0 = runtime.NumCPU()

	// Encoding
	FPS         float64 // 0 = keep the decoded frame rate
	Quality     int
	Bitrate     int
	OutputCodec string // reported in the summary
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Operation:  uint8(effects.OpBrightness),
		RecordPath: "record.bin",
		Quality:    23,
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	decodeStage    pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	transformStage pipeline.Stage[pipeline.TransformInput, pipeline.TransformResult]
	encodeStage    pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	fs             ports.FileSystem
	sink           ports.DebugSink
	logger         ports.Logger
}

// New creates a new Orchestrator.
func New(
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult],
	transformStage pipeline.Stage[pipeline.TransformInput, pipeline.TransformResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		decodeStage:    decodeStage,
		transformStage: transformStage,
		encodeStage:    encodeStage,
		fs:             fs,
		sink:           sink,
		logger:         logger,
	}
}

// Run executes the complete pipeline. A failure at any stage aborts the run
// and the returned error carries one of the pipeline error kinds.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	runID := config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	// 0. Validate the operation before any frame work
	op, err := effects.ParseOperation(config.Operation)
	if err != nil {
		return RunResult{}, o.fail(err, pipeline.ErrInvalidOperationCode)
	}
	o.logger.Info("Starting run %s (%s)", runID, op)

	// 1. Decode
	decoded, err := o.decodeStage.Execute(ctx, pipeline.DecodeInput{Base64: config.Input})
	if err != nil {
		return RunResult{}, o.fail(err, pipeline.ErrDecodeFailure)
	}
	o.saveStreamJSON(decoded)

	// 2. Transform
	transformed, err := o.transformStage.Execute(ctx, pipeline.TransformInput{
		Frames:    decoded.Frames,
		Stream:    decoded.Stream,
		Operation: uint8(op),
	})
	if err != nil {
		return RunResult{}, o.fail(err, pipeline.ErrFrameExtraction)
	}

	// 3. Encode
	fps := config.FPS
	if fps <= 0 {
		fps = decoded.Stream.FPS
	}
	encoded, err := o.encodeStage.Execute(ctx, pipeline.EncodeInput{
		Frames:  transformed.Frames,
		Width:   decoded.Stream.Width,
		Height:  decoded.Stream.Height,
		FPS:     fps,
		Quality: config.Quality,
		Bitrate: config.Bitrate,
	})
	if err != nil {
		return RunResult{}, o.fail(err, pipeline.ErrEncodeFailure)
	}

	// 4. Public record
	record := publicrecord.New(encoded.VideoData, uint8(op))
	recordBytes := record.Encode()
	digest := record.Hex()
	o.logger.Info("Record digest: %s", digest)

	if o.sink.Enabled() {
		if err := o.sink.SaveRecord(recordBytes); err != nil {
			o.logger.Warn("Failed to save debug output: %v", err)
		}
	}

	result := RunResult{
		RunID:       runID,
		Operation:   op,
		Stream:      decoded.Stream,
		InputSize:   decoded.InputSize,
		FrameCount:  encoded.FrameCount,
		DurationMs:  encoded.DurationMs,
		VideoData:   encoded.VideoData,
		Record:      record,
		RecordBytes: recordBytes,
		Digest:      digest,
	}

	// 5. Write outputs
	if config.RecordPath != "" {
		if err := o.fs.WriteFile(config.RecordPath, recordBytes); err != nil {
			o.logger.Error("Failed to write output: %s", err)
			return RunResult{}, fmt.Errorf("write record: %w", err)
		}
		o.logger.Info("Record saved to %s", config.RecordPath)
	}

	if config.VideoPath != "" {
		if err := o.fs.WriteFile(config.VideoPath, encoded.VideoData); err != nil {
			o.logger.Error("Failed to write output: %s", err)
			return RunResult{}, fmt.Errorf("write video: %w", err)
		}
		o.logger.Info("Video saved to %s", config.VideoPath)
	}

	if config.SummaryPath != "" {
		summary := BuildSummary(config, result)
		writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), o.fs)
		if err := writer.Write(config.SummaryPath, summary); err != nil {
			o.logger.Error("Failed to write summary: %s", err)
			return RunResult{}, fmt.Errorf("write summary: %w", err)
		}
		o.logger.Info("Summary saved to %s", config.SummaryPath)
	}

	o.logger.Info("Run %s completed successfully", runID)

	return result, nil
}

// fail attaches kind unless the stage already reported one, and logs the
// failure. Cancellation is returned as is.
func (o *Orchestrator) fail(err, kind error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	err = pipeline.WithKind(kind, err)
	o.logger.Error("Run failed (%s): %v", pipeline.Kind(err), err)
	return err
}

type streamJSON struct {
	ports.StreamInfo
	FrameCount int `json:"frameCount"`
	InputSize  int `json:"inputSize"`
}

func (o *Orchestrator) saveStreamJSON(decoded pipeline.DecodeResult) {
	if !o.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(streamJSON{
		StreamInfo: decoded.Stream,
		FrameCount: len(decoded.Frames),
		InputSize:  decoded.InputSize,
	}, "", "  ")
	if err != nil {
		return
	}
	if err := o.sink.SaveStreamJSON(data); err != nil {
		o.logger.Warn("Failed to save debug output: %v", err)
	}
}

// BuildSummary assembles the run summary written next to the outputs.
func BuildSummary(config Config, result RunResult) *summarizer.Summary {
	return summarizer.NewBuilder().
		WithRunID(result.RunID).
		WithOperation(uint8(result.Operation), result.Operation.String()).
		WithInput(summarizer.StreamInfo{
			Codec:      result.Stream.Codec,
			Width:      result.Stream.Width,
			Height:     result.Stream.Height,
			FPS:        result.Stream.FPS,
			FrameCount: result.FrameCount,
			InputSize:  result.InputSize,
		}).
		WithOutput(summarizer.VideoInfo{
			Codec:      config.OutputCodec,
			FrameCount: result.FrameCount,
			DurationMs: result.DurationMs,
			FileSize:   int64(len(result.VideoData)),
		}).
		WithRecord(len(result.RecordBytes), result.Digest, len(result.Record.Output)).
		WithSettings(summarizer.Settings{
			Workers: config.Workers,
			Quality: config.Quality,
			Bitrate: config.Bitrate,
		}).
		Build()
}

// RunResult contains the results of a pipeline run.
type RunResult struct {
	RunID     string
	Operation effects.Operation

	// Decoded input
	Stream    ports.StreamInfo
	InputSize int

	// Encoded output
	FrameCount int
	DurationMs int
	VideoData  []byte

	// Public record
	Record      publicrecord.Record
	RecordBytes []byte
	Digest      string
}
