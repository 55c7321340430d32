package framefx

import (
	"context"
	"fmt"

	"github.com/user/framefx/pkg/adapters/logger"
	"github.com/user/framefx/pkg/adapters/nullsink"
	"github.com/user/framefx/pkg/adapters/osfilesystem"
	"github.com/user/framefx/pkg/adapters/smartdecoder"
	"github.com/user/framefx/pkg/adapters/smartencoder"
	"github.com/user/framefx/pkg/orchestrator"
	"github.com/user/framefx/pkg/pipeline"
	"github.com/user/framefx/pkg/ports"
	"github.com/user/framefx/pkg/stages/decode"
	"github.com/user/framefx/pkg/stages/encode"
	"github.com/user/framefx/pkg/stages/transform"
)

// Process transforms the base64-encoded video with the default adapters and
// returns the run result, including the encoded public record. Nothing is
// written to disk.
func Process(ctx context.Context, input string, cfg Config) (orchestrator.RunResult, error) {
	return ProcessWith(ctx, input, cfg, Dependencies{})
}

// Dependencies overrides the adapters used by ProcessWith. Nil fields use
// the defaults.
type Dependencies struct {
	Decoder    ports.VideoDecoder
	Encoder    ports.VideoEncoder
	FileSystem ports.FileSystem
	Sink       ports.DebugSink
	Logger     ports.Logger
}

// ProcessWith is Process with injectable adapters.
func ProcessWith(ctx context.Context, input string, cfg Config, deps Dependencies) (orchestrator.RunResult, error) {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoop()
	}

	decoder := deps.Decoder
	if decoder == nil {
		d := smartdecoder.New(smartdecoder.Options{FFmpegPath: cfg.FFmpegPath, Logger: log})
		defer d.Close()
		decoder = d
	}

	encoder := deps.Encoder
	if encoder == nil {
		codec, err := smartencoder.ParseCodec(cfg.Codec)
		if err != nil {
			return orchestrator.RunResult{}, fmt.Errorf("%w: %w", pipeline.ErrEncodeFailure, err)
		}
		encoder, _, err = smartencoder.New(codec, smartencoder.Options{
			FFmpegPath:      cfg.FFmpegPath,
			DisableFallback: cfg.DisableFallback,
			Logger:          log,
		})
		if err != nil {
			return orchestrator.RunResult{}, fmt.Errorf("%w: %w", pipeline.ErrEncodeFailure, err)
		}
	}

	fs := deps.FileSystem
	if fs == nil {
		fs = osfilesystem.New()
	}
	sink := deps.Sink
	if sink == nil {
		sink = nullsink.New()
	}

	orch := orchestrator.New(
		decode.NewStage(decoder, log),
		transform.NewStage(sink, log, cfg.Workers),
		encode.NewStage(encoder, log),
		fs,
		sink,
		log,
	)

	return orch.Run(ctx, cfg.ToOrchestratorConfig(input, "", ""))
}
