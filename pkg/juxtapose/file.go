package juxtapose

import (
	"context"

	"github.com/user/framefx/pkg/adapters/logger"
	"github.com/user/framefx/pkg/adapters/osfilesystem"
	"github.com/user/framefx/pkg/adapters/rawcodec"
	"github.com/user/framefx/pkg/adapters/smartdecoder"
)

// Combine combines two videos side by side and writes a raw-codec result.
// This is a convenience function that uses default adapters.
// For custom dependencies (e.g., an H.264 encoder), use the Stage API instead.
//
// Example using the Stage API:
//
//	stage := juxtapose.New(
//	    smartdecoder.New(smartdecoder.Options{}),
//	    encoder,
//	    osfilesystem.New(),
//	    myCustomLogger,
//	    juxtapose.DefaultOptions(),
//	)
//	result, err := stage.Execute(ctx, juxtapose.Input{
//	    LeftPath:   "input.mp4",
//	    RightPath:  "output.mp4",
//	    OutputPath: "compare.mp4",
//	})
func Combine(leftPath, rightPath, outputPath string, opts Options) error {
	decoder := smartdecoder.New(smartdecoder.Options{})
	defer decoder.Close()

	stage := New(decoder, rawcodec.NewEncoder(), osfilesystem.New(), logger.NewNoop(), opts)

	_, err := stage.Execute(context.Background(), Input{
		LeftPath:   leftPath,
		RightPath:  rightPath,
		OutputPath: outputPath,
	})

	return err
}
