// Package main provides the CLI entry point for framefx.
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/ideamans/go-l10n"

	"github.com/user/framefx/pkg/adapters/codecdetect"
	"github.com/user/framefx/pkg/adapters/filesink"
	"github.com/user/framefx/pkg/adapters/ggrenderer"
	"github.com/user/framefx/pkg/adapters/logger"
	"github.com/user/framefx/pkg/adapters/nullsink"
	"github.com/user/framefx/pkg/adapters/osfilesystem"
	"github.com/user/framefx/pkg/adapters/smartdecoder"
	"github.com/user/framefx/pkg/adapters/smartencoder"
	"github.com/user/framefx/pkg/config"
	"github.com/user/framefx/pkg/effects"
	"github.com/user/framefx/pkg/juxtapose"
	"github.com/user/framefx/pkg/orchestrator"
	"github.com/user/framefx/pkg/pipeline"
	"github.com/user/framefx/pkg/ports"
	"github.com/user/framefx/pkg/publicrecord"
	"github.com/user/framefx/pkg/stages/decode"
	"github.com/user/framefx/pkg/stages/encode"
	"github.com/user/framefx/pkg/stages/transform"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Run     RunCmd     `cmd:"" help:"Transform a base64 video and build its public record."`
	Inspect InspectCmd `cmd:"" help:"Decode and print a public record file."`
	Compare CompareCmd `cmd:"" help:"Create a side-by-side comparison video."`
	Ops     OpsCmd     `cmd:"" help:"List the available operations."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// RunCmd defines the run subcommand. Pointer flags override the config file
// only when given.
type RunCmd struct {
	// Input
	Input  string `arg:"" help:"File holding the base64 text of the input video ('-' for stdin)."`
	Binary bool   `short:"b" help:"Treat the input file as a binary video instead of base64 text."`

	// Config file
	Config string `short:"c" type:"existingfile" help:"YAML configuration file."`

	// Transform
	Operation *string `short:"O" help:"Operation name or code (brightness, flip-horizontal, flip-vertical, shake, deformed-mirror or 1-5)."`
	Workers   *int    `short:"w" help:"Number of transform workers (0 = one per CPU)."`

	// Encoding
	Codec      *string  `help:"Output codec (raw or h264)."`
	FPS        *float64 `help:"Output frame rate (0 keeps the decoded rate)."`
	Quality    *int     `short:"q" help:"Video quality (CRF, lower is better)."`
	Bitrate    *int     `help:"Target bitrate in kbps (0 = auto)."`
	FFmpegPath *string  `help:"Path to the ffmpeg binary."`

	// Outputs
	Output      *string `short:"o" help:"Output path of the encoded public record."`
	VideoOutput *string `help:"Also write the transformed video to this path."`
	Summary     *string `help:"Write a Markdown run summary to this path."`

	// Debug options
	Debug    bool    `short:"d" help:"Enable debug output."`
	DebugDir *string `help:"Directory for debug output."`

	// Logging options
	LogLevel  *string `short:"l" help:"Log level (debug, info, warn, error)."`
	LogFormat *string `help:"Log format (console, text, json)."`
	Quiet     bool    `short:"Q" help:"Suppress all log output."`
}

// InspectCmd defines the inspect subcommand.
type InspectCmd struct {
	Record      string `arg:"" type:"existingfile" help:"Public record file."`
	VideoOutput string `help:"Write the embedded video to this path."`
}

// CompareCmd defines the compare subcommand.
type CompareCmd struct {
	Left       string  `arg:"" type:"existingfile" help:"Left video file path."`
	Right      string  `arg:"" type:"existingfile" help:"Right video file path."`
	Output     string  `short:"o" required:"" help:"Output video file path."`
	Gap        int     `default:"10" help:"Gap between the videos in pixels."`
	FPS        float64 `help:"Output frame rate (0 uses the left video's rate)."`
	Codec      string  `enum:"raw,h264" default:"raw" help:"Output codec (raw or h264)."`
	FFmpegPath string  `help:"Path to the ffmpeg binary."`
}

// OpsCmd lists the operations.
type OpsCmd struct{}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("framefx"),
		kong.Description(l10n.T("Apply frame transforms to videos and build verifiable public records.")),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the run command.
func (cmd *RunCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg, cmd.Quiet)
	if err != nil {
		return err
	}

	input, err := cmd.readInput()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, shutting down...")
		cancel()
	}()

	orchConfig, err := cfg.ToOrchestratorConfig(input)
	if err != nil {
		return err
	}
	orchConfig.RunID = uuid.NewString()

	// Create adapters
	fs := osfilesystem.New()

	decoder := smartdecoder.New(smartdecoder.Options{FFmpegPath: cfg.FFmpegPath, Logger: log})
	defer decoder.Close()

	codec, err := smartencoder.ParseCodec(cfg.Codec)
	if err != nil {
		return err
	}
	encoder, encInfo, err := smartencoder.New(codec, smartencoder.Options{FFmpegPath: cfg.FFmpegPath, Logger: log})
	if err != nil {
		return err
	}
	orchConfig.OutputCodec = string(encInfo.Codec)

	// Create debug sink
	var sink ports.DebugSink
	if cfg.Debug {
		dir := filepath.Join(cfg.DebugDir, orchConfig.RunID)
		if err := fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(dir, fs, ggrenderer.New())
	} else {
		sink = nullsink.New()
	}

	// Create orchestrator
	orch := orchestrator.New(
		decode.NewStage(decoder, log),
		transform.NewStage(sink, log, cfg.Workers),
		encode.NewStage(encoder, log),
		fs,
		sink,
		log,
	)

	if _, err := orch.Run(ctx, orchConfig); err != nil {
		return fmt.Errorf("%s: %w", kindLabel(err), err)
	}
	return nil
}

// buildConfig merges defaults, the config file and CLI overrides.
func (cmd *RunCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Operation != nil {
		cfg.Operation = *cmd.Operation
	}
	if cmd.Workers != nil {
		cfg.Workers = *cmd.Workers
	}
	if cmd.Codec != nil {
		cfg.Codec = *cmd.Codec
	}
	if cmd.FPS != nil {
		cfg.FPS = *cmd.FPS
	}
	if cmd.Quality != nil {
		cfg.Quality = *cmd.Quality
	}
	if cmd.Bitrate != nil {
		cfg.Bitrate = *cmd.Bitrate
	}
	if cmd.FFmpegPath != nil {
		cfg.FFmpegPath = *cmd.FFmpegPath
	}
	if cmd.Output != nil {
		cfg.OutputPath = *cmd.Output
	}
	if cmd.VideoOutput != nil {
		cfg.VideoOutput = *cmd.VideoOutput
	}
	if cmd.Summary != nil {
		cfg.SummaryPath = *cmd.Summary
	}
	if cmd.Debug {
		cfg.Debug = true
	}
	if cmd.DebugDir != nil {
		cfg.DebugDir = *cmd.DebugDir
	}
	if cmd.LogLevel != nil {
		cfg.LogLevel = *cmd.LogLevel
	}
	if cmd.LogFormat != nil {
		cfg.LogFormat = *cmd.LogFormat
	}

	return cfg, cfg.Validate()
}

func (cmd *RunCmd) readInput() (string, error) {
	var (
		data []byte
		err  error
	)
	if cmd.Input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(cmd.Input)
	}
	if err != nil {
		return "", err
	}
	if cmd.Binary {
		return base64.StdEncoding.EncodeToString(data), nil
	}
	return string(data), nil
}

func newLogger(cfg config.Config, quiet bool) (ports.Logger, error) {
	if quiet {
		return logger.NewNoop(), nil
	}
	level := ports.ParseLogLevel(cfg.LogLevel)
	switch cfg.LogFormat {
	case "text", "json":
		l, err := logger.NewStructured(level, cfg.LogFormat, os.Stderr)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return logger.NewConsole(level), nil
	}
}

// kindLabel returns the translated error kind for the exit message.
func kindLabel(err error) string {
	if kind := pipeline.Kind(err); kind != "" {
		return l10n.T(kind)
	}
	if errors.Is(err, context.Canceled) {
		return l10n.T("interrupted")
	}
	return l10n.T("run failed")
}

// Run executes the inspect command.
func (cmd *InspectCmd) Run() error {
	data, err := os.ReadFile(cmd.Record)
	if err != nil {
		return err
	}

	record, err := publicrecord.Decode(data)
	if err != nil {
		return err
	}

	op := effects.Operation(record.Operation)
	fmt.Println(l10n.F("Operation: %d (%s)", record.Operation, op))
	fmt.Println(l10n.F("Output text: %d chars", len(record.Output)))
	fmt.Println(l10n.F("Record size: %d bytes", len(data)))
	fmt.Println(l10n.F("Keccak-256: %s", record.Hex()))

	video, err := record.Video()
	if err != nil {
		return err
	}
	if probe, err := codecdetect.ProbeBytes(video); err == nil {
		fmt.Println(l10n.F("Video: %s %dx%d %.2f fps", probe.Codec, probe.Width, probe.Height, probe.FPS))
	} else {
		fmt.Println(l10n.F("Video: %d bytes (%v)", len(video), err))
	}

	if cmd.VideoOutput != "" {
		if err := osfilesystem.New().WriteFile(cmd.VideoOutput, video); err != nil {
			return err
		}
		fmt.Println(l10n.F("Video saved to %s", cmd.VideoOutput))
	}
	return nil
}

// Run executes the compare command.
func (cmd *CompareCmd) Run() error {
	log := logger.NewConsole(ports.LevelInfo)

	decoder := smartdecoder.New(smartdecoder.Options{FFmpegPath: cmd.FFmpegPath, Logger: log})
	defer decoder.Close()

	codec, err := smartencoder.ParseCodec(cmd.Codec)
	if err != nil {
		return err
	}
	encoder, _, err := smartencoder.New(codec, smartencoder.Options{FFmpegPath: cmd.FFmpegPath, Logger: log})
	if err != nil {
		return err
	}

	opts := juxtapose.DefaultOptions()
	opts.Gap = cmd.Gap
	opts.FPS = cmd.FPS

	stage := juxtapose.New(decoder, encoder, osfilesystem.New(), log, opts)
	_, err = stage.Execute(context.Background(), juxtapose.Input{
		LeftPath:   cmd.Left,
		RightPath:  cmd.Right,
		OutputPath: cmd.Output,
	})
	return err
}

// Run executes the ops command.
func (cmd *OpsCmd) Run() error {
	for _, op := range effects.Operations() {
		fmt.Printf("%d\t%s\n", uint8(op), op)
	}
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("framefx version %s", version))
	return nil
}
