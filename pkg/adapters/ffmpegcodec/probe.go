package ffmpegcodec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/user/framefx/pkg/adapters/codecdetect"
)

// ErrNoVideoStream is returned when ffprobe finds no video stream.
var ErrNoVideoStream = errors.New("ffmpegcodec: no video stream")

// FindFFprobe looks for ffprobe next to the given ffmpeg binary, then in PATH.
func FindFFprobe(ffmpegPath string) (string, error) {
	execName := "ffprobe"
	if runtime.GOOS == "windows" {
		execName = "ffprobe.exe"
	}
	if ffmpegPath != "" {
		sibling := filepath.Join(filepath.Dir(ffmpegPath), execName)
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%w: ffprobe", ErrFFmpegNotFound)
}

func probeArgs(input string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,r_frame_rate,avg_frame_rate",
		"-of", "json",
		input,
	}
}

// probeFile reads the geometry of the first video stream of any container
// ffmpeg understands.
func probeFile(ctx context.Context, ffmpegPath, input string) (codecdetect.Probe, error) {
	ffprobePath, err := FindFFprobe(ffmpegPath)
	if err != nil {
		return codecdetect.Probe{}, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffprobePath, probeArgs(input)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return codecdetect.Probe{}, ctxErr
		}
		return codecdetect.Probe{}, fmt.Errorf("ffprobe failed: %w\nstderr: %s", err, stderr.String())
	}
	return parseProbeOutput(stdout.Bytes())
}

type probeOutput struct {
	Streams []struct {
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

func parseProbeOutput(data []byte) (codecdetect.Probe, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return codecdetect.Probe{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return codecdetect.Probe{}, ErrNoVideoStream
	}

	s := out.Streams[0]
	fps := parseRate(s.AvgFrameRate)
	if fps == 0 {
		fps = parseRate(s.RFrameRate)
	}
	return codecdetect.Probe{
		Codec:  codecFromName(s.CodecName),
		Width:  s.Width,
		Height: s.Height,
		FPS:    fps,
	}, nil
}

// parseRate parses "num/den" or a plain number. Malformed rates give 0.
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func codecFromName(name string) codecdetect.Codec {
	switch name {
	case "h264":
		return codecdetect.CodecH264
	case "hevc":
		return codecdetect.CodecHEVC
	case "av1":
		return codecdetect.CodecAV1
	case "vp9":
		return codecdetect.CodecVP9
	case "":
		return codecdetect.CodecUnknown
	default:
		return codecdetect.Codec(name)
	}
}
