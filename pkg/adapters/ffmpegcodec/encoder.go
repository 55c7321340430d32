package ffmpegcodec

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/image/draw"

	"github.com/user/framefx/pkg/ports"
)

// Encoder implements H.264 encoding with an ffmpeg process reading raw RGBA
// frames from stdin.
type Encoder struct {
	customPath string
	width      int
	height     int

	mu         sync.Mutex
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     bytes.Buffer
	tempPath   string
	frameCount int
	closed     bool
}

// NewEncoder creates a new ffmpeg encoder. ffmpegPath may be empty to search
// the usual locations.
func NewEncoder(ffmpegPath string) *Encoder {
	return &Encoder{customPath: ffmpegPath}
}

// encodeArgs builds the ffmpeg command line for a raw RGBA input stream.
func encodeArgs(width, height int, fps float64, opts ports.EncoderOptions, output string) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%.3f", fps),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", "fast",
	}

	// 4:2:0 subsampling needs even dimensions.
	if width%2 == 0 && height%2 == 0 {
		args = append(args, "-pix_fmt", "yuv420p", "-profile:v", "baseline")
	} else {
		args = append(args, "-pix_fmt", "yuv444p", "-profile:v", "high444")
	}

	if opts.Quality > 0 && opts.Quality <= 63 {
		// Convert our 0-63 scale to x264's CRF (0-51)
		crf := opts.Quality * 51 / 63
		args = append(args, "-crf", fmt.Sprintf("%d", crf))
	} else {
		args = append(args, "-crf", "23")
	}

	if opts.Bitrate > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", opts.Bitrate))
	}

	return append(args, "-movflags", "+faststart", "-f", "mp4", output)
}

// Begin starts ffmpeg.
func (e *Encoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ffmpegPath, err := FindFFmpeg(e.customPath)
	if err != nil {
		return err
	}

	e.width = width
	e.height = height
	e.frameCount = 0
	e.closed = false
	e.stderr.Reset()

	// ffmpeg needs a seekable output for +faststart.
	tmpFile, err := os.CreateTemp("", "framefx_encode_*.mp4")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	e.tempPath = tmpFile.Name()
	tmpFile.Close()

	e.cmd = exec.Command(ffmpegPath, encodeArgs(width, height, fps, opts, e.tempPath)...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		os.Remove(e.tempPath)
		return fmt.Errorf("get stdin pipe: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		os.Remove(e.tempPath)
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	return nil
}

// EncodeFrame writes one frame to ffmpeg.
func (e *Encoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.closed {
		return ErrNotInitialized
	}

	// rgba input to ffmpeg is straight alpha.
	var pix []byte
	if n, ok := img.(*image.NRGBA); ok && n.Rect == image.Rect(0, 0, e.width, e.height) && n.Stride == 4*e.width {
		pix = n.Pix
	} else {
		dst := image.NewNRGBA(image.Rect(0, 0, e.width, e.height))
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
		pix = dst.Pix
	}

	if _, err := e.stdin.Write(pix); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	e.frameCount++
	return nil
}

// End closes the input, waits for ffmpeg and returns the MP4 data.
func (e *Encoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.closed {
		return nil, ErrNotInitialized
	}

	e.stdin.Close()
	e.stdin = nil
	e.closed = true
	defer func() {
		os.Remove(e.tempPath)
		e.tempPath = ""
	}()

	if err := e.cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg encoding failed: %w\nstderr: %s", err, e.stderr.String())
	}

	data, err := os.ReadFile(e.tempPath)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	return data, nil
}

var _ ports.VideoEncoder = (*Encoder)(nil)
