// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/user/framefx/pkg/ports"
)

// Comparison sheet geometry.
const (
	labelHeight = 16
	gutter      = 4
)

// Sink saves debug output to files under one directory per run.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink writing below baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// BaseDir returns the directory the sink writes to.
func (s *Sink) BaseDir() string {
	return s.baseDir
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveStreamJSON saves the decoded stream description as JSON.
func (s *Sink) SaveStreamJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "stream.json"), data)
}

// SaveRecord saves the encoded public record.
func (s *Sink) SaveRecord(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "record.bin"), data)
}

// SaveSourceFrame saves a decoded frame before its transform.
func (s *Sink) SaveSourceFrame(index int, img image.Image) error {
	return s.savePNG(filepath.Join("frames", "source"), index, img)
}

// SaveTransformedFrame saves a frame after its transform.
func (s *Sink) SaveTransformedFrame(index int, img image.Image) error {
	return s.savePNG(filepath.Join("frames", "transformed"), index, img)
}

// SaveComparison saves source and result side by side with a label above
// each.
func (s *Sink) SaveComparison(index int, source, result image.Image) error {
	sb, rb := source.Bounds(), result.Bounds()
	width := sb.Dx() + gutter + rb.Dx()
	height := labelHeight + max(sb.Dy(), rb.Dy())

	canvas := s.renderer.CreateCanvas(width, height, color.NRGBA{R: 32, G: 32, B: 32, A: 255})
	style := ports.TextStyle{FontSize: 11, Color: color.White, Align: ports.AlignCenter}

	canvas.DrawText("source", sb.Dx()/2, labelHeight/2, style)
	canvas.DrawText("result", sb.Dx()+gutter+rb.Dx()/2, labelHeight/2, style)
	canvas.DrawImage(source, 0, labelHeight)
	canvas.DrawImage(result, sb.Dx()+gutter, labelHeight)

	return s.savePNG(filepath.Join("frames", "compare"), index, canvas.ToImage())
}

func (s *Sink) savePNG(subdir string, index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, subdir)
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}
	return s.fs.WriteFile(filepath.Join(dir, fmt.Sprintf("frame-%04d.png", index)), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
