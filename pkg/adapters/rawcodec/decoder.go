package rawcodec

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/klauspost/compress/zstd"

	"github.com/user/framefx/pkg/adapters/codecdetect"
	"github.com/user/framefx/pkg/ports"
)

// Decoder errors
var (
	ErrUnsupportedCodec = errors.New("rawcodec: not a raw track")
	ErrNotFragmented    = errors.New("rawcodec: container is not fragmented")
	ErrCorruptSample    = errors.New("rawcodec: corrupt sample")
	ErrFrameTooLarge    = errors.New("rawcodec: declared frame size exceeds limit")
)

// DefaultMaxFrameBytes caps the decoded size of one frame (8192x8192 RGBA).
const DefaultMaxFrameBytes = 8192 * 8192 * 4

// Decoder implements ports.VideoDecoder for raw tracks.
type Decoder struct {
	zr            *zstd.Decoder
	maxFrameBytes int
}

// NewDecoder creates a new raw decoder.
func NewDecoder() *Decoder {
	return &Decoder{maxFrameBytes: DefaultMaxFrameBytes}
}

// WithMaxFrameBytes sets the largest decoded frame the decoder accepts.
func (d *Decoder) WithMaxFrameBytes(n int) *Decoder {
	if n > 0 {
		d.maxFrameBytes = n
		if d.zr != nil {
			d.zr.Close()
			d.zr = nil
		}
	}
	return d
}

// ReadStream decodes every frame of a raw fragmented MP4.
func (d *Decoder) ReadStream(ctx context.Context, reader io.ReadSeeker) (*ports.DecodedStream, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	probe, err := codecdetect.ProbeFile(mp4File)
	if err != nil {
		return nil, err
	}
	if probe.Codec != codecdetect.CodecRaw {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, probe.Codec)
	}
	if !probe.Fragmented {
		return nil, ErrNotFragmented
	}

	frameSize := probe.Width * probe.Height * 4
	if probe.Width <= 0 || probe.Height <= 0 {
		return nil, fmt.Errorf("%w: track declares %dx%d", ErrCorruptSample, probe.Width, probe.Height)
	}
	if frameSize > d.maxFrameBytes {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, limit %d",
			ErrFrameTooLarge, probe.Width, probe.Height, frameSize, d.maxFrameBytes)
	}

	if d.zr == nil {
		zr, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(uint64(d.maxFrameBytes)))
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		d.zr = zr
	}

	// Find video track and get trex
	var videoTrackID uint32
	var trex *mp4.TrexBox
	for _, trak := range mp4File.Init.Moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			videoTrackID = trak.Tkhd.TrackID
			break
		}
	}
	if mvex := mp4File.Init.Moov.Mvex; mvex != nil {
		for _, t := range mvex.Trexs {
			if t.TrackID == videoTrackID {
				trex = t
				break
			}
		}
	}

	timescale := uint64(probe.Timescale)
	var frames []ports.VideoFrame

	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}

			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != videoTrackID {
					continue
				}

				var baseDecodeTime uint64
				if traf.Tfdt != nil {
					baseDecodeTime = traf.Tfdt.BaseMediaDecodeTime()
				}

				samples, err := frag.GetFullSamples(trex)
				if err != nil {
					return nil, fmt.Errorf("get samples: %w", err)
				}

				currentTime := baseDecodeTime
				for _, sample := range samples {
					if err := ctx.Err(); err != nil {
						return nil, err
					}

					pix, err := d.zr.DecodeAll(sample.Data, make([]byte, 0, frameSize))
					if err != nil {
						return nil, fmt.Errorf("%w: frame %d: %w", ErrCorruptSample, len(frames), err)
					}
					if len(pix) != frameSize {
						return nil, fmt.Errorf("%w: frame %d has %d bytes, want %d",
							ErrCorruptSample, len(frames), len(pix), frameSize)
					}

					frames = append(frames, ports.VideoFrame{
						Width:       probe.Width,
						Height:      probe.Height,
						Pix:         pix,
						TimestampMs: int(currentTime * 1000 / timescale),
						Duration:    int(uint64(sample.Dur) * 1000 / timescale),
					})

					currentTime += uint64(sample.Dur)
				}
			}
		}
	}

	return &ports.DecodedStream{
		Info: ports.StreamInfo{
			Codec:  string(codecdetect.CodecRaw),
			Width:  probe.Width,
			Height: probe.Height,
			FPS:    probe.FPS,
		},
		Frames: frames,
	}, nil
}

// Close releases decoder resources.
func (d *Decoder) Close() {
	if d.zr != nil {
		d.zr.Close()
		d.zr = nil
	}
}

var _ ports.VideoDecoder = (*Decoder)(nil)
