// Package codecdetect inspects MP4 containers to find the video codec and the
// stream geometry the container declares.
package codecdetect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecVP9     Codec = "vp9"
	CodecRaw     Codec = "raw"
	CodecUnknown Codec = "unknown"
)

// RawSampleEntry is the sample entry type of lossless RGBA tracks written by
// the raw codec.
const RawSampleEntry = "zrgb"

// ErrNoVideoTrack is returned when the container has no video track.
var ErrNoVideoTrack = errors.New("codecdetect: no video track found")

// Probe describes the video track of a container.
type Probe struct {
	Codec      Codec
	Width      int
	Height     int
	Timescale  uint32
	FPS        float64
	Fragmented bool
}

// DetectFromFile detects the video codec used in an MP4 file.
func DetectFromFile(path string) (Codec, error) {
	f, err := os.Open(path)
	if err != nil {
		return CodecUnknown, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return DetectFromReader(f)
}

// DetectFromReader detects the video codec from an io.ReadSeeker.
func DetectFromReader(reader io.ReadSeeker) (Codec, error) {
	p, err := ProbeReader(reader)
	if err != nil {
		return CodecUnknown, err
	}
	return p.Codec, nil
}

// DetectFromBytes detects the video codec from MP4 data bytes.
func DetectFromBytes(data []byte) (Codec, error) {
	return DetectFromReader(bytes.NewReader(data))
}

// ProbeBytes probes MP4 data bytes.
func ProbeBytes(data []byte) (Probe, error) {
	return ProbeReader(bytes.NewReader(data))
}

// ProbeReader parses the container and describes its first video track. The
// reader is rewound to the start on success.
func ProbeReader(reader io.ReadSeeker) (Probe, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return Probe{}, fmt.Errorf("decode mp4: %w", err)
	}

	// Reset reader position for subsequent reads
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return Probe{}, fmt.Errorf("seek: %w", err)
	}

	return ProbeFile(mp4File)
}

// ProbeFile describes the first video track of an already parsed container.
func ProbeFile(mp4File *mp4.File) (Probe, error) {
	// Check fragmented MP4
	if mp4File.IsFragmented() && mp4File.Init != nil && mp4File.Init.Moov != nil {
		for _, trak := range mp4File.Init.Moov.Traks {
			if !isVideo(trak) {
				continue
			}
			p := probeTrack(trak)
			p.Fragmented = true
			p.FPS = fragmentedFPS(mp4File, trak, p.Timescale)
			return p, nil
		}
	}

	// Check progressive MP4
	if mp4File.Moov != nil {
		for _, trak := range mp4File.Moov.Traks {
			if !isVideo(trak) {
				continue
			}
			p := probeTrack(trak)
			if stbl := trak.Mdia.Minf.Stbl; stbl.Stts != nil {
				_, dur := stbl.Stts.GetDecodeTime(1)
				p.FPS = rate(p.Timescale, dur)
			}
			return p, nil
		}
	}

	return Probe{Codec: CodecUnknown}, ErrNoVideoTrack
}

func isVideo(trak *mp4.TrakBox) bool {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil {
		return false
	}
	// Only process video tracks
	if trak.Mdia.Hdlr.HandlerType != "vide" {
		return false
	}
	return trak.Mdia.Minf != nil && trak.Mdia.Minf.Stbl != nil && trak.Mdia.Minf.Stbl.Stsd != nil
}

func probeTrack(trak *mp4.TrakBox) Probe {
	p := Probe{Codec: CodecUnknown, Timescale: 1000}
	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale > 0 {
		p.Timescale = trak.Mdia.Mdhd.Timescale
	}
	if trak.Tkhd != nil {
		p.Width = int(trak.Tkhd.Width >> 16)
		p.Height = int(trak.Tkhd.Height >> 16)
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		codec := codecFromType(child.Type())
		if codec == CodecUnknown {
			continue
		}
		p.Codec = codec
		// Coded size from the sample entry wins over the presentation size.
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok && vse.Width > 0 && vse.Height > 0 {
			p.Width, p.Height = int(vse.Width), int(vse.Height)
		}
		break
	}
	return p
}

func codecFromType(boxType string) Codec {
	switch boxType {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "av01":
		return CodecAV1
	case "vp09":
		return CodecVP9
	case RawSampleEntry:
		return CodecRaw
	default:
		return CodecUnknown
	}
}

// fragmentedFPS derives the frame rate from the first sample duration of the
// first fragment carrying the track.
func fragmentedFPS(mp4File *mp4.File, trak *mp4.TrakBox, timescale uint32) float64 {
	var trex *mp4.TrexBox
	if mvex := mp4File.Init.Moov.Mvex; mvex != nil {
		for _, t := range mvex.Trexs {
			if t.TrackID == trak.Tkhd.TrackID {
				trex = t
				break
			}
		}
	}

	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != trak.Tkhd.TrackID {
					continue
				}
				samples, err := frag.GetFullSamples(trex)
				if err != nil || len(samples) == 0 {
					return 0
				}
				return rate(timescale, samples[0].Dur)
			}
		}
	}
	return 0
}

func rate(timescale, dur uint32) float64 {
	if dur == 0 {
		return 0
	}
	return float64(timescale) / float64(dur)
}
