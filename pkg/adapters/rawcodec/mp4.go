package rawcodec

import (
	"bytes"
	"fmt"
	"math"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framefx/pkg/adapters/codecdetect"
)

// buildMP4 creates a fragmented MP4 container from compressed frames.
func buildMP4(width, height int, fps float64, frames []encodedFrame, perFragment int) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to encode")
	}

	timescale := uint32(math.Round(fps * 1000))
	frameDur := uint32(math.Round(float64(timescale) / fps))
	trackID := uint32(1)

	// Create initialization segment
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")

	trak := init.Moov.Trak

	entry := mp4.CreateVisualSampleEntryBox(codecdetect.RawSampleEntry, uint16(width), uint16(height),
		&mp4.PaspBox{HSpacing: 1, VSpacing: 1})
	trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)

	// Set track header dimensions
	trak.Tkhd.Width = mp4.Fixed32(width << 16)
	trak.Tkhd.Height = mp4.Fixed32(height << 16)

	var buf bytes.Buffer

	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso6", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}

	seq := uint32(1)
	for start := 0; start < len(frames); start += perFragment {
		end := start + perFragment
		if end > len(frames) {
			end = len(frames)
		}

		frag, err := mp4.CreateFragment(seq, trackID)
		if err != nil {
			return nil, fmt.Errorf("create fragment: %w", err)
		}
		seq++

		for i := start; i < end; i++ {
			frame := frames[i]

			// Duration runs to the next frame's timestamp.
			dur := frameDur
			if i < len(frames)-1 {
				delta := frames[i+1].timestampMs - frame.timestampMs
				if d := msToTicks(delta, timescale); d > 0 {
					dur = uint32(d)
				}
			}

			// Every sample is independently decodable.
			frag.AddFullSample(mp4.FullSample{
				Sample: mp4.Sample{
					Flags: mp4.SyncSampleFlags,
					Size:  uint32(len(frame.data)),
					Dur:   dur,
				},
				DecodeTime: uint64(msToTicks(frame.timestampMs, timescale)),
				Data:       frame.data,
			})
		}

		if err := frag.Encode(&buf); err != nil {
			return nil, fmt.Errorf("encode fragment: %w", err)
		}
	}

	return buf.Bytes(), nil
}

func msToTicks(ms int, timescale uint32) int64 {
	if ms <= 0 {
		return 0
	}
	return int64(ms) * int64(timescale) / 1000
}
