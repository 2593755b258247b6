// Package wav decodes RIFF/WAVE PCM files into normalized mono samples.
// Only linear 8- and 16-bit PCM is supported; that is what instrument
// sample banks ship as.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotRIFF is returned when the stream does not start with a RIFF/WAVE header.
	ErrNotRIFF = errors.New("not a RIFF/WAVE stream")
	// ErrUnsupported is returned for compressed or exotic PCM layouts.
	ErrUnsupported = errors.New("unsupported WAVE encoding")
)

// Sound is a decoded sample buffer. Multi-channel sources are mixed down
// to mono; samples are normalized to [-1,1].
type Sound struct {
	SampleRate int
	Samples    []float32
}

type fmtChunk struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// Decode reads a complete WAVE stream from r.
func Decode(r io.Reader) (*Sound, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading RIFF header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, ErrNotRIFF
	}

	var format *fmtChunk
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("%w: no data chunk", ErrNotRIFF)
			}
			return nil, err
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrNotRIFF)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("reading fmt chunk: %w", err)
			}
			format = &fmtChunk{
				AudioFormat:   binary.LittleEndian.Uint16(body[0:2]),
				NumChannels:   binary.LittleEndian.Uint16(body[2:4]),
				SampleRate:    binary.LittleEndian.Uint32(body[4:8]),
				ByteRate:      binary.LittleEndian.Uint32(body[8:12]),
				BlockAlign:    binary.LittleEndian.Uint16(body[12:14]),
				BitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
			}
		case "data":
			if format == nil {
				return nil, fmt.Errorf("%w: data chunk before fmt", ErrNotRIFF)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("reading data chunk: %w", err)
			}
			return decodeData(format, body)
		default:
			// Skip LIST, fact and other metadata chunks.
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return nil, fmt.Errorf("skipping %q chunk: %w", id, err)
			}
		}
	}
}

func decodeData(format *fmtChunk, data []byte) (*Sound, error) {
	const pcm = 1
	if format.AudioFormat != pcm {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupported, format.AudioFormat)
	}
	channels := int(format.NumChannels)
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}

	var frames []float32
	switch format.BitsPerSample {
	case 8:
		// 8-bit PCM is unsigned, centered at 128.
		n := len(data) / channels
		frames = make([]float32, n)
		for i := 0; i < n; i++ {
			var sum float32
			for c := 0; c < channels; c++ {
				sum += (float32(data[i*channels+c]) - 128) / 128
			}
			frames[i] = sum / float32(channels)
		}
	case 16:
		stride := 2 * channels
		n := len(data) / stride
		frames = make([]float32, n)
		for i := 0; i < n; i++ {
			var sum float32
			for c := 0; c < channels; c++ {
				v := int16(binary.LittleEndian.Uint16(data[i*stride+2*c:]))
				sum += float32(v) / 32768
			}
			frames[i] = sum / float32(channels)
		}
	default:
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupported, format.BitsPerSample)
	}

	return &Sound{
		SampleRate: int(format.SampleRate),
		Samples:    frames,
	}, nil
}
