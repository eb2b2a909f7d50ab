// Package audio loads WAV files into in-memory sample buffers for analysis.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/wav"
)

// Subtype identifies the encoding of the samples inside the container.
type Subtype string

// Encoding subtypes accepted by the loader. Anything else fails construction
// with ErrUnsupportedSubtype.
const (
	SubtypePCMS8  Subtype = "PCM_S8"
	SubtypePCM16  Subtype = "PCM_16"
	SubtypePCM24  Subtype = "PCM_24"
	SubtypePCM32  Subtype = "PCM_32"
	SubtypePCMU8  Subtype = "PCM_U8"
	SubtypeFloat  Subtype = "FLOAT"
	SubtypeDouble Subtype = "DOUBLE"
)

// WAV format tags as stored in the fmt chunk.
const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

// Buffer holds one fully decoded audio file.
//
// Samples are interleaved, normalized to [-1, 1] floating point. The buffer is
// immutable after Load returns and is owned by the engine analysing it.
type Buffer struct {
	Path       string
	SampleRate int
	Channels   int
	Frames     int
	Subtype    Subtype

	// Samples holds Frames*Channels interleaved values.
	Samples []float64
}

// Seconds returns the buffer duration derived from frame count and rate.
func (b *Buffer) Seconds() float64 {
	return float64(b.Frames) / float64(b.SampleRate)
}

// Frame returns the channel vector of frame i as a view into Samples.
func (b *Buffer) Frame(i int) []float64 {
	return b.Samples[i*b.Channels : (i+1)*b.Channels]
}

// Channel extracts channel c as a contiguous copy. Used by the true-peak
// oversampler, which needs per-channel signals.
func (b *Buffer) Channel(c int) []float64 {
	out := make([]float64, b.Frames)
	for i := range out {
		out[i] = b.Samples[i*b.Channels+c]
	}
	return out
}

// Load decodes the whole file at path into a Buffer. Decoding is eager; there
// is no streaming path, so memory usage is proportional to file length.
func Load(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("failed to read WAV header: %w", err)
	}

	format := int(d.WavAudioFormat)
	if format == formatExtensible {
		format, err = extensibleFormat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read WAV header of %s: %w", path, err)
		}
	}

	subtype, err := subtypeFor(format, int(d.BitDepth))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	channels := int(d.NumChans)
	rate := int(d.SampleRate)
	if channels <= 0 || rate <= 0 {
		return nil, fmt.Errorf("%s: invalid WAV format (%d channels at %d Hz)", path, channels, rate)
	}

	var samples []float64
	switch subtype {
	case SubtypeFloat, SubtypeDouble:
		samples, err = decodeFloat(d, int(d.BitDepth))
	default:
		samples, err = decodePCM(d, int(d.BitDepth), subtype)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	frames := len(samples) / channels
	if frames == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyAudio)
	}

	return &Buffer{
		Path:       path,
		SampleRate: rate,
		Channels:   channels,
		Frames:     frames,
		Subtype:    subtype,
		Samples:    samples[:frames*channels],
	}, nil
}

// subtypeFor maps a WAV format tag and bit depth onto the subtype allow-list.
// Extensible files must have their real tag resolved from the sub-format GUID
// before the mapping.
func subtypeFor(format, bitDepth int) (Subtype, error) {
	switch format {
	case formatPCM:
		switch bitDepth {
		case 8:
			// WAV PCM at 8 bits is unsigned by definition.
			return SubtypePCMU8, nil
		case 16:
			return SubtypePCM16, nil
		case 24:
			return SubtypePCM24, nil
		case 32:
			return SubtypePCM32, nil
		}
	case formatIEEEFloat:
		switch bitDepth {
		case 32:
			return SubtypeFloat, nil
		case 64:
			return SubtypeDouble, nil
		}
	}
	return "", fmt.Errorf("%w: format %d at %d bits", ErrUnsupportedSubtype, format, bitDepth)
}

// extensibleFormat resolves the real format tag of a WAVE_FORMAT_EXTENSIBLE
// file from its fmt chunk extension: the sub-format GUID's first two bytes
// carry the tag (1 for PCM, 3 for IEEE float). A file without the 22-byte
// extension is treated as plain PCM, matching how legacy writers use the tag.
func extensibleFormat(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	chunk := make([]byte, 8)
	for {
		if _, err := io.ReadFull(f, chunk); err != nil {
			return 0, fmt.Errorf("fmt chunk not found: %w", err)
		}
		size := int(binary.LittleEndian.Uint32(chunk[4:8]))
		if string(chunk[0:4]) != "fmt " {
			// Chunks are word-aligned.
			if _, err := f.Seek(int64(size+size%2), io.SeekCurrent); err != nil {
				return 0, err
			}
			continue
		}

		body := make([]byte, size)
		if _, err := io.ReadFull(f, body); err != nil {
			return 0, err
		}
		if size < 18 {
			return formatPCM, nil
		}
		// Extension layout after the 16 standard fields: cbSize, valid bits
		// per sample, channel mask, sub-format GUID.
		cbSize := int(binary.LittleEndian.Uint16(body[16:18]))
		if cbSize < 22 || size < 40 {
			return formatPCM, nil
		}
		return int(binary.LittleEndian.Uint16(body[24:26])), nil
	}
}

// decodePCM reads the integer sample data and normalizes it to [-1, 1].
func decodePCM(d *wav.Decoder, bitDepth int, subtype Subtype) ([]float64, error) {
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	samples := make([]float64, len(buf.Data))
	if subtype == SubtypePCMU8 {
		// Unsigned bytes centre on 128, not 0.
		for i, v := range buf.Data {
			samples[i] = (float64(v) - 128.0) / 128.0
		}
		return samples, nil
	}

	scale := float64(int64(1) << (bitDepth - 1))
	for i, v := range buf.Data {
		samples[i] = float64(v) / scale
	}
	return samples, nil
}

// decodeFloat reads IEEE float sample data straight from the data chunk.
// go-audio's PCM buffer path assumes integer samples, so the float encodings
// are parsed here instead.
func decodeFloat(d *wav.Decoder, bitDepth int) ([]float64, error) {
	if err := d.FwdToPCM(); err != nil {
		return nil, err
	}
	chunk := d.PCMChunk
	if chunk == nil {
		return nil, ErrEmptyAudio
	}

	data := make([]byte, chunk.Size)
	n, err := io.ReadFull(chunk, data)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	data = data[:n]

	width := bitDepth / 8
	samples := make([]float64, len(data)/width)
	for i := range samples {
		off := i * width
		if bitDepth == 32 {
			samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off:])))
		} else {
			samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
		}
	}
	return samples, nil
}
