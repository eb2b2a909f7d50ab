package analysis

import (
	"math"

	"github.com/schtschenok/aqc/internal/audio"
)

// toneBufferOptions configures the synthetic audio used across the engine
// tests. All levels are peak amplitudes in dBFS.
type toneBufferOptions struct {
	SampleRate      int     // default 48000
	Channels        int     // default 1; the tone is duplicated on every channel
	Seconds         float64 // tone duration, default 5.0
	Freq            float64 // default 997 Hz
	LevelDB         float64 // tone peak level, e.g. -20.0
	LeadingSilence  float64 // seconds of digital silence before the tone
	TrailingSilence float64 // seconds of digital silence after the tone
}

// makeToneBuffer builds an in-memory buffer with known characteristics:
// optional silence, a sine tone at a known peak level, optional silence.
func makeToneBuffer(opts toneBufferOptions) *audio.Buffer {
	if opts.SampleRate == 0 {
		opts.SampleRate = 48000
	}
	if opts.Channels == 0 {
		opts.Channels = 1
	}
	if opts.Seconds == 0 {
		opts.Seconds = 5.0
	}
	if opts.Freq == 0 {
		opts.Freq = 997.0
	}

	lead := int(opts.LeadingSilence * float64(opts.SampleRate))
	tone := int(opts.Seconds * float64(opts.SampleRate))
	trail := int(opts.TrailingSilence * float64(opts.SampleRate))
	frames := lead + tone + trail

	amplitude := DBToLinear(opts.LevelDB)
	samples := make([]float64, frames*opts.Channels)
	for i := 0; i < tone; i++ {
		v := amplitude * math.Sin(2.0*math.Pi*opts.Freq*float64(i)/float64(opts.SampleRate))
		for c := 0; c < opts.Channels; c++ {
			samples[(lead+i)*opts.Channels+c] = v
		}
	}

	return &audio.Buffer{
		Path:       "synthetic.wav",
		SampleRate: opts.SampleRate,
		Channels:   opts.Channels,
		Frames:     frames,
		Subtype:    audio.SubtypePCM16,
		Samples:    samples,
	}
}

// makeSilenceBuffer builds a buffer of pure digital silence.
func makeSilenceBuffer(sampleRate, channels int, seconds float64) *audio.Buffer {
	frames := int(seconds * float64(sampleRate))
	return &audio.Buffer{
		Path:       "silence.wav",
		SampleRate: sampleRate,
		Channels:   channels,
		Frames:     frames,
		Subtype:    audio.SubtypePCM16,
		Samples:    make([]float64, frames*channels),
	}
}

// makeRawBuffer wraps explicit interleaved samples in a buffer.
func makeRawBuffer(sampleRate, channels int, samples []float64) *audio.Buffer {
	return &audio.Buffer{
		Path:       "raw.wav",
		SampleRate: sampleRate,
		Channels:   channels,
		Frames:     len(samples) / channels,
		Subtype:    audio.SubtypePCM16,
		Samples:    samples,
	}
}
