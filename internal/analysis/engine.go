// Package analysis computes acoustic quality metrics over sample buffers.
package analysis

import (
	"math"

	resampler "github.com/tphakala/go-audio-resampler"

	"github.com/schtschenok/aqc/internal/audio"
	"github.com/schtschenok/aqc/internal/loudness"
)

// DefaultGateThreshold is the default gate for the RMS noise gate and the
// silence boundary search, in dB.
const DefaultGateThreshold = -72.0

// Large-file loudness integration constants. Buffers above largeFileFrames
// are measured as a frame-count-weighted average of independently integrated
// chunks instead of one whole-buffer integration. This is an approximation of
// a single gated integration, kept deliberately.
const (
	largeFileFrames = 134217728
	loudnessChunk   = 6144000
)

// Cache keys for memoized metric values.
const (
	cachePeak              = "peak"
	cacheTruePeak          = "truePeak"
	cacheRMS               = "rms"
	cachePAPR              = "papr"
	cacheLUFS              = "lufs"
	cacheLeadingSilence    = "leadingSilence"
	cacheTrailingSilence   = "trailingSilence"
	cacheChannelDifference = "channelDifference"
)

// Engine computes metrics for a single buffer. Each primary value is computed
// once and memoized; metrics that depend on other metrics (true peak on peak,
// PAPR on RMS and peak) go through the same cache, so calling analyzers in any
// order or repeatedly yields identical results.
//
// An Engine is not safe for concurrent use; each file gets its own.
type Engine struct {
	buf   *audio.Buffer
	cache map[string]float64
}

// NewEngine returns an engine bound to one decoded buffer.
func NewEngine(buf *audio.Buffer) *Engine {
	return &Engine{
		buf:   buf,
		cache: make(map[string]float64),
	}
}

// cached returns the memoized value for key, computing it on first demand.
func (e *Engine) cached(key string, compute func() float64) float64 {
	if v, ok := e.cache[key]; ok {
		return v
	}
	v := compute()
	e.cache[key] = v
	return v
}

// peakValue is the sample peak in dB. The raw maximum sample is used, not its
// absolute value, so only positive-going excursions register. This mirrors
// the historical behavior and is kept on purpose.
func (e *Engine) peakValue() float64 {
	return e.cached(cachePeak, func() float64 {
		peak := math.Inf(-1)
		for _, v := range e.buf.Samples {
			if v > peak {
				peak = v
			}
		}
		return LinearToDB(peak)
	})
}

// truePeakValue estimates the inter-sample peak in dB by oversampling each
// channel through a band-limited resampler and scanning the reconstruction.
// Sources up to 96 kHz are oversampled 4x, faster ones 2x. The result is
// floored at the sample peak: a true peak can never read lower than it.
func (e *Engine) truePeakValue() (float64, error) {
	peak := e.peakValue()

	if v, ok := e.cache[cacheTruePeak]; ok {
		return math.Max(peak, v), nil
	}

	target := e.buf.SampleRate * 4
	if e.buf.SampleRate > 96000 {
		target = e.buf.SampleRate * 2
	}

	var reconstructed float64
	for c := range e.buf.Channels {
		upsampled, err := resampler.ResampleMono(e.buf.Channel(c), float64(e.buf.SampleRate), float64(target), resampler.QualityHigh)
		if err != nil {
			return 0, err
		}
		for _, v := range upsampled {
			if v > reconstructed {
				reconstructed = v
			}
		}
	}

	v := LinearToDB(reconstructed)
	e.cache[cacheTruePeak] = v
	return math.Max(peak, v), nil
}

// rmsValue is the gated RMS level in dB relative to a full-scale sine.
// Samples below the gate are excluded so silence and noise floor do not bias
// the average; the sqrt(2) factor references the result to sine full scale.
func (e *Engine) rmsValue(threshold float64) float64 {
	return e.cached(cacheRMS, func() float64 {
		gate := DBToLinear(threshold)
		var sumSquares float64
		var count int
		for _, v := range e.buf.Samples {
			if math.Abs(v) < gate {
				continue
			}
			sumSquares += v * v
			count++
		}
		if count == 0 {
			return dbFloor
		}
		return LinearToDB(math.Sqrt(sumSquares/float64(count)) * math.Sqrt2)
	})
}

// lufsValue is the integrated loudness with the given gating block size.
// Fully gated-out (silent) material integrates to -Inf, which is floored at
// the dB conversion floor so results stay serializable.
func (e *Engine) lufsValue(blockSize float64) float64 {
	return e.cached(cacheLUFS, func() float64 {
		meter := loudness.NewMeter(e.buf.SampleRate, loudness.WithBlockSize(blockSize))

		var v float64
		if e.buf.Frames < largeFileFrames {
			v = meter.IntegratedLoudness(e.buf.Samples, e.buf.Channels)
		} else {
			v = e.chunkedLoudness(meter, loudnessChunk)
		}
		if math.IsInf(v, -1) {
			return dbFloor
		}
		return v
	})
}

// chunkedLoudness integrates fixed-size chunks independently and combines
// them as a frame-count-weighted average.
func (e *Engine) chunkedLoudness(meter *loudness.Meter, chunkFrames int) float64 {
	total := e.buf.Frames
	channels := e.buf.Channels

	var lufs float64
	for start := 0; start < total; start += chunkFrames {
		stop := min(start+chunkFrames, total)
		chunk := e.buf.Samples[start*channels : stop*channels]
		l := meter.IntegratedLoudness(chunk, channels)
		if math.IsInf(l, -1) {
			l = dbFloor
		}
		lufs += l * float64(stop-start) / float64(total)
	}
	return lufs
}

// leadingSilenceValue scans frames from the start until one exceeds the gate
// in peak magnitude and reports the elapsed duration. A buffer that never
// exceeds the gate reports its full length.
func (e *Engine) leadingSilenceValue(threshold float64) float64 {
	return e.cached(cacheLeadingSilence, func() float64 {
		gate := DBToLinear(threshold)
		for i := range e.buf.Frames {
			if frameMagnitude(e.buf.Frame(i)) > gate {
				return float64(i) / float64(e.buf.SampleRate)
			}
		}
		return e.buf.Seconds()
	})
}

// trailingSilenceValue is leadingSilenceValue from the other end.
func (e *Engine) trailingSilenceValue(threshold float64) float64 {
	return e.cached(cacheTrailingSilence, func() float64 {
		gate := DBToLinear(threshold)
		for i := 0; i < e.buf.Frames; i++ {
			if frameMagnitude(e.buf.Frame(e.buf.Frames-1-i)) > gate {
				return float64(i) / float64(e.buf.SampleRate)
			}
		}
		return e.buf.Seconds()
	})
}

// channelDifferenceValue is the dB level of the widest per-frame spread
// between channels across the whole buffer.
func (e *Engine) channelDifferenceValue() float64 {
	return e.cached(cacheChannelDifference, func() float64 {
		var maxSpread float64
		for i := range e.buf.Frames {
			frame := e.buf.Frame(i)
			lo, hi := frame[0], frame[0]
			for _, v := range frame[1:] {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			if spread := hi - lo; spread > maxSpread {
				maxSpread = spread
			}
		}
		return LinearToDB(maxSpread)
	})
}

// frameMagnitude returns the largest absolute sample within one frame.
func frameMagnitude(frame []float64) float64 {
	var peak float64
	for _, v := range frame {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}
