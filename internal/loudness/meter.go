// Package loudness implements K-weighted, gated integrated loudness
// measurement in the BS.1770 family.
//
// The measurement pipeline is the standard one: a high-shelf plus high-pass
// K-weighting pre-filter per channel, mean-square energy over overlapping
// gating blocks, an absolute gate at -70 LKFS, and a relative gate 10 LU below
// the absolutely-gated mean. The gating block length is configurable so short
// clips can be measured with reduced blocks.
package loudness

import "math"

const (
	// DefaultBlockSize is the standard gating block length in seconds.
	DefaultBlockSize = 0.400

	// blockOverlap is the fraction of each gating block shared with the next.
	blockOverlap = 0.75

	// absoluteGate is the absolute gating threshold in LKFS.
	absoluteGate = -70.0

	// relativeGateOffset is the relative gate distance below the
	// absolutely-gated loudness, in LU.
	relativeGateOffset = 10.0

	// loudnessOffset calibrates mean-square energy to LKFS.
	loudnessOffset = -0.691
)

// K-weighting prototype parameters (stage 1 high shelf, stage 2 high pass).
// Digital coefficients are derived per sample rate so non-48k material is
// weighted correctly.
const (
	shelfFreq = 1681.9744509555319
	shelfGain = 3.99984385397
	shelfQ    = 0.7071752369554196

	highpassFreq = 38.13547087602444
	highpassQ    = 0.5003270373238773
)

// Meter measures integrated loudness of whole buffers at a fixed sample rate.
type Meter struct {
	sampleRate int
	blockSize  float64
}

// Option mutates a Meter during construction.
type Option func(*Meter)

// WithBlockSize overrides the gating block length in seconds.
func WithBlockSize(seconds float64) Option {
	return func(m *Meter) {
		if seconds > 0 {
			m.blockSize = seconds
		}
	}
}

// NewMeter returns a Meter for the given sample rate.
func NewMeter(sampleRate int, opts ...Option) *Meter {
	m := &Meter{
		sampleRate: sampleRate,
		blockSize:  DefaultBlockSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// BlockSize reports the configured gating block length in seconds.
func (m *Meter) BlockSize() float64 { return m.blockSize }

// IntegratedLoudness measures the gated loudness of interleaved samples in
// LUFS. All channels are weighted equally, which matches the standard for the
// mono and stereo material this meter is used on.
//
// Returns negative infinity when no gating block survives the absolute gate
// (digital silence or near-silence); callers decide how to report that.
func (m *Meter) IntegratedLoudness(samples []float64, channels int) float64 {
	frames := len(samples) / channels
	blockFrames := int(math.Round(m.blockSize * float64(m.sampleRate)))
	if blockFrames <= 0 || frames < blockFrames {
		return math.Inf(-1)
	}
	step := int(float64(blockFrames) * (1.0 - blockOverlap))
	if step <= 0 {
		step = 1
	}

	// K-weight each channel with fresh filter state, then accumulate
	// per-block mean-square energy summed across channels.
	weighted := make([][]float64, channels)
	for c := range channels {
		ch := make([]float64, frames)
		for i := range frames {
			ch[i] = samples[i*channels+c]
		}
		shelf := newHighShelf(m.sampleRate, shelfFreq, shelfGain, shelfQ)
		hp := newHighPass(m.sampleRate, highpassFreq, highpassQ)
		shelf.run(ch)
		hp.run(ch)
		weighted[c] = ch
	}

	var blockPower []float64
	for start := 0; start+blockFrames <= frames; start += step {
		var power float64
		for c := range channels {
			var sum float64
			for _, v := range weighted[c][start : start+blockFrames] {
				sum += v * v
			}
			power += sum / float64(blockFrames)
		}
		blockPower = append(blockPower, power)
	}

	blockLoudness := func(power float64) float64 {
		return loudnessOffset + 10.0*math.Log10(power)
	}

	// Absolute gate.
	var absSum float64
	var absCount int
	for _, p := range blockPower {
		if blockLoudness(p) > absoluteGate {
			absSum += p
			absCount++
		}
	}
	if absCount == 0 {
		return math.Inf(-1)
	}

	// Relative gate, 10 LU below the absolutely-gated loudness.
	relativeGate := blockLoudness(absSum/float64(absCount)) - relativeGateOffset

	var sum float64
	var count int
	for _, p := range blockPower {
		l := blockLoudness(p)
		if l > absoluteGate && l > relativeGate {
			sum += p
			count++
		}
	}
	if count == 0 {
		return math.Inf(-1)
	}

	return blockLoudness(sum / float64(count))
}

// biquad is a single second-order IIR section with normalized coefficients,
// run in direct form II transposed.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// run filters x in place with zero initial state.
func (f *biquad) run(x []float64) {
	var z1, z2 float64
	for i, in := range x {
		out := f.b0*in + z1
		z1 = f.b1*in - f.a1*out + z2
		z2 = f.b2*in - f.a2*out
		x[i] = out
	}
}

// newHighShelf designs an RBJ high-shelf biquad for the given rate.
func newHighShelf(sampleRate int, freq, gainDB, q float64) *biquad {
	a := math.Pow(10.0, gainDB/40.0)
	w0 := 2.0 * math.Pi * freq / float64(sampleRate)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * q)
	sqrtA := math.Sqrt(a)

	b0 := a * ((a + 1) + (a-1)*cosW0 + 2*sqrtA*alpha)
	b1 := -2 * a * ((a - 1) + (a+1)*cosW0)
	b2 := a * ((a + 1) + (a-1)*cosW0 - 2*sqrtA*alpha)
	a0 := (a + 1) - (a-1)*cosW0 + 2*sqrtA*alpha
	a1 := 2 * ((a - 1) - (a+1)*cosW0)
	a2 := (a + 1) - (a-1)*cosW0 - 2*sqrtA*alpha

	return &biquad{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

// newHighPass designs an RBJ high-pass biquad for the given rate.
func newHighPass(sampleRate int, freq, q float64) *biquad {
	w0 := 2.0 * math.Pi * freq / float64(sampleRate)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * q)

	b0 := (1 + cosW0) / 2
	b1 := -(1 + cosW0)
	b2 := (1 + cosW0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosW0
	a2 := 1 - alpha

	return &biquad{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}
