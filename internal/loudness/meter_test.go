package loudness

import (
	"math"
	"testing"
)

// sine generates a mono 997 Hz test tone with the given peak amplitude.
func sine(amplitude float64, seconds float64, sampleRate int) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2.0*math.Pi*997.0*float64(i)/float64(sampleRate))
	}
	return out
}

func TestIntegratedLoudnessSine(t *testing.T) {
	// A 997 Hz sine at 0 dBFS measures -3.01 LUFS by calibration, so a
	// -20 dBFS peak amplitude tone lands at roughly -23 LUFS mono and
	// -20 LUFS when duplicated onto two channels.
	tests := []struct {
		name       string
		sampleRate int
		channels   int
		want       float64
	}{
		{"mono_48k", 48000, 1, -23.01},
		{"mono_44k1", 44100, 1, -23.01},
		{"stereo_48k", 48000, 2, -20.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mono := sine(0.1, 5.0, tc.sampleRate)
			samples := mono
			if tc.channels == 2 {
				samples = make([]float64, len(mono)*2)
				for i, v := range mono {
					samples[2*i] = v
					samples[2*i+1] = v
				}
			}

			m := NewMeter(tc.sampleRate)
			got := m.IntegratedLoudness(samples, tc.channels)
			if math.Abs(got-tc.want) > 0.5 {
				t.Errorf("IntegratedLoudness = %.2f LUFS, want %.2f +/- 0.5", got, tc.want)
			}
		})
	}
}

func TestIntegratedLoudnessGatesOutSilence(t *testing.T) {
	// A long silent tail must not drag the gated measurement down.
	sampleRate := 48000
	tone := sine(0.1, 2.0, sampleRate)
	padded := append(tone, make([]float64, 8*sampleRate)...)

	m := NewMeter(sampleRate)
	toneOnly := m.IntegratedLoudness(tone, 1)
	withTail := m.IntegratedLoudness(padded, 1)

	if math.Abs(withTail-toneOnly) > 1.0 {
		t.Errorf("silent tail shifted loudness from %.2f to %.2f LUFS", toneOnly, withTail)
	}
}

func TestIntegratedLoudnessSilence(t *testing.T) {
	m := NewMeter(48000)
	got := m.IntegratedLoudness(make([]float64, 48000), 1)
	if !math.IsInf(got, -1) {
		t.Errorf("IntegratedLoudness of silence = %f, want -Inf", got)
	}
}

func TestIntegratedLoudnessTooShort(t *testing.T) {
	// Fewer frames than one gating block cannot be measured.
	m := NewMeter(48000)
	got := m.IntegratedLoudness(sine(0.5, 0.1, 48000), 1)
	if !math.IsInf(got, -1) {
		t.Errorf("IntegratedLoudness of sub-block signal = %f, want -Inf", got)
	}
}

func TestWithBlockSize(t *testing.T) {
	m := NewMeter(48000, WithBlockSize(0.16))
	if m.BlockSize() != 0.16 {
		t.Errorf("BlockSize = %f, want 0.16", m.BlockSize())
	}

	// A 0.3 s clip is measurable with 160 ms blocks but not the default.
	clip := sine(0.1, 0.3, 48000)
	if got := m.IntegratedLoudness(clip, 1); math.IsInf(got, -1) {
		t.Error("short clip not measurable with reduced block size")
	}
	if got := NewMeter(48000).IntegratedLoudness(clip, 1); !math.IsInf(got, -1) {
		t.Errorf("short clip measurable with default block size, got %f", got)
	}
}
