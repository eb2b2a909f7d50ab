package analysis

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownAnalyzer indicates a configured analyzer name has no registered
// descriptor. Callers treat this as a warning and skip the entry.
var ErrUnknownAnalyzer = errors.New("unknown analyzer")

// Descriptor is a static registry entry for one analyzer: the parameters it
// accepts and the engine method that computes it. The registry replaces
// name-based reflection dispatch; new metrics plug in by adding an entry.
type Descriptor struct {
	Params  []string
	Compute func(*Engine, Params) (Result, error)
}

// registry maps analyzer names to descriptors. Built once, read-only
// afterwards.
var registry = map[string]Descriptor{
	"peak": {
		Params:  []string{paramMinimum, paramMaximum},
		Compute: (*Engine).AnalyzePeak,
	},
	"true_peak": {
		Params:  []string{paramMinimum, paramMaximum},
		Compute: (*Engine).AnalyzeTruePeak,
	},
	"rms": {
		Params:  []string{paramMinimum, paramMaximum, paramThreshold},
		Compute: (*Engine).AnalyzeRMS,
	},
	"papr": {
		Params:  []string{paramMinimum, paramMaximum},
		Compute: (*Engine).AnalyzePAPR,
	},
	"lufs": {
		Params:  []string{paramMinimum, paramMaximum},
		Compute: (*Engine).AnalyzeLUFS,
	},
	"length": {
		Params:  []string{paramMinimum, paramMaximum},
		Compute: (*Engine).AnalyzeLength,
	},
	"channel_count": {
		Params:  []string{paramEquals},
		Compute: (*Engine).AnalyzeChannelCount,
	},
	"sample_rate": {
		Params:  []string{paramEquals},
		Compute: (*Engine).AnalyzeSampleRate,
	},
	"encoding_subtype": {
		Params:  []string{paramEquals},
		Compute: (*Engine).AnalyzeEncodingSubtype,
	},
	"leading_silence": {
		Params:  []string{paramMinimum, paramMaximum, paramThreshold},
		Compute: (*Engine).AnalyzeLeadingSilence,
	},
	"trailing_silence": {
		Params:  []string{paramMinimum, paramMaximum, paramThreshold},
		Compute: (*Engine).AnalyzeTrailingSilence,
	},
	"channel_difference": {
		Params:  []string{paramMinimum, paramMaximum},
		Compute: (*Engine).AnalyzeChannelDifference,
	},
}

// Exists reports whether an analyzer is registered.
func Exists(name string) bool {
	_, ok := registry[name]
	return ok
}

// AcceptedParameters returns the parameter names an analyzer accepts.
func AcceptedParameters(name string) []string {
	d, ok := registry[name]
	if !ok {
		return nil
	}
	return slices.Clone(d.Params)
}

// Accepts reports whether an analyzer takes the named parameter.
func Accepts(name, param string) bool {
	d, ok := registry[name]
	return ok && slices.Contains(d.Params, param)
}

// Analyze dispatches one analyzer run against the engine.
func Analyze(e *Engine, name string, p Params) (Result, error) {
	d, ok := registry[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownAnalyzer, name)
	}
	return d.Compute(e, p)
}
