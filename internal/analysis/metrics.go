package analysis

// Analyzer entry points. Every analyzer has the same shape: compute (or fetch
// from the cache) the metric's value, evaluate it against whatever bounds or
// references were supplied, and report {pass, value, unit}.

// AnalyzePeak reports the sample peak level in dB.
func (e *Engine) AnalyzePeak(p Params) (Result, error) {
	v := e.peakValue()
	return Result{Pass: evalBounds(v, p), Value: v, Unit: unitDB}, nil
}

// AnalyzeTruePeak reports the oversampled inter-sample peak estimate in dBTP.
func (e *Engine) AnalyzeTruePeak(p Params) (Result, error) {
	v, err := e.truePeakValue()
	if err != nil {
		return Result{}, err
	}
	return Result{Pass: evalBounds(v, p), Value: v, Unit: unitDBTP}, nil
}

// AnalyzeRMS reports the noise-gated RMS level in dB relative to a full-scale
// sine. The gate threshold is tunable via settings.
func (e *Engine) AnalyzeRMS(p Params) (Result, error) {
	v := e.rmsValue(p.FloatOr(paramThreshold, DefaultGateThreshold))
	return Result{Pass: evalBounds(v, p), Value: v, Unit: unitDB}, nil
}

// AnalyzePAPR reports the peak-to-average power ratio: peak minus RMS, in dB.
func (e *Engine) AnalyzePAPR(p Params) (Result, error) {
	v := e.cached(cachePAPR, func() float64 {
		return e.peakValue() - e.rmsValue(DefaultGateThreshold)
	})
	return Result{Pass: evalBounds(v, p), Value: v, Unit: unitDB}, nil
}

// AnalyzeLUFS reports integrated loudness. Inapplicable for more than two
// channels and for clips shorter than 0.2 seconds; the gating block shrinks
// for clips shorter than the standard integration can handle.
func (e *Engine) AnalyzeLUFS(p Params) (Result, error) {
	if e.buf.Channels > 2 {
		return inapplicable(unitDB), nil
	}

	seconds := e.buf.Seconds()
	var blockSize float64
	switch {
	case seconds < 0.2:
		return inapplicable(unitDB), nil
	case seconds < 2:
		blockSize = 0.16
	case seconds < 4:
		blockSize = 0.24
	default:
		blockSize = 0.4
	}

	v := e.lufsValue(blockSize)
	return Result{Pass: evalBounds(v, p), Value: v, Unit: unitDB}, nil
}

// AnalyzeLength reports the buffer duration in seconds.
func (e *Engine) AnalyzeLength(p Params) (Result, error) {
	v := e.buf.Seconds()
	return Result{Pass: evalBounds(v, p), Value: v, Unit: unitSeconds}, nil
}

// AnalyzeChannelCount checks the channel count against an equals reference.
func (e *Engine) AnalyzeChannelCount(p Params) (Result, error) {
	v := e.buf.Channels
	return Result{Pass: evalEquals(v, p), Value: v, Unit: unitChannels}, nil
}

// AnalyzeSampleRate checks the sample rate against an equals reference.
func (e *Engine) AnalyzeSampleRate(p Params) (Result, error) {
	v := e.buf.SampleRate
	return Result{Pass: evalEquals(v, p), Value: v, Unit: unitNone}, nil
}

// AnalyzeEncodingSubtype checks the encoding subtype against an equals
// reference of subtype names (e.g. "PCM_16").
func (e *Engine) AnalyzeEncodingSubtype(p Params) (Result, error) {
	v := string(e.buf.Subtype)
	return Result{Pass: evalEquals(v, p), Value: v, Unit: unitNone}, nil
}

// AnalyzeLeadingSilence reports the silent duration at the start of the file.
func (e *Engine) AnalyzeLeadingSilence(p Params) (Result, error) {
	v := e.leadingSilenceValue(p.FloatOr(paramThreshold, DefaultGateThreshold))
	return Result{Pass: evalBounds(v, p), Value: v, Unit: unitSeconds}, nil
}

// AnalyzeTrailingSilence reports the silent duration at the end of the file.
func (e *Engine) AnalyzeTrailingSilence(p Params) (Result, error) {
	v := e.trailingSilenceValue(p.FloatOr(paramThreshold, DefaultGateThreshold))
	return Result{Pass: evalBounds(v, p), Value: v, Unit: unitSeconds}, nil
}

// AnalyzeChannelDifference reports the widest per-frame spread between
// channels in dB. Inapplicable for mono files.
func (e *Engine) AnalyzeChannelDifference(p Params) (Result, error) {
	if e.buf.Channels <= 1 {
		return inapplicable(unitDB), nil
	}
	v := e.channelDifferenceValue()
	return Result{Pass: evalBounds(v, p), Value: v, Unit: unitDB}, nil
}
