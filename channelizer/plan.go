// Package channelizer implements a polyphase filter-bank (PFB) analysis
// channelizer: it splits one wideband complex stream into M narrowband
// channel streams, 2x oversampled (decimation D=M/2), using a Kaiser-
// windowed prototype FIR subsampled into M polyphase branches followed by
// an M-point FFT. See firdesign for the prototype design and fft for the
// transform stage this package drives.
package channelizer

import (
	"github.com/hydrasdr/hydrasdr-433-sub001/firdesign"
	"github.com/hydrasdr/hydrasdr-433-sub001/fft"
	"github.com/hydrasdr/hydrasdr-433-sub001/internal/corerr"
	"github.com/hydrasdr/hydrasdr-433-sub001/internal/cpudetect"
)

// Plan owns the branch coefficient arena, branch windows, commutator state,
// FFT plan, and per-channel output rings for one channelizer instance. A
// Plan is thread-confined: the sample path has no internal synchronization,
// and callers wanting parallel channels instantiate multiple Plans.
type Plan struct {
	channels int     // M
	taps     int     // p = 2*filterSemiLen, taps per branch
	decim    int     // D = M/2

	coeffs []float32 // M*taps arena, branch i at coeffs[i*taps:(i+1)*taps], reverse order

	windowRe [][]float32 // M windows, each length 2*taps
	windowIm [][]float32
	writePos []int // M cursors, each in [taps, 2*taps]

	filterIndex int // in [0, M)

	fftPlan *fft.Plan
	freqInRe, freqInIm   []float32 // M-length FFT input scratch
	freqOutRe, freqOutIm []float32 // M-length FFT output scratch

	ringCap  int
	ring     [][]complex64 // M x ringCap
	outIndex uint64        // n in the phase-correction formula; also the ring write cursor

	channelFreqs []float64

	kernel cpudetect.Kernel
}

// NewPlan constructs a channelizer for the given configuration. Construction
// is all-or-nothing: any failure leaves no partially built Plan behind.
func NewPlan(cfg Config) (*Plan, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := cfg.Channels
	taps := 2 * filterSemiLen
	protoLen := 2*m*filterSemiLen + 1
	cutoff := prototypeCutoffFraction / float64(m)

	proto, err := firdesign.KaiserLowpass(protoLen, cutoff, prototypeStopbandDB)
	if err != nil {
		return nil, err
	}

	coeffs := make([]float32, m*taps)
	for i := 0; i < m; i++ {
		for n := 0; n < taps; n++ {
			coeffs[i*taps+(taps-1-n)] = proto[i+n*m]
		}
	}

	windowRe := make([][]float32, m)
	windowIm := make([][]float32, m)
	writePos := make([]int, m)
	for i := 0; i < m; i++ {
		windowRe[i] = make([]float32, 2*taps)
		windowIm[i] = make([]float32, 2*taps)
		writePos[i] = taps
	}

	fftPlan, err := fft.NewPlan(m)
	if err != nil {
		return nil, err
	}

	decim := m / 2
	ringCap := cfg.MaxInputSamples/decim + 1
	if ringCap < 2 {
		ringCap = 2
	}
	ring := make([][]complex64, m)
	for c := 0; c < m; c++ {
		ring[c] = make([]complex64, ringCap)
	}

	p := &Plan{
		channels:    m,
		taps:        taps,
		decim:       decim,
		coeffs:      coeffs,
		windowRe:    windowRe,
		windowIm:    windowIm,
		writePos:    writePos,
		filterIndex: m - 1,
		fftPlan:     fftPlan,
		freqInRe:    make([]float32, m),
		freqInIm:    make([]float32, m),
		freqOutRe:   make([]float32, m),
		freqOutIm:   make([]float32, m),
		ringCap:     ringCap,
		ring:        ring,
		kernel:      cpudetect.Resolve(),
	}
	p.buildChannelFreqs(cfg.CenterHz, cfg.InputRateHz)

	return p, nil
}

// ChannelCount returns M, the number of channels this Plan produces.
func (p *Plan) ChannelCount() int {
	return p.channels
}

// ChannelFreq returns the center frequency in Hz of channel k, using the
// natural DFT bin ordering: channel 0 is DC, channels 1..M/2 are positive
// offsets, channels M/2+1..M-1 are negative offsets.
func (p *Plan) ChannelFreq(k int) (float64, error) {
	if p == nil || p.channelFreqs == nil {
		return 0, corerr.New(corerr.InvalidArgument, "channelizer: use of uninitialized or closed plan")
	}
	if k < 0 || k >= p.channels {
		return 0, corerr.New(corerr.InvalidArgument, "channelizer: channel index out of range")
	}
	return p.channelFreqs[k], nil
}

func (p *Plan) buildChannelFreqs(centerHz, inputRateHz float64) {
	m := p.channels
	spacing := inputRateHz / float64(m)
	freqs := make([]float64, m)
	for k := 0; k < m; k++ {
		var offset float64
		if k <= m/2 {
			offset = float64(k) * spacing
		} else {
			offset = float64(k-m) * spacing
		}
		freqs[k] = centerHz + offset
	}
	p.channelFreqs = freqs
}

// Close releases the plan's owned buffers. Close tolerates a nil receiver
// and may be called more than once.
func (p *Plan) Close() {
	if p == nil {
		return
	}
	if p.fftPlan != nil {
		p.fftPlan.Close()
	}
	p.coeffs = nil
	p.windowRe, p.windowIm, p.writePos = nil, nil, nil
	p.freqInRe, p.freqInIm, p.freqOutRe, p.freqOutIm = nil, nil, nil, nil
	p.ring = nil
	p.channelFreqs = nil
	p.fftPlan = nil
}
