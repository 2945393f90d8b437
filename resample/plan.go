// Package resample implements a per-channel rational polyphase resampler,
// converting a complex sample stream from one rate to another via an L/M
// ratio reduced to lowest terms. It is the per-channel counterpart to the
// channelizer: where channelizer splits one wideband stream into M narrow
// channels, resample adapts one narrow channel's rate to whatever rate the
// downstream decoder expects.
package resample

import "github.com/hydrasdr/hydrasdr-433-sub001/firdesign"

// Plan owns one channel's subfilter table and phase/window state. A Plan is
// thread-confined, like channelizer.Plan, and is destroyed with the channel
// it belongs to.
type Plan struct {
	bypass bool
	closed bool

	l, m int // reduced ratio: interpolate by l, decimate by m

	subfilters []float32 // l * tapsPerSubfilter arena, reverse order per phase

	windowRe, windowIm []float32 // length 2*tapsPerSubfilter
	writePos           int

	acc            int // phase accumulator, in [0, l)
	pendingAdvance int // input samples still needed before the next output
}

// NewPlan constructs a resampler converting from rateIn to rateOut. maxBlock
// must be positive; it is validated but does not size any buffer, and
// Process accepts any block size.
func NewPlan(rateIn, rateOut uint, maxBlock int) (*Plan, error) {
	if err := validateRates(rateIn, rateOut, maxBlock); err != nil {
		return nil, err
	}

	g := gcd(rateIn, rateOut)
	l := int(rateOut / g)
	m := int(rateIn / g)

	if l == 1 && m == 1 {
		return &Plan{bypass: true, l: 1, m: 1}, nil
	}

	taps := tapsPerSubfilter
	protoLen := taps * l

	maxRatio := l
	if m > maxRatio {
		maxRatio = m
	}
	cutoff := 0.5 / float64(maxRatio)

	proto, err := firdesign.KaiserLowpass(protoLen, cutoff, designStopbandDB)
	if err != nil {
		return nil, err
	}
	for i := range proto {
		proto[i] *= float32(l)
	}

	subfilters := make([]float32, l*taps)
	for k := 0; k < l; k++ {
		for n := 0; n < taps; n++ {
			subfilters[k*taps+(taps-1-n)] = proto[k+n*l]
		}
	}

	return &Plan{
		l:          l,
		m:          m,
		subfilters: subfilters,
		windowRe:   make([]float32, 2*taps),
		windowIm:   make([]float32, 2*taps),
		writePos:   taps,
	}, nil
}

// Close releases the plan's owned buffers. Close tolerates a nil receiver
// and may be called more than once.
func (p *Plan) Close() {
	if p == nil {
		return
	}
	p.subfilters = nil
	p.windowRe, p.windowIm = nil, nil
	p.closed = true
}
