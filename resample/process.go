package resample

// Process converts one block of input samples at rateIn to the equivalent
// block at rateOut. The number of samples returned depends on the L/M ratio
// and on phase state carried across calls; a leftover partial phase is
// never lost, only deferred to the next call.
func (p *Plan) Process(in []complex64) []complex64 {
	if p == nil || p.closed {
		return nil
	}
	if p.bypass {
		out := make([]complex64, len(in))
		copy(out, in)
		return out
	}

	out := make([]complex64, 0, len(in)*p.l/p.m+1)

	i := 0
	for {
		if p.pendingAdvance > 0 {
			if i >= len(in) {
				break
			}
			p.pushSample(in[i])
			i++
			p.pendingAdvance--
			continue
		}

		out = append(out, p.convolveCurrentPhase())

		p.acc += p.m
		p.pendingAdvance = p.acc / p.l
		p.acc %= p.l
	}

	return out
}

func (p *Plan) pushSample(s complex64) {
	taps := tapsPerSubfilter
	p.windowRe[p.writePos] = real(s)
	p.windowIm[p.writePos] = imag(s)
	p.writePos++
	if p.writePos == 2*taps {
		copy(p.windowRe[:taps], p.windowRe[taps:])
		copy(p.windowIm[:taps], p.windowIm[taps:])
		p.writePos = taps
	}
}

func (p *Plan) convolveCurrentPhase() complex64 {
	taps := tapsPerSubfilter
	coeffs := p.subfilters[p.acc*taps : (p.acc+1)*taps]
	sliceRe := p.windowRe[p.writePos-taps : p.writePos]
	sliceIm := p.windowIm[p.writePos-taps : p.writePos]

	var sumRe, sumIm float32
	for n := 0; n < taps; n++ {
		sumRe += coeffs[n] * sliceRe[n]
		sumIm += coeffs[n] * sliceIm[n]
	}
	return complex(sumRe, sumIm)
}
