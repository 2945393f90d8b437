package channelizer

import "github.com/hydrasdr/hydrasdr-433-sub001/internal/corerr"

// Process runs the hot path over one block of interleaved complex input
// samples and returns one slice per channel of the samples that block
// produced. The number of samples per channel is len(iq)/D where D=M/2
// (integer division); only the first (len(iq)/D)*D input samples are
// consumed, and any remainder past the last complete group of D is
// discarded, not carried over to the next call. Process never partially
// commits: on error, no plan state changes.
func (p *Plan) Process(iq []complex64) ([][]complex64, error) {
	if p == nil || p.coeffs == nil {
		return nil, corerr.New(corerr.InvalidArgument, "channelizer: use of uninitialized or closed plan")
	}
	if iq == nil {
		return nil, corerr.New(corerr.InvalidArgument, "channelizer: nil input buffer")
	}

	d := p.decim
	groups := len(iq) / d

	maxGroups := p.ringCap - 1
	if groups > maxGroups {
		return nil, corerr.New(corerr.InvalidArgument, "channelizer: input exceeds configured maximum block length")
	}

	startIndex := p.outIndex

	for g := 0; g < groups; g++ {
		block := iq[g*d : (g+1)*d]
		p.commutatorPush(block)
		p.dotProducts()
		if err := p.fftPlan.Forward(p.freqInRe, p.freqInIm, p.freqOutRe, p.freqOutIm); err != nil {
			return nil, err
		}
		p.phaseCorrectAndEmit()
	}

	out := make([][]complex64, p.channels)
	for c := 0; c < p.channels; c++ {
		ch := make([]complex64, groups)
		for j := 0; j < groups; j++ {
			idx := int((startIndex + uint64(j)) % uint64(p.ringCap))
			ch[j] = p.ring[c][idx]
		}
		out[c] = ch
	}
	return out, nil
}

// commutatorPush distributes D input samples across the branch windows,
// rotating filterIndex backward by one on each push.
func (p *Plan) commutatorPush(block []complex64) {
	m := p.channels
	taps := p.taps
	for _, s := range block {
		i := p.filterIndex
		wp := p.writePos[i]

		p.windowRe[i][wp] = real(s)
		p.windowIm[i][wp] = imag(s)
		wp++

		if wp == 2*taps {
			copy(p.windowRe[i][:taps], p.windowRe[i][taps:])
			copy(p.windowIm[i][:taps], p.windowIm[i][taps:])
			wp = taps
		}
		p.writePos[i] = wp

		p.filterIndex = (i + m - 1) % m
	}
}

// dotProducts computes, for every branch, a length-taps dot product between
// the branch's reverse-ordered coefficients and that branch's most recent
// taps-length window slice, writing the results into the FFT input scratch
// in DFT bin order.
func (p *Plan) dotProducts() {
	m := p.channels
	taps := p.taps
	dot := p.kernel.DotProduct

	for i := 0; i < m; i++ {
		idx := (i + p.filterIndex + 1) % m
		outIdx := m - i - 1

		wp := p.writePos[idx]
		sliceRe := p.windowRe[idx][wp-taps : wp]
		sliceIm := p.windowIm[idx][wp-taps : wp]
		coeffs := p.coeffs[i*taps : (i+1)*taps]

		p.freqInRe[outIdx] = dot(coeffs, sliceRe)
		p.freqInIm[outIdx] = dot(coeffs, sliceIm)
	}
}

// phaseCorrectAndEmit applies the (-1)^(c*n) phase correction to the FFT
// output and writes the result into each channel's output ring. n is the
// plan's running output-sample counter, shared across calls so the phase
// alternation never resets mid-stream.
func (p *Plan) phaseCorrectAndEmit() {
	n := p.outIndex
	flip := n&1 == 1
	ringIdx := int(n % uint64(p.ringCap))

	for c := 0; c < p.channels; c++ {
		re, im := p.freqOutRe[c], p.freqOutIm[c]
		if flip && c&1 == 1 {
			re, im = -re, -im
		}
		p.ring[c][ringIdx] = complex(re, im)
	}

	p.outIndex++
}
