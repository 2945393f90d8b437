package fft

import "github.com/hydrasdr/hydrasdr-433-sub001/internal/corerr"

// Forward computes the length-N forward DFT of (re, im) and writes the
// result into (outRe, outIm). Input and output must each be length N; they
// may not alias the plan's internal scratch (ordinary caller-owned slices
// are fine, including slices that alias each other between calls).
func (p *Plan) Forward(re, im, outRe, outIm []float32) error {
	return p.execute(re, im, outRe, outIm, false, false)
}

// Inverse computes the unnormalized length-N inverse DFT: the caller is
// responsible for dividing the result by N. It is implemented as conjugate
// -> forward -> conjugate, with both conjugations folded into the copy
// in/copy out steps so no extra pass over the data is needed.
func (p *Plan) Inverse(re, im, outRe, outIm []float32) error {
	return p.execute(re, im, outRe, outIm, true, true)
}

func (p *Plan) execute(re, im, outRe, outIm []float32, conjIn, conjOut bool) error {
	if p == nil || p.aRe == nil {
		return corerr.New(corerr.InvalidArgument, "fft: use of uninitialized or closed plan")
	}
	if re == nil || im == nil || outRe == nil || outIm == nil {
		return corerr.New(corerr.InvalidArgument, "fft: nil input or output buffer")
	}
	n := p.n
	if len(re) != n || len(im) != n || len(outRe) != n || len(outIm) != n {
		return corerr.New(corerr.InvalidArgument, "fft: buffer length does not match plan size")
	}

	copy(p.aRe, re)
	if conjIn {
		for i, v := range im {
			p.aIm[i] = -v
		}
	} else {
		copy(p.aIm, im)
	}

	curRe, curIm := p.aRe, p.aIm
	nextRe, nextIm := p.bRe, p.bIm

	for _, st := range p.stages {
		switch st.radix {
		case 4:
			radix4Stage(curRe, curIm, nextRe, nextIm, n, st.ns, st.twRe, st.twIm)
		case 2:
			radix2Stage(curRe, curIm, nextRe, nextIm, n, st.ns, st.twRe, st.twIm)
		}
		curRe, nextRe = nextRe, curRe
		curIm, nextIm = nextIm, curIm
	}

	copy(outRe, curRe)
	if conjOut {
		for i, v := range curIm {
			outIm[i] = -v
		}
	} else {
		copy(outIm, curIm)
	}
	return nil
}

// radix4Stage performs one radix-4 Stockham autosort pass: four
// global-stride reads per butterfly, a twiddle multiply of the inputs where
// only W^k is looked up and W^2k, W^3k are derived in place by complex
// squaring/cubing, then a radix-4 combine. Output addressing re-inserts the
// base-4 digit k so no separate digit-reversal pass is ever needed.
func radix4Stage(inRe, inIm, outRe, outIm []float32, n, ns int, twRe, twIm []float32) {
	q4 := n / 4
	mask := ns - 1
	for i := 0; i < q4; i++ {
		k := i & mask

		wr, wi := twRe[k], twIm[k]
		w2r := wr*wr - wi*wi
		w2i := 2 * wr * wi
		w3r := w2r*wr - w2i*wi
		w3i := w2r*wi + w2i*wr

		a0re, a0im := inRe[i], inIm[i]
		x1re, x1im := inRe[i+q4], inIm[i+q4]
		x2re, x2im := inRe[i+2*q4], inIm[i+2*q4]
		x3re, x3im := inRe[i+3*q4], inIm[i+3*q4]

		a1re, a1im := x1re*wr-x1im*wi, x1re*wi+x1im*wr
		a2re, a2im := x2re*w2r-x2im*w2i, x2re*w2i+x2im*w2r
		a3re, a3im := x3re*w3r-x3im*w3i, x3re*w3i+x3im*w3r

		b0re := a0re + a1re + a2re + a3re
		b0im := a0im + a1im + a2im + a3im
		b1re := a0re + a1im - a2re - a3im
		b1im := a0im - a1re - a2im + a3re
		b2re := a0re - a1re + a2re - a3re
		b2im := a0im - a1im + a2im - a3im
		b3re := a0re - a1im - a2re + a3im
		b3im := a0im + a1re - a2im - a3re

		outIdx := ((i - k) << 2) + k
		outRe[outIdx], outIm[outIdx] = b0re, b0im
		outRe[outIdx+ns], outIm[outIdx+ns] = b1re, b1im
		outRe[outIdx+2*ns], outIm[outIdx+2*ns] = b2re, b2im
		outRe[outIdx+3*ns], outIm[outIdx+3*ns] = b3re, b3im
	}
}

// radix2Stage performs one radix-2 Stockham pass: the trailing cleanup stage
// used when log2(N) is odd, or the only stage for N=2.
func radix2Stage(inRe, inIm, outRe, outIm []float32, n, ns int, twRe, twIm []float32) {
	half := n / 2
	mask := ns - 1
	for i := 0; i < half; i++ {
		k := i & mask

		a0re, a0im := inRe[i], inIm[i]
		a1re, a1im := inRe[i+half], inIm[i+half]

		wr, wi := twRe[k], twIm[k]
		tre := a1re*wr - a1im*wi
		tim := a1re*wi + a1im*wr

		outIdx := ((i - k) << 1) + k
		outRe[outIdx], outIm[outIdx] = a0re+tre, a0im+tim
		outRe[outIdx+ns], outIm[outIdx+ns] = a0re-tre, a0im-tim
	}
}
