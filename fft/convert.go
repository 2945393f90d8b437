package fft

import "github.com/hydrasdr/hydrasdr-433-sub001/internal/corerr"

// ForwardInterleaved and InverseInterleaved are convenience wrappers around
// the split-form transform for callers holding interleaved complex64 data.
// The split path remains the canonical, allocation-free representation;
// these two do the AoS<->SoA conversion at the boundary, nowhere else.
func (p *Plan) ForwardInterleaved(in, out []complex64) error {
	return p.executeInterleaved(in, out, false, false)
}

func (p *Plan) InverseInterleaved(in, out []complex64) error {
	return p.executeInterleaved(in, out, true, true)
}

func (p *Plan) executeInterleaved(in, out []complex64, conjIn, conjOut bool) error {
	if p == nil || p.aRe == nil {
		return corerr.New(corerr.InvalidArgument, "fft: use of uninitialized or closed plan")
	}
	if in == nil || out == nil {
		return corerr.New(corerr.InvalidArgument, "fft: nil input or output buffer")
	}
	n := p.n
	if len(in) != n || len(out) != n {
		return corerr.New(corerr.InvalidArgument, "fft: buffer length does not match plan size")
	}

	inRe := make([]float32, n)
	inIm := make([]float32, n)
	for i, c := range in {
		inRe[i] = real(c)
		inIm[i] = imag(c)
	}

	outRe := make([]float32, n)
	outIm := make([]float32, n)
	if err := p.execute(inRe, inIm, outRe, outIm, conjIn, conjOut); err != nil {
		return err
	}

	for i := range out {
		out[i] = complex(outRe[i], outIm[i])
	}
	return nil
}

// Correlate performs forward-FFT(re,im) -> multiply by templateConjFreq ->
// inverse-FFT(unnormalized), writing the real/imaginary parts of the
// correlation into outRe/outIm. templateConjFreq is the pre-conjugated
// frequency-domain template (e.g. FFT of a known preamble, conjugated once
// at setup). Correlate packages forward/multiply/inverse as a single call
// on top of a *Plan, leaving argmax and any downstream decoding to the
// caller.
func (p *Plan) Correlate(re, im []float32, templateConjFreq []complex64, outRe, outIm []float32) error {
	if p == nil || p.aRe == nil {
		return corerr.New(corerr.InvalidArgument, "fft: use of uninitialized or closed plan")
	}
	n := p.n
	if len(re) != n || len(im) != n || len(templateConjFreq) != n || len(outRe) != n || len(outIm) != n {
		return corerr.New(corerr.InvalidArgument, "fft: buffer length does not match plan size")
	}

	freqRe := make([]float32, n)
	freqIm := make([]float32, n)
	if err := p.Forward(re, im, freqRe, freqIm); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		tr, ti := real(templateConjFreq[i]), imag(templateConjFreq[i])
		fr, fi := freqRe[i], freqIm[i]
		freqRe[i] = fr*tr - fi*ti
		freqIm[i] = fr*ti + fi*tr
	}

	return p.Inverse(freqRe, freqIm, outRe, outIm)
}
