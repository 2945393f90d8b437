// Package fft implements a small, pre-planned complex FFT for the power-of-two
// sizes the polyphase channelizer needs (N in [2, MaxSize]). It is not a
// general-purpose transform library: sizes are fixed at plan-construction
// time, there is no bit-reversal permutation pass (Stockham autosort instead,
// see stockham.go), and the split real/imaginary layout is the canonical
// representation throughout.
package fft

import (
	"math"
	"math/bits"

	"github.com/hydrasdr/hydrasdr-433-sub001/internal/corerr"
)

// MaxSize bounds the transform sizes a Plan will accept. The channelizer
// never asks for more than channelizer.MaxChannels (1024) points, but the limit exists mostly
// to keep a caller's typo (e.g. size in samples instead of channels) from
// silently allocating gigabytes of twiddle tables.
const MaxSize = 1 << 16

type stage struct {
	radix int // 4 or 2
	ns    int
	twRe  []float32
	twIm  []float32
}

// Plan holds everything needed to repeatedly transform length-N complex
// sequences: the stage/twiddle schedule and two owned scratch buffers. A
// Plan is immutable after construction and is not safe for concurrent use by
// more than one goroutine; it has no internal synchronization on the hot
// path.
type Plan struct {
	n      int
	stages []stage

	aRe, aIm []float32
	bRe, bIm []float32
}

// NewPlan constructs a Plan for transforming sequences of length n. n must be
// a power of two in [2, MaxSize].
func NewPlan(n int) (*Plan, error) {
	if n < 2 || n > MaxSize || n&(n-1) != 0 {
		return nil, corerr.New(corerr.InvalidSize, "fft size must be a power of two in [2, MaxSize]")
	}

	logN := bits.Len(uint(n)) - 1 // n == 2^logN
	radix4Stages := logN / 2
	needsRadix2Cleanup := logN%2 != 0

	p := &Plan{n: n}
	p.stages = make([]stage, 0, radix4Stages+1)

	ns := 1
	for t := 0; t < radix4Stages; t++ {
		size := 4 * ns
		re := make([]float32, ns)
		im := make([]float32, ns)
		fillTwiddles(re, im, size)
		p.stages = append(p.stages, stage{radix: 4, ns: ns, twRe: re, twIm: im})
		ns *= 4
	}

	if needsRadix2Cleanup {
		size := 2 * ns
		re := make([]float32, ns)
		im := make([]float32, ns)
		fillTwiddles(re, im, size)
		p.stages = append(p.stages, stage{radix: 2, ns: ns, twRe: re, twIm: im})
	}

	p.aRe = make([]float32, n)
	p.aIm = make([]float32, n)
	p.bRe = make([]float32, n)
	p.bIm = make([]float32, n)

	return p, nil
}

// fillTwiddles fills tbl[k] = W_size^k = exp(-2*pi*i*k/size) for k in
// [0, len(re)). Only the base power is stored; radix-4 stages derive W^2k
// and W^3k on the fly from this single table.
func fillTwiddles(re, im []float32, size int) {
	for k := range re {
		angle := -2 * math.Pi * float64(k) / float64(size)
		s, c := math.Sincos(angle)
		re[k] = float32(c)
		im[k] = float32(s)
	}
}

// Size returns the transform length this plan was built for.
func (p *Plan) Size() int {
	return p.n
}

// Close releases the plan's owned buffers. Close tolerates a nil receiver
// and may be called more than once.
func (p *Plan) Close() {
	if p == nil {
		return
	}
	p.aRe, p.aIm, p.bRe, p.bIm = nil, nil, nil, nil
	p.stages = nil
}
