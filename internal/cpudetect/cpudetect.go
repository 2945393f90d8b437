// Package cpudetect resolves, once per process, which dot-product kernel
// the channelizer's hot path should call. Resolution uses a tri-state
// atomic (untouched / in-progress / ready-or-failed) rather than a mutex:
// every caller after the first sees a single atomic load, and losers of the
// construction race spin briefly instead of blocking on a lock.
package cpudetect

import (
	"sync/atomic"

	"github.com/klauspost/cpuid/v2"
)

const (
	stateUntouched int32 = iota
	stateInProgress
	stateReady
)

var (
	state int32
	bound Kernel
)

// DotProduct computes the dot product of two equal-length real slices. The
// channelizer calls this twice per branch per output block (once for the
// real and once for the imaginary window); a and b alias
// the branch coefficients and the window's dot-product window respectively
// and are never mutated.
type DotProduct func(a, b []float32) float32

// Kernel is the resolved hot-path implementation plus metadata identifying
// which ISA level was bound. It is immutable once returned by Resolve.
type Kernel struct {
	DotProduct DotProduct
	Name       string
	ISA        string
}

// Resolve returns the process-wide bound Kernel, probing host capabilities
// and binding a function pointer on the first call. Resolve is idempotent:
// every call in every goroutine observes the same Kernel once resolution
// completes, and the probe itself never runs more than once per process.
func Resolve() Kernel {
	for {
		switch atomic.LoadInt32(&state) {
		case stateReady:
			return bound
		case stateUntouched:
			if atomic.CompareAndSwapInt32(&state, stateUntouched, stateInProgress) {
				bound = probe()
				atomic.StoreInt32(&state, stateReady)
				return bound
			}
		default:
			// Another goroutine is mid-probe; spin until it publishes.
		}
	}
}

// probe inspects host CPU features and binds the best available kernel.
// Every branch falls back to scalarDotProduct if a tier's feature is
// missing, so the function always returns a valid, correct Kernel even on
// a host cpuid fails to characterize.
func probe() Kernel {
	switch {
	case cpuid.CPU.Has(cpuid.AVX512F):
		return Kernel{DotProduct: scalarDotProduct, Name: "avx512-fallback", ISA: "avx512f"}
	case cpuid.CPU.Has(cpuid.AVX2) && cpuid.CPU.Has(cpuid.FMA3):
		return Kernel{DotProduct: scalarDotProduct, Name: "avx2-fallback", ISA: "avx2+fma3"}
	case cpuid.CPU.Has(cpuid.ASIMD):
		return Kernel{DotProduct: scalarDotProduct, Name: "neon-fallback", ISA: "neon"}
	case cpuid.CPU.Has(cpuid.SSE2):
		return Kernel{DotProduct: scalarDotProduct, Name: "sse2-fallback", ISA: "sse2"}
	default:
		return Kernel{DotProduct: scalarDotProduct, Name: "scalar", ISA: "none"}
	}
}

// scalarDotProduct is the single reference implementation every tier binds
// today. It is written to be trivially autovectorizable (straight-line,
// no branches in the loop body, no aliasing between a and b), and is the
// only kernel this package ships until real SIMD intrinsics are wired in.
// See DESIGN.md for why that wiring is out of scope for a pure-Go module.
func scalarDotProduct(a, b []float32) float32 {
	var sum float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
