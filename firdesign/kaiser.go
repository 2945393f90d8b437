// Package firdesign builds windowed-sinc FIR prototype filters. It backs
// both the channelizer's polyphase branch filter and the resampler's
// interpolation filter, so it knows nothing about channels or phases
// itself: callers ask for a lowpass with a tap count, a cutoff, and a
// stopband attenuation target, and get back unity-DC-gain coefficients.
package firdesign

import (
	"math"

	"github.com/hydrasdr/hydrasdr-433-sub001/internal/corerr"
)

// KaiserLowpass designs a length-taps lowpass FIR using a Kaiser-windowed
// sinc, normalized to unity gain at DC. cutoff is the normalized cutoff
// frequency (0, 0.5], expressed as a fraction of the sample rate (0.5 is
// Nyquist). stopbandDB is the desired stopband attenuation in dB and drives
// the Kaiser shape parameter beta via the standard Kaiser-Bessel rule.
func KaiserLowpass(taps int, cutoff, stopbandDB float64) ([]float32, error) {
	if taps <= 0 {
		return nil, corerr.New(corerr.InvalidArgument, "firdesign: tap count must be positive")
	}
	if cutoff <= 0 || cutoff > 0.5 {
		return nil, corerr.New(corerr.InvalidArgument, "firdesign: cutoff must be in (0, 0.5]")
	}
	if stopbandDB <= 0 {
		return nil, corerr.New(corerr.InvalidArgument, "firdesign: stopbandDB must be positive")
	}

	beta := kaiserBeta(stopbandDB)
	m := float64(taps - 1)
	win := kaiserWindow(taps, beta)

	h := make([]float32, taps)
	var sum float64
	for n := 0; n < taps; n++ {
		x := float64(n) - m/2
		var s float64
		if x == 0 {
			s = 2 * cutoff
		} else {
			s = math.Sin(2*math.Pi*cutoff*x) / (math.Pi * x)
		}
		v := s * win[n]
		h[n] = float32(v)
		sum += v
	}

	if err := normalizeUnityGain(h, sum); err != nil {
		return nil, err
	}

	return h, nil
}

// dcGainEpsilon is the smallest DC sum normalizeUnityGain will divide by.
// Below it, normalizing would blow up the filter's gain rather than fix it.
const dcGainEpsilon = 1e-9

// normalizeUnityGain scales h in place so its elements sum to 1, given the
// already-computed sum. It fails closed rather than dividing by a
// near-zero sum.
func normalizeUnityGain(h []float32, sum float64) error {
	if math.Abs(sum) < dcGainEpsilon {
		return corerr.New(corerr.InvalidArgument, "firdesign: DC gain too close to zero to normalize")
	}
	scale := float32(1 / sum)
	for n := range h {
		h[n] *= scale
	}
	return nil
}

// kaiserBeta maps a stopband attenuation target (dB) to the Kaiser window's
// shape parameter, using Kaiser's own empirical piecewise fit.
func kaiserBeta(stopbandDB float64) float64 {
	switch {
	case stopbandDB > 50:
		return 0.1102 * (stopbandDB - 8.7)
	case stopbandDB >= 21:
		return 0.5842*math.Pow(stopbandDB-21, 0.4) + 0.07886*(stopbandDB-21)
	default:
		return 0
	}
}

// kaiserWindow returns a length-n Kaiser window with shape parameter beta.
func kaiserWindow(n int, beta float64) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	m := float64(n - 1)
	denom := besselI0(beta)
	for i := 0; i < n; i++ {
		r := (2*float64(i) - m) / m
		w[i] = besselI0(beta*math.Sqrt(1-r*r)) / denom
	}
	return w
}

// besselI0 evaluates the zeroth-order modified Bessel function of the
// first kind via its power series. The series converges quickly for the
// beta values Kaiser design ever produces (double digits at most), so a
// fixed term count is enough to reach float64 precision.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	halfX := x / 2
	for k := 1; k < 32; k++ {
		term *= (halfX / float64(k)) * (halfX / float64(k))
		sum += term
		if term < sum*1e-16 {
			break
		}
	}
	return sum
}
