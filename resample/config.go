package resample

import "github.com/hydrasdr/hydrasdr-433-sub001/internal/corerr"

// tapsPerSubfilter is the per-phase tap count.
const tapsPerSubfilter = 32

// designStopbandDB is the Kaiser design target. Measured attenuation runs a
// few dB higher than this target, which is normal Kaiser-window slack.
const designStopbandDB = 60

func gcd(a, b uint) uint {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func validateRates(rateIn, rateOut uint, maxBlock int) error {
	if rateIn == 0 || rateOut == 0 {
		return corerr.New(corerr.InvalidArgument, "resample: rateIn and rateOut must be nonzero")
	}
	if maxBlock <= 0 {
		return corerr.New(corerr.InvalidArgument, "resample: maxBlock must be positive")
	}
	return nil
}
