package channelizer

import "github.com/hydrasdr/hydrasdr-433-sub001/internal/corerr"

// MaxChannels bounds the channel count a Plan will accept. It doubles as
// the ceiling on the internal FFT plan size, which must stay within
// fft.MaxSize; 1024 channels is far beyond any realistic PFB configuration
// but keeps a caller's typo from allocating an enormous branch arena.
const MaxChannels = 1024

// filterSemiLen is the prototype filter semi-length in symbols, giving
// 2*filterSemiLen taps per branch. It is not exposed as a constructor
// knob; the constructor inputs are exactly M, center/bandwidth, input
// rate, and max block length.
const filterSemiLen = 24

const (
	prototypeCutoffFraction = 0.9
	prototypeStopbandDB     = 80
)

// Config holds the parameters for NewPlan.
type Config struct {
	// Channels is M, the channel count. Must be a power of two in [2, MaxChannels].
	Channels int

	// CenterHz is the RF center frequency the input stream is tuned to.
	CenterHz float64

	// BandwidthHz is informational only; it does not affect filter design.
	BandwidthHz float64

	// InputRateHz is the sample rate of the incoming complex stream. Must be nonzero.
	InputRateHz float64

	// MaxInputSamples bounds the size of any single Process call.
	MaxInputSamples int
}

func (c Config) validate() error {
	if c.Channels < 2 || c.Channels > MaxChannels || c.Channels&(c.Channels-1) != 0 {
		return corerr.New(corerr.InvalidArgument, "channelizer: Channels must be a power of two in [2, MaxChannels]")
	}
	if c.InputRateHz == 0 {
		return corerr.New(corerr.InvalidArgument, "channelizer: InputRateHz must be nonzero")
	}
	if c.MaxInputSamples <= 0 {
		return corerr.New(corerr.InvalidArgument, "channelizer: MaxInputSamples must be positive")
	}
	return nil
}
