// Package config parses the demo harness's command-line flags into a
// Config. This package has no dependency back into the core packages (fft,
// firdesign, channelizer, resample); it is purely a cmd-level concern.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Config holds everything cmd/channelize needs to connect to a front end,
// build a channelizer + resampler pipeline, and write one channel's output
// somewhere.
type Config struct {
	serverAddr string
	outputPath string

	ServerAddr *net.TCPAddr

	CenterHz    float64
	InputRateHz float64
	Channels    int

	ChannelIndex  int
	DecoderRateHz float64

	MaxInputSamples int
	Duration        time.Duration

	Output *os.File
}

// Parse populates c from os.Args, resolving the server address and opening
// the output sink.
func (c *Config) Parse() error {
	pflag.StringVar(&c.serverAddr, "server", "127.0.0.1:1234", "address or hostname of rtl_tcp instance")
	pflag.StringVar(&c.outputPath, "output", "/dev/stdout", "file to write resampled channel IQ to")
	pflag.Float64Var(&c.CenterHz, "centerfreq", 915e6, "center frequency to receive on, in Hz")
	pflag.Float64Var(&c.InputRateHz, "samplerate", 2048000, "input sample rate, in Hz")
	pflag.IntVar(&c.Channels, "channels", 8, "number of channelizer output channels (power of two)")
	pflag.IntVar(&c.ChannelIndex, "channel", 0, "index of the channel to resample and emit")
	pflag.Float64Var(&c.DecoderRateHz, "decoderrate", 250000, "target output rate for the selected channel, in Hz")
	pflag.IntVar(&c.MaxInputSamples, "blocksize", 1<<14, "maximum samples per processing block")
	pflag.DurationVar(&c.Duration, "duration", 0, "time to run for, 0 for infinite")

	pflag.Parse()

	addr, err := net.ResolveTCPAddr("tcp", c.serverAddr)
	if err != nil {
		return fmt.Errorf("config: resolving server address: %w", err)
	}
	c.ServerAddr = addr

	if c.outputPath == "/dev/stdout" {
		c.Output = os.Stdout
	} else {
		f, err := os.Create(c.outputPath)
		if err != nil {
			return fmt.Errorf("config: creating output file: %w", err)
		}
		c.Output = f
	}

	return nil
}

// Close releases resources Parse opened. It tolerates a Config whose Parse
// never ran or failed partway.
func (c *Config) Close() {
	if c.Output != nil && c.Output != os.Stdout {
		c.Output.Close()
	}
}

func (c Config) String() string {
	return fmt.Sprintf(
		"{ServerAddr:%s CenterHz:%.0f InputRateHz:%.0f Channels:%d ChannelIndex:%d DecoderRateHz:%.0f Duration:%s}",
		c.ServerAddr, c.CenterHz, c.InputRateHz, c.Channels, c.ChannelIndex, c.DecoderRateHz, c.Duration,
	)
}
