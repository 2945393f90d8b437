// Command channelize is a demo harness: it connects to an rtl_tcp front
// end, channelizes the wideband stream into M narrowband channels, resamples
// one selected channel to a decoder rate, and writes the result as raw
// interleaved float32 IQ. Protocol decoding of the resampled stream is out
// of scope for this repo.
package main

import (
	"io"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/bemasher/rtltcp"
	"github.com/charmbracelet/log"

	"github.com/hydrasdr/hydrasdr-433-sub001/channelizer"
	"github.com/hydrasdr/hydrasdr-433-sub001/internal/config"
	"github.com/hydrasdr/hydrasdr-433-sub001/resample"
)

func main() {
	var cfg config.Config
	if err := cfg.Parse(); err != nil {
		log.Fatal("parsing flags", "err", err)
	}
	defer cfg.Close()

	log.Info("starting", "config", cfg.String())

	var sdr rtltcp.SDR
	if err := sdr.Connect(cfg.ServerAddr); err != nil {
		log.Fatal("connecting to rtl_tcp", "err", err)
	}
	defer sdr.Close()

	sdr.SetSampleRate(uint32(cfg.InputRateHz))
	sdr.SetCenterFreq(uint32(cfg.CenterHz))
	sdr.SetOffsetTuning(true)
	sdr.SetGainMode(true)

	chPlan, err := channelizer.NewPlan(channelizer.Config{
		Channels:        cfg.Channels,
		CenterHz:        cfg.CenterHz,
		BandwidthHz:     cfg.InputRateHz,
		InputRateHz:     cfg.InputRateHz,
		MaxInputSamples: cfg.MaxInputSamples,
	})
	if err != nil {
		log.Fatal("constructing channelizer plan", "err", err)
	}
	defer chPlan.Close()

	channelRateHz := 2 * cfg.InputRateHz / float64(cfg.Channels)
	resamplerPlan, err := resample.NewPlan(uint(channelRateHz), uint(cfg.DecoderRateHz), cfg.MaxInputSamples)
	if err != nil {
		log.Fatal("constructing resampler plan", "err", err)
	}
	defer resamplerPlan.Close()

	freq, err := chPlan.ChannelFreq(cfg.ChannelIndex)
	if err != nil {
		log.Fatal("querying channel frequency", "err", err)
	}
	log.Info("channelizer ready",
		"channels", chPlan.ChannelCount(),
		"selected_channel", cfg.ChannelIndex,
		"selected_channel_freq_hz", freq,
		"channel_rate_hz", channelRateHz,
		"decoder_rate_hz", cfg.DecoderRateHz,
	)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)

	var deadline <-chan time.Time
	if cfg.Duration != 0 {
		deadline = time.After(cfg.Duration)
	}

	block := make([]byte, cfg.MaxInputSamples<<1)
	iq := make([]complex64, cfg.MaxInputSamples)
	outBuf := make([]float32, 0, cfg.MaxInputSamples*2)

	start := time.Now()
	for {
		select {
		case <-sigint:
			log.Info("interrupted", "ran_for", time.Since(start))
			return
		case <-deadline:
			log.Info("duration reached", "ran_for", time.Since(start))
			return
		default:
		}

		if _, err := io.ReadFull(&sdr, block); err != nil {
			log.Error("reading samples", "err", err)
			return
		}
		samplesToIQ(block, iq)

		channels, err := chPlan.Process(iq)
		if err != nil {
			log.Error("channelizer process", "err", err)
			return
		}

		resampled := resamplerPlan.Process(channels[cfg.ChannelIndex])

		outBuf = outBuf[:0]
		for _, s := range resampled {
			outBuf = append(outBuf, real(s), imag(s))
		}
		if err := writeFloat32LE(cfg.Output, outBuf); err != nil {
			log.Error("writing output", "err", err)
			return
		}
	}
}

// samplesToIQ converts raw rtl_tcp unsigned-byte (I,Q) pairs into centered,
// normalized complex64 samples.
func samplesToIQ(block []byte, out []complex64) {
	for i := range out {
		ib := block[i<<1]
		qb := block[(i<<1)+1]
		out[i] = complex(
			(float32(ib)-127.5)/127,
			(float32(qb)-127.5)/127,
		)
	}
}

func writeFloat32LE(w io.Writer, samples []float32) error {
	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		bits := math.Float32bits(s)
		buf[4*i] = byte(bits)
		buf[4*i+1] = byte(bits >> 8)
		buf[4*i+2] = byte(bits >> 16)
		buf[4*i+3] = byte(bits >> 24)
	}
	_, err := w.Write(buf)
	return err
}
