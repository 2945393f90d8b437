package fft

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const eps = 1e-5

var sizes = []int{2, 4, 8, 16, 32}

func splitOf(t *testing.T, n int) (re, im []float32) {
	t.Helper()
	return make([]float32, n), make([]float32, n)
}

func referenceDFT(re, im []float32) (outRe, outIm []float64) {
	n := len(re)
	outRe = make([]float64, n)
	outIm = make([]float64, n)
	for k := 0; k < n; k++ {
		var sr, si float64
		for j := 0; j < n; j++ {
			angle := -2 * math.Pi * float64(k) * float64(j) / float64(n)
			s, c := math.Sincos(angle)
			xr, xi := float64(re[j]), float64(im[j])
			sr += xr*c - xi*s
			si += xr*s + xi*c
		}
		outRe[k], outIm[k] = sr, si
	}
	return
}

func TestDCInput(t *testing.T) {
	for _, n := range sizes {
		n := n
		t.Run(sizeName(n), func(t *testing.T) {
			p, err := NewPlan(n)
			require.NoError(t, err)
			defer p.Close()

			re, im := splitOf(t, n)
			for i := range re {
				re[i] = 1
			}
			outRe, outIm := splitOf(t, n)
			require.NoError(t, p.Forward(re, im, outRe, outIm))

			require.InDelta(t, float64(n), outRe[0], eps)
			require.InDelta(t, 0, outIm[0], eps)
			for k := 1; k < n; k++ {
				require.InDelta(t, 0, outRe[k], eps)
				require.InDelta(t, 0, outIm[k], eps)
			}
		})
	}
}

func TestImpulse(t *testing.T) {
	for _, n := range sizes {
		n := n
		t.Run(sizeName(n), func(t *testing.T) {
			p, err := NewPlan(n)
			require.NoError(t, err)
			defer p.Close()

			re, im := splitOf(t, n)
			re[0] = 1
			outRe, outIm := splitOf(t, n)
			require.NoError(t, p.Forward(re, im, outRe, outIm))

			for k := 0; k < n; k++ {
				require.InDelta(t, 1, outRe[k], eps)
				require.InDelta(t, 0, outIm[k], eps)
			}
		})
	}
}

func TestSingleTone(t *testing.T) {
	for _, n := range sizes {
		n := n
		t.Run(sizeName(n), func(t *testing.T) {
			p, err := NewPlan(n)
			require.NoError(t, err)
			defer p.Close()

			for k0 := 0; k0 < n; k0++ {
				re, im := splitOf(t, n)
				for i := 0; i < n; i++ {
					angle := 2 * math.Pi * float64(k0) * float64(i) / float64(n)
					s, c := math.Sincos(angle)
					re[i] = float32(c)
					im[i] = float32(s)
				}
				outRe, outIm := splitOf(t, n)
				require.NoError(t, p.Forward(re, im, outRe, outIm))

				for k := 0; k < n; k++ {
					mag := math.Hypot(float64(outRe[k]), float64(outIm[k]))
					if k == k0 {
						require.InDelta(t, float64(n), mag, eps*float64(n))
					} else {
						require.InDelta(t, 0, mag, eps*float64(n))
					}
				}
			}
		})
	}
}

func TestAgainstReferenceDFT(t *testing.T) {
	for _, n := range sizes {
		n := n
		t.Run(sizeName(n), rapid.MakeCheck(func(t *rapid.T) {
			p, err := NewPlan(n)
			require.NoError(t, err)
			defer p.Close()

			re := make([]float32, n)
			im := make([]float32, n)
			for i := range re {
				re[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "re"))
				im[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "im"))
			}

			outRe, outIm := make([]float32, n), make([]float32, n)
			require.NoError(t, p.Forward(re, im, outRe, outIm))

			refRe, refIm := referenceDFT(re, im)
			for k := 0; k < n; k++ {
				require.InDelta(t, refRe[k], float64(outRe[k]), eps*float64(n))
				require.InDelta(t, refIm[k], float64(outIm[k]), eps*float64(n))
			}
		}))
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range sizes {
		n := n
		t.Run(sizeName(n), rapid.MakeCheck(func(t *rapid.T) {
			p, err := NewPlan(n)
			require.NoError(t, err)
			defer p.Close()

			re := make([]float32, n)
			im := make([]float32, n)
			for i := range re {
				re[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "re"))
				im[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "im"))
			}

			freqRe, freqIm := make([]float32, n), make([]float32, n)
			require.NoError(t, p.Forward(re, im, freqRe, freqIm))

			backRe, backIm := make([]float32, n), make([]float32, n)
			require.NoError(t, p.Inverse(freqRe, freqIm, backRe, backIm))

			for i := 0; i < n; i++ {
				require.InDelta(t, float64(re[i]), float64(backRe[i])/float64(n), eps)
				require.InDelta(t, float64(im[i]), float64(backIm[i])/float64(n), eps)
			}
		}))
	}
}

func TestParseval(t *testing.T) {
	for _, n := range sizes {
		n := n
		t.Run(sizeName(n), rapid.MakeCheck(func(t *rapid.T) {
			p, err := NewPlan(n)
			require.NoError(t, err)
			defer p.Close()

			re := make([]float32, n)
			im := make([]float32, n)
			var timeEnergy float64
			for i := range re {
				re[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "re"))
				im[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "im"))
				timeEnergy += float64(re[i])*float64(re[i]) + float64(im[i])*float64(im[i])
			}

			outRe, outIm := make([]float32, n), make([]float32, n)
			require.NoError(t, p.Forward(re, im, outRe, outIm))

			var freqEnergy float64
			for k := 0; k < n; k++ {
				freqEnergy += float64(outRe[k])*float64(outRe[k]) + float64(outIm[k])*float64(outIm[k])
			}
			freqEnergy /= float64(n)

			require.InEpsilon(t, timeEnergy+1e-12, freqEnergy+1e-12, 1e-3)
		}))
	}
}

func TestLinearity(t *testing.T) {
	for _, n := range sizes {
		n := n
		t.Run(sizeName(n), rapid.MakeCheck(func(t *rapid.T) {
			p, err := NewPlan(n)
			require.NoError(t, err)
			defer p.Close()

			a := float32(rapid.Float64Range(-2, 2).Draw(t, "a"))
			b := float32(rapid.Float64Range(-2, 2).Draw(t, "b"))

			xRe, xIm := make([]float32, n), make([]float32, n)
			yRe, yIm := make([]float32, n), make([]float32, n)
			combRe, combIm := make([]float32, n), make([]float32, n)
			for i := 0; i < n; i++ {
				xRe[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "xre"))
				xIm[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "xim"))
				yRe[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "yre"))
				yIm[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "yim"))
				combRe[i] = a*xRe[i] + b*yRe[i]
				combIm[i] = a*xIm[i] + b*yIm[i]
			}

			xOutRe, xOutIm := make([]float32, n), make([]float32, n)
			yOutRe, yOutIm := make([]float32, n), make([]float32, n)
			combOutRe, combOutIm := make([]float32, n), make([]float32, n)
			require.NoError(t, p.Forward(xRe, xIm, xOutRe, xOutIm))
			require.NoError(t, p.Forward(yRe, yIm, yOutRe, yOutIm))
			require.NoError(t, p.Forward(combRe, combIm, combOutRe, combOutIm))

			for k := 0; k < n; k++ {
				wantRe := a*xOutRe[k] + b*yOutRe[k]
				wantIm := a*xOutIm[k] + b*yOutIm[k]
				require.InDelta(t, float64(wantRe), float64(combOutRe[k]), eps*float64(n))
				require.InDelta(t, float64(wantIm), float64(combOutIm[k]), eps*float64(n))
			}
		}))
	}
}

func TestTimeShift(t *testing.T) {
	for _, n := range sizes {
		n := n
		t.Run(sizeName(n), rapid.MakeCheck(func(t *rapid.T) {
			p, err := NewPlan(n)
			require.NoError(t, err)
			defer p.Close()

			re := make([]float32, n)
			im := make([]float32, n)
			for i := range re {
				re[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "re"))
				im[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "im"))
			}
			m := rapid.IntRange(0, n-1).Draw(t, "shift")

			shiftedRe := make([]float32, n)
			shiftedIm := make([]float32, n)
			for i := 0; i < n; i++ {
				shiftedRe[(i+m)%n] = re[i]
				shiftedIm[(i+m)%n] = im[i]
			}

			outRe, outIm := make([]float32, n), make([]float32, n)
			shiftedOutRe, shiftedOutIm := make([]float32, n), make([]float32, n)
			require.NoError(t, p.Forward(re, im, outRe, outIm))
			require.NoError(t, p.Forward(shiftedRe, shiftedIm, shiftedOutRe, shiftedOutIm))

			for k := 0; k < n; k++ {
				angle := -2 * math.Pi * float64(k) * float64(m) / float64(n)
				rot := cmplx.Rect(1, angle)
				want := complex(float64(outRe[k]), float64(outIm[k])) * rot
				got := complex(float64(shiftedOutRe[k]), float64(shiftedOutIm[k]))
				require.InDelta(t, real(want), real(got), eps*float64(n))
				require.InDelta(t, imag(want), imag(got), eps*float64(n))
			}
		}))
	}
}

func TestRealInputConjugateSymmetry(t *testing.T) {
	for _, n := range sizes {
		n := n
		t.Run(sizeName(n), rapid.MakeCheck(func(t *rapid.T) {
			p, err := NewPlan(n)
			require.NoError(t, err)
			defer p.Close()

			re := make([]float32, n)
			im := make([]float32, n)
			for i := range re {
				re[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "re"))
			}

			outRe, outIm := make([]float32, n), make([]float32, n)
			require.NoError(t, p.Forward(re, im, outRe, outIm))

			for k := 1; k < n/2; k++ {
				require.InDelta(t, float64(outRe[k]), float64(outRe[n-k]), eps*float64(n))
				require.InDelta(t, float64(outIm[k]), -float64(outIm[n-k]), eps*float64(n))
			}
		}))
	}
}

func TestConcreteScenarios(t *testing.T) {
	t.Run("N8_DC", func(t *testing.T) {
		p, err := NewPlan(8)
		require.NoError(t, err)
		defer p.Close()

		re, im := splitOf(t, 8)
		for i := range re {
			re[i] = 1
		}
		outRe, outIm := splitOf(t, 8)
		require.NoError(t, p.Forward(re, im, outRe, outIm))

		require.InDelta(t, 8, outRe[0], eps)
		for k := 1; k < 8; k++ {
			require.InDelta(t, 0, outRe[k], eps)
			require.InDelta(t, 0, outIm[k], eps)
		}
	})

	t.Run("N4_impulse_at_0", func(t *testing.T) {
		p, err := NewPlan(4)
		require.NoError(t, err)
		defer p.Close()

		re, im := splitOf(t, 4)
		re[0] = 1
		outRe, outIm := splitOf(t, 4)
		require.NoError(t, p.Forward(re, im, outRe, outIm))

		for k := 0; k < 4; k++ {
			require.InDelta(t, 1, outRe[k], eps)
			require.InDelta(t, 0, outIm[k], eps)
		}
	})

	t.Run("N8_unit_tone_bin1", func(t *testing.T) {
		p, err := NewPlan(8)
		require.NoError(t, err)
		defer p.Close()

		re, im := splitOf(t, 8)
		for n := 0; n < 8; n++ {
			angle := 2 * math.Pi * float64(n) / 8
			s, c := math.Sincos(angle)
			re[n] = float32(c)
			im[n] = float32(s)
		}
		outRe, outIm := splitOf(t, 8)
		require.NoError(t, p.Forward(re, im, outRe, outIm))

		want := []float64{0, 8, 0, 0, 0, 0, 0, 0}
		for k := 0; k < 8; k++ {
			mag := math.Hypot(float64(outRe[k]), float64(outIm[k]))
			require.InDelta(t, want[k], mag, eps*8)
		}
	})
}

func TestInvalidSize(t *testing.T) {
	_, err := NewPlan(0)
	require.Error(t, err)
	_, err = NewPlan(3)
	require.Error(t, err)
	_, err = NewPlan(-4)
	require.Error(t, err)
}

func TestDeterminism(t *testing.T) {
	p, err := NewPlan(16)
	require.NoError(t, err)
	defer p.Close()

	re := make([]float32, 16)
	im := make([]float32, 16)
	for i := range re {
		re[i] = float32(i) * 0.37
		im[i] = float32(i) * -0.11
	}

	out1Re, out1Im := make([]float32, 16), make([]float32, 16)
	out2Re, out2Im := make([]float32, 16), make([]float32, 16)
	require.NoError(t, p.Forward(re, im, out1Re, out1Im))
	require.NoError(t, p.Forward(re, im, out2Re, out2Im))

	require.Equal(t, out1Re, out2Re)
	require.Equal(t, out1Im, out2Im)
}

func TestCorrelateSelfPeaksAtZeroLag(t *testing.T) {
	n := 16
	p, err := NewPlan(n)
	require.NoError(t, err)
	defer p.Close()

	re := make([]float32, n)
	im := make([]float32, n)
	for i := range re {
		re[i] = float32(math.Sin(2 * math.Pi * 3 * float64(i) / float64(n)))
	}

	freqRe, freqIm := make([]float32, n), make([]float32, n)
	require.NoError(t, p.Forward(re, im, freqRe, freqIm))

	templateConjFreq := make([]complex64, n)
	for i := range templateConjFreq {
		templateConjFreq[i] = complex(freqRe[i], -freqIm[i])
	}

	outRe, outIm := make([]float32, n), make([]float32, n)
	require.NoError(t, p.Correlate(re, im, templateConjFreq, outRe, outIm))

	peakIdx := 0
	peakMag := -1.0
	for i := range outRe {
		mag := float64(outRe[i])*float64(outRe[i]) + float64(outIm[i])*float64(outIm[i])
		if mag > peakMag {
			peakMag = mag
			peakIdx = i
		}
	}
	require.Equal(t, 0, peakIdx)
}

func TestCorrelateRejectsSizeMismatch(t *testing.T) {
	p, err := NewPlan(8)
	require.NoError(t, err)
	defer p.Close()

	re, im := make([]float32, 8), make([]float32, 8)
	outRe, outIm := make([]float32, 8), make([]float32, 8)
	badTemplate := make([]complex64, 4)

	err = p.Correlate(re, im, badTemplate, outRe, outIm)
	require.Error(t, err)
}

func sizeName(n int) string {
	switch n {
	case 2:
		return "N2"
	case 4:
		return "N4"
	case 8:
		return "N8"
	case 16:
		return "N16"
	case 32:
		return "N32"
	default:
		return "N"
	}
}

func BenchmarkForward(b *testing.B) {
	for _, n := range []int{64, 256, 1024, 4096} {
		b.Run(fmt.Sprintf("N%d", n), func(b *testing.B) {
			p, err := NewPlan(n)
			if err != nil {
				b.Fatal(err)
			}
			defer p.Close()

			re := make([]float32, n)
			im := make([]float32, n)
			for i := range re {
				re[i] = float32(i) * 0.001
			}
			outRe, outIm := make([]float32, n), make([]float32, n)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = p.Forward(re, im, outRe, outIm)
			}
		})
	}
}
