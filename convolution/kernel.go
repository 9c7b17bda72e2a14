package convolution

import (
	"math"
	"math/cmplx"

	"github.com/MeKo-Tech/algo-ap/stencil"
)

// Kernel is a precomputed periodic convolution: a stencil's symbol,
// evaluated at every frequency of a box and raised to the k-th power
// (one power per repeated stencil application), cached so that
// applying k steps of the stencil over a periodic box costs one
// forward FFT, one pointwise multiply, and one backward FFT rather
// than k direct-stencil sweeps. Unlike a closed-form eigenvalue
// formula for a single named stencil (e.g. the discrete Laplacian),
// this evaluates an arbitrary, possibly asymmetric, multi-dimensional
// stencil's complex-valued symbol numerically at every frequency.
type Kernel struct {
	plan     *Plan
	spectrum []complex128
}

// NewKernel builds the kernel for applying st steps-many times over a
// periodic box of the given exclusive per-axis sizes.
func NewKernel(dim int, boxSize [3]int, st stencil.Stencil, steps int) *Kernel {
	plan := NewPlan(dim, boxSize)
	spectrum := make([]complex128, plan.ComplexSize())

	for idx := range spectrum {
		freq := coordAt(idx, plan.ComplexShape, dim)

		sym := symbolAt(st, freq, boxSize, dim)
		spectrum[idx] = cmplx.Pow(sym, complex(float64(steps), 0))
	}

	return &Kernel{plan: plan, spectrum: spectrum}
}

// symbolAt evaluates the stencil's discrete Fourier symbol
// Σ_terms weight * exp(+i·2π·Σ_d offset_d·k_d/n_d) at the frequency
// coordinate freq (a linear FFT bin index per axis, 0..n-1 for
// complex axes, 0..n/2 for the packed real axis). The sign matches
// gonum's forward transform convention X[j] = Σ x[i]*exp(-i2πij/n): a
// stencil application out[x] = Σ weight*in[x+offset] shifts the
// sequence backward by offset before weighting, which under that
// convention multiplies frequency k's coefficient by exp(+i2π·offset·k/n).
func symbolAt(st stencil.Stencil, freq, boxSize [3]int, dim int) complex128 {
	var sym complex128

	for _, term := range st.Terms {
		var phase float64

		for d := 0; d < dim; d++ {
			k := wavenumber(freq[d], boxSize[d])
			phase += 2 * math.Pi * float64(term.Offset[d]) * float64(k) / float64(boxSize[d])
		}

		sym += complex(term.Weight, 0) * cmplx.Exp(complex(0, phase))
	}

	return sym
}

// wavenumber maps a half-spectrum or full-spectrum FFT bin index m
// (0..n/2 for the real axis, 0..n-1 for complex axes) to its signed
// physical frequency: bins past the Nyquist index represent negative
// frequencies that alias back from the top of the full-length
// spectrum.
func wavenumber(m, n int) int {
	if m > n/2 {
		return m - n
	}

	return m
}

// Apply runs the cached convolution over a periodic box: forward FFT,
// pointwise multiply by the spectrum, backward FFT, normalized by the
// buffer size to undo the unnormalized forward/backward pair.
func (k *Kernel) Apply(realBuf []float64, workers int) []float64 {
	freqDomain := k.plan.Forward(realBuf, workers)

	for i := range freqDomain {
		freqDomain[i] *= k.spectrum[i]
	}

	out := k.plan.Backward(freqDomain, workers)

	norm := 1.0 / float64(k.plan.RealSize())
	for i := range out {
		out[i] *= norm
	}

	return out
}

// RealSize is the number of real scalars this kernel's buffers hold.
func (k *Kernel) RealSize() int { return k.plan.RealSize() }
