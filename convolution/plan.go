// Package convolution implements the real-to-complex FFT plan library
// and the precomputed convolution kernel store: each periodic plan
// node gets one kernel, whose spectrum is the stencil's symbol raised
// to the k-th power, applied by forward FFT / pointwise multiply /
// backward FFT / normalize.
package convolution

import (
	"github.com/MeKo-Tech/algo-ap/parallelutil"
	"gonum.org/v1/gonum/fourier"
)

// Plan holds the shape metadata for a separable multi-axis real FFT
// over a box of RealShape exclusive sizes: the last axis is
// transformed with gonum's real-sequence FFT (fourier.FFT, an FFTPACK
// rfftf/rfftb translation), producing RealShape[dim-1]/2+1 packed
// complex bins; the remaining axes are transformed complex-to-complex
// with fourier.CmplxFFT, applying each axis's transform as an
// independent pass over every line running along it (see DESIGN.md
// for why gonum's real-sequence transform was chosen here).
type Plan struct {
	Dim          int
	RealShape    [3]int
	ComplexShape [3]int
}

// NewPlan builds a Plan for a box whose exclusive sizes (only the
// first dim entries meaningful) are realShape.
func NewPlan(dim int, realShape [3]int) *Plan {
	complexShape := realShape
	complexShape[dim-1] = realShape[dim-1]/2 + 1

	return &Plan{Dim: dim, RealShape: realShape, ComplexShape: complexShape}
}

// RealSize is the number of real scalars a buffer for this plan needs.
func (p *Plan) RealSize() int { return totalSize(p.RealShape, p.Dim) }

// ComplexSize is the number of complex128 values the transformed
// buffer needs — matches geom.AABB.ComplexBufferSize for the same box.
func (p *Plan) ComplexSize() int { return totalSize(p.ComplexShape, p.Dim) }

type lineStart struct {
	start, stride int
}

func collectLineStarts(shape [3]int, dim, axis int) []lineStart {
	var starts []lineStart

	forEachLineStart(shape, dim, axis, func(start, stride int) {
		starts = append(starts, lineStart{start: start, stride: stride})
	})

	return starts
}

// Forward runs the unnormalized forward transform: real input to
// ComplexSize() complex bins. workers caps the goroutine fan-out over
// independent lines within each axis pass (the fine intra-kernel
// parallelism tier).
func (p *Plan) Forward(realBuf []float64, workers int) []complex128 {
	complexBuf := make([]complex128, p.ComplexSize())
	lastAxis := p.Dim - 1
	n := p.RealShape[lastAxis]

	realStarts := collectLineStarts(p.RealShape, p.Dim, lastAxis)
	complexStarts := collectLineStarts(p.ComplexShape, p.Dim, lastAxis)

	w := parallelutil.ClampWorkers(workers, len(realStarts))
	_ = parallelutil.For(w, len(realStarts), func(_, start, end int) error {
		fft := fourier.NewFFT(n)
		line := make([]float64, n)

		for li := start; li < end; li++ {
			rs, rstride := realStarts[li].start, realStarts[li].stride
			for i := 0; i < n; i++ {
				line[i] = realBuf[rs+i*rstride]
			}

			bins := packedToComplex(fft.FFT(nil, line), n)

			cs, cstride := complexStarts[li].start, complexStarts[li].stride
			for i, b := range bins {
				complexBuf[cs+i*cstride] = b
			}
		}

		return nil
	})

	for axis := 0; axis < lastAxis; axis++ {
		p.transformComplexAxis(complexBuf, axis, workers, false)
	}

	return complexBuf
}

// Backward runs the unnormalized backward transform: ComplexSize()
// complex bins back to RealSize() real values. The result still needs
// dividing by RealSize() to undo the combined forward+backward scale
// factor — callers (see Kernel.Apply) do that once, after this call.
func (p *Plan) Backward(complexBuf []complex128, workers int) []float64 {
	lastAxis := p.Dim - 1

	for axis := lastAxis - 1; axis >= 0; axis-- {
		p.transformComplexAxis(complexBuf, axis, workers, true)
	}

	n := p.RealShape[lastAxis]
	realBuf := make([]float64, p.RealSize())

	realStarts := collectLineStarts(p.RealShape, p.Dim, lastAxis)
	complexStarts := collectLineStarts(p.ComplexShape, p.Dim, lastAxis)

	w := parallelutil.ClampWorkers(workers, len(realStarts))
	_ = parallelutil.For(w, len(realStarts), func(_, start, end int) error {
		fft := fourier.NewFFT(n)
		bins := make([]complex128, n/2+1)

		for li := start; li < end; li++ {
			cs, cstride := complexStarts[li].start, complexStarts[li].stride
			for i := range bins {
				bins[i] = complexBuf[cs+i*cstride]
			}

			packed := complexToPacked(bins, n)
			line := fft.IFFT(nil, packed)

			rs, rstride := realStarts[li].start, realStarts[li].stride
			for i := 0; i < n; i++ {
				realBuf[rs+i*rstride] = line[i]
			}
		}

		return nil
	})

	return realBuf
}

func (p *Plan) transformComplexAxis(buf []complex128, axis int, workers int, inverse bool) {
	m := p.ComplexShape[axis]
	starts := collectLineStarts(p.ComplexShape, p.Dim, axis)

	w := parallelutil.ClampWorkers(workers, len(starts))
	_ = parallelutil.For(w, len(starts), func(_, start, end int) error {
		cfft := fourier.NewCmplxFFT(m)
		line := make([]complex128, m)

		for li := start; li < end; li++ {
			s, stride := starts[li].start, starts[li].stride
			for i := 0; i < m; i++ {
				line[i] = buf[s+i*stride]
			}

			var out []complex128
			if inverse {
				out = cfft.IFFT(nil, line)
			} else {
				out = cfft.FFT(nil, line)
			}

			for i, v := range out {
				buf[s+i*stride] = v
			}
		}

		return nil
	})
}
