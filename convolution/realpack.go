package convolution

// packedToComplex converts FFTPACK's packed half-complex output
// (gonum.org/v1/gonum/fourier's (*FFT).FFT result) for a length-n real
// sequence into n/2+1 complex128 bins: bins[0] is the DC term,
// bins[j] = complex(packed[2j-1], packed[2j]) for the middle bins, and
// — when n is even — the final bin is the real-only Nyquist term
// packed[n-1]. Derived from the doc comments in gonum's rfft.go.
func packedToComplex(packed []float64, n int) []complex128 {
	bins := make([]complex128, n/2+1)
	bins[0] = complex(packed[0], 0)

	for j := 1; j <= (n-1)/2; j++ {
		bins[j] = complex(packed[2*j-1], packed[2*j])
	}

	if n%2 == 0 {
		bins[n/2] = complex(packed[n-1], 0)
	}

	return bins
}

// complexToPacked is the inverse of packedToComplex: it re-packs n/2+1
// complex bins into the FFTPACK half-complex real layout expected by
// gonum's (*FFT).IFFT.
func complexToPacked(bins []complex128, n int) []float64 {
	packed := make([]float64, n)
	packed[0] = real(bins[0])

	for j := 1; j <= (n-1)/2; j++ {
		packed[2*j-1] = real(bins[j])
		packed[2*j] = imag(bins[j])
	}

	if n%2 == 0 {
		packed[n-1] = real(bins[n/2])
	}

	return packed
}
