package convolution

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/algo-ap/geom"
	"github.com/MeKo-Tech/algo-ap/stencil"
)

const kernelTol = 1e-8

// naivePeriodicApply is a brute-force reference: applies st to buf
// steps times over a periodic ring of length n, wrapping indices.
func naivePeriodicApply(buf []float64, st stencil.Stencil, n, steps int) []float64 {
	cur := append([]float64(nil), buf...)

	for s := 0; s < steps; s++ {
		next := make([]float64, n)
		for i := 0; i < n; i++ {
			args := make([]float64, len(st.Terms))
			for ti, term := range st.Terms {
				j := ((i+term.Offset[0])%n + n) % n
				args[ti] = cur[j]
			}

			next[i] = st.Apply(args)
		}

		cur = next
	}

	return cur
}

func TestKernel_Apply_MatchesNaivePeriodic_1DAveraging(t *testing.T) {
	st := stencil.New(1, []stencil.Term{
		{Offset: geom.Coord{-1}, Weight: 1.0 / 3},
		{Offset: geom.Coord{0}, Weight: 1.0 / 3},
		{Offset: geom.Coord{1}, Weight: 1.0 / 3},
	})

	n := 16
	steps := 5

	in := make([]float64, n)
	for i := range in {
		in[i] = math.Sin(float64(i))
	}

	k := NewKernel(1, [3]int{n, 0, 0}, st, steps)
	got := k.Apply(append([]float64(nil), in...), 4)

	want := naivePeriodicApply(in, st, n, steps)

	for i := range want {
		if math.Abs(got[i]-want[i]) > kernelTol {
			t.Errorf("Apply[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestKernel_Apply_MatchesNaivePeriodic_AsymmetricUpwind exercises a
// stencil with no symmetry about offset 0 (a one-sided upwind term
// plus a center weight), so a sign error in the symbol's phase would
// shift the result in the wrong direction instead of just losing
// precision.
func TestKernel_Apply_MatchesNaivePeriodic_AsymmetricUpwind(t *testing.T) {
	st := stencil.New(1, []stencil.Term{
		{Offset: geom.Coord{0}, Weight: 0.25},
		{Offset: geom.Coord{1}, Weight: 0.75},
	})

	n := 16
	steps := 3

	in := make([]float64, n)
	for i := range in {
		in[i] = math.Sin(float64(i)) + 0.5*float64(i%4)
	}

	k := NewKernel(1, [3]int{n, 0, 0}, st, steps)
	got := k.Apply(append([]float64(nil), in...), 4)

	want := naivePeriodicApply(in, st, n, steps)

	for i := range want {
		if math.Abs(got[i]-want[i]) > kernelTol {
			t.Errorf("Apply[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestKernel_Apply_ZeroSteps_IsIdentity(t *testing.T) {
	st := stencil.New(1, []stencil.Term{
		{Offset: geom.Coord{0}, Weight: 1.0},
	})

	n := 8
	in := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	k := NewKernel(1, [3]int{n, 0, 0}, st, 0)
	got := k.Apply(append([]float64(nil), in...), 0)

	for i := range in {
		if math.Abs(got[i]-in[i]) > kernelTol {
			t.Errorf("identity kernel[%d] = %v, want %v", i, got[i], in[i])
		}
	}
}
