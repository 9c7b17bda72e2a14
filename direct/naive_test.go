package direct

import (
	"testing"

	"github.com/MeKo-Tech/algo-ap/bc"
	"github.com/MeKo-Tech/algo-ap/geom"
	"github.com/MeKo-Tech/algo-ap/stencil"
	"github.com/stretchr/testify/require"
)

func TestNaiveSolve_OneStepMatchesHandComputed(t *testing.T) {
	region := geom.NewAABB(1, geom.Coord{0}, geom.Coord{4})
	st := stencil.New(1, []stencil.Term{
		{Offset: geom.Coord{-1}, Weight: 0.25},
		{Offset: geom.Coord{0}, Weight: 0.5},
		{Offset: geom.Coord{1}, Weight: 0.25},
	})
	oracle := bc.Dirichlet{Value: 0}

	values := []float64{1, 2, 3, 4, 5}

	got := NaiveSolve(oracle, st, region, values, 1, 2)

	want := []float64{
		0.25*0 + 0.5*1 + 0.25*2,
		0.25*1 + 0.5*2 + 0.25*3,
		0.25*2 + 0.5*3 + 0.25*4,
		0.25*3 + 0.5*4 + 0.25*5,
		0.25*4 + 0.5*5 + 0.25*0,
	}

	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-12)
	}
}

func TestNaiveSolve_ZeroStepsIsIdentity(t *testing.T) {
	region := geom.NewAABB(1, geom.Coord{0}, geom.Coord{3})
	st := stencil.New(1, []stencil.Term{{Offset: geom.Coord{0}, Weight: 1}})

	values := []float64{9, 8, 7, 6}

	got := NaiveSolve(bc.Constant{Value: 0}, st, region, values, 0, 1)

	require.Equal(t, values, got)
}
