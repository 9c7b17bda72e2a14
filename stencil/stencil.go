// Package stencil defines the linear stencil contract the planner,
// convolution store, and direct solver all consume: a finite set of
// (offset, weight) pairs and the per-dimension slopes they imply.
package stencil

import "github.com/MeKo-Tech/algo-ap/geom"

// Term is one (offset, weight) pair of a stencil.
type Term struct {
	Offset geom.Coord
	Weight float64
}

// Stencil is a linear combination of grid values at fixed offsets
// around each target point. Repeatedly applied, it advances a discrete
// field forward in time.
type Stencil struct {
	Dim   int
	Terms []Term
}

// New builds a Stencil from its terms. dim must match every term's
// meaningful offset entries.
func New(dim int, terms []Term) Stencil {
	return Stencil{Dim: dim, Terms: append([]Term(nil), terms...)}
}

// Apply evaluates the stencil given the gathered argument values, one
// per Term, in the same order as s.Terms.
func (s Stencil) Apply(args []float64) float64 {
	var sum float64
	for i, term := range s.Terms {
		sum += term.Weight * args[i]
	}

	return sum
}

// Slopes returns, for each dimension and side, how many cells per
// time-step that face's valid region shrinks by: at side Min it is
// max(-min_d offset, 0) over all terms; at side Max it is
// max(max_d offset, 0). A stencil with no terms reaching past a face
// has slope 0 there (an interior-only read never shrinks that face).
func (s Stencil) Slopes() geom.Bounds {
	var slopes geom.Bounds

	for _, term := range s.Terms {
		for d := 0; d < s.Dim; d++ {
			o := term.Offset[d]
			if -o > slopes[d][0] {
				slopes[d][0] = -o
			}

			if o > slopes[d][1] {
				slopes[d][1] = o
			}
		}
	}

	return slopes
}
