package bc

import (
	"testing"

	"github.com/MeKo-Tech/algo-ap/geom"
)

func TestConstant_Check(t *testing.T) {
	c := Constant{Value: -1.0}

	for _, coord := range []geom.Coord{{-1}, {11}, {1000}} {
		v, ok := c.Check(coord)
		if !ok {
			t.Fatalf("Check(%v) ok = false, want true", coord)
		}

		if v != -1.0 {
			t.Errorf("Check(%v) = %v, want -1.0", coord, v)
		}
	}
}

type sliceSampler []float64

func (s sliceSampler) At(coord geom.Coord) float64 {
	return s[coord[0]]
}

func TestPeriodic_Check(t *testing.T) {
	global := geom.NewAABB(1, geom.Coord{0}, geom.Coord{10})
	values := sliceSampler(make([]float64, 11))

	for i := range values {
		values[i] = float64(i)
	}

	p := Periodic{Global: global, Values: values}

	tests := []struct {
		coord geom.Coord
		want  float64
	}{
		{geom.Coord{-1}, 10},
		{geom.Coord{11}, 0},
	}

	for _, tt := range tests {
		v, ok := p.Check(tt.coord)
		if !ok {
			t.Fatalf("Check(%v) ok = false, want true", tt.coord)
		}

		if v != tt.want {
			t.Errorf("Check(%v) = %v, want %v", tt.coord, v, tt.want)
		}
	}

	if _, ok := p.Check(geom.Coord{5}); ok {
		t.Error("Check on in-domain coord should report ok=false")
	}
}
