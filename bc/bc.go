// Package bc implements the boundary-condition oracle contract: a
// thread-safe, pure function answering "what is the field value at
// this out-of-domain coordinate?" for the direct frustrum solver.
package bc

import "github.com/MeKo-Tech/algo-ap/geom"

// Oracle answers queries for coordinates that lie outside the domain
// currently being solved. Check(coord) returning ok==false means the
// oracle was asked about a coordinate it considers in-domain, which
// the caller should never do; the direct solver treats that as the
// OracleMissing error condition.
type Oracle interface {
	Check(coord geom.Coord) (value float64, ok bool)
}

// Constant returns the same fixed value for every out-of-domain
// coordinate.
type Constant struct {
	Value float64
}

// Check always succeeds with the fixed value.
func (c Constant) Check(_ geom.Coord) (float64, bool) {
	return c.Value, true
}

// Dirichlet is a fixed-value boundary, conventionally zero. It is
// distinguished from Constant only by name, so callers can select a
// homogeneous Dirichlet condition by its conventional name rather than
// by remembering that it is just a zero-valued constant.
type Dirichlet struct {
	Value float64
}

// Check always succeeds with the fixed value.
func (d Dirichlet) Check(_ geom.Coord) (float64, bool) {
	return d.Value, true
}

// Sampler reads a field value at an in-domain coordinate. Periodic
// wraps out-of-domain reads around Global via geom.AABB.PeriodicCoord
// and looks the wrapped coordinate up through Values.
type Sampler interface {
	At(coord geom.Coord) float64
}

// Periodic answers out-of-domain queries by wrapping the coordinate
// into Global (assumed to describe the full periodic domain) and
// sampling Values there.
type Periodic struct {
	Global geom.AABB
	Values Sampler
}

// Check wraps coord into Global and samples it. If coord is already
// inside Global (should never happen — periodic BC is only consulted
// for truly out-of-domain coordinates), it reports failure so callers
// surface OracleMissing rather than silently reading through twice.
func (p Periodic) Check(coord geom.Coord) (float64, bool) {
	if p.Global.Contains(coord) {
		return 0, false
	}

	return p.Values.At(p.Global.PeriodicCoord(coord)), true
}
