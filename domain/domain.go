// Package domain implements the SliceDomain view: an AABB paired with a
// backing buffer, used by the executor and direct solver to read and
// write grid values by coordinate rather than raw linear index.
package domain

import (
	"fmt"

	"github.com/MeKo-Tech/algo-ap/geom"
	"github.com/MeKo-Tech/algo-ap/parallelutil"
)

// SliceDomain is a view { aabb, buffer } where buffer must be at least
// aabb.BufferSize() long. It is created by pairing an AABB with a
// scratch slice, mutated in place by the executor, and shrunk via
// SetAABB to a sub-AABB when a time-cut handoff passes a domain larger
// than the next node needs.
type SliceDomain struct {
	aabb geom.AABB
	buf  []float64
}

// New pairs aabb with buf. It panics if buf is too small, mirroring the
// library's DomainTooSmall check at construction.
func New(aabb geom.AABB, buf []float64) *SliceDomain {
	if len(buf) < aabb.BufferSize() {
		panic(fmt.Sprintf("domain: buffer too small: have %d, need %d", len(buf), aabb.BufferSize()))
	}

	return &SliceDomain{aabb: aabb, buf: buf}
}

// AABB returns the domain's current region.
func (d *SliceDomain) AABB() geom.AABB { return d.aabb }

// Buffer returns the live portion of the backing slice.
func (d *SliceDomain) Buffer() []float64 { return d.buf[:d.aabb.BufferSize()] }

// RawBuffer returns the full backing slice, including any capacity
// beyond the current AABB's footprint.
func (d *SliceDomain) RawBuffer() []float64 { return d.buf }

// At returns the value at coord, which must satisfy d.AABB().Contains.
// At implements bc.Sampler so a SliceDomain can back a Periodic oracle.
func (d *SliceDomain) At(coord geom.Coord) float64 {
	return d.buf[d.aabb.CoordToLinear(coord)]
}

// Set writes value at coord.
func (d *SliceDomain) Set(coord geom.Coord, value float64) {
	d.buf[d.aabb.CoordToLinear(coord)] = value
}

// SetAABB reinterprets the domain as covering newAABB, without moving
// or rewriting any bytes. The caller is responsible for the buffer
// actually holding newAABB's data in the right linear layout (typically
// because newAABB's linear order and size exactly match a previous
// CopyFromSuperset into the same buffer already have); panics if the
// backing buffer is too small for the new footprint.
func (d *SliceDomain) SetAABB(newAABB geom.AABB) {
	if len(d.buf) < newAABB.BufferSize() {
		panic(fmt.Sprintf("domain: buffer too small for SetAABB: have %d, need %d", len(d.buf), newAABB.BufferSize()))
	}

	d.aabb = newAABB
}

// CopyFromSuperset fills d's entire buffer from superset, which must
// contain d.AABB(). The copy is chunked across workers goroutines (the
// fine intra-kernel parallelism tier).
func (d *SliceDomain) CopyFromSuperset(superset *SliceDomain, workers int) {
	if !superset.aabb.ContainsAABB(d.aabb) {
		panic("domain: CopyFromSuperset requires superset to contain this domain's AABB")
	}

	n := d.aabb.BufferSize()
	workers = parallelutil.ClampWorkers(workers, n)

	_ = parallelutil.For(workers, n, func(_, start, end int) error {
		for i := start; i < end; i++ {
			c := d.aabb.LinearToCoord(i)
			d.buf[i] = superset.At(c)
		}

		return nil
	})
}

// SetSubdomain writes values — indexed by sub's own linear coordinate
// order — into the disjoint coordinate range sub describes within d's
// buffer. Safe to call concurrently from multiple goroutines on the
// same *SliceDomain as long as the sub regions passed to different
// calls are pairwise disjoint (an invariant the planner's Decompose
// guarantees for sibling boundary nodes); Go's memory model permits
// concurrent writes to disjoint slice indices without further
// synchronization.
func (d *SliceDomain) SetSubdomain(sub geom.AABB, values []float64) {
	n := sub.BufferSize()
	for i := 0; i < n; i++ {
		c := sub.LinearToCoord(i)
		d.buf[d.aabb.CoordToLinear(c)] = values[i]
	}
}

// SetValues overwrites the domain's entire live buffer with values,
// which must have length d.AABB().BufferSize().
func (d *SliceDomain) SetValues(values []float64) {
	copy(d.buf, values)
}
