package mesh

// NoNeighbor is the destination value for a region with no neighbouring
// processor, i.e. a true physical boundary. Ghost points in such a region
// belong to the evolving state; ghost points with a real neighbour are
// filled by halo exchange and are not independent state.
const NoNeighbor = -1

// Topology describes which processor owns the region beyond each edge of the
// local subdomain.
type Topology struct {
	// X boundaries
	InnerX int // Destination beyond jx < MXG
	OuterX int // Destination beyond jx >= MXG+MXSUB

	// Lower Y boundary, split in x: jx < LowerYSplit goes to LowerYInner,
	// jx >= LowerYSplit goes to LowerYOuter
	LowerYInner int
	LowerYOuter int
	LowerYSplit int

	// Upper Y boundary, split in x the same way
	UpperYInner int
	UpperYOuter int
	UpperYSplit int
}

// Isolated returns a topology where every edge is a physical boundary.
func Isolated() Topology {
	return Topology{
		InnerX:      NoNeighbor,
		OuterX:      NoNeighbor,
		LowerYInner: NoNeighbor,
		LowerYOuter: NoNeighbor,
		UpperYInner: NoNeighbor,
		UpperYOuter: NoNeighbor,
	}
}

// InnerXBoundary reports whether the inner x ghost rows are physical
// boundary points.
func (t Topology) InnerXBoundary() bool {
	return t.InnerX == NoNeighbor
}

// OuterXBoundary reports whether the outer x ghost rows are physical
// boundary points.
func (t Topology) OuterXBoundary() bool {
	return t.OuterX == NoNeighbor
}

// LowerYBoundary reports whether the lower y ghost cells at column jx are
// physical boundary points.
func (t Topology) LowerYBoundary(jx int) bool {
	return (t.LowerYInner == NoNeighbor && jx < t.LowerYSplit) ||
		(t.LowerYOuter == NoNeighbor && jx >= t.LowerYSplit)
}

// UpperYBoundary reports whether the upper y ghost cells at column jx are
// physical boundary points.
func (t Topology) UpperYBoundary(jx int) bool {
	return (t.UpperYInner == NoNeighbor && jx < t.UpperYSplit) ||
		(t.UpperYOuter == NoNeighbor && jx >= t.UpperYSplit)
}
