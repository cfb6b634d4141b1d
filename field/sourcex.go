package field

import (
	"math"

	"github.com/notargets/gridfield/mesh"
)

// Radial source and sink profiles in the normalised global x coordinate
// lx = mesh.GlobalX(jx), 0 on the inner edge and 1 on the outer edge.

func profile2D(m *mesh.Mesh, fn func(lx float64) float64) *Field2D {
	r := NewField2D(m)
	r.Allocate()
	ny := m.LocalNy()
	for jx := 0; jx < m.LocalNx(); jx++ {
		v := fn(m.GlobalX(jx))
		row := r.data[jx*ny : (jx+1)*ny]
		for jy := range row {
			row[jy] = v
		}
	}
	return r
}

// scaled returns fn(lx) * f at every point.
func scaled(f *Field3D, fn func(lx float64) float64) *Field3D {
	return f.Mul2D(profile2D(f.Mesh(), fn))
}

// SourceTanhX is a source localised at the inner edge:
// 0.5*(1 - tanh((lx - slength)/swidth)). f only provides the grid.
func SourceTanhX(f *Field2D, swidth, slength float64) *Field2D {
	return profile2D(f.Mesh(), func(lx float64) float64 {
		return 0.5 * (1 - math.Tanh((lx-slength)/swidth))
	})
}

// SourceExpX2 is a Gaussian source at the inner edge: exp(-lx^2/swidth^2).
func SourceExpX2(f *Field2D, swidth, slength float64) *Field2D {
	return profile2D(f.Mesh(), func(lx float64) float64 {
		return math.Exp(-lx * lx / (swidth * swidth))
	})
}

// SinkTanhX damps f near the outer edge. f0 is accepted for symmetry with
// the sources and is not used.
func SinkTanhX(f0 *Field2D, f *Field3D, swidth, slength float64) *Field3D {
	return SinkTanhXR(f0, f, swidth, slength)
}

// SinkTanhXR damps f near the outer edge:
// 0.5*(1 - tanh((1 - lx - slength)/swidth)) * f.
func SinkTanhXR(_ *Field2D, f *Field3D, swidth, slength float64) *Field3D {
	return scaled(f, func(lx float64) float64 {
		return 0.5 * (1 - math.Tanh((1-lx-slength)/swidth))
	})
}

// SinkTanhXL damps f near the inner edge:
// 0.5*(1 - tanh((lx - slength)/swidth)) * f.
func SinkTanhXL(_ *Field2D, f *Field3D, swidth, slength float64) *Field3D {
	return scaled(f, func(lx float64) float64 {
		return 0.5 * (1 - math.Tanh((lx-slength)/swidth))
	})
}

// MaskX suppresses f in thin layers at both radial edges.
func MaskX(f *Field3D) *Field3D {
	return scaled(f, func(lx float64) float64 {
		return 1 - math.Tanh(lx/40)*math.Tanh((1-lx)/40)
	})
}

// BuffX keeps f only in thin Gaussian layers at both radial edges.
func BuffX(f *Field3D) *Field3D {
	const w = 0.05
	return scaled(f, func(lx float64) float64 {
		return math.Exp(-lx*lx/(w*w)) + math.Exp(-(1-lx)*(1-lx)/(w*w))
	})
}
