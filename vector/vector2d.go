// Package vector implements vector fields whose components are stored in
// either the covariant or the contravariant basis of a metric. Components
// are Field2D (Vector2D) or Field3D (Vector3D). Operations that mix bases
// convert first, so callers never combine components of different bases.
package vector

import (
	"github.com/notargets/gridfield/field"
	"github.com/notargets/gridfield/geometry"
	"github.com/notargets/gridfield/mesh"
	"github.com/notargets/gridfield/utils"
)

// Vector2D is an axisymmetric vector field.
type Vector2D struct {
	X, Y, Z *field.Field2D

	// Basis of the stored components. Vectors start covariant.
	Covariant bool

	g *geometry.Metric
}

// NewVector2D returns a covariant vector with unallocated components.
func NewVector2D(g *geometry.Metric) *Vector2D {
	m := g.Mesh()
	return &Vector2D{
		X:         field.NewField2D(m),
		Y:         field.NewField2D(m),
		Z:         field.NewField2D(m),
		Covariant: true,
		g:         g,
	}
}

func (v *Vector2D) Metric() *geometry.Metric { return v.g }
func (v *Vector2D) Mesh() *mesh.Mesh         { return v.g.Mesh() }

func (v *Vector2D) Allocate() {
	v.X.Allocate()
	v.Y.Allocate()
	v.Z.Allocate()
}

func (v *Vector2D) IsAllocated() bool {
	return v.X.IsAllocated() && v.Y.IsAllocated() && v.Z.IsAllocated()
}

// transform multiplies the components by the symmetric tensor a and writes
// the result into the existing component fields.
func (v *Vector2D) transform(a11, a22, a33, a12, a13, a23 *field.Field2D) {
	x, y, z := v.X, v.Y, v.Z
	nx := x.Mul(a11).AddAssign(y.Mul(a12)).AddAssign(z.Mul(a13))
	ny := x.Mul(a12).AddAssign(y.Mul(a22)).AddAssign(z.Mul(a23))
	nz := x.Mul(a13).AddAssign(y.Mul(a23)).AddAssign(z.Mul(a33))
	v.X.Assign(nx)
	v.Y.Assign(ny)
	v.Z.Assign(nz)
}

// ToCovariant converts the components in place. No-op if already covariant.
func (v *Vector2D) ToCovariant() *Vector2D {
	if !v.Covariant {
		g := v.g
		v.transform(g.G_11, g.G_22, g.G_33, g.G_12, g.G_13, g.G_23)
		v.Covariant = true
	}
	return v
}

// ToContravariant converts the components in place. No-op if already
// contravariant.
func (v *Vector2D) ToContravariant() *Vector2D {
	if v.Covariant {
		g := v.g
		v.transform(g.G11, g.G22, g.G33, g.G12, g.G13, g.G23)
		v.Covariant = false
	}
	return v
}

func (v *Vector2D) toBasis(covariant bool) *Vector2D {
	if covariant {
		return v.ToCovariant()
	}
	return v.ToContravariant()
}

// Assign copies the components and basis of rhs into v.
func (v *Vector2D) Assign(rhs *Vector2D) *Vector2D {
	if v == rhs {
		return v
	}
	v.X.Assign(rhs.X)
	v.Y.Assign(rhs.Y)
	v.Z.Assign(rhs.Z)
	v.Covariant = rhs.Covariant
	return v
}

// SetValue sets every component to s.
func (v *Vector2D) SetValue(s float64) *Vector2D {
	v.X.SetValue(s)
	v.Y.SetValue(s)
	v.Z.SetValue(s)
	return v
}

func (v *Vector2D) Copy() *Vector2D {
	return &Vector2D{
		X:         v.X.Copy(),
		Y:         v.Y.Copy(),
		Z:         v.Z.Copy(),
		Covariant: v.Covariant,
		g:         v.g,
	}
}

// AddAssign converts v to the basis of rhs and adds the components.
func (v *Vector2D) AddAssign(rhs *Vector2D) *Vector2D {
	v.toBasis(rhs.Covariant)
	v.X.AddAssign(rhs.X)
	v.Y.AddAssign(rhs.Y)
	v.Z.AddAssign(rhs.Z)
	return v
}

// SubAssign converts v to the basis of rhs and subtracts the components.
func (v *Vector2D) SubAssign(rhs *Vector2D) *Vector2D {
	v.toBasis(rhs.Covariant)
	v.X.SubAssign(rhs.X)
	v.Y.SubAssign(rhs.Y)
	v.Z.SubAssign(rhs.Z)
	return v
}

func (v *Vector2D) Add(rhs *Vector2D) *Vector2D { return v.Copy().AddAssign(rhs) }
func (v *Vector2D) Sub(rhs *Vector2D) *Vector2D { return v.Copy().SubAssign(rhs) }

func (v *Vector2D) Neg() *Vector2D {
	return &Vector2D{X: v.X.Neg(), Y: v.Y.Neg(), Z: v.Z.Neg(), Covariant: v.Covariant, g: v.g}
}

// Scaling keeps the basis

func (v *Vector2D) MulScalarAssign(s float64) *Vector2D {
	v.X.MulScalarAssign(s)
	v.Y.MulScalarAssign(s)
	v.Z.MulScalarAssign(s)
	return v
}

func (v *Vector2D) DivScalarAssign(s float64) *Vector2D {
	v.X.DivScalarAssign(s)
	v.Y.DivScalarAssign(s)
	v.Z.DivScalarAssign(s)
	return v
}

func (v *Vector2D) MulFieldAssign(f *field.Field2D) *Vector2D {
	v.X.MulAssign(f)
	v.Y.MulAssign(f)
	v.Z.MulAssign(f)
	return v
}

func (v *Vector2D) DivFieldAssign(f *field.Field2D) *Vector2D {
	v.X.DivAssign(f)
	v.Y.DivAssign(f)
	v.Z.DivAssign(f)
	return v
}

func (v *Vector2D) MulScalar(s float64) *Vector2D       { return v.Copy().MulScalarAssign(s) }
func (v *Vector2D) DivScalar(s float64) *Vector2D       { return v.Copy().DivScalarAssign(s) }
func (v *Vector2D) MulField(f *field.Field2D) *Vector2D { return v.Copy().MulFieldAssign(f) }
func (v *Vector2D) DivField(f *field.Field2D) *Vector2D { return v.Copy().DivFieldAssign(f) }

// MulField3D scales by a 3D field, giving a 3D vector in the same basis.
func (v *Vector2D) MulField3D(f *field.Field3D) *Vector3D {
	return &Vector3D{
		X:         v.X.Mul3D(f),
		Y:         v.Y.Mul3D(f),
		Z:         v.Z.Mul3D(f),
		Covariant: v.Covariant,
		g:         v.g,
	}
}

// CrossAssign sets v to v x rhs. Both operands are taken in the covariant
// basis and the result is contravariant:
// x = (y*rz - z*ry)/J and cyclic permutations.
func (v *Vector2D) CrossAssign(rhs *Vector2D) *Vector2D {
	r := rhs.Copy().ToCovariant()
	v.ToCovariant()
	j := v.g.J
	cx := v.Y.Mul(r.Z).SubAssign(v.Z.Mul(r.Y)).DivAssign(j)
	cy := v.Z.Mul(r.X).SubAssign(v.X.Mul(r.Z)).DivAssign(j)
	cz := v.X.Mul(r.Y).SubAssign(v.Y.Mul(r.X)).DivAssign(j)
	v.X.Assign(cx)
	v.Y.Assign(cy)
	v.Z.Assign(cz)
	v.Covariant = false
	return v
}

func (v *Vector2D) Cross(rhs *Vector2D) *Vector2D { return v.Copy().CrossAssign(rhs) }

// Dot returns the scalar product. Components in different bases multiply
// directly; matching bases go through the metric, with each off-diagonal
// term carrying both orderings, e.g. (x*ry + y*rx)*g12.
func (v *Vector2D) Dot(rhs *Vector2D) *field.Field2D {
	x, y, z := v.X, v.Y, v.Z
	rx, ry, rz := rhs.X, rhs.Y, rhs.Z
	if v.Covariant != rhs.Covariant {
		return x.Mul(rx).AddAssign(y.Mul(ry)).AddAssign(z.Mul(rz))
	}
	g := v.g
	a11, a22, a33, a12, a13, a23 := g.G11, g.G22, g.G33, g.G12, g.G13, g.G23
	if !v.Covariant {
		a11, a22, a33, a12, a13, a23 = g.G_11, g.G_22, g.G_33, g.G_12, g.G_13, g.G_23
	}
	r := x.Mul(rx).MulAssign(a11)
	r.AddAssign(y.Mul(ry).MulAssign(a22))
	r.AddAssign(z.Mul(rz).MulAssign(a33))
	r.AddAssign(x.Mul(ry).AddAssign(y.Mul(rx)).MulAssign(a12))
	r.AddAssign(x.Mul(rz).AddAssign(z.Mul(rx)).MulAssign(a13))
	r.AddAssign(y.Mul(rz).AddAssign(z.Mul(ry)).MulAssign(a23))
	return r
}

// Magnitude returns sqrt(v . v).
func (v *Vector2D) Magnitude() *field.Field2D {
	return field.Sqrt2D(v.Dot(v))
}

// Mixed rank operations produce 3D results.

// Add3D returns rhs + v, in the basis of v.
func (v *Vector2D) Add3D(rhs *Vector3D) *Vector3D { return rhs.Copy().AddAssign2D(v) }

// Sub3D returns v - rhs, in the basis of rhs.
func (v *Vector2D) Sub3D(rhs *Vector3D) *Vector3D { return Vector3DFrom2D(v).SubAssign(rhs) }

// Cross3D returns v x rhs, computed as -(rhs x v).
func (v *Vector2D) Cross3D(rhs *Vector3D) *Vector3D { return rhs.Cross2D(v).Neg() }

// Dot3D returns v . rhs, computed as rhs . v.
func (v *Vector2D) Dot3D(rhs *Vector3D) *field.Field3D { return rhs.Dot2D(v) }

func (v *Vector2D) checkPoint(jx, jy, n int) {
	m := v.Mesh()
	if n < 3 {
		utils.Fatalf("Vector2D: data buffer of length %d, need 3", n)
	}
	if m.Checks && (jx < 0 || jx >= m.LocalNx() || jy < 0 || jy >= m.LocalNy()) {
		utils.Fatalf("Vector2D: index (%d,%d) out of bounds (%d,%d)", jx, jy, m.LocalNx(), m.LocalNy())
	}
}

// GetData copies the three components at (jx,jy) into dst and returns the
// number of values written. jz is ignored.
func (v *Vector2D) GetData(jx, jy, jz int, dst []float64) int {
	v.checkPoint(jx, jy, len(dst))
	dst[0], dst[1], dst[2] = v.X.At(jx, jy), v.Y.At(jx, jy), v.Z.At(jx, jy)
	return 3
}

// SetData sets the three components at (jx,jy) from src and returns the
// number of values read. jz is ignored.
func (v *Vector2D) SetData(jx, jy, jz int, src []float64) int {
	v.checkPoint(jx, jy, len(src))
	v.X.Set(jx, jy, src[0])
	v.Y.Set(jx, jy, src[1])
	v.Z.Set(jx, jy, src[2])
	return 3
}
