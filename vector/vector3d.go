package vector

import (
	"github.com/notargets/gridfield/field"
	"github.com/notargets/gridfield/geometry"
	"github.com/notargets/gridfield/mesh"
	"github.com/notargets/gridfield/utils"
)

// Vector3D is a vector field with Field3D components. The metric is
// axisymmetric, so metric factors broadcast across z.
type Vector3D struct {
	X, Y, Z *field.Field3D

	Covariant bool

	g *geometry.Metric
}

// NewVector3D returns a covariant vector with unallocated components.
func NewVector3D(g *geometry.Metric) *Vector3D {
	m := g.Mesh()
	return &Vector3D{
		X:         field.NewField3D(m),
		Y:         field.NewField3D(m),
		Z:         field.NewField3D(m),
		Covariant: true,
		g:         g,
	}
}

// Vector3DFrom2D broadcasts the components of v across z.
func Vector3DFrom2D(v *Vector2D) *Vector3D {
	return &Vector3D{
		X:         field.NewField3DFrom2D(v.X),
		Y:         field.NewField3DFrom2D(v.Y),
		Z:         field.NewField3DFrom2D(v.Z),
		Covariant: v.Covariant,
		g:         v.g,
	}
}

func (v *Vector3D) Metric() *geometry.Metric { return v.g }
func (v *Vector3D) Mesh() *mesh.Mesh         { return v.g.Mesh() }

func (v *Vector3D) Allocate() {
	v.X.Allocate()
	v.Y.Allocate()
	v.Z.Allocate()
}

func (v *Vector3D) IsAllocated() bool {
	return v.X.IsAllocated() && v.Y.IsAllocated() && v.Z.IsAllocated()
}

func (v *Vector3D) transform(a11, a22, a33, a12, a13, a23 *field.Field2D) {
	x, y, z := v.X, v.Y, v.Z
	nx := x.Mul2D(a11).AddAssign(y.Mul2D(a12)).AddAssign(z.Mul2D(a13))
	ny := x.Mul2D(a12).AddAssign(y.Mul2D(a22)).AddAssign(z.Mul2D(a23))
	nz := x.Mul2D(a13).AddAssign(y.Mul2D(a23)).AddAssign(z.Mul2D(a33))
	v.X.Assign(nx)
	v.Y.Assign(ny)
	v.Z.Assign(nz)
}

// ToCovariant converts the components in place. No-op if already covariant.
func (v *Vector3D) ToCovariant() *Vector3D {
	if !v.Covariant {
		g := v.g
		v.transform(g.G_11, g.G_22, g.G_33, g.G_12, g.G_13, g.G_23)
		v.Covariant = true
	}
	return v
}

// ToContravariant converts the components in place. No-op if already
// contravariant.
func (v *Vector3D) ToContravariant() *Vector3D {
	if v.Covariant {
		g := v.g
		v.transform(g.G11, g.G22, g.G33, g.G12, g.G13, g.G23)
		v.Covariant = false
	}
	return v
}

func (v *Vector3D) toBasis(covariant bool) *Vector3D {
	if covariant {
		return v.ToCovariant()
	}
	return v.ToContravariant()
}

func (v *Vector3D) Assign(rhs *Vector3D) *Vector3D {
	if v == rhs {
		return v
	}
	v.X.Assign(rhs.X)
	v.Y.Assign(rhs.Y)
	v.Z.Assign(rhs.Z)
	v.Covariant = rhs.Covariant
	return v
}

// Assign2D broadcasts the components of rhs across z.
func (v *Vector3D) Assign2D(rhs *Vector2D) *Vector3D {
	v.X.Assign2D(rhs.X)
	v.Y.Assign2D(rhs.Y)
	v.Z.Assign2D(rhs.Z)
	v.Covariant = rhs.Covariant
	return v
}

func (v *Vector3D) SetValue(s float64) *Vector3D {
	v.X.SetValue(s)
	v.Y.SetValue(s)
	v.Z.SetValue(s)
	return v
}

func (v *Vector3D) Copy() *Vector3D {
	return &Vector3D{
		X:         v.X.Copy(),
		Y:         v.Y.Copy(),
		Z:         v.Z.Copy(),
		Covariant: v.Covariant,
		g:         v.g,
	}
}

func (v *Vector3D) AddAssign(rhs *Vector3D) *Vector3D {
	v.toBasis(rhs.Covariant)
	v.X.AddAssign(rhs.X)
	v.Y.AddAssign(rhs.Y)
	v.Z.AddAssign(rhs.Z)
	return v
}

func (v *Vector3D) SubAssign(rhs *Vector3D) *Vector3D {
	v.toBasis(rhs.Covariant)
	v.X.SubAssign(rhs.X)
	v.Y.SubAssign(rhs.Y)
	v.Z.SubAssign(rhs.Z)
	return v
}

func (v *Vector3D) AddAssign2D(rhs *Vector2D) *Vector3D {
	v.toBasis(rhs.Covariant)
	v.X.AddAssign2D(rhs.X)
	v.Y.AddAssign2D(rhs.Y)
	v.Z.AddAssign2D(rhs.Z)
	return v
}

func (v *Vector3D) SubAssign2D(rhs *Vector2D) *Vector3D {
	v.toBasis(rhs.Covariant)
	v.X.SubAssign2D(rhs.X)
	v.Y.SubAssign2D(rhs.Y)
	v.Z.SubAssign2D(rhs.Z)
	return v
}

func (v *Vector3D) Add(rhs *Vector3D) *Vector3D   { return v.Copy().AddAssign(rhs) }
func (v *Vector3D) Sub(rhs *Vector3D) *Vector3D   { return v.Copy().SubAssign(rhs) }
func (v *Vector3D) Add2D(rhs *Vector2D) *Vector3D { return v.Copy().AddAssign2D(rhs) }
func (v *Vector3D) Sub2D(rhs *Vector2D) *Vector3D { return v.Copy().SubAssign2D(rhs) }

func (v *Vector3D) Neg() *Vector3D {
	return &Vector3D{X: v.X.Neg(), Y: v.Y.Neg(), Z: v.Z.Neg(), Covariant: v.Covariant, g: v.g}
}

func (v *Vector3D) MulScalarAssign(s float64) *Vector3D {
	v.X.MulScalarAssign(s)
	v.Y.MulScalarAssign(s)
	v.Z.MulScalarAssign(s)
	return v
}

func (v *Vector3D) DivScalarAssign(s float64) *Vector3D {
	v.X.DivScalarAssign(s)
	v.Y.DivScalarAssign(s)
	v.Z.DivScalarAssign(s)
	return v
}

func (v *Vector3D) MulFieldAssign(f *field.Field3D) *Vector3D {
	v.X.MulAssign(f)
	v.Y.MulAssign(f)
	v.Z.MulAssign(f)
	return v
}

func (v *Vector3D) DivFieldAssign(f *field.Field3D) *Vector3D {
	v.X.DivAssign(f)
	v.Y.DivAssign(f)
	v.Z.DivAssign(f)
	return v
}

func (v *Vector3D) MulField2DAssign(f *field.Field2D) *Vector3D {
	v.X.MulAssign2D(f)
	v.Y.MulAssign2D(f)
	v.Z.MulAssign2D(f)
	return v
}

func (v *Vector3D) DivField2DAssign(f *field.Field2D) *Vector3D {
	v.X.DivAssign2D(f)
	v.Y.DivAssign2D(f)
	v.Z.DivAssign2D(f)
	return v
}

func (v *Vector3D) MulScalar(s float64) *Vector3D         { return v.Copy().MulScalarAssign(s) }
func (v *Vector3D) DivScalar(s float64) *Vector3D         { return v.Copy().DivScalarAssign(s) }
func (v *Vector3D) MulField(f *field.Field3D) *Vector3D   { return v.Copy().MulFieldAssign(f) }
func (v *Vector3D) DivField(f *field.Field3D) *Vector3D   { return v.Copy().DivFieldAssign(f) }
func (v *Vector3D) MulField2D(f *field.Field2D) *Vector3D { return v.Copy().MulField2DAssign(f) }
func (v *Vector3D) DivField2D(f *field.Field2D) *Vector3D { return v.Copy().DivField2DAssign(f) }

// cross sets v to v x (rx,ry,rz), with both operands covariant.
func (v *Vector3D) cross(rx, ry, rz *field.Field3D) *Vector3D {
	j := v.g.J
	cx := v.Y.Mul(rz).SubAssign(v.Z.Mul(ry)).DivAssign2D(j)
	cy := v.Z.Mul(rx).SubAssign(v.X.Mul(rz)).DivAssign2D(j)
	cz := v.X.Mul(ry).SubAssign(v.Y.Mul(rx)).DivAssign2D(j)
	v.X.Assign(cx)
	v.Y.Assign(cy)
	v.Z.Assign(cz)
	v.Covariant = false
	return v
}

// CrossAssign sets v to v x rhs. The result is contravariant.
func (v *Vector3D) CrossAssign(rhs *Vector3D) *Vector3D {
	r := rhs.Copy().ToCovariant()
	v.ToCovariant()
	return v.cross(r.X, r.Y, r.Z)
}

// CrossAssign2D sets v to v x rhs for an axisymmetric rhs.
func (v *Vector3D) CrossAssign2D(rhs *Vector2D) *Vector3D {
	r := Vector3DFrom2D(rhs.Copy().ToCovariant())
	v.ToCovariant()
	return v.cross(r.X, r.Y, r.Z)
}

func (v *Vector3D) Cross(rhs *Vector3D) *Vector3D   { return v.Copy().CrossAssign(rhs) }
func (v *Vector3D) Cross2D(rhs *Vector2D) *Vector3D { return v.Copy().CrossAssign2D(rhs) }

// Dot returns the scalar product; see Vector2D.Dot for the basis rules.
func (v *Vector3D) Dot(rhs *Vector3D) *field.Field3D {
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
	r := x.Mul(rx).MulAssign2D(a11)
	r.AddAssign(y.Mul(ry).MulAssign2D(a22))
	r.AddAssign(z.Mul(rz).MulAssign2D(a33))
	r.AddAssign(x.Mul(ry).AddAssign(y.Mul(rx)).MulAssign2D(a12))
	r.AddAssign(x.Mul(rz).AddAssign(z.Mul(rx)).MulAssign2D(a13))
	r.AddAssign(y.Mul(rz).AddAssign(z.Mul(ry)).MulAssign2D(a23))
	return r
}

// Dot2D returns v . rhs for an axisymmetric rhs.
func (v *Vector3D) Dot2D(rhs *Vector2D) *field.Field3D {
	return v.Dot(Vector3DFrom2D(rhs))
}

func (v *Vector3D) Magnitude() *field.Field3D {
	return field.Sqrt3D(v.Dot(v))
}

func (v *Vector3D) checkPoint(jx, jy, jz, n int) {
	m := v.Mesh()
	if n < 3 {
		utils.Fatalf("Vector3D: data buffer of length %d, need 3", n)
	}
	if m.Checks && (jx < 0 || jx >= m.LocalNx() || jy < 0 || jy >= m.LocalNy() || jz < 0 || jz >= m.LocalNz()) {
		utils.Fatalf("Vector3D: index (%d,%d,%d) out of bounds (%d,%d,%d)",
			jx, jy, jz, m.LocalNx(), m.LocalNy(), m.LocalNz())
	}
}

// GetData copies the three components at (jx,jy,jz) into dst and returns
// the number of values written.
func (v *Vector3D) GetData(jx, jy, jz int, dst []float64) int {
	v.checkPoint(jx, jy, jz, len(dst))
	dst[0], dst[1], dst[2] = v.X.At(jx, jy, jz), v.Y.At(jx, jy, jz), v.Z.At(jx, jy, jz)
	return 3
}

// SetData sets the three components at (jx,jy,jz) from src and returns the
// number of values read.
func (v *Vector3D) SetData(jx, jy, jz int, src []float64) int {
	v.checkPoint(jx, jy, jz, len(src))
	v.X.Set(jx, jy, jz, src[0])
	v.Y.Set(jx, jy, jz, src[1])
	v.Z.Set(jx, jy, jz, src[2])
	return 3
}
