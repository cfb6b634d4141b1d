package field

import (
	"math"

	"github.com/notargets/gridfield/mesh"
	"github.com/notargets/gridfield/utils"
	"gonum.org/v1/gonum/floats"
)

// Field2D is an axisymmetric field over (x,y), constant in z.
type Field2D struct {
	m    *mesh.Mesh
	data []float64 // index jx*ny + jy
	loc  CellLoc
}

// NewField2D returns an unallocated field on m. Storage is created on
// first access or by Allocate.
func NewField2D(m *mesh.Mesh) *Field2D {
	return &Field2D{m: m}
}

// NewField2DValue returns an allocated field with every point set to v.
func NewField2DValue(m *mesh.Mesh, v float64) *Field2D {
	f := NewField2D(m)
	f.SetValue(v)
	return f
}

func (f *Field2D) Mesh() *mesh.Mesh { return f.m }

// Allocate ensures storage exists. Existing data is kept.
func (f *Field2D) Allocate() {
	if f.data == nil {
		f.data = make([]float64, f.m.LocalNx()*f.m.LocalNy())
	}
}

func (f *Field2D) IsAllocated() bool { return f.data != nil }

func (f *Field2D) Location() CellLoc       { return f.loc }
func (f *Field2D) SetLocation(loc CellLoc) { f.loc = loc }

// Data returns the flat storage, allocating it if needed.
func (f *Field2D) Data() []float64 {
	f.Allocate()
	return f.data
}

func (f *Field2D) index(jx, jy int) int {
	nx, ny := f.m.LocalNx(), f.m.LocalNy()
	if f.m.Checks && (jx < 0 || jx >= nx || jy < 0 || jy >= ny) {
		utils.Fatalf("Field2D: index (%d,%d) out of bounds (%d,%d)", jx, jy, nx, ny)
	}
	return jx*ny + jy
}

func (f *Field2D) At(jx, jy int) float64 {
	f.Allocate()
	return f.data[f.index(jx, jy)]
}

func (f *Field2D) Set(jx, jy int, v float64) {
	f.Allocate()
	f.data[f.index(jx, jy)] = v
}

// Row returns the y values at jx. The slice aliases the field storage.
func (f *Field2D) Row(jx int) []float64 {
	f.Allocate()
	ny := f.m.LocalNy()
	i := f.index(jx, 0)
	return f.data[i : i+ny]
}

// Assign copies the data and location of rhs into f.
func (f *Field2D) Assign(rhs *Field2D) *Field2D {
	if f == rhs {
		return f
	}
	sameGrid("Field2D assign", f.m, rhs.m)
	f.Allocate()
	copy(f.data, rhs.Data())
	f.loc = rhs.loc
	return f
}

// SetValue sets every point to v.
func (f *Field2D) SetValue(v float64) *Field2D {
	f.Allocate()
	for i := range f.data {
		f.data[i] = v
	}
	return f
}

func (f *Field2D) Copy() *Field2D {
	r := &Field2D{m: f.m, loc: f.loc}
	if f.data != nil {
		r.data = append([]float64(nil), f.data...)
	}
	return r
}

func (f *Field2D) apply(op binaryOp, rhs *Field2D) *Field2D {
	sameGrid("Field2D "+op.String(), f.m, rhs.m)
	f.Allocate()
	applyTo(op, f.data, f.data, rhs.Data())
	return f
}

func (f *Field2D) applyScalar(op binaryOp, v float64) *Field2D {
	f.Allocate()
	applyScalarTo(op, f.data, f.data, v)
	return f
}

// Compound assignment with another Field2D

func (f *Field2D) AddAssign(rhs *Field2D) *Field2D { return f.apply(opAdd, rhs) }
func (f *Field2D) SubAssign(rhs *Field2D) *Field2D { return f.apply(opSub, rhs) }
func (f *Field2D) MulAssign(rhs *Field2D) *Field2D { return f.apply(opMul, rhs) }
func (f *Field2D) DivAssign(rhs *Field2D) *Field2D { return f.apply(opDiv, rhs) }
func (f *Field2D) PowAssign(rhs *Field2D) *Field2D { return f.apply(opPow, rhs) }

// Compound assignment with a scalar

func (f *Field2D) AddScalarAssign(v float64) *Field2D { return f.applyScalar(opAdd, v) }
func (f *Field2D) SubScalarAssign(v float64) *Field2D { return f.applyScalar(opSub, v) }
func (f *Field2D) MulScalarAssign(v float64) *Field2D { return f.applyScalar(opMul, v) }
func (f *Field2D) DivScalarAssign(v float64) *Field2D { return f.applyScalar(opDiv, v) }
func (f *Field2D) PowScalarAssign(v float64) *Field2D { return f.applyScalar(opPow, v) }

// Binary operators return a new field

func (f *Field2D) Add(rhs *Field2D) *Field2D { return f.Copy().AddAssign(rhs) }
func (f *Field2D) Sub(rhs *Field2D) *Field2D { return f.Copy().SubAssign(rhs) }
func (f *Field2D) Mul(rhs *Field2D) *Field2D { return f.Copy().MulAssign(rhs) }
func (f *Field2D) Div(rhs *Field2D) *Field2D { return f.Copy().DivAssign(rhs) }
func (f *Field2D) Pow(rhs *Field2D) *Field2D { return f.Copy().PowAssign(rhs) }

func (f *Field2D) AddScalar(v float64) *Field2D { return f.Copy().AddScalarAssign(v) }
func (f *Field2D) SubScalar(v float64) *Field2D { return f.Copy().SubScalarAssign(v) }
func (f *Field2D) MulScalar(v float64) *Field2D { return f.Copy().MulScalarAssign(v) }
func (f *Field2D) DivScalar(v float64) *Field2D { return f.Copy().DivScalarAssign(v) }
func (f *Field2D) PowScalar(v float64) *Field2D { return f.Copy().PowScalarAssign(v) }

func (f *Field2D) scalarLeft(op binaryOp, v float64) *Field2D {
	r := NewField2D(f.m)
	r.loc = f.loc
	r.Allocate()
	applyScalarLeftTo(op, r.data, v, f.Data())
	return r
}

// ScalarSub returns v - f.
func (f *Field2D) ScalarSub(v float64) *Field2D { return f.scalarLeft(opSub, v) }

// ScalarDiv returns v / f.
func (f *Field2D) ScalarDiv(v float64) *Field2D { return f.scalarLeft(opDiv, v) }

// ScalarPow returns v ^ f.
func (f *Field2D) ScalarPow(v float64) *Field2D { return f.scalarLeft(opPow, v) }

func (f *Field2D) Neg() *Field2D { return f.scalarLeft(opSub, 0) }

// Operations with a Field3D broadcast f across z and return a Field3D.

func (f *Field2D) with3D(op binaryOp, rhs *Field3D) *Field3D {
	sameGrid("Field2D "+op.String()+" Field3D", f.m, rhs.m)
	r := NewField3D(rhs.m)
	r.loc = rhs.loc
	r.Allocate()
	d2, d3 := f.Data(), rhs.Data()
	nz := rhs.m.LocalNz()
	for i, v := range d2 {
		applyScalarLeftTo(op, r.data[i*nz:(i+1)*nz], v, d3[i*nz:(i+1)*nz])
	}
	return r
}

func (f *Field2D) Add3D(rhs *Field3D) *Field3D { return f.with3D(opAdd, rhs) }
func (f *Field2D) Sub3D(rhs *Field3D) *Field3D { return f.with3D(opSub, rhs) }
func (f *Field2D) Mul3D(rhs *Field3D) *Field3D { return f.with3D(opMul, rhs) }
func (f *Field2D) Div3D(rhs *Field3D) *Field3D { return f.with3D(opDiv, rhs) }
func (f *Field2D) Pow3D(rhs *Field3D) *Field3D { return f.with3D(opPow, rhs) }

// Min returns the smallest value, including ghost cells.
func (f *Field2D) Min() float64 { return floats.Min(f.Data()) }

// Max returns the largest value, including ghost cells.
func (f *Field2D) Max() float64 { return floats.Max(f.Data()) }

func (f *Field2D) mapped(fn func(float64) float64) *Field2D {
	r := NewField2D(f.m)
	r.loc = f.loc
	r.Allocate()
	mapTo(r.data, f.Data(), fn)
	return r
}

func Sqrt2D(f *Field2D) *Field2D { return f.mapped(math.Sqrt) }
func Abs2D(f *Field2D) *Field2D  { return f.mapped(math.Abs) }
func Exp2D(f *Field2D) *Field2D  { return f.mapped(math.Exp) }
func Log2D(f *Field2D) *Field2D  { return f.mapped(math.Log) }
func Sin2D(f *Field2D) *Field2D  { return f.mapped(math.Sin) }
func Cos2D(f *Field2D) *Field2D  { return f.mapped(math.Cos) }
func Tanh2D(f *Field2D) *Field2D { return f.mapped(math.Tanh) }
