package field

import (
	"math"

	"github.com/notargets/gridfield/mesh"
	"github.com/notargets/gridfield/utils"
	"gonum.org/v1/gonum/floats"
)

// Field3D is a field over (x,y,z). z is periodic and has no ghost cells.
type Field3D struct {
	m    *mesh.Mesh
	data []float64 // index (jx*ny + jy)*nz + jz
	loc  CellLoc
}

// NewField3D returns an unallocated field on m.
func NewField3D(m *mesh.Mesh) *Field3D {
	return &Field3D{m: m}
}

// NewField3DValue returns an allocated field with every point set to v.
func NewField3DValue(m *mesh.Mesh, v float64) *Field3D {
	f := NewField3D(m)
	f.SetValue(v)
	return f
}

// NewField3DFrom2D broadcasts f across z.
func NewField3DFrom2D(f *Field2D) *Field3D {
	r := NewField3D(f.m)
	r.loc = f.loc
	r.Allocate()
	nz := f.m.LocalNz()
	for i, v := range f.Data() {
		row := r.data[i*nz : (i+1)*nz]
		for jz := range row {
			row[jz] = v
		}
	}
	return r
}

func (f *Field3D) Mesh() *mesh.Mesh { return f.m }

// Allocate ensures storage exists. Existing data is kept.
func (f *Field3D) Allocate() {
	if f.data == nil {
		f.data = make([]float64, f.m.LocalNx()*f.m.LocalNy()*f.m.LocalNz())
	}
}

func (f *Field3D) IsAllocated() bool { return f.data != nil }

func (f *Field3D) Location() CellLoc       { return f.loc }
func (f *Field3D) SetLocation(loc CellLoc) { f.loc = loc }

// Data returns the flat storage, allocating it if needed.
func (f *Field3D) Data() []float64 {
	f.Allocate()
	return f.data
}

func (f *Field3D) index(jx, jy, jz int) int {
	nx, ny, nz := f.m.LocalNx(), f.m.LocalNy(), f.m.LocalNz()
	if f.m.Checks && (jx < 0 || jx >= nx || jy < 0 || jy >= ny || jz < 0 || jz >= nz) {
		utils.Fatalf("Field3D: index (%d,%d,%d) out of bounds (%d,%d,%d)", jx, jy, jz, nx, ny, nz)
	}
	return (jx*ny+jy)*nz + jz
}

func (f *Field3D) At(jx, jy, jz int) float64 {
	f.Allocate()
	return f.data[f.index(jx, jy, jz)]
}

func (f *Field3D) Set(jx, jy, jz int, v float64) {
	f.Allocate()
	f.data[f.index(jx, jy, jz)] = v
}

// Row returns the z values at (jx,jy). The slice aliases the field storage.
func (f *Field3D) Row(jx, jy int) []float64 {
	f.Allocate()
	nz := f.m.LocalNz()
	i := f.index(jx, jy, 0)
	return f.data[i : i+nz]
}

// Assign copies the data and location of rhs into f.
func (f *Field3D) Assign(rhs *Field3D) *Field3D {
	if f == rhs {
		return f
	}
	sameGrid("Field3D assign", f.m, rhs.m)
	f.Allocate()
	copy(f.data, rhs.Data())
	f.loc = rhs.loc
	return f
}

// Assign2D broadcasts rhs across z into f.
func (f *Field3D) Assign2D(rhs *Field2D) *Field3D {
	sameGrid("Field3D assign", f.m, rhs.m)
	f.Allocate()
	copy(f.data, NewField3DFrom2D(rhs).data)
	f.loc = rhs.loc
	return f
}

// SetValue sets every point to v.
func (f *Field3D) SetValue(v float64) *Field3D {
	f.Allocate()
	for i := range f.data {
		f.data[i] = v
	}
	return f
}

func (f *Field3D) Copy() *Field3D {
	r := &Field3D{m: f.m, loc: f.loc}
	if f.data != nil {
		r.data = append([]float64(nil), f.data...)
	}
	return r
}

func (f *Field3D) apply(op binaryOp, rhs *Field3D) *Field3D {
	sameGrid("Field3D "+op.String(), f.m, rhs.m)
	f.Allocate()
	applyTo(op, f.data, f.data, rhs.Data())
	return f
}

func (f *Field3D) apply2D(op binaryOp, rhs *Field2D) *Field3D {
	sameGrid("Field3D "+op.String()+" Field2D", f.m, rhs.m)
	f.Allocate()
	nz := f.m.LocalNz()
	for i, v := range rhs.Data() {
		row := f.data[i*nz : (i+1)*nz]
		applyScalarTo(op, row, row, v)
	}
	return f
}

func (f *Field3D) applyScalar(op binaryOp, v float64) *Field3D {
	f.Allocate()
	applyScalarTo(op, f.data, f.data, v)
	return f
}

// Compound assignment with another Field3D

func (f *Field3D) AddAssign(rhs *Field3D) *Field3D { return f.apply(opAdd, rhs) }
func (f *Field3D) SubAssign(rhs *Field3D) *Field3D { return f.apply(opSub, rhs) }
func (f *Field3D) MulAssign(rhs *Field3D) *Field3D { return f.apply(opMul, rhs) }
func (f *Field3D) DivAssign(rhs *Field3D) *Field3D { return f.apply(opDiv, rhs) }
func (f *Field3D) PowAssign(rhs *Field3D) *Field3D { return f.apply(opPow, rhs) }

// Compound assignment with a Field2D, broadcast across z

func (f *Field3D) AddAssign2D(rhs *Field2D) *Field3D { return f.apply2D(opAdd, rhs) }
func (f *Field3D) SubAssign2D(rhs *Field2D) *Field3D { return f.apply2D(opSub, rhs) }
func (f *Field3D) MulAssign2D(rhs *Field2D) *Field3D { return f.apply2D(opMul, rhs) }
func (f *Field3D) DivAssign2D(rhs *Field2D) *Field3D { return f.apply2D(opDiv, rhs) }
func (f *Field3D) PowAssign2D(rhs *Field2D) *Field3D { return f.apply2D(opPow, rhs) }

// Compound assignment with a scalar

func (f *Field3D) AddScalarAssign(v float64) *Field3D { return f.applyScalar(opAdd, v) }
func (f *Field3D) SubScalarAssign(v float64) *Field3D { return f.applyScalar(opSub, v) }
func (f *Field3D) MulScalarAssign(v float64) *Field3D { return f.applyScalar(opMul, v) }
func (f *Field3D) DivScalarAssign(v float64) *Field3D { return f.applyScalar(opDiv, v) }
func (f *Field3D) PowScalarAssign(v float64) *Field3D { return f.applyScalar(opPow, v) }

// Binary operators return a new field

func (f *Field3D) Add(rhs *Field3D) *Field3D { return f.Copy().AddAssign(rhs) }
func (f *Field3D) Sub(rhs *Field3D) *Field3D { return f.Copy().SubAssign(rhs) }
func (f *Field3D) Mul(rhs *Field3D) *Field3D { return f.Copy().MulAssign(rhs) }
func (f *Field3D) Div(rhs *Field3D) *Field3D { return f.Copy().DivAssign(rhs) }
func (f *Field3D) Pow(rhs *Field3D) *Field3D { return f.Copy().PowAssign(rhs) }

func (f *Field3D) Add2D(rhs *Field2D) *Field3D { return f.Copy().AddAssign2D(rhs) }
func (f *Field3D) Sub2D(rhs *Field2D) *Field3D { return f.Copy().SubAssign2D(rhs) }
func (f *Field3D) Mul2D(rhs *Field2D) *Field3D { return f.Copy().MulAssign2D(rhs) }
func (f *Field3D) Div2D(rhs *Field2D) *Field3D { return f.Copy().DivAssign2D(rhs) }
func (f *Field3D) Pow2D(rhs *Field2D) *Field3D { return f.Copy().PowAssign2D(rhs) }

func (f *Field3D) AddScalar(v float64) *Field3D { return f.Copy().AddScalarAssign(v) }
func (f *Field3D) SubScalar(v float64) *Field3D { return f.Copy().SubScalarAssign(v) }
func (f *Field3D) MulScalar(v float64) *Field3D { return f.Copy().MulScalarAssign(v) }
func (f *Field3D) DivScalar(v float64) *Field3D { return f.Copy().DivScalarAssign(v) }
func (f *Field3D) PowScalar(v float64) *Field3D { return f.Copy().PowScalarAssign(v) }

func (f *Field3D) scalarLeft(op binaryOp, v float64) *Field3D {
	r := NewField3D(f.m)
	r.loc = f.loc
	r.Allocate()
	applyScalarLeftTo(op, r.data, v, f.Data())
	return r
}

// ScalarSub returns v - f.
func (f *Field3D) ScalarSub(v float64) *Field3D { return f.scalarLeft(opSub, v) }

// ScalarDiv returns v / f.
func (f *Field3D) ScalarDiv(v float64) *Field3D { return f.scalarLeft(opDiv, v) }

// ScalarPow returns v ^ f.
func (f *Field3D) ScalarPow(v float64) *Field3D { return f.scalarLeft(opPow, v) }

func (f *Field3D) Neg() *Field3D { return f.scalarLeft(opSub, 0) }

// Min returns the smallest value, including ghost cells.
func (f *Field3D) Min() float64 { return floats.Min(f.Data()) }

// Max returns the largest value, including ghost cells.
func (f *Field3D) Max() float64 { return floats.Max(f.Data()) }

// DC returns the z average.
func (f *Field3D) DC() *Field2D {
	r := NewField2D(f.m)
	r.loc = f.loc
	r.Allocate()
	nz := f.m.LocalNz()
	d := f.Data()
	for i := range r.data {
		r.data[i] = floats.Sum(d[i*nz:(i+1)*nz]) / float64(nz)
	}
	return r
}

// Slice returns the x-z plane at jy as a FieldPerp in the default arena.
func (f *Field3D) Slice(jy int) *FieldPerp {
	p := NewFieldPerp(f.m)
	p.SetFrom(f, jy)
	return p
}

func (f *Field3D) mapped(fn func(float64) float64) *Field3D {
	r := NewField3D(f.m)
	r.loc = f.loc
	r.Allocate()
	mapTo(r.data, f.Data(), fn)
	return r
}

func Sqrt3D(f *Field3D) *Field3D { return f.mapped(math.Sqrt) }
func Abs3D(f *Field3D) *Field3D  { return f.mapped(math.Abs) }
func Exp3D(f *Field3D) *Field3D  { return f.mapped(math.Exp) }
func Log3D(f *Field3D) *Field3D  { return f.mapped(math.Log) }
func Sin3D(f *Field3D) *Field3D  { return f.mapped(math.Sin) }
func Cos3D(f *Field3D) *Field3D  { return f.mapped(math.Cos) }
func Tanh3D(f *Field3D) *Field3D { return f.mapped(math.Tanh) }
