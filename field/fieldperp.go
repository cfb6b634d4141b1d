package field

import (
	"math"

	"github.com/notargets/gridfield/mesh"
	"github.com/notargets/gridfield/utils"
)

// FieldPerp is an x-z slice at a fixed y index. Its storage is a block
// taken from an Arena and handed back by Release.
//
// Copy, the binary forms (Add, Mul3D, ...) and ScalarMul/ScalarDiv/
// ScalarPow/Neg return a slice holding a new block, and the caller owns
// it: Release it when done. Inside loops prefer the forms that reuse a
// block already held, either dst.Assign(f).AddAssign(g) or f.AddInto(dst, g).
type FieldPerp struct {
	m      *mesh.Mesh
	arena  *Arena
	block  *Block // index jx*nz + jz
	yindex int
	loc    CellLoc
}

// NewFieldPerp returns a slice backed by the default arena.
func NewFieldPerp(m *mesh.Mesh) *FieldPerp {
	return NewFieldPerpIn(defaultArena, m)
}

// NewFieldPerpIn returns a slice backed by arena a.
func NewFieldPerpIn(a *Arena, m *mesh.Mesh) *FieldPerp {
	return &FieldPerp{m: m, arena: a}
}

func (f *FieldPerp) Mesh() *mesh.Mesh { return f.m }

func (f *FieldPerp) shape() Shape {
	return Shape{Rows: f.m.LocalNx(), Cols: f.m.LocalNz()}
}

// Allocate takes a block from the arena if the slice has none.
func (f *FieldPerp) Allocate() {
	if f.block == nil {
		f.block = f.arena.Acquire(f.shape())
	}
}

func (f *FieldPerp) IsAllocated() bool { return f.block != nil }

// Release hands the storage back to the arena. The slice may be reused
// afterwards; it reallocates on the next access.
func (f *FieldPerp) Release() {
	if f.block == nil {
		return
	}
	f.arena.Release(f.block)
	f.block = nil
}

func (f *FieldPerp) Location() CellLoc       { return f.loc }
func (f *FieldPerp) SetLocation(loc CellLoc) { f.loc = loc }

// Index is the y index of the slice.
func (f *FieldPerp) Index() int      { return f.yindex }
func (f *FieldPerp) SetIndex(jy int) { f.yindex = jy }

// Data returns the flat storage, allocating it if needed.
func (f *FieldPerp) Data() []float64 {
	f.Allocate()
	return f.block.Data()
}

func (f *FieldPerp) index(jx, jz int) int {
	nx, nz := f.m.LocalNx(), f.m.LocalNz()
	if f.m.Checks && (jx < 0 || jx >= nx || jz < 0 || jz >= nz) {
		utils.Fatalf("FieldPerp: index (%d,%d) out of bounds (%d,%d)", jx, jz, nx, nz)
	}
	return jx*nz + jz
}

func (f *FieldPerp) At(jx, jz int) float64 {
	return f.Data()[f.index(jx, jz)]
}

func (f *FieldPerp) Set(jx, jz int, v float64) {
	f.Data()[f.index(jx, jz)] = v
}

// Row returns the z values at jx. The slice aliases the field storage.
func (f *FieldPerp) Row(jx int) []float64 {
	d := f.Data()
	i := f.index(jx, 0)
	return d[i : i+f.m.LocalNz()]
}

// SetFrom copies the x-z plane of f3d at jy into f and sets the index.
func (f *FieldPerp) SetFrom(f3d *Field3D, jy int) *FieldPerp {
	sameGrid("FieldPerp set", f.m, f3d.m)
	d := f.Data()
	nx, nz := f.m.LocalNx(), f.m.LocalNz()
	for jx := 0; jx < nx; jx++ {
		copy(d[jx*nz:(jx+1)*nz], f3d.Row(jx, jy))
	}
	f.yindex = jy
	f.loc = f3d.loc
	return f
}

// Assign copies data, index and location of rhs into f.
func (f *FieldPerp) Assign(rhs *FieldPerp) *FieldPerp {
	if f == rhs {
		return f
	}
	sameGrid("FieldPerp assign", f.m, rhs.m)
	copy(f.Data(), rhs.Data())
	f.yindex = rhs.yindex
	f.loc = rhs.loc
	return f
}

func (f *FieldPerp) SetValue(v float64) *FieldPerp {
	d := f.Data()
	for i := range d {
		d[i] = v
	}
	return f
}

// Copy returns a new slice in the same arena. The caller must Release it.
func (f *FieldPerp) Copy() *FieldPerp {
	r := &FieldPerp{m: f.m, arena: f.arena, yindex: f.yindex, loc: f.loc}
	if f.block != nil {
		copy(r.Data(), f.block.Data())
	}
	return r
}

func (f *FieldPerp) apply(op binaryOp, rhs *FieldPerp) *FieldPerp {
	sameGrid("FieldPerp "+op.String(), f.m, rhs.m)
	d := f.Data()
	applyTo(op, d, d, rhs.Data())
	return f
}

// apply3D combines with the plane of rhs at f's y index.
func (f *FieldPerp) apply3D(op binaryOp, rhs *Field3D) *FieldPerp {
	sameGrid("FieldPerp "+op.String()+" Field3D", f.m, rhs.m)
	d := f.Data()
	nx, nz := f.m.LocalNx(), f.m.LocalNz()
	for jx := 0; jx < nx; jx++ {
		row := d[jx*nz : (jx+1)*nz]
		applyTo(op, row, row, rhs.Row(jx, f.yindex))
	}
	return f
}

// apply2D combines with the value of rhs at (jx, yindex), broadcast over z.
func (f *FieldPerp) apply2D(op binaryOp, rhs *Field2D) *FieldPerp {
	sameGrid("FieldPerp "+op.String()+" Field2D", f.m, rhs.m)
	d := f.Data()
	nx, nz := f.m.LocalNx(), f.m.LocalNz()
	for jx := 0; jx < nx; jx++ {
		row := d[jx*nz : (jx+1)*nz]
		applyScalarTo(op, row, row, rhs.At(jx, f.yindex))
	}
	return f
}

func (f *FieldPerp) applyScalar(op binaryOp, v float64) *FieldPerp {
	d := f.Data()
	applyScalarTo(op, d, d, v)
	return f
}

func (f *FieldPerp) AddAssign(rhs *FieldPerp) *FieldPerp { return f.apply(opAdd, rhs) }
func (f *FieldPerp) SubAssign(rhs *FieldPerp) *FieldPerp { return f.apply(opSub, rhs) }
func (f *FieldPerp) MulAssign(rhs *FieldPerp) *FieldPerp { return f.apply(opMul, rhs) }
func (f *FieldPerp) DivAssign(rhs *FieldPerp) *FieldPerp { return f.apply(opDiv, rhs) }
func (f *FieldPerp) PowAssign(rhs *FieldPerp) *FieldPerp { return f.apply(opPow, rhs) }

func (f *FieldPerp) AddAssign3D(rhs *Field3D) *FieldPerp { return f.apply3D(opAdd, rhs) }
func (f *FieldPerp) SubAssign3D(rhs *Field3D) *FieldPerp { return f.apply3D(opSub, rhs) }
func (f *FieldPerp) MulAssign3D(rhs *Field3D) *FieldPerp { return f.apply3D(opMul, rhs) }
func (f *FieldPerp) DivAssign3D(rhs *Field3D) *FieldPerp { return f.apply3D(opDiv, rhs) }
func (f *FieldPerp) PowAssign3D(rhs *Field3D) *FieldPerp { return f.apply3D(opPow, rhs) }

func (f *FieldPerp) AddAssign2D(rhs *Field2D) *FieldPerp { return f.apply2D(opAdd, rhs) }
func (f *FieldPerp) SubAssign2D(rhs *Field2D) *FieldPerp { return f.apply2D(opSub, rhs) }
func (f *FieldPerp) MulAssign2D(rhs *Field2D) *FieldPerp { return f.apply2D(opMul, rhs) }
func (f *FieldPerp) DivAssign2D(rhs *Field2D) *FieldPerp { return f.apply2D(opDiv, rhs) }
func (f *FieldPerp) PowAssign2D(rhs *Field2D) *FieldPerp { return f.apply2D(opPow, rhs) }

func (f *FieldPerp) AddScalarAssign(v float64) *FieldPerp { return f.applyScalar(opAdd, v) }
func (f *FieldPerp) SubScalarAssign(v float64) *FieldPerp { return f.applyScalar(opSub, v) }
func (f *FieldPerp) MulScalarAssign(v float64) *FieldPerp { return f.applyScalar(opMul, v) }
func (f *FieldPerp) DivScalarAssign(v float64) *FieldPerp { return f.applyScalar(opDiv, v) }
func (f *FieldPerp) PowScalarAssign(v float64) *FieldPerp { return f.applyScalar(opPow, v) }

// Binary forms. Each result owns a new block from f's arena.

func (f *FieldPerp) Add(rhs *FieldPerp) *FieldPerp { return f.Copy().AddAssign(rhs) }
func (f *FieldPerp) Sub(rhs *FieldPerp) *FieldPerp { return f.Copy().SubAssign(rhs) }
func (f *FieldPerp) Mul(rhs *FieldPerp) *FieldPerp { return f.Copy().MulAssign(rhs) }
func (f *FieldPerp) Div(rhs *FieldPerp) *FieldPerp { return f.Copy().DivAssign(rhs) }
func (f *FieldPerp) Pow(rhs *FieldPerp) *FieldPerp { return f.Copy().PowAssign(rhs) }

func (f *FieldPerp) Add3D(rhs *Field3D) *FieldPerp { return f.Copy().AddAssign3D(rhs) }
func (f *FieldPerp) Sub3D(rhs *Field3D) *FieldPerp { return f.Copy().SubAssign3D(rhs) }
func (f *FieldPerp) Mul3D(rhs *Field3D) *FieldPerp { return f.Copy().MulAssign3D(rhs) }
func (f *FieldPerp) Div3D(rhs *Field3D) *FieldPerp { return f.Copy().DivAssign3D(rhs) }
func (f *FieldPerp) Pow3D(rhs *Field3D) *FieldPerp { return f.Copy().PowAssign3D(rhs) }

func (f *FieldPerp) Add2D(rhs *Field2D) *FieldPerp { return f.Copy().AddAssign2D(rhs) }
func (f *FieldPerp) Sub2D(rhs *Field2D) *FieldPerp { return f.Copy().SubAssign2D(rhs) }
func (f *FieldPerp) Mul2D(rhs *Field2D) *FieldPerp { return f.Copy().MulAssign2D(rhs) }
func (f *FieldPerp) Div2D(rhs *Field2D) *FieldPerp { return f.Copy().DivAssign2D(rhs) }
func (f *FieldPerp) Pow2D(rhs *Field2D) *FieldPerp { return f.Copy().PowAssign2D(rhs) }

func (f *FieldPerp) MulScalar(v float64) *FieldPerp { return f.Copy().MulScalarAssign(v) }
func (f *FieldPerp) DivScalar(v float64) *FieldPerp { return f.Copy().DivScalarAssign(v) }
func (f *FieldPerp) PowScalar(v float64) *FieldPerp { return f.Copy().PowScalarAssign(v) }

// into writes f op rhs to dst, keeping dst's block. dst may alias f or rhs.
func (f *FieldPerp) into(op binaryOp, dst, rhs *FieldPerp) *FieldPerp {
	sameGrid("FieldPerp "+op.String(), f.m, rhs.m)
	sameGrid("FieldPerp "+op.String(), f.m, dst.m)
	applyTo(op, dst.Data(), f.Data(), rhs.Data())
	dst.yindex = f.yindex
	dst.loc = f.loc
	return dst
}

// AddInto stores f + rhs in dst and returns dst. No block is taken from
// the arena once dst is allocated.
func (f *FieldPerp) AddInto(dst, rhs *FieldPerp) *FieldPerp { return f.into(opAdd, dst, rhs) }
func (f *FieldPerp) SubInto(dst, rhs *FieldPerp) *FieldPerp { return f.into(opSub, dst, rhs) }
func (f *FieldPerp) MulInto(dst, rhs *FieldPerp) *FieldPerp { return f.into(opMul, dst, rhs) }
func (f *FieldPerp) DivInto(dst, rhs *FieldPerp) *FieldPerp { return f.into(opDiv, dst, rhs) }
func (f *FieldPerp) PowInto(dst, rhs *FieldPerp) *FieldPerp { return f.into(opPow, dst, rhs) }

// scalarLeft returns v op f in a new block.
func (f *FieldPerp) scalarLeft(op binaryOp, v float64) *FieldPerp {
	r := &FieldPerp{m: f.m, arena: f.arena, yindex: f.yindex, loc: f.loc}
	applyScalarLeftTo(op, r.Data(), v, f.Data())
	return r
}

// ScalarMul returns v * f.
func (f *FieldPerp) ScalarMul(v float64) *FieldPerp { return f.scalarLeft(opMul, v) }

// ScalarDiv returns v / f.
func (f *FieldPerp) ScalarDiv(v float64) *FieldPerp { return f.scalarLeft(opDiv, v) }

// ScalarPow returns v ^ f.
func (f *FieldPerp) ScalarPow(v float64) *FieldPerp { return f.scalarLeft(opPow, v) }

// Neg returns -f in a new block.
func (f *FieldPerp) Neg() *FieldPerp { return f.scalarLeft(opSub, 0) }

// InterpZ interpolates row jx at jz0 + zoffset. See InterpZ.
func (f *FieldPerp) InterpZ(jx, jz0 int, zoffset float64, order int) float64 {
	return InterpZ(f.Row(jx), jz0, zoffset, order)
}

// MaxAbs returns the largest magnitude in the slice.
func (f *FieldPerp) MaxAbs() float64 {
	var r float64
	for _, v := range f.Data() {
		r = math.Max(r, math.Abs(v))
	}
	return r
}
