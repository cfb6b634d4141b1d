// Package field implements scalar fields on the local grid of one
// processor: Field2D over (x,y), Field3D over (x,y,z) and FieldPerp, an
// (x,z) slice at fixed y. Storage is allocated lazily; reading or writing
// an unallocated field allocates it zeroed.
package field

import (
	"math"

	"github.com/notargets/gridfield/mesh"
	"github.com/notargets/gridfield/utils"
	"gonum.org/v1/gonum/floats"
)

// CellLoc is the position of field values within a grid cell.
type CellLoc int

const (
	CellDefault CellLoc = iota
	CellCentre
	CellXLow
	CellYLow
	CellZLow
)

func (c CellLoc) String() string {
	switch c {
	case CellDefault:
		return "default"
	case CellCentre:
		return "centre"
	case CellXLow:
		return "xlow"
	case CellYLow:
		return "ylow"
	case CellZLow:
		return "zlow"
	}
	return "unknown"
}

// FieldData is the capability set shared by every field type.
type FieldData interface {
	Allocate()
	IsAllocated() bool
	Location() CellLoc
	SetLocation(loc CellLoc)
	Mesh() *mesh.Mesh
}

var (
	_ FieldData = (*Field2D)(nil)
	_ FieldData = (*Field3D)(nil)
	_ FieldData = (*FieldPerp)(nil)
)

// binaryOp selects the elementwise kernel used by the arithmetic methods
type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
	opPow
)

func (op binaryOp) String() string {
	return [...]string{"+", "-", "*", "/", "^"}[op]
}

// applyTo sets dst = s op t. dst may alias s or t.
func applyTo(op binaryOp, dst, s, t []float64) {
	switch op {
	case opAdd:
		floats.AddTo(dst, s, t)
	case opSub:
		floats.SubTo(dst, s, t)
	case opMul:
		floats.MulTo(dst, s, t)
	case opDiv:
		floats.DivTo(dst, s, t)
	case opPow:
		for i := range dst {
			dst[i] = math.Pow(s[i], t[i])
		}
	}
}

// applyScalarTo sets dst = s op v.
func applyScalarTo(op binaryOp, dst, s []float64, v float64) {
	switch op {
	case opAdd:
		copy(dst, s)
		floats.AddConst(v, dst)
	case opSub:
		copy(dst, s)
		floats.AddConst(-v, dst)
	case opMul:
		floats.ScaleTo(dst, v, s)
	case opDiv:
		for i := range dst {
			dst[i] = s[i] / v
		}
	case opPow:
		for i := range dst {
			dst[i] = math.Pow(s[i], v)
		}
	}
}

// applyScalarLeftTo sets dst = v op s.
func applyScalarLeftTo(op binaryOp, dst []float64, v float64, s []float64) {
	switch op {
	case opAdd:
		copy(dst, s)
		floats.AddConst(v, dst)
	case opSub:
		for i := range dst {
			dst[i] = v - s[i]
		}
	case opMul:
		floats.ScaleTo(dst, v, s)
	case opDiv:
		for i := range dst {
			dst[i] = v / s[i]
		}
	case opPow:
		for i := range dst {
			dst[i] = math.Pow(v, s[i])
		}
	}
}

func mapTo(dst, s []float64, fn func(float64) float64) {
	for i, v := range s {
		dst[i] = fn(v)
	}
}

// sameGrid is fatal unless both meshes have identical local dimensions.
func sameGrid(what string, a, b *mesh.Mesh) {
	if a == b {
		return
	}
	if a.LocalNx() != b.LocalNx() || a.LocalNy() != b.LocalNy() || a.LocalNz() != b.LocalNz() {
		utils.Fatalf("%s: shape mismatch, %dx%dx%d and %dx%dx%d", what,
			a.LocalNx(), a.LocalNy(), a.LocalNz(),
			b.LocalNx(), b.LocalNy(), b.LocalNz())
	}
}
