package field

import (
	"math"

	"github.com/notargets/gridfield/mesh"
)

// BIndex holds a point and the indices of its neighbours. x and y
// neighbours are not wrapped; z neighbours are periodic.
type BIndex struct {
	Jx, Jy, Jz int

	Jxp, Jxm, Jx2p, Jx2m int
	Jyp, Jym, Jy2p, Jy2m int
	Jzp, Jzm, Jz2p, Jz2m int
}

func NewBIndex(m *mesh.Mesh, jx, jy, jz int) BIndex {
	nz := m.LocalNz()
	wrap := func(k int) int { return ((k % nz) + nz) % nz }
	return BIndex{
		Jx: jx, Jy: jy, Jz: jz,
		Jxp: jx + 1, Jxm: jx - 1, Jx2p: jx + 2, Jx2m: jx - 2,
		Jyp: jy + 1, Jym: jy - 1, Jy2p: jy + 2, Jy2m: jy - 2,
		Jzp: wrap(jz + 1), Jzm: wrap(jz - 1), Jz2p: wrap(jz + 2), Jz2m: wrap(jz - 2),
	}
}

// Stencil is a five-point stencil in one direction centred on (Jx,Jy,Jz).
type Stencil struct {
	Jx, Jy, Jz int

	MM, M, C, P, PP float64
}

func (s *Stencil) setPoint(bx BIndex) {
	s.Jx, s.Jy, s.Jz = bx.Jx, bx.Jy, bx.Jz
}

// InterpZ interpolates a periodic z row at jz0 + zoffset. The offset is
// rounded to the nearest point and the remainder interpolated with a
// Lagrange polynomial of the given order (2, 3 or 4 points). Any other
// order returns the nearest value.
func InterpZ(row []float64, jz0 int, zoffset float64, order int) float64 {
	ncz := len(row)
	zi := int(math.Round(zoffset))
	zoffset -= float64(zi)
	if zoffset < 0 && order > 1 {
		zi--
		zoffset += 1
	}
	wrap := func(k int) int { return ((k % ncz) + ncz) % ncz }

	jz := wrap(jz0 + zi)
	jzp := wrap(jz + 1)
	jzm := wrap(jz - 1)
	jz2p := wrap(jz + 2)

	o := zoffset
	switch order {
	case 2:
		return (1-o)*row[jz] + o*row[jzp]
	case 3:
		return 0.5*o*(o-1)*row[jzm] + (1-o*o)*row[jz] + 0.5*o*(o+1)*row[jzp]
	case 4:
		return -o*(o-1)*(o-2)*row[jzm]/6 +
			0.5*(o*o-1)*(o-2)*row[jz] -
			0.5*o*(o+1)*(o-2)*row[jzp] +
			o*(o*o-1)*row[jz2p]/6
	}
	return row[jz]
}

// InterpZ interpolates the z row at (jx,jy). See the package function.
func (f *Field3D) InterpZ(jx, jy, jz0 int, zoffset float64, order int) float64 {
	return InterpZ(f.Row(jx, jy), jz0, zoffset, order)
}

func (f *FieldPerp) SetXStencil(fval *Stencil, bx BIndex) {
	fval.setPoint(bx)
	fval.MM = f.At(bx.Jx2m, bx.Jz)
	fval.M = f.At(bx.Jxm, bx.Jz)
	fval.C = f.At(bx.Jx, bx.Jz)
	fval.P = f.At(bx.Jxp, bx.Jz)
	fval.PP = f.At(bx.Jx2p, bx.Jz)
}

// SetYStencil fills every entry with the point value; a perpendicular slice
// has no y neighbours.
func (f *FieldPerp) SetYStencil(fval *Stencil, bx BIndex) {
	fval.setPoint(bx)
	v := f.At(bx.Jx, bx.Jz)
	fval.MM, fval.M, fval.C, fval.P, fval.PP = v, v, v, v, v
}

func (f *FieldPerp) SetZStencil(fval *Stencil, bx BIndex) {
	fval.setPoint(bx)
	fval.MM = f.At(bx.Jx, bx.Jz2m)
	fval.M = f.At(bx.Jx, bx.Jzm)
	fval.C = f.At(bx.Jx, bx.Jz)
	fval.P = f.At(bx.Jx, bx.Jzp)
	fval.PP = f.At(bx.Jx, bx.Jz2p)
}

// SetXStencilShifted samples the x neighbours along shifted z coordinates.
// Each neighbour is interpolated in z by the difference of zShift between
// its column and the centre column, converted to grid points with dz.
func (f *FieldPerp) SetXStencilShifted(fval *Stencil, bx BIndex, zShift *Field2D, order int) {
	dz := f.m.Dz()
	jy := f.yindex
	z0 := zShift.At(bx.Jx, jy)
	sample := func(jx int) float64 {
		return f.InterpZ(jx, bx.Jz, (zShift.At(jx, jy)-z0)/dz, order)
	}
	fval.setPoint(bx)
	fval.MM = sample(bx.Jx2m)
	fval.M = sample(bx.Jxm)
	fval.C = f.At(bx.Jx, bx.Jz)
	fval.P = sample(bx.Jxp)
	fval.PP = sample(bx.Jx2p)
}

func (f *Field3D) SetXStencil(fval *Stencil, bx BIndex) {
	fval.setPoint(bx)
	fval.MM = f.At(bx.Jx2m, bx.Jy, bx.Jz)
	fval.M = f.At(bx.Jxm, bx.Jy, bx.Jz)
	fval.C = f.At(bx.Jx, bx.Jy, bx.Jz)
	fval.P = f.At(bx.Jxp, bx.Jy, bx.Jz)
	fval.PP = f.At(bx.Jx2p, bx.Jy, bx.Jz)
}

func (f *Field3D) SetYStencil(fval *Stencil, bx BIndex) {
	fval.setPoint(bx)
	fval.MM = f.At(bx.Jx, bx.Jy2m, bx.Jz)
	fval.M = f.At(bx.Jx, bx.Jym, bx.Jz)
	fval.C = f.At(bx.Jx, bx.Jy, bx.Jz)
	fval.P = f.At(bx.Jx, bx.Jyp, bx.Jz)
	fval.PP = f.At(bx.Jx, bx.Jy2p, bx.Jz)
}

func (f *Field3D) SetZStencil(fval *Stencil, bx BIndex) {
	fval.setPoint(bx)
	fval.MM = f.At(bx.Jx, bx.Jy, bx.Jz2m)
	fval.M = f.At(bx.Jx, bx.Jy, bx.Jzm)
	fval.C = f.At(bx.Jx, bx.Jy, bx.Jz)
	fval.P = f.At(bx.Jx, bx.Jy, bx.Jzp)
	fval.PP = f.At(bx.Jx, bx.Jy, bx.Jz2p)
}
