package field

// InterpTo returns f interpolated to cell location loc with the staggered
// four-point formula (9(m+p) - mm - pp)/16. Shifts between the centre and
// one low location are supported in x, y and z; z is periodic. Points
// without a full stencil in x or y keep their value. A request that needs
// no shift returns a copy.
func InterpTo(f *Field3D, loc CellLoc) *Field3D {
	from := f.Location()
	if from == CellDefault {
		from = CellCentre
	}
	if loc == CellDefault {
		loc = CellCentre
	}
	r := f.Copy()
	r.Allocate()
	if from == loc {
		return r
	}

	var dir CellLoc
	var toLow bool
	switch {
	case from == CellCentre:
		dir, toLow = loc, true
	case loc == CellCentre:
		dir, toLow = from, false
	default:
		// low to low goes through the centre
		return InterpTo(InterpTo(f, CellCentre), loc)
	}

	// Stencil offsets relative to the output point
	mm, m, p, pp := -1, 0, 1, 2
	if toLow {
		mm, m, p, pp = -2, -1, 0, 1
	}

	msh := f.Mesh()
	nx, ny, nz := msh.LocalNx(), msh.LocalNy(), msh.LocalNz()
	src := f.Data()
	idx := func(jx, jy, jz int) int { return (jx*ny+jy)*nz + jz }
	eval := func(a, b, c, d float64) float64 { return (9*(b+c) - a - d) / 16 }

	switch dir {
	case CellXLow:
		for jx := -mm; jx < nx-pp; jx++ {
			for jy := 0; jy < ny; jy++ {
				for jz := 0; jz < nz; jz++ {
					r.data[idx(jx, jy, jz)] = eval(src[idx(jx+mm, jy, jz)], src[idx(jx+m, jy, jz)],
						src[idx(jx+p, jy, jz)], src[idx(jx+pp, jy, jz)])
				}
			}
		}
	case CellYLow:
		for jx := 0; jx < nx; jx++ {
			for jy := -mm; jy < ny-pp; jy++ {
				for jz := 0; jz < nz; jz++ {
					r.data[idx(jx, jy, jz)] = eval(src[idx(jx, jy+mm, jz)], src[idx(jx, jy+m, jz)],
						src[idx(jx, jy+p, jz)], src[idx(jx, jy+pp, jz)])
				}
			}
		}
	case CellZLow:
		wrap := func(k int) int { return ((k % nz) + nz) % nz }
		for jx := 0; jx < nx; jx++ {
			for jy := 0; jy < ny; jy++ {
				for jz := 0; jz < nz; jz++ {
					r.data[idx(jx, jy, jz)] = eval(src[idx(jx, jy, wrap(jz+mm))], src[idx(jx, jy, wrap(jz+m))],
						src[idx(jx, jy, wrap(jz+p))], src[idx(jx, jy, wrap(jz+pp))])
				}
			}
		}
	}
	r.loc = loc
	return r
}
