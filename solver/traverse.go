package solver

import (
	"fmt"
)

type varOp int

const (
	loadVars varOp = iota
	saveVars
	saveDerivs
)

// points visits every packed (jx,jy) in the canonical order:
//  1. inner x ghost columns, if the inner x edge is a physical boundary
//  2. for each interior column: lower y ghosts (if a physical boundary),
//     interior y, upper y ghosts (if a physical boundary)
//  3. outer x ghost columns, if the outer x edge is a physical boundary
//
// Ghost points with a neighbouring processor are filled by communication
// and are not part of the state.
func (p *Packer) points(visit func(jx, jy int)) {
	m := p.m
	t := m.Topology

	if t.InnerXBoundary() {
		for jx := 0; jx < m.MXG; jx++ {
			for jy := 0; jy < m.MYSUB; jy++ {
				visit(jx, jy+m.MYG)
			}
		}
	}

	for jx := m.MXG; jx < m.MXSUB+m.MXG; jx++ {
		if t.LowerYBoundary(jx) {
			for jy := 0; jy < m.MYG; jy++ {
				visit(jx, jy)
			}
		}
		for jy := m.MYG; jy < m.MYSUB+m.MYG; jy++ {
			visit(jx, jy)
		}
		if t.UpperYBoundary(jx) {
			for jy := 0; jy < m.MYG; jy++ {
				visit(jx, m.MYSUB+m.MYG+jy)
			}
		}
	}

	if t.OuterXBoundary() {
		for jx := 0; jx < m.MXG; jx++ {
			for jy := 0; jy < m.MYSUB; jy++ {
				visit(m.MXG+m.MXSUB+jx, jy+m.MYG)
			}
		}
	}
}

// loopVars moves data between buf and the fields for every packed point
// and returns the number of values moved.
func (p *Packer) loopVars(buf []float64, op varOp) int {
	// Storage of the fields this operation reads or writes
	d2 := make([][]float64, len(p.f2d))
	d3 := make([][]float64, len(p.f3d))
	for i, v := range p.f2d {
		if op == saveDerivs {
			d2[i] = v.Deriv.Data()
		} else {
			d2[i] = v.Var.Data()
		}
	}
	for i, v := range p.f3d {
		if op == saveDerivs {
			d3[i] = v.Deriv.Data()
		} else {
			d3[i] = v.Var.Data()
		}
	}

	pos := 0
	p.points(func(jx, jy int) {
		pos = p.loopVarsOp(jx, jy, buf, pos, op, d2, d3)
	})
	return pos
}

// loopVarsOp handles one (jx,jy) point: all 2D variables, then for each z
// all 3D variables.
func (p *Packer) loopVarsOp(jx, jy int, buf []float64, pos int, op varOp, d2, d3 [][]float64) int {
	ny, nz := p.m.LocalNy(), p.m.LocalNz()
	i2 := jx*ny + jy
	i3 := i2 * nz

	switch op {
	case loadVars:
		for _, d := range d2 {
			d[i2] = buf[pos]
			pos++
		}
		for jz := 0; jz < nz; jz++ {
			for _, d := range d3 {
				d[i3+jz] = buf[pos]
				pos++
			}
		}
	case saveVars, saveDerivs:
		for _, d := range d2 {
			buf[pos] = d[i2]
			pos++
		}
		for jz := 0; jz < nz; jz++ {
			for _, d := range d3 {
				buf[pos] = d[i3+jz]
				pos++
			}
		}
	}
	return pos
}

// Index locates one entry of the flat state.
type Index struct {
	Var        string
	Is3D       bool
	Jx, Jy, Jz int // Jz is 0 for 2D variables
}

func (ix Index) String() string {
	if ix.Is3D {
		return fmt.Sprintf("%s(%d,%d,%d)", ix.Var, ix.Jx, ix.Jy, ix.Jz)
	}
	return fmt.Sprintf("%s(%d,%d)", ix.Var, ix.Jx, ix.Jy)
}

// Offsets lists what each position of the flat state holds, in order.
func (p *Packer) Offsets() []Index {
	nz := p.m.LocalNz()
	out := make([]Index, 0, p.LocalSize())
	p.points(func(jx, jy int) {
		for _, v := range p.f2d {
			out = append(out, Index{Var: v.Name, Jx: jx, Jy: jy})
		}
		for jz := 0; jz < nz; jz++ {
			for _, v := range p.f3d {
				out = append(out, Index{Var: v.Name, Is3D: true, Jx: jx, Jy: jy, Jz: jz})
			}
		}
	})
	return out
}

// Verify checks that the layout addresses every packed value exactly once
// and stays inside the local arrays.
func (p *Packer) Verify() error {
	m := p.m
	offsets := p.Offsets()
	if n := p.LocalSize(); len(offsets) != n {
		return fmt.Errorf("layout has %d entries, local size is %d", len(offsets), n)
	}

	seen := make(map[Index]int, len(offsets))
	for pos, ix := range offsets {
		if ix.Jx < 0 || ix.Jx >= m.LocalNx() || ix.Jy < 0 || ix.Jy >= m.LocalNy() ||
			ix.Jz < 0 || ix.Jz >= m.LocalNz() {
			return fmt.Errorf("offset %d: %v outside local grid", pos, ix)
		}
		if prev, ok := seen[ix]; ok {
			return fmt.Errorf("offsets %d and %d both hold %v", prev, pos, ix)
		}
		seen[ix] = pos
	}
	return nil
}
