package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBIndex(t *testing.T) {
	m := testMesh() // nz = 4
	bx := NewBIndex(m, 2, 3, 0)
	assert.Equal(t, 1, bx.Jxm)
	assert.Equal(t, 4, bx.Jx2p)
	assert.Equal(t, 1, bx.Jy2m)
	assert.Equal(t, 3, bx.Jzm)
	assert.Equal(t, 2, bx.Jz2m)
	assert.Equal(t, 1, bx.Jzp)

	bx = NewBIndex(m, 2, 3, 3)
	assert.Equal(t, 0, bx.Jzp)
	assert.Equal(t, 1, bx.Jz2p)
}

func TestFieldPerpStencils(t *testing.T) {
	m := testMesh()
	p := ramp3D(m).Slice(3)
	defer p.Release()

	var s Stencil
	bx := NewBIndex(m, 2, 3, 1)

	p.SetXStencil(&s, bx)
	assert.Equal(t, []float64{31, 131, 231, 331, 431}, []float64{s.MM, s.M, s.C, s.P, s.PP})
	assert.Equal(t, 2, s.Jx)
	assert.Equal(t, 1, s.Jz)

	p.SetZStencil(&s, bx)
	assert.Equal(t, []float64{233, 230, 231, 232, 233}, []float64{s.MM, s.M, s.C, s.P, s.PP})

	p.SetYStencil(&s, bx)
	assert.Equal(t, []float64{231, 231, 231, 231, 231}, []float64{s.MM, s.M, s.C, s.P, s.PP})
}

func TestField3DStencils(t *testing.T) {
	m := testMesh()
	f := ramp3D(m)
	var s Stencil
	bx := NewBIndex(m, 2, 3, 0)

	f.SetYStencil(&s, bx)
	assert.Equal(t, []float64{210, 220, 230, 240, 250}, []float64{s.MM, s.M, s.C, s.P, s.PP})
	f.SetXStencil(&s, bx)
	assert.Equal(t, []float64{30, 130, 230, 330, 430}, []float64{s.MM, s.M, s.C, s.P, s.PP})
	f.SetZStencil(&s, bx)
	assert.Equal(t, []float64{232, 233, 230, 231, 232}, []float64{s.MM, s.M, s.C, s.P, s.PP})
}

func TestInterpZ(t *testing.T) {
	linear := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	quad := make([]float64, 8)
	cubic := make([]float64, 8)
	for i := range quad {
		x := float64(i)
		quad[i] = x * x
		cubic[i] = x * x * x
	}

	tests := []struct {
		name   string
		row    []float64
		jz0    int
		offset float64
		order  int
		want   float64
	}{
		{"linear order 2", linear, 2, 0.25, 2, 2.25},
		{"linear negative fraction", linear, 3, -0.25, 2, 2.75},
		{"round up", linear, 3, 0.75, 2, 3.75},
		{"quadratic order 3", quad, 3, 0.5, 3, 12.25},
		{"quadratic negative", quad, 4, -0.4, 3, 12.96},
		{"cubic order 4", cubic, 2, 0.5, 4, 15.625},
		{"nearest", linear, 2, 1.4, 1, 3},
		{"nearest rounds", linear, 2, 1.6, 0, 4},
		{"whole offset", linear, 1, 3, 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, InterpZ(tt.row, tt.jz0, tt.offset, tt.order), 1e-12)
		})
	}

	t.Run("periodic wrap", func(t *testing.T) {
		row := []float64{10, 20, 30, 40}
		assert.InDelta(t, 15.0, InterpZ(row, 3, -2.5, 2), 1e-12) // between jz=0 and 1
		assert.InDelta(t, 40.0, InterpZ(row, 0, -1, 2), 1e-12)
		assert.InDelta(t, 10.0, InterpZ(row, 3, 1, 3), 1e-12)
	})
}

func TestSetXStencilShifted(t *testing.T) {
	m := testMesh() // nz = 4, dz = 0.25
	p := NewFieldPerpIn(NewArena(2), m)
	for jx := 0; jx < m.LocalNx(); jx++ {
		for jz := 0; jz < m.LocalNz(); jz++ {
			p.Set(jx, jz, float64(10*jx+jz))
		}
	}

	t.Run("no shift matches plain stencil", func(t *testing.T) {
		var plain, shifted Stencil
		bx := NewBIndex(m, 2, 0, 1)
		p.SetXStencil(&plain, bx)
		p.SetXStencilShifted(&shifted, bx, NewField2D(m), 2)
		assert.Equal(t, plain, shifted)
	})

	t.Run("whole point shift", func(t *testing.T) {
		// zShift grows by one grid point per x column
		zShift := NewField2D(m)
		for jx := 0; jx < m.LocalNx(); jx++ {
			for jy := 0; jy < m.LocalNy(); jy++ {
				zShift.Set(jx, jy, 0.25*float64(jx))
			}
		}
		var s Stencil
		p.SetXStencilShifted(&s, NewBIndex(m, 2, 0, 1), zShift, 2)
		assert.InDelta(t, 3.0, s.MM, 1e-12)  // jx=0, jz = 1-2 wraps to 3
		assert.InDelta(t, 10.0, s.M, 1e-12)  // jx=1, jz=0
		assert.InDelta(t, 21.0, s.C, 1e-12)  // centre
		assert.InDelta(t, 32.0, s.P, 1e-12)  // jx=3, jz=2
		assert.InDelta(t, 43.0, s.PP, 1e-12) // jx=4, jz=3
	})
}
